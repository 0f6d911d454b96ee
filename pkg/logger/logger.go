package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// orderedJSONWriter ensures consistent field ordering in JSON output
type orderedJSONWriter struct {
	output io.Writer
}

// Write processes the log data and ensures proper field ordering
func (w *orderedJSONWriter) Write(p []byte) (n int, err error) {
	var logData map[string]interface{}
	if err := json.Unmarshal(p, &logData); err != nil {
		// Not JSON, write as-is
		return w.output.Write(p)
	}

	// Field order: time, level, scope, message, then others
	fieldOrder := []string{"time", "level", "scope", "message"}
	processedFields := make(map[string]bool)

	var jsonParts []string
	for _, field := range fieldOrder {
		if value, exists := logData[field]; exists {
			jsonValue, _ := json.Marshal(value)
			jsonParts = append(jsonParts, fmt.Sprintf(`"%s":%s`, field, jsonValue))
			processedFields[field] = true
		}
	}
	for key, value := range logData {
		if !processedFields[key] {
			jsonValue, _ := json.Marshal(value)
			jsonParts = append(jsonParts, fmt.Sprintf(`"%s":%s`, key, jsonValue))
		}
	}

	orderedJSON := "{" + strings.Join(jsonParts, ",") + "}\n"
	return w.output.Write([]byte(orderedJSON))
}

// init initializes default logger for early initialization
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.DefaultContextLogger = &log
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(time.UTC)
	}
}

// Init configures the logger with timezone settings
func Init(timezone, environment string) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
		log.Warn().Err(err).Str("timezone", timezone).Msg("Invalid timezone, using UTC")
	}

	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	// Production writes straight JSON; development gets ordered fields for
	// readability at the cost of a decode/encode per line
	var writer io.Writer
	if environment == "prod" {
		writer = os.Stdout
	} else {
		writer = &orderedJSONWriter{output: os.Stdout}
	}

	log = zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.DefaultContextLogger = &log

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(loc)
	}
	log.Info().Str("timezone", loc.String()).Str("environment", environment).Msg("Logger initialized")
}

// SetLevel adjusts the global log level, accepting zerolog level names.
// Unknown names leave the level unchanged.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, keeping current")
		return
	}
	zerolog.SetGlobalLevel(parsed)
	log = log.Level(parsed)
}

// Log returns a log event
func Log() *zerolog.Event {
	return log.Log()
}

// Debug returns a debug level log event
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info returns an info level log event
func Info() *zerolog.Event {
	return log.Info()
}

// Warn returns a warning level log event
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error returns an error level log event
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal returns a fatal level log event
func Fatal() *zerolog.Event {
	return log.Fatal()
}

// Panic returns a panic level log event
func Panic() *zerolog.Event {
	return log.Panic()
}

// ScopedLogger represents a logger with predefined scope
type ScopedLogger struct {
	logger zerolog.Logger
	scope  string
}

// WithScope creates a new scoped logger instance with predefined scope
func WithScope(scope string) *ScopedLogger {
	scopedLogger := log.With().Str("scope", scope).Logger()
	return &ScopedLogger{
		logger: scopedLogger,
		scope:  scope,
	}
}

// Log returns a log level log event with scope
func (s *ScopedLogger) Log() *zerolog.Event {
	return s.logger.Log()
}

// Debug returns a debug level log event with scope
func (s *ScopedLogger) Debug() *zerolog.Event {
	return s.logger.Debug()
}

// Info returns an info level log event with scope
func (s *ScopedLogger) Info() *zerolog.Event {
	return s.logger.Info()
}

// Warn returns a warning level log event with scope
func (s *ScopedLogger) Warn() *zerolog.Event {
	return s.logger.Warn()
}

// Error returns an error level log event with scope
func (s *ScopedLogger) Error() *zerolog.Event {
	return s.logger.Error()
}

// Fatal returns a fatal level log event with scope
func (s *ScopedLogger) Fatal() *zerolog.Event {
	return s.logger.Fatal()
}

// Panic returns a panic level log event with scope
func (s *ScopedLogger) Panic() *zerolog.Event {
	return s.logger.Panic()
}

// GetScope returns the current scope name
func (s *ScopedLogger) GetScope() string {
	return s.scope
}
