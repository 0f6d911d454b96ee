package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
)

var appLocation *time.Location

// init initializes timezone with UTC as default
func init() {
	appLocation = time.UTC
}

// InitTimezone initializes the application timezone from config
func InitTimezone() error {
	cfg := config.Get()
	timezone := cfg.App.Timezone

	if timezone == "" {
		logger.Warn().Msg("No timezone configured, using UTC")
		appLocation = time.UTC
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Error().Err(err).Str("timezone", timezone).Msg("Failed to load timezone, using UTC")
		appLocation = time.UTC
		return err
	}

	appLocation = loc
	logger.Info().Str("timezone", timezone).Msg("Timezone initialized")
	return nil
}

// Now returns current time in application timezone
func Now() time.Time {
	return time.Now().In(appLocation)
}

// NowFormatted returns current time formatted in RFC3339 with app timezone
func NowFormatted() string {
	return Now().Format(time.RFC3339)
}

// FormatTime formats given time to application timezone
func FormatTime(t time.Time) string {
	return t.In(appLocation).Format(time.RFC3339)
}

// GetLocation returns the current application location
func GetLocation() *time.Location {
	return appLocation
}

// UcFirst returns a copy of the input string with the first character
// uppercased, Unicode-aware.
func UcFirst(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ClearScreen execute clear screen command
func ClearScreen() {
	time.Sleep(1 * time.Millisecond)
	var cmd *exec.Cmd

	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
		cmd.Run()

		// Windows terminals keep scrollback after cls
		fmt.Print("\033[3J")
		os.Stdout.Sync()
	} else {
		cmd = exec.Command("clear")
		cmd.Env = append(os.Environ(), "TERM=xterm")
		cmd.Stdout = os.Stdout
		cmd.Run()

		// Extra ANSI codes for stubborn terminals
		fmt.Print("\033[3J\033[2J\033[H")
		os.Stdout.Sync()
	}
}

// EncodeForURL encodes string to URL-safe base64
func EncodeForURL(data string) string {
	return base64.URLEncoding.EncodeToString([]byte(data))
}

// DecodeFromURL decodes URL-safe base64 string
func DecodeFromURL(encoded string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding: %w", err)
	}
	return string(decoded), nil
}

// CreateRecordID creates a base64-encoded ID from a timestamp and a
// distinguishing suffix, here the well number.
func CreateRecordID(timestamp, suffix string) string {
	combined := timestamp + "|" + suffix
	return EncodeForURL(combined)
}

// ParseRecordID parses a base64-encoded record ID back into its parts
func ParseRecordID(encodedID string) (timestamp, suffix string, err error) {
	decoded, err := DecodeFromURL(encodedID)
	if err != nil {
		return "", "", err
	}

	parts := strings.Split(decoded, "|")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid record ID format")
	}

	return parts[0], parts[1], nil
}
