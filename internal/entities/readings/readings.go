package readings

import (
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
)

// Series identifies which reading series a query or import targets.
type Series string

const (
	SeriesTransducer Series = "transducer" // Logged pressure transducer readings
	SeriesTelemetry  Series = "telemetry"  // Remote telemetry uplink readings
	SeriesManual     Series = "manual"     // Hand-measured depth-to-water readings
)

// IsValid reports whether s names a known series.
func (s Series) IsValid() bool {
	switch s {
	case SeriesTransducer, SeriesTelemetry, SeriesManual:
		return true
	}
	return false
}

// Measurement returns the InfluxDB measurement backing the series. Manual
// readings live apart from the continuous series so a coarse chart can
// overlay them without aggregation.
func (s Series) Measurement() string {
	if s == SeriesManual {
		return "manual_readings"
	}
	return "water_level_readings"
}

// WATER LEVEL SERIES - continuous transducer/telemetry points
type (
	Reading struct {
		// === CORE IDENTIFICATION ===
		WellNumber string `json:"well_number"`
		DataType   string `json:"data_type"` // transducer/telemetry

		// === MEASUREMENTS ===
		WaterLevelFt float64  `json:"water_level_ft"` // Water level elevation in feet
		TemperatureC *float64 `json:"temperature_c"`  // Optional transducer temperature
		Flagged      bool     `json:"flagged"`        // Marked suspect during QA

		// Timestamp
		Timestamp time.Time
	}

	ManualReading struct {
		WellNumber   string  `json:"well_number"`
		WaterLevelFt float64 `json:"water_level_ft"` // Computed from top-of-casing minus DTW
		DTWFt        float64 `json:"dtw_ft"`         // Raw depth-to-water measurement
		Collector    string  `json:"collector"`      // Field technician initials

		Timestamp time.Time
	}

	// ImportRequest is the batch ingestion payload carried through the job
	// queue. One batch targets a single (dataset, well, series) tuple.
	ImportRequest struct {
		Dataset    string  `json:"dataset" param:"dataset" validate:"required"`
		WellNumber string  `json:"well_number" validate:"required"`
		Series     Series  `json:"series" validate:"required,oneof=transducer telemetry manual"`
		BatchID    string  `json:"-"` // Auto-generated from request_id
		Readings   []Input `json:"readings" validate:"required,min=1,dive"`
	}

	// QueryRequest is the viewport query payload. MaxPoints selects
	// budget-driven sampling; Mode forces a resolution mode.
	QueryRequest struct {
		Dataset    string    `json:"dataset" param:"dataset" validate:"required"`
		WellNumber string    `json:"well_number" validate:"required"`
		Series     Series    `json:"series" validate:"required,oneof=transducer telemetry manual"`
		Start      time.Time `json:"start" validate:"required"`
		End        time.Time `json:"end" validate:"required"`
		MaxPoints  int       `json:"max_points" validate:"min=0"`
		Mode       string    `json:"mode" validate:"omitempty,oneof=1month 6months 1year full"`
	}

	// NavigateRequest shifts a viewport one width left or right.
	NavigateRequest struct {
		Dataset    string    `json:"dataset" param:"dataset" validate:"required"`
		WellNumber string    `json:"well_number" validate:"required"`
		Series     Series    `json:"series" validate:"required,oneof=transducer telemetry manual"`
		Start      time.Time `json:"start" validate:"required"`
		End        time.Time `json:"end" validate:"required"`
		MaxPoints  int       `json:"max_points" validate:"min=0"`
		Mode       string    `json:"mode" validate:"omitempty,oneof=1month 6months 1year full"`
		Direction  string    `json:"direction" validate:"required,oneof=left right"`
	}

	// Input is one reading row inside an import batch.
	Input struct {
		Timestamp    time.Time `json:"timestamp" validate:"required"`
		WaterLevelFt float64   `json:"water_level_ft"`
		TemperatureC *float64  `json:"temperature_c"`
		DTWFt        *float64  `json:"dtw_ft"`
		Collector    string    `json:"collector"`
		Flagged      bool      `json:"flagged"`
	}

	// Response is one chart-ready reading row. Optional fields stay nil so
	// the dashboard can distinguish "absent" from zero.
	Response struct {
		Timestamp    time.Time `json:"timestamp"`
		WaterLevelFt *float64  `json:"water_level_ft,omitempty"`
		TemperatureC *float64  `json:"temperature_c,omitempty"`
		DTWFt        *float64  `json:"dtw_ft,omitempty"`
		Collector    string    `json:"collector,omitempty"`
	}
)

// ToPoint converts a Reading to an InfluxDB point with tags and fields
func (r *Reading) ToPoint() interface{} {
	fields := map[string]interface{}{
		"water_level_ft": float64(r.WaterLevelFt),
		"flagged":        bool(r.Flagged),
	}
	if r.TemperatureC != nil {
		fields["temperature_c"] = float64(*r.TemperatureC)
	}
	return influxdb.NewPoint(
		"water_level_readings",
		map[string]string{
			"well_number": safeString(r.WellNumber),
			"data_type":   safeString(r.DataType),
		},
		fields,
		r.Timestamp,
	)
}

// GetName returns the measurement name for this entity
func (r *Reading) GetName() string {
	return "water_level_readings"
}

// ToPoint converts a ManualReading to an InfluxDB point with tags and fields
func (m *ManualReading) ToPoint() interface{} {
	return influxdb.NewPoint(
		"manual_readings",
		map[string]string{
			"well_number": safeString(m.WellNumber),
			"collector":   safeString(m.Collector),
		},
		map[string]interface{}{
			"water_level_ft": float64(m.WaterLevelFt),
			"dtw_ft":         float64(m.DTWFt),
		},
		m.Timestamp,
	)
}

// GetName returns the measurement name for this entity
func (m *ManualReading) GetName() string {
	return "manual_readings"
}

// safeString ensures tag values are never empty (InfluxDB requirement)
func safeString(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ToPoints converts an import batch to storable points. Rows without a
// timestamp are returned in skipped and never written.
func (req *ImportRequest) ToPoints() (points []interface{}, skipped int) {
	for _, in := range req.Readings {
		if in.Timestamp.IsZero() {
			skipped++
			continue
		}

		if req.Series == SeriesManual {
			dtw := 0.0
			if in.DTWFt != nil {
				dtw = *in.DTWFt
			}
			m := &ManualReading{
				WellNumber:   req.WellNumber,
				WaterLevelFt: in.WaterLevelFt,
				DTWFt:        dtw,
				Collector:    in.Collector,
				Timestamp:    in.Timestamp,
			}
			points = append(points, m.ToPoint())
			continue
		}

		r := &Reading{
			WellNumber:   req.WellNumber,
			DataType:     string(req.Series),
			WaterLevelFt: in.WaterLevelFt,
			TemperatureC: in.TemperatureC,
			Flagged:      in.Flagged,
			Timestamp:    in.Timestamp,
		}
		points = append(points, r.ToPoint())
	}
	return points, skipped
}

// MapToResponse converts a raw pivoted InfluxDB record to a Response struct
func MapToResponse(record map[string]interface{}) Response {
	response := Response{}

	if v, ok := record["_time"]; ok {
		switch timeVal := v.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339, timeVal); err == nil {
				response.Timestamp = parsed
			}
		case time.Time:
			response.Timestamp = timeVal
		}
	}

	if v, ok := toFloat(record["water_level_ft"]); ok {
		response.WaterLevelFt = &v
	}
	if v, ok := toFloat(record["temperature_c"]); ok {
		response.TemperatureC = &v
	}
	if v, ok := toFloat(record["dtw_ft"]); ok {
		response.DTWFt = &v
	}
	if v, ok := record["collector"].(string); ok && v != "" && v != "-" {
		response.Collector = v
	}

	return response
}

// toFloat converts an iterator record value to float64
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
