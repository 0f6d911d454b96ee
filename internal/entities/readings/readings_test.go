package readings

import (
	"testing"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
)

func setupPointConfig(t *testing.T) {
	t.Helper()

	cfg := &config.Config{}
	cfg.InfluxDB.Version = "v2-oss"
	config.Set(cfg)
}

func asPoint(t *testing.T, v interface{}) influxdb.Point {
	t.Helper()

	p, ok := v.(influxdb.Point)
	if !ok {
		t.Fatalf("Expected a point, got %T", v)
	}
	return p
}

func TestToPointsSkipsRowsWithoutTimestamp(t *testing.T) {
	setupPointConfig(t)

	at := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	req := ImportRequest{
		Dataset:    "memphis",
		WellNumber: "MW-21",
		Series:     SeriesTransducer,
		Readings: []Input{
			{Timestamp: at, WaterLevelFt: 215.3},
			{WaterLevelFt: 215.4}, // no timestamp, must never be written
			{Timestamp: at.Add(15 * time.Minute), WaterLevelFt: 215.5},
			{},
		},
	}

	points, skipped := req.ToPoints()

	if skipped != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", skipped)
	}
	if len(points) != 2 {
		t.Fatalf("Expected 2 storable points, got %d", len(points))
	}
	if got := asPoint(t, points[0]).GetTime(); !got.Equal(at) {
		t.Errorf("First point timestamp mismatch: %v", got)
	}
}

func TestToPointsSeriesShapes(t *testing.T) {
	setupPointConfig(t)

	at := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	temp := 18.5
	dtw := 42.1

	tests := []struct {
		name        string
		series      Series
		input       Input
		measurement string
		tags        map[string]string
		fields      []string
		noFields    []string
	}{
		{
			name:        "transducer with temperature",
			series:      SeriesTransducer,
			input:       Input{Timestamp: at, WaterLevelFt: 215.3, TemperatureC: &temp, Flagged: true},
			measurement: "water_level_readings",
			tags:        map[string]string{"well_number": "MW-21", "data_type": "transducer"},
			fields:      []string{"water_level_ft", "temperature_c", "flagged"},
		},
		{
			name:        "telemetry without temperature",
			series:      SeriesTelemetry,
			input:       Input{Timestamp: at, WaterLevelFt: 215.3},
			measurement: "water_level_readings",
			tags:        map[string]string{"well_number": "MW-21", "data_type": "telemetry"},
			fields:      []string{"water_level_ft", "flagged"},
			noFields:    []string{"temperature_c"},
		},
		{
			name:        "manual reading",
			series:      SeriesManual,
			input:       Input{Timestamp: at, WaterLevelFt: 173.2, DTWFt: &dtw, Collector: "JD"},
			measurement: "manual_readings",
			tags:        map[string]string{"well_number": "MW-21", "collector": "JD"},
			fields:      []string{"water_level_ft", "dtw_ft"},
			noFields:    []string{"flagged", "temperature_c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ImportRequest{
				Dataset:    "memphis",
				WellNumber: "MW-21",
				Series:     tt.series,
				Readings:   []Input{tt.input},
			}

			points, skipped := req.ToPoints()
			if skipped != 0 || len(points) != 1 {
				t.Fatalf("Expected 1 point and 0 skipped, got %d/%d", len(points), skipped)
			}

			p := asPoint(t, points[0])
			if p.GetMeasurement() != tt.measurement {
				t.Errorf("Measurement: got %s, want %s", p.GetMeasurement(), tt.measurement)
			}

			tags := p.GetTags()
			for k, want := range tt.tags {
				if tags[k] != want {
					t.Errorf("Tag %s: got %q, want %q", k, tags[k], want)
				}
			}

			fields := p.GetFields()
			for _, k := range tt.fields {
				if _, ok := fields[k]; !ok {
					t.Errorf("Missing field %s", k)
				}
			}
			for _, k := range tt.noFields {
				if _, ok := fields[k]; ok {
					t.Errorf("Unexpected field %s", k)
				}
			}
		})
	}
}

func TestToPointsManualDefaultsMissingDTW(t *testing.T) {
	setupPointConfig(t)

	req := ImportRequest{
		Dataset:    "memphis",
		WellNumber: "MW-21",
		Series:     SeriesManual,
		Readings: []Input{
			{Timestamp: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC), WaterLevelFt: 173.2},
		},
	}

	points, _ := req.ToPoints()
	if len(points) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(points))
	}

	fields := asPoint(t, points[0]).GetFields()
	if got, ok := fields["dtw_ft"].(float64); !ok || got != 0 {
		t.Errorf("Missing DTW should store as zero, got %v", fields["dtw_ft"])
	}
}
