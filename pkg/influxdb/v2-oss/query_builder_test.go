package v2oss

import (
	"strings"
	"testing"
	"time"
)

func testReadingsConfig() QueryBuilderConfig {
	return QueryBuilderConfig{
		Measurement: "water_level_readings",
		ValidTags: map[string]bool{
			"well_number": true,
			"source":      true,
		},
		ValidFields: map[string]bool{
			"water_level_ft": true,
			"temperature_c":  true,
		},
		Columns:       []string{"_time", "well_number", "water_level_ft", "temperature_c"},
		CoverageField: "water_level_ft",
	}
}

func testWellsConfig() QueryBuilderConfig {
	return QueryBuilderConfig{
		Measurement: "wells",
		ValidTags: map[string]bool{
			"well_number": true,
			"aquifer":     true,
			"well_field":  true,
			"data_type":   true,
		},
		ValidFields: map[string]bool{
			"cae_number": true,
			"name":       true,
		},
		Columns: []string{"_time", "well_number", "aquifer", "well_field", "data_type", "cae_number", "name"},
	}
}

func testWindowRequest() *WindowRequest {
	return &WindowRequest{
		WellNumber: "W101",
		Start:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Stop:       time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildWindowQueryAggregated(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	tests := []struct {
		name            string
		intervalMinutes float64
		expectedStage   string
	}{
		{"15 minute rate", 15, "aggregateWindow(every: 15m, fn: mean, createEmpty: false)"},
		{"hourly rate", 60, "aggregateWindow(every: 60m, fn: mean, createEmpty: false)"},
		{"6 hour rate", 360, "aggregateWindow(every: 360m, fn: mean, createEmpty: false)"},
		{"daily rate", 1440, "aggregateWindow(every: 1440m, fn: mean, createEmpty: false)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testWindowRequest()
			req.IntervalMinutes = tt.intervalMinutes

			query, err := qb.BuildWindowQuery(req, "wl_monitoring")
			if err != nil {
				t.Fatalf("BuildWindowQuery failed: %v", err)
			}

			if !strings.Contains(query, tt.expectedStage) {
				t.Errorf("Expected query to contain %q, got:\n%s", tt.expectedStage, query)
			}
			if !strings.Contains(query, `from(bucket: "wl_monitoring")`) {
				t.Errorf("Expected bucket in query, got:\n%s", query)
			}
			if !strings.Contains(query, `r["_measurement"] == "water_level_readings"`) {
				t.Errorf("Expected measurement filter in query, got:\n%s", query)
			}
			if !strings.Contains(query, `r["well_number"] == "W101"`) {
				t.Errorf("Expected well filter in query, got:\n%s", query)
			}
			if !strings.Contains(query, "start: 2024-03-01T00:00:00Z, stop: 2024-03-11T00:00:00Z") {
				t.Errorf("Expected RFC3339 range bounds in query, got:\n%s", query)
			}
		})
	}
}

func TestBuildWindowQueryRaw(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	req := testWindowRequest()
	req.IntervalMinutes = 0

	query, err := qb.BuildWindowQuery(req, "wl_monitoring")
	if err != nil {
		t.Fatalf("BuildWindowQuery failed: %v", err)
	}

	if strings.Contains(query, "aggregateWindow") {
		t.Errorf("Expected no aggregateWindow stage for raw fetch, got:\n%s", query)
	}
	if !strings.Contains(query, "pivot(rowKey:") {
		t.Errorf("Expected pivot stage in query, got:\n%s", query)
	}
	if !strings.Contains(query, `sort(columns: ["_time"])`) {
		t.Errorf("Expected chronological sort in query, got:\n%s", query)
	}
}

func TestBuildWindowQueryNonDefaultAggregate(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	req := testWindowRequest()
	req.IntervalMinutes = 60
	req.Aggregate = "max"

	query, err := qb.BuildWindowQuery(req, "wl_monitoring")
	if err != nil {
		t.Fatalf("BuildWindowQuery failed: %v", err)
	}

	if !strings.Contains(query, "fn: max") {
		t.Errorf("Expected fn: max in query, got:\n%s", query)
	}
}

func TestBuildWindowQueryFieldSubset(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	req := testWindowRequest()
	req.Fields = []string{"water_level_ft"}

	query, err := qb.BuildWindowQuery(req, "wl_monitoring")
	if err != nil {
		t.Fatalf("BuildWindowQuery failed: %v", err)
	}

	if !strings.Contains(query, `r["_field"] == "water_level_ft"`) {
		t.Errorf("Expected field subset filter in query, got:\n%s", query)
	}
	if strings.Contains(query, "temperature_c\")") && strings.Contains(query, `r["_field"] == "temperature_c"`) {
		t.Errorf("Expected temperature_c excluded from field filter, got:\n%s", query)
	}
}

func TestBuildWindowQueryInvalid(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		modify func(req *WindowRequest)
		bucket string
	}{
		{
			name:   "empty well number",
			modify: func(req *WindowRequest) { req.WellNumber = "" },
			bucket: "wl_monitoring",
		},
		{
			name:   "zero start",
			modify: func(req *WindowRequest) { req.Start = time.Time{} },
			bucket: "wl_monitoring",
		},
		{
			name:   "start equals stop",
			modify: func(req *WindowRequest) { req.Stop = start; req.Start = start },
			bucket: "wl_monitoring",
		},
		{
			name:   "reversed range",
			modify: func(req *WindowRequest) { req.Start, req.Stop = req.Stop, req.Start },
			bucket: "wl_monitoring",
		},
		{
			name:   "negative interval",
			modify: func(req *WindowRequest) { req.IntervalMinutes = -15 },
			bucket: "wl_monitoring",
		},
		{
			name:   "unsupported aggregate",
			modify: func(req *WindowRequest) { req.IntervalMinutes = 60; req.Aggregate = "stddev" },
			bucket: "wl_monitoring",
		},
		{
			name:   "unknown field",
			modify: func(req *WindowRequest) { req.Fields = []string{"salinity"} },
			bucket: "wl_monitoring",
		},
		{
			name:   "missing bucket",
			modify: func(req *WindowRequest) {},
			bucket: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testWindowRequest()
			tt.modify(req)

			if _, err := qb.BuildWindowQuery(req, tt.bucket); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestBuildWindowQueryEscapesQuotes(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	req := testWindowRequest()
	req.WellNumber = `W"1`

	query, err := qb.BuildWindowQuery(req, "wl_monitoring")
	if err != nil {
		t.Fatalf("BuildWindowQuery failed: %v", err)
	}

	if !strings.Contains(query, `r["well_number"] == "W\"1"`) {
		t.Errorf("Expected escaped well number in query, got:\n%s", query)
	}
}

func TestBuildCoverageQuery(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	query, err := qb.BuildCoverageQuery("W101", "wl_monitoring")
	if err != nil {
		t.Fatalf("BuildCoverageQuery failed: %v", err)
	}

	for _, fragment := range []string{
		`r["_field"] == "water_level_ft"`,
		"data |> first()",
		"data |> last()",
		"union(tables:",
		`r["well_number"] == "W101"`,
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("Expected query to contain %q, got:\n%s", fragment, query)
		}
	}
}

func TestBuildCoverageQueryInvalid(t *testing.T) {
	qb := NewQueryBuilder(testReadingsConfig())

	if _, err := qb.BuildCoverageQuery("", "wl_monitoring"); err == nil {
		t.Error("Expected error for empty well number, got nil")
	}
	if _, err := qb.BuildCoverageQuery("W101", ""); err == nil {
		t.Error("Expected error for empty bucket, got nil")
	}

	noCoverage := NewQueryBuilder(testWellsConfig())
	if _, err := noCoverage.BuildCoverageQuery("W101", "wl_monitoring"); err == nil {
		t.Error("Expected error for missing coverage field, got nil")
	}
}

func TestBuildLatestQuery(t *testing.T) {
	qb := NewQueryBuilder(testWellsConfig())

	filters := []FilterItem{
		{Key: "aquifer", Value: "Memphis"},
		{Key: "bogus", Value: "ignored"},
	}

	query, err := qb.BuildLatestQuery(filters, "wl_monitoring")
	if err != nil {
		t.Fatalf("BuildLatestQuery failed: %v", err)
	}

	if !strings.Contains(query, `r["_measurement"] == "wells"`) {
		t.Errorf("Expected wells measurement filter, got:\n%s", query)
	}
	if !strings.Contains(query, "|> last()") {
		t.Errorf("Expected last() stage, got:\n%s", query)
	}
	if !strings.Contains(query, `r["aquifer"] == "Memphis"`) {
		t.Errorf("Expected aquifer filter, got:\n%s", query)
	}
	if strings.Contains(query, "bogus") {
		t.Errorf("Expected invalid filter key to be ignored, got:\n%s", query)
	}
	if !strings.Contains(query, `sort(columns: ["well_number"])`) {
		t.Errorf("Expected sort by well_number, got:\n%s", query)
	}
}

func TestFluxDuration(t *testing.T) {
	tests := []struct {
		name            string
		intervalMinutes float64
		expected        string
	}{
		{"whole minutes", 15, "15m"},
		{"daily", 1440, "1440m"},
		{"fractional minutes", 12.5, "750s"},
		{"sub minute", 0.25, "15s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := fluxDuration(tt.intervalMinutes)
			if result != tt.expected {
				t.Errorf("Expected fluxDuration(%v)=%s, got %s", tt.intervalMinutes, tt.expected, result)
			}
		})
	}
}
