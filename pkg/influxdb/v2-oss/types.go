package v2oss

import "time"

// WindowRequest represents a time-windowed series fetch for a single well
type WindowRequest struct {
	WellNumber      string    `json:"well_number" validate:"required"`
	Start           time.Time `json:"start" validate:"required"`
	Stop            time.Time `json:"stop" validate:"required"`
	IntervalMinutes float64   `json:"interval_minutes"` // 0 = raw points, no aggregation
	Aggregate       string    `json:"aggregate"`        // mean/min/max/median/last, defaults to mean
	Fields          []string  `json:"fields"`           // optional field subset, empty = all configured columns
}

// FilterItem represents individual filter criteria
type FilterItem struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// Coverage represents the stored extent of a series
type Coverage struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// QueryBuilderConfig configuration for query builder
type QueryBuilderConfig struct {
	Measurement   string          `json:"measurement"`
	ValidTags     map[string]bool `json:"valid_tags"`     // Tag fields that can be filtered
	ValidFields   map[string]bool `json:"valid_fields"`   // Field columns that can be filtered
	Columns       []string        `json:"columns"`        // Columns to select in result
	CoverageField string          `json:"coverage_field"` // Field used to probe earliest/latest stored points
}
