package v2oss

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// validAggregates lists the Flux aggregate functions allowed in aggregateWindow
var validAggregates = map[string]bool{
	"mean":   true,
	"median": true,
	"min":    true,
	"max":    true,
	"first":  true,
	"last":   true,
}

// QueryBuilder builds InfluxDB Flux queries for windowed time-series reads
type QueryBuilder struct {
	config QueryBuilderConfig
}

// NewQueryBuilder creates a new query builder instance with configuration
func NewQueryBuilder(config QueryBuilderConfig) *QueryBuilder {
	return &QueryBuilder{
		config: config,
	}
}

// BuildWindowQuery constructs a Flux query for one well over a time window.
// When IntervalMinutes is positive the raw points are downsampled server-side
// with aggregateWindow, so the transferred row count stays near the estimate
// the caller computed. IntervalMinutes of zero fetches raw points.
func (qb *QueryBuilder) BuildWindowQuery(req *WindowRequest, bucket string) (string, error) {
	if err := qb.ValidateRequest(req); err != nil {
		return "", err
	}

	// Validate bucket parameter
	if bucket == "" {
		return "", fmt.Errorf("bucket parameter is required")
	}

	// Build field subset filter
	fieldFilter := qb.buildFieldFilter(req.Fields)

	// Build downsampling stage
	aggregate := qb.buildAggregateWindow(req.IntervalMinutes, req.Aggregate)

	// Build columns selection
	columns := qb.buildColumns()

	query := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r["_measurement"] == "%s")
  |> filter(fn: (r) => r["well_number"] == "%s")%s%s
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")%s
  |> group()
  |> sort(columns: ["_time"])`,
		bucket,
		req.Start.UTC().Format(time.RFC3339),
		req.Stop.UTC().Format(time.RFC3339),
		qb.config.Measurement,
		escapeFluxString(req.WellNumber),
		fieldFilter,
		aggregate,
		columns,
	)

	return strings.TrimSpace(query), nil
}

// BuildCoverageQuery constructs a query returning the earliest and latest
// stored timestamps for a well. The coverage field keeps the probe cheap:
// first()/last() over a single field instead of the whole measurement.
func (qb *QueryBuilder) BuildCoverageQuery(wellNumber, bucket string) (string, error) {
	if wellNumber == "" {
		return "", fmt.Errorf("well_number cannot be empty")
	}
	if bucket == "" {
		return "", fmt.Errorf("bucket parameter is required")
	}

	field := qb.config.CoverageField
	if field == "" {
		return "", fmt.Errorf("coverage field not configured for measurement %s", qb.config.Measurement)
	}

	query := fmt.Sprintf(`data = from(bucket: "%s")
  |> range(start: 0)
  |> filter(fn: (r) => r["_measurement"] == "%s")
  |> filter(fn: (r) => r["well_number"] == "%s")
  |> filter(fn: (r) => r["_field"] == "%s")
  |> group()

union(tables: [data |> first(), data |> last()])
  |> keep(columns: ["_time"])
  |> sort(columns: ["_time"])`,
		bucket,
		qb.config.Measurement,
		escapeFluxString(wellNumber),
		field,
	)

	return strings.TrimSpace(query), nil
}

// BuildLatestQuery constructs a query returning the most recent point per
// series, pivoted into one row each. Used for measurements where the latest
// point is the current state (well metadata).
func (qb *QueryBuilder) BuildLatestQuery(filters []FilterItem, bucket string) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("bucket parameter is required")
	}

	// Build dynamic filters
	filterStage := qb.buildFilters(filters)

	// Build columns selection
	columns := qb.buildColumns()

	query := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: 0)
  |> filter(fn: (r) => r["_measurement"] == "%s")%s
  |> last()
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")%s
  |> group()
  |> sort(columns: ["well_number"])`,
		bucket,
		qb.config.Measurement,
		filterStage,
		columns,
	)

	return strings.TrimSpace(query), nil
}

// buildFieldFilter constructs the _field subset filter for a window query
func (qb *QueryBuilder) buildFieldFilter(fields []string) string {
	if len(fields) == 0 {
		return ""
	}

	var conditions []string
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" || !qb.config.ValidFields[field] {
			continue // Unknown fields are silently ignored for security
		}
		conditions = append(conditions, fmt.Sprintf(`r["_field"] == "%s"`, field))
	}

	if len(conditions) == 0 {
		return ""
	}

	return fmt.Sprintf("\n  |> filter(fn: (r) => %s)", strings.Join(conditions, " or "))
}

// buildAggregateWindow constructs the downsampling stage for a window query
func (qb *QueryBuilder) buildAggregateWindow(intervalMinutes float64, aggregate string) string {
	if intervalMinutes <= 0 {
		return "" // Raw fetch, no downsampling
	}

	if aggregate == "" {
		aggregate = "mean"
	}

	return fmt.Sprintf("\n  |> aggregateWindow(every: %s, fn: %s, createEmpty: false)",
		fluxDuration(intervalMinutes), aggregate)
}

// buildFilters constructs dynamic filter conditions based on provided filters
func (qb *QueryBuilder) buildFilters(filters []FilterItem) string {
	if len(filters) == 0 {
		return ""
	}

	var filterConditions []string

	for _, filter := range filters {
		key := strings.ToLower(strings.TrimSpace(filter.Key))
		value := strings.TrimSpace(filter.Value)

		if value == "" {
			continue // Skip empty values
		}

		// Escape quotes in filter values
		escapedValue := escapeFluxString(value)

		if qb.config.ValidTags[key] {
			// Tag-based filter (exact match)
			filterConditions = append(filterConditions,
				fmt.Sprintf(`filter(fn: (r) => r["%s"] == "%s")`, key, escapedValue))
		} else if qb.config.ValidFields[key] {
			// Field-based filter (exact match for strings)
			filterConditions = append(filterConditions,
				fmt.Sprintf(`filter(fn: (r) => r["%s"] == "%s")`, key, escapedValue))
		}
		// Invalid keys are silently ignored for security
	}

	if len(filterConditions) == 0 {
		return ""
	}

	// Join all filters with pipe operators
	return "\n  |> " + strings.Join(filterConditions, "\n  |> ")
}

// buildColumns constructs column selection based on configuration
func (qb *QueryBuilder) buildColumns() string {
	if len(qb.config.Columns) == 0 {
		return "" // No column filtering, return all
	}

	// Build columns list with proper quoting
	var quotedColumns []string
	for _, col := range qb.config.Columns {
		quotedColumns = append(quotedColumns, fmt.Sprintf(`"%s"`, col))
	}

	return fmt.Sprintf("\n  |> keep(columns: [%s])", strings.Join(quotedColumns, ", "))
}

// ValidateRequest validates a window request structure
func (qb *QueryBuilder) ValidateRequest(req *WindowRequest) error {
	if req.WellNumber == "" {
		return fmt.Errorf("well_number cannot be empty")
	}

	if req.Start.IsZero() || req.Stop.IsZero() {
		return fmt.Errorf("start and stop timestamps are required")
	}

	if !req.Start.Before(req.Stop) {
		return fmt.Errorf("start must be before stop")
	}

	if req.IntervalMinutes < 0 {
		return fmt.Errorf("interval_minutes cannot be negative")
	}

	if req.Aggregate != "" && !validAggregates[req.Aggregate] {
		return fmt.Errorf("unsupported aggregate function: %s", req.Aggregate)
	}

	for _, field := range req.Fields {
		if !qb.config.ValidFields[field] {
			return fmt.Errorf("unknown field: %s", field)
		}
	}

	return nil
}

// ExecuteWindowQuery builds and executes the window query, returning cleaned rows
func (qb *QueryBuilder) ExecuteWindowQuery(req *WindowRequest, bucket string, client *Client) ([]map[string]interface{}, error) {
	query, err := qb.BuildWindowQuery(req, bucket)
	if err != nil {
		return nil, err
	}

	return qb.executeQuery(query, client)
}

// ExecuteLatestQuery builds and executes the latest-per-series query, returning cleaned rows
func (qb *QueryBuilder) ExecuteLatestQuery(filters []FilterItem, bucket string, client *Client) ([]map[string]interface{}, error) {
	query, err := qb.BuildLatestQuery(filters, bucket)
	if err != nil {
		return nil, err
	}

	return qb.executeQuery(query, client)
}

// GetCoverage executes the coverage query and returns the stored extent for a
// well. Returns nil without error when the well has no stored points.
func (qb *QueryBuilder) GetCoverage(wellNumber, bucket string, client *Client) (*Coverage, error) {
	query, err := qb.BuildCoverageQuery(wellNumber, bucket)
	if err != nil {
		return nil, err
	}

	rows, err := qb.executeQuery(query, client)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var stamps []time.Time
	for _, row := range rows {
		if ts, ok := extractTime(row["_time"]); ok {
			stamps = append(stamps, ts)
		}
	}
	if len(stamps) == 0 {
		return nil, fmt.Errorf("coverage query returned rows without timestamps")
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	return &Coverage{
		Earliest: stamps[0],
		Latest:   stamps[len(stamps)-1],
	}, nil
}

// GetByWellNumber retrieves the latest pivoted row for a single well
func (qb *QueryBuilder) GetByWellNumber(wellNumber, bucket string, client *Client) (map[string]interface{}, error) {
	if wellNumber == "" {
		return nil, fmt.Errorf("well_number cannot be empty")
	}

	filters := []FilterItem{{Key: "well_number", Value: wellNumber}}
	rows, err := qb.ExecuteLatestQuery(filters, bucket, client)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no record found for well_number: %s", wellNumber)
	}

	return rows[0], nil
}

// executeQuery runs a Flux query and collects cleaned result rows
func (qb *QueryBuilder) executeQuery(query string, client *Client) ([]map[string]interface{}, error) {
	result, err := client.Query(query)
	if err != nil {
		return nil, err
	}

	iterator, ok := result.(*QueryIterator)
	if !ok || iterator == nil {
		return []map[string]interface{}{}, nil
	}

	defer func() { _ = iterator.Close() }()

	// Parse results
	var results []map[string]interface{}
	for iterator.Next() {
		record := iterator.Record()
		if record != nil {
			// Filter out internal InfluxDB fields
			cleanRecord := make(map[string]interface{})
			for key, value := range record {
				if key != "result" && key != "table" && key != "_start" && key != "_stop" {
					cleanRecord[key] = value
				}
			}
			results = append(results, cleanRecord)
		}
	}

	// Check for iterator errors
	if err := iterator.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// fluxDuration renders an interval in minutes as a Flux duration literal.
// Whole minutes render as "15m"; fractional intervals fall back to seconds.
func fluxDuration(intervalMinutes float64) string {
	if intervalMinutes == math.Trunc(intervalMinutes) {
		return fmt.Sprintf("%dm", int64(intervalMinutes))
	}
	return fmt.Sprintf("%ds", int64(math.Round(intervalMinutes*60)))
}

// escapeFluxString escapes double quotes in values interpolated into Flux
func escapeFluxString(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// extractTime converts an iterator record value to a time.Time
func extractTime(v interface{}) (time.Time, bool) {
	switch ts := v.(type) {
	case time.Time:
		return ts, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
