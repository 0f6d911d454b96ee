package readings

import (
	v2oss "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb/v2-oss"
)

// GetQueryConfig returns query builder configuration for the continuous
// water level series (transducer and telemetry)
func GetQueryConfig() v2oss.QueryBuilderConfig {
	return v2oss.QueryBuilderConfig{
		Measurement: "water_level_readings",
		ValidTags: map[string]bool{
			// Tags from ToPoint() method
			"well_number": true,
			"data_type":   true,
		},
		ValidFields: map[string]bool{
			"water_level_ft": true,
			"temperature_c":  true,
			"flagged":        true,
		},
		Columns: []string{
			"_time",
			"water_level_ft",
			"temperature_c",
		},
		CoverageField: "water_level_ft", // Probe earliest/latest on the primary field
	}
}

// GetManualQueryConfig returns query builder configuration for hand-measured
// readings
func GetManualQueryConfig() v2oss.QueryBuilderConfig {
	return v2oss.QueryBuilderConfig{
		Measurement: "manual_readings",
		ValidTags: map[string]bool{
			"well_number": true,
			"collector":   true,
		},
		ValidFields: map[string]bool{
			"water_level_ft": true,
			"dtw_ft":         true,
		},
		Columns: []string{
			"_time",
			"water_level_ft",
			"dtw_ft",
			"collector",
		},
		CoverageField: "water_level_ft",
	}
}

// QueryConfigFor returns the builder configuration matching a series.
func QueryConfigFor(s Series) v2oss.QueryBuilderConfig {
	if s == SeriesManual {
		return GetManualQueryConfig()
	}
	return GetQueryConfig()
}
