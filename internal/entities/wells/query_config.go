package wells

import (
	v2oss "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb/v2-oss"
)

// GetQueryConfig returns query builder configuration for well metadata
func GetQueryConfig() v2oss.QueryBuilderConfig {
	return v2oss.QueryBuilderConfig{
		Measurement: "wells",
		ValidTags: map[string]bool{
			// Tags from ToPoint() method
			"well_number": true,
			"aquifer":     true,
			"well_field":  true,
			"data_type":   true,
		},
		ValidFields: map[string]bool{
			"cae_number":       true,
			"name":             true,
			"latitude":         true,
			"longitude":        true,
			"top_of_casing_ft": true,
		},
		Columns: []string{
			// Essential columns for well list and map markers
			"_time",
			"well_number",
			"aquifer",
			"well_field",
			"data_type",
			"cae_number",
			"name",
			"latitude",
			"longitude",
			"top_of_casing_ft",
		},
	}
}
