package wells

import (
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
)

// WELL METADATA - latest point per well_number wins
type (
	Well struct {
		// === CORE IDENTIFICATION ===
		WellNumber string `json:"well_number"` // Primary well identifier, e.g. "MW-21"
		CAENumber  string `json:"cae_number"`  // CAESER catalog number
		Name       string `json:"name"`       // Display name

		// === LOCATION & GEOLOGY ===
		Aquifer       string  `json:"aquifer"`          // memphis/fort_pillow/shallow
		WellField     string  `json:"well_field"`       // Well field grouping for map filters
		Latitude      float64 `json:"latitude"`         // WGS84
		Longitude     float64 `json:"longitude"`        // WGS84
		TopOfCasingFt float64 `json:"top_of_casing_ft"` // Reference elevation for water level conversion

		// === SERIES TYPE ===
		DataType string `json:"data_type"` // transducer/telemetry/manual

		// Timestamp
		Timestamp time.Time
	}

	// UpsertRequest is the authenticated well metadata upsert payload. It
	// carries the dataset so the queue handler can pick the right bucket.
	UpsertRequest struct {
		Dataset       string  `json:"dataset" param:"dataset" validate:"required"`
		WellNumber    string  `json:"well_number" param:"well" validate:"required"`
		CAENumber     string  `json:"cae_number"`
		Name          string  `json:"name" validate:"required"`
		Aquifer       string  `json:"aquifer"`
		WellField     string  `json:"well_field"`
		Latitude      float64 `json:"latitude" validate:"min=-90,max=90"`
		Longitude     float64 `json:"longitude" validate:"min=-180,max=180"`
		TopOfCasingFt float64 `json:"top_of_casing_ft"`
		DataType      string  `json:"data_type" validate:"required,oneof=transducer telemetry manual"`
	}

	Response struct {
		WellNumber    string  `json:"well_number"`
		CAENumber     string  `json:"cae_number,omitempty"`
		Name          string  `json:"name"`
		Aquifer       string  `json:"aquifer,omitempty"`
		WellField     string  `json:"well_field,omitempty"`
		Latitude      float64 `json:"latitude"`
		Longitude     float64 `json:"longitude"`
		TopOfCasingFt float64 `json:"top_of_casing_ft"`
		DataType      string  `json:"data_type"`
		UpdatedAt     string  `json:"updated_at"`
	}
)

// ToPoint converts a Well to an InfluxDB point with tags and fields
func (w *Well) ToPoint() interface{} {
	return influxdb.NewPoint(
		"wells",
		map[string]string{
			"well_number": safeString(w.WellNumber),
			"aquifer":     safeString(w.Aquifer),
			"well_field":  safeString(w.WellField),
			"data_type":   safeString(w.DataType),
		},
		map[string]interface{}{
			"cae_number":       string(w.CAENumber),
			"name":             string(w.Name),
			"latitude":         float64(w.Latitude),
			"longitude":        float64(w.Longitude),
			"top_of_casing_ft": float64(w.TopOfCasingFt),
		},
		w.Timestamp,
	)
}

// GetName returns the measurement name for this entity
func (w *Well) GetName() string {
	return "wells"
}

// FromUpsertRequest builds the stored entity from an upsert payload
func FromUpsertRequest(req *UpsertRequest, at time.Time) *Well {
	return &Well{
		WellNumber:    req.WellNumber,
		CAENumber:     req.CAENumber,
		Name:          req.Name,
		Aquifer:       req.Aquifer,
		WellField:     req.WellField,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		TopOfCasingFt: req.TopOfCasingFt,
		DataType:      req.DataType,
		Timestamp:     at,
	}
}

// safeString ensures tag values are never empty (InfluxDB requirement)
func safeString(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// MapToResponse converts a raw pivoted InfluxDB record to a Response struct
func MapToResponse(record map[string]interface{}) Response {
	response := Response{}

	// Parse time field
	if v, ok := record["_time"]; ok {
		switch timeVal := v.(type) {
		case string:
			response.UpdatedAt = timeVal
		case time.Time:
			response.UpdatedAt = timeVal.Format(time.RFC3339)
		}
	}

	// === TAGS ===
	if v, ok := record["well_number"].(string); ok && v != "" && v != "-" {
		response.WellNumber = v
	}
	if v, ok := record["aquifer"].(string); ok && v != "" && v != "-" {
		response.Aquifer = v
	}
	if v, ok := record["well_field"].(string); ok && v != "" && v != "-" {
		response.WellField = v
	}
	if v, ok := record["data_type"].(string); ok && v != "" && v != "-" {
		response.DataType = v
	}

	// === FIELDS ===
	if v, ok := record["cae_number"].(string); ok && v != "" && v != "-" {
		response.CAENumber = v
	}
	if v, ok := record["name"].(string); ok && v != "" && v != "-" {
		response.Name = v
	}
	response.Latitude = toFloat(record["latitude"])
	response.Longitude = toFloat(record["longitude"])
	response.TopOfCasingFt = toFloat(record["top_of_casing_ft"])

	return response
}

// toFloat converts an iterator record value to float64
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
