// Package wells reads well metadata out of the wells measurement, where the
// latest point per well_number is the current record.
package wells

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	wellsEntity "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/wells"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
	v2oss "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb/v2-oss"
)

// ErrNotFound indicates a lookup for a well with no metadata record.
var ErrNotFound = errors.New("unknown well")

// ListFilter narrows the well list. Empty fields match everything.
type ListFilter struct {
	Aquifer   string
	WellField string
	DataType  string
}

// List returns the wells of a dataset, optionally filtered by aquifer,
// well field, or series type.
func List(dataset config.DatasetConfig, filter ListFilter) ([]wellsEntity.Response, error) {
	client, err := v2Client()
	if err != nil {
		return nil, err
	}

	var filters []v2oss.FilterItem
	if filter.Aquifer != "" {
		filters = append(filters, v2oss.FilterItem{Key: "aquifer", Value: filter.Aquifer})
	}
	if filter.WellField != "" {
		filters = append(filters, v2oss.FilterItem{Key: "well_field", Value: filter.WellField})
	}
	if filter.DataType != "" {
		filters = append(filters, v2oss.FilterItem{Key: "data_type", Value: filter.DataType})
	}

	qb := v2oss.NewQueryBuilder(wellsEntity.GetQueryConfig())
	rows, err := qb.ExecuteLatestQuery(filters, dataset.Bucket, client)
	if err != nil {
		return nil, fmt.Errorf("well list query failed: %w", err)
	}

	out := make([]wellsEntity.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, wellsEntity.MapToResponse(row))
	}
	return out, nil
}

// Get returns the metadata record for one well, or ErrNotFound.
func Get(dataset config.DatasetConfig, wellNumber string) (wellsEntity.Response, error) {
	client, err := v2Client()
	if err != nil {
		return wellsEntity.Response{}, err
	}

	qb := v2oss.NewQueryBuilder(wellsEntity.GetQueryConfig())
	row, err := qb.GetByWellNumber(wellNumber, dataset.Bucket, client)
	if err != nil {
		if strings.Contains(err.Error(), "no record found") {
			return wellsEntity.Response{}, fmt.Errorf("%w: %q", ErrNotFound, wellNumber)
		}
		return wellsEntity.Response{}, fmt.Errorf("well lookup failed: %w", err)
	}

	return wellsEntity.MapToResponse(row), nil
}

func v2Client() (*v2oss.Client, error) {
	client, ok := influxdb.GetCurrentClient().(*v2oss.Client)
	if !ok || client == nil {
		return nil, fmt.Errorf("influxdb v2-oss client not initialized")
	}
	return client, nil
}
