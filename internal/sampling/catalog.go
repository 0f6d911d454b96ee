package sampling

import (
	"errors"
	"fmt"
)

// ErrUnknownRate indicates a lookup for a rate that is not in the catalog.
var ErrUnknownRate = errors.New("unknown sampling rate")

// Rate identifies one granularity tier of the sampling catalog.
type Rate string

// Catalog rates, finest to coarsest. The string values double as the
// granularity component of segment cache keys and as API identifiers, so
// they must stay stable.
const (
	Rate15Min  Rate = "15min"
	RateHourly Rate = "1hour"
	Rate6Hour  Rate = "6hour"
	RateDaily  Rate = "daily"
)

// Option describes one sampling granularity: the interval between returned
// points and the resulting density. Label and Description are display-only.
type Option struct {
	Rate            Rate   `json:"rate"`
	IntervalMinutes int    `json:"interval_minutes"`
	PointsPerDay    int    `json:"points_per_day"`
	Label           string `json:"label"`
	Description     string `json:"description"`
}

// catalog is ordered finest to coarsest (strictly increasing
// IntervalMinutes). PointsPerDay is precomputed as 1440/IntervalMinutes.
var catalog = []Option{
	{
		Rate:            Rate15Min,
		IntervalMinutes: 15,
		PointsPerDay:    96,
		Label:           "15 Minute",
		Description:     "Native transducer interval, finest detail",
	},
	{
		Rate:            RateHourly,
		IntervalMinutes: 60,
		PointsPerDay:    24,
		Label:           "Hourly",
		Description:     "One reading per hour",
	},
	{
		Rate:            Rate6Hour,
		IntervalMinutes: 360,
		PointsPerDay:    4,
		Label:           "6 Hour",
		Description:     "Four readings per day",
	},
	{
		Rate:            RateDaily,
		IntervalMinutes: 1440,
		PointsPerDay:    1,
		Label:           "Daily",
		Description:     "One reading per day, multi-year overviews",
	},
}

// Catalog returns the sampling options ordered finest to coarsest.
func Catalog() []Option {
	out := make([]Option, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the option for a rate, or ErrUnknownRate.
func Lookup(rate Rate) (Option, error) {
	for _, opt := range catalog {
		if opt.Rate == rate {
			return opt, nil
		}
	}
	return Option{}, fmt.Errorf("%w: %q", ErrUnknownRate, rate)
}

// IsValid reports whether rate names a catalog entry.
func IsValid(rate Rate) bool {
	_, err := Lookup(rate)
	return err == nil
}

// Finest returns the highest-density option in the catalog.
func Finest() Option {
	return catalog[0]
}

// Coarsest returns the lowest-density option in the catalog.
func Coarsest() Option {
	return catalog[len(catalog)-1]
}
