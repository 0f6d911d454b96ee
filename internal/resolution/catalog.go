package resolution

import (
	"errors"
	"fmt"
)

// ErrUnknownMode indicates a lookup for a mode that is not in the catalog.
var ErrUnknownMode = errors.New("unknown resolution mode")

// Mode identifies one named viewport resolution tier.
type Mode string

// Catalog modes, smallest span ceiling first. The string values double as
// cache-key granularity components and API identifiers, so they must stay
// stable.
const (
	Mode1Month Mode = "1month"
	Mode6Month Mode = "6months"
	Mode1Year  Mode = "1year"
	ModeFull   Mode = "full"
)

// Option bundles a viewport span ceiling with a target point density and a
// default sampling interval. MaxSpanDays of zero marks the unbounded
// overview mode; the catalog carries exactly one such entry, last.
type Option struct {
	Mode            Mode   `json:"mode"`
	MaxSpanDays     int    `json:"max_span_days,omitempty"`
	TargetPoints    int    `json:"target_points"`
	IntervalMinutes int    `json:"interval_minutes"`
	Label           string `json:"label"`
}

// catalog is ordered by increasing MaxSpanDays with the unbounded overview
// mode last. Default intervals are sized so a span at the mode's ceiling
// lands just under TargetPoints.
var catalog = []Option{
	{
		Mode:            Mode1Month,
		MaxSpanDays:     31,
		TargetPoints:    3000,
		IntervalMinutes: 15,
		Label:           "1 Month",
	},
	{
		Mode:            Mode6Month,
		MaxSpanDays:     183,
		TargetPoints:    4400,
		IntervalMinutes: 60,
		Label:           "6 Months",
	},
	{
		Mode:            Mode1Year,
		MaxSpanDays:     366,
		TargetPoints:    1500,
		IntervalMinutes: 360,
		Label:           "1 Year",
	},
	{
		Mode:            ModeFull,
		TargetPoints:    2000,
		IntervalMinutes: 1440,
		Label:           "Full Range",
	},
}

// Catalog returns the resolution options ordered smallest span first,
// unbounded overview mode last.
func Catalog() []Option {
	out := make([]Option, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the option for a mode, or ErrUnknownMode.
func Lookup(mode Mode) (Option, error) {
	for _, opt := range catalog {
		if opt.Mode == mode {
			return opt, nil
		}
	}
	return Option{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// IsValid reports whether mode names a catalog entry.
func IsValid(mode Mode) bool {
	_, err := Lookup(mode)
	return err == nil
}

// Full returns the unbounded overview mode.
func Full() Option {
	return catalog[len(catalog)-1]
}

// Unbounded reports whether the option has no span ceiling.
func (o Option) Unbounded() bool {
	return o.MaxSpanDays == 0
}
