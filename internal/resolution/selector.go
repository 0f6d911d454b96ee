package resolution

import (
	"math"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

// Calculation is the outcome of resolving a viewport against the catalog.
// Derived per query, never stored.
type Calculation struct {
	Mode            Mode    `json:"mode"`
	Label           string  `json:"label"`
	IntervalMinutes float64 `json:"interval_minutes"`
	EstimatedPoints int     `json:"estimated_points"`
	TimeSpanDays    float64 `json:"time_span_days"`

	// Viewport is the range the calculation was made for, clamped to the
	// available range when the two overlap.
	Viewport timerange.Range `json:"viewport"`

	// Clamped is true when the requested viewport reached past the available
	// range and was trimmed to it.
	Clamped bool `json:"clamped,omitempty"`
}

// Interval returns the sampling interval as a duration, for aggregation
// windows.
func (c Calculation) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes * float64(time.Minute))
}

// SelectResolution picks the resolution mode for a requested viewport. The
// viewport is first clamped to the available range when they overlap, so
// the mode reflects the span of data that can actually be shown. The mode
// is the first catalog entry whose span ceiling covers the clamped span,
// falling through to the unbounded overview mode.
//
// The mode's default interval is widened when the span is long enough that
// the default would overrun TargetPoints, so a span at the mode's ceiling
// uses close to the full target while a short span keeps the finer default.
func SelectResolution(viewport, available timerange.Range) (Calculation, error) {
	if err := viewport.Validate(); err != nil {
		return Calculation{}, err
	}

	effective := viewport
	clamped := false
	if !available.IsZero() {
		if err := available.Validate(); err != nil {
			return Calculation{}, err
		}
		if trimmed, ok := viewport.Intersect(available); ok {
			clamped = !trimmed.Start.Equal(viewport.Start) || !trimmed.End.Equal(viewport.End)
			effective = trimmed
		}
	}

	spanDays := effective.SpanDays()
	selected := Full()
	for _, opt := range catalog {
		if !opt.Unbounded() && spanDays <= float64(opt.MaxSpanDays) {
			selected = opt
			break
		}
	}

	interval := float64(selected.IntervalMinutes)
	if refined := spanDays * 1440 / float64(selected.TargetPoints); refined > interval {
		interval = refined
	}

	estimated := 0
	if spanMinutes := spanDays * 1440; spanMinutes > 0 {
		estimated = int(math.Ceil(spanMinutes / interval))
	}

	return Calculation{
		Mode:            selected.Mode,
		Label:           selected.Label,
		IntervalMinutes: interval,
		EstimatedPoints: estimated,
		TimeSpanDays:    spanDays,
		Viewport:        effective,
		Clamped:         clamped,
	}, nil
}

// IsModeSuitable reports whether a mode's span ceiling covers spanDays.
// The unbounded overview mode suits any span.
func IsModeSuitable(mode Mode, spanDays float64) (bool, error) {
	opt, err := Lookup(mode)
	if err != nil {
		return false, err
	}
	if opt.Unbounded() {
		return true, nil
	}
	return spanDays <= float64(opt.MaxSpanDays), nil
}

// DefaultRangeForMode returns the most recent window of the mode's span
// within the available range: it ends at the latest timestamp and reaches
// back the mode's span ceiling, clamped to the earliest timestamp. The
// unbounded overview mode returns the whole available range.
func DefaultRangeForMode(mode Mode, available timerange.Range) (timerange.Range, error) {
	opt, err := Lookup(mode)
	if err != nil {
		return timerange.Range{}, err
	}
	if err := available.Validate(); err != nil {
		return timerange.Range{}, err
	}
	if opt.Unbounded() {
		return available, nil
	}

	start := available.End.AddDate(0, 0, -opt.MaxSpanDays)
	if start.Before(available.Start) {
		start = available.Start
	}
	return timerange.Range{Start: start, End: available.End}, nil
}
