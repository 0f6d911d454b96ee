package timerange

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrDegenerateRange indicates a range whose end precedes its start, or a
// zero-length range passed to an operation that needs a positive span.
var ErrDegenerateRange = errors.New("degenerate time range")

// Range is an inclusive time interval with Start <= End. All viewport and
// availability computations in the resolution core are span arithmetic over
// this type; a Range carries no location semantics beyond its two instants.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New builds a Range and rejects end-before-start instead of silently
// swapping the bounds.
func New(start, end time.Time) (Range, error) {
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: start %s after end %s",
			ErrDegenerateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Range{Start: start, End: end}, nil
}

// Span returns the length of the range.
func (r Range) Span() time.Duration {
	return r.End.Sub(r.Start)
}

// SpanDays returns the length of the range in fractional days.
func (r Range) SpanDays() float64 {
	return r.Span().Hours() / 24
}

// CeilDays returns the span rounded up to whole days. A sub-day range counts
// as one full day, so point-budget estimates err toward fewer allowed points
// rather than more.
func (r Range) CeilDays() int {
	days := int(math.Ceil(r.SpanDays()))
	if days < 1 {
		return 1
	}
	return days
}

// IsZero reports whether both bounds are the zero time.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Shift moves both bounds by d, preserving the span.
func (r Range) Shift(d time.Duration) Range {
	return Range{Start: r.Start.Add(d), End: r.End.Add(d)}
}

// Intersect clamps r to other. The second return is false when the ranges do
// not overlap at all.
func (r Range) Intersect(other Range) (Range, bool) {
	out := r
	if out.Start.Before(other.Start) {
		out.Start = other.Start
	}
	if out.End.After(other.End) {
		out.End = other.End
	}
	if out.End.Before(out.Start) {
		return Range{}, false
	}
	return out, true
}

// Validate re-checks the Start <= End invariant on a Range that was built
// directly rather than through New (e.g. decoded from a request payload).
func (r Range) Validate() error {
	_, err := New(r.Start, r.End)
	return err
}
