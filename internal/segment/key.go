// Package segment caches fetched blocks of readings, keyed by well, day
// range, and granularity, so repeated viewport changes do not refetch data
// the dashboard already has.
package segment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/resolution"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/sampling"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

const (
	keyDelimiter = "_"
	dayFormat    = "2006-01-02"
)

// ErrInvalidKey indicates a segment key that does not parse.
var ErrInvalidKey = errors.New("invalid segment key")

// Key identifies one cached block of readings: a well, a calendar-day
// range, and the granularity it was fetched at. Bounds are held at day
// precision in UTC; two viewports that differ only by sub-day offsets on
// the same calendar days share a key, so a fetched segment is reused
// across small pans instead of refetched.
type Key struct {
	WellID      string    `json:"well_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Granularity string    `json:"granularity"`
}

// NewKey builds a key for a well and range at a granularity, truncating
// the bounds to UTC calendar days. The granularity is a sampling rate or
// resolution mode identifier; the well id must not contain underscores or
// the key will not round-trip through ParseKey.
func NewKey(wellID string, r timerange.Range, granularity string) Key {
	return Key{
		WellID:      wellID,
		Start:       truncateToDay(r.Start),
		End:         truncateToDay(r.End),
		Granularity: granularity,
	}
}

// String encodes the key as wellID_YYYY-MM-DD_YYYY-MM-DD_granularity.
func (k Key) String() string {
	return strings.Join([]string{
		k.WellID,
		k.Start.Format(dayFormat),
		k.End.Format(dayFormat),
		k.Granularity,
	}, keyDelimiter)
}

// Range returns the day-aligned bounds the key covers.
func (k Key) Range() timerange.Range {
	return timerange.Range{Start: k.Start, End: k.End}
}

// ParseKey decodes a key produced by String. It fails with ErrInvalidKey
// when the component count is not exactly four, a date does not parse, the
// dates are reversed, or the granularity names neither a sampling rate nor
// a resolution mode.
func ParseKey(raw string) (Key, error) {
	parts := strings.Split(raw, keyDelimiter)
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("%w: expected 4 components, got %d", ErrInvalidKey, len(parts))
	}
	if parts[0] == "" {
		return Key{}, fmt.Errorf("%w: empty well id", ErrInvalidKey)
	}

	start, err := time.ParseInLocation(dayFormat, parts[1], time.UTC)
	if err != nil {
		return Key{}, fmt.Errorf("%w: bad start date %q", ErrInvalidKey, parts[1])
	}
	end, err := time.ParseInLocation(dayFormat, parts[2], time.UTC)
	if err != nil {
		return Key{}, fmt.Errorf("%w: bad end date %q", ErrInvalidKey, parts[2])
	}
	if end.Before(start) {
		return Key{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidKey, parts[2], parts[1])
	}

	if !granularityKnown(parts[3]) {
		return Key{}, fmt.Errorf("%w: unknown granularity %q", ErrInvalidKey, parts[3])
	}

	return Key{
		WellID:      parts[0],
		Start:       start,
		End:         end,
		Granularity: parts[3],
	}, nil
}

// granularityKnown accepts identifiers from either catalog, since segments
// are cached for explicit sampling rates and for resolution-mode fetches
// alike.
func granularityKnown(id string) bool {
	return sampling.IsValid(sampling.Rate(id)) || resolution.IsValid(resolution.Mode(id))
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
