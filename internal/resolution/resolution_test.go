package resolution

import (
	"errors"
	"testing"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func spanFrom(t *testing.T, start time.Time, days int) timerange.Range {
	t.Helper()
	r, err := timerange.New(start, start.AddDate(0, 0, days))
	if err != nil {
		t.Fatalf("building %d-day range: %v", days, err)
	}
	return r
}

func TestCatalogShape(t *testing.T) {
	opts := Catalog()
	if len(opts) != 4 {
		t.Fatalf("Expected 4 catalog options, got %d", len(opts))
	}

	// Bounded modes in increasing span order, exactly one unbounded mode,
	// and it comes last.
	unbounded := 0
	for i, opt := range opts {
		if opt.Unbounded() {
			unbounded++
			if i != len(opts)-1 {
				t.Errorf("Unbounded mode %s must be last, found at %d", opt.Mode, i)
			}
			continue
		}
		if i > 0 && !opts[i-1].Unbounded() && opt.MaxSpanDays <= opts[i-1].MaxSpanDays {
			t.Errorf("Catalog not ordered by span at %d: %d <= %d",
				i, opt.MaxSpanDays, opts[i-1].MaxSpanDays)
		}
	}
	if unbounded != 1 {
		t.Errorf("Expected exactly 1 unbounded mode, got %d", unbounded)
	}

	if Full().Mode != ModeFull {
		t.Errorf("Expected full mode=%s, got %s", ModeFull, Full().Mode)
	}
}

func TestLookup(t *testing.T) {
	opt, err := Lookup(Mode1Year)
	if err != nil {
		t.Fatalf("Lookup(%s) failed: %v", Mode1Year, err)
	}
	if opt.MaxSpanDays != 366 || opt.TargetPoints != 1500 {
		t.Errorf("Expected 366d/1500pts, got %dd/%dpts", opt.MaxSpanDays, opt.TargetPoints)
	}

	if _, err := Lookup("3months"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
	if !IsValid(ModeFull) || IsValid("overview") {
		t.Error("IsValid disagrees with the catalog")
	}
}

func TestSelectResolutionModeBySpan(t *testing.T) {
	start := date(2020, 1, 1)

	testCases := []struct {
		name         string
		days         int
		expectedMode Mode
	}{
		{"one week", 7, Mode1Month},
		{"at the month ceiling", 31, Mode1Month},
		{"just past the month ceiling", 32, Mode6Month},
		{"half year", 183, Mode6Month},
		{"200 days", 200, Mode1Year},
		{"full year", 366, Mode1Year},
		{"two years", 730, ModeFull},
		{"decade", 3650, ModeFull},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calc, err := SelectResolution(spanFrom(t, start, tc.days), timerange.Range{})
			if err != nil {
				t.Fatalf("SelectResolution failed: %v", err)
			}
			if calc.Mode != tc.expectedMode {
				t.Errorf("Expected mode=%s, got %s", tc.expectedMode, calc.Mode)
			}
		})
	}
}

func TestSelectResolutionInterval(t *testing.T) {
	start := date(2020, 1, 1)

	// Short span keeps the mode's default interval.
	calc, err := SelectResolution(spanFrom(t, start, 5), timerange.Range{})
	if err != nil {
		t.Fatal(err)
	}
	if calc.IntervalMinutes != 15 {
		t.Errorf("Expected default 15min interval, got %v", calc.IntervalMinutes)
	}
	if calc.EstimatedPoints != 480 {
		t.Errorf("Expected 480 points, got %d", calc.EstimatedPoints)
	}

	// A long overview span widens the interval to hold the target.
	calc, err = SelectResolution(spanFrom(t, start, 5000), timerange.Range{})
	if err != nil {
		t.Fatal(err)
	}
	if calc.Mode != ModeFull {
		t.Fatalf("Expected full mode, got %s", calc.Mode)
	}
	if calc.IntervalMinutes != 3600 {
		t.Errorf("Expected widened 3600min interval, got %v", calc.IntervalMinutes)
	}
	if calc.EstimatedPoints != 2000 {
		t.Errorf("Expected 2000 points, got %d", calc.EstimatedPoints)
	}
}

func TestSelectResolutionHonorsTarget(t *testing.T) {
	start := date(2020, 1, 1)
	for _, days := range []int{1, 31, 100, 183, 366, 1000, 10000} {
		calc, err := SelectResolution(spanFrom(t, start, days), timerange.Range{})
		if err != nil {
			t.Fatalf("span %d: %v", days, err)
		}
		opt, err := Lookup(calc.Mode)
		if err != nil {
			t.Fatal(err)
		}
		// Ceiling rounding can add at most one point over the target.
		if calc.EstimatedPoints > opt.TargetPoints+1 {
			t.Errorf("span %d: estimated %d exceeds target %d",
				days, calc.EstimatedPoints, opt.TargetPoints)
		}
	}
}

func TestSelectResolutionClampsToAvailable(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}

	// Viewport reaching past the latest reading is trimmed to it.
	viewport := timerange.Range{Start: date(2023, 6, 1), End: date(2024, 6, 1)}
	calc, err := SelectResolution(viewport, available)
	if err != nil {
		t.Fatal(err)
	}
	if !calc.Clamped {
		t.Error("Expected Clamped=true for viewport past the available range")
	}
	if !calc.Viewport.End.Equal(available.End) {
		t.Errorf("Expected viewport end clamped to %v, got %v", available.End, calc.Viewport.End)
	}
	if calc.Mode != Mode1Year {
		t.Errorf("Expected mode=%s for 214 clamped days, got %s", Mode1Year, calc.Mode)
	}

	// Viewport inside the available range is untouched.
	inside := timerange.Range{Start: date(2023, 3, 1), End: date(2023, 3, 15)}
	calc, err = SelectResolution(inside, available)
	if err != nil {
		t.Fatal(err)
	}
	if calc.Clamped {
		t.Error("Expected Clamped=false for viewport inside the available range")
	}

	// Disjoint viewport keeps its requested bounds; there is nothing
	// sensible to clamp to.
	disjoint := timerange.Range{Start: date(2025, 1, 1), End: date(2025, 2, 1)}
	calc, err = SelectResolution(disjoint, available)
	if err != nil {
		t.Fatal(err)
	}
	if calc.Clamped || !calc.Viewport.Start.Equal(disjoint.Start) {
		t.Error("Expected disjoint viewport to pass through unchanged")
	}
}

func TestSelectResolutionIdempotent(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}
	viewport := timerange.Range{Start: date(2023, 6, 1), End: date(2024, 6, 1)}

	first, err := SelectResolution(viewport, available)
	if err != nil {
		t.Fatal(err)
	}
	second, err := SelectResolution(first.Viewport, available)
	if err != nil {
		t.Fatal(err)
	}

	if second.Mode != first.Mode {
		t.Errorf("Mode changed on recomputation: %s != %s", second.Mode, first.Mode)
	}
	if second.IntervalMinutes != first.IntervalMinutes {
		t.Errorf("Interval changed on recomputation: %v != %v",
			second.IntervalMinutes, first.IntervalMinutes)
	}
	if second.Clamped {
		t.Error("Recomputed viewport should no longer need clamping")
	}
}

func TestSelectResolutionInvalidInput(t *testing.T) {
	bad := timerange.Range{Start: date(2024, 3, 10), End: date(2024, 3, 1)}
	if _, err := SelectResolution(bad, timerange.Range{}); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for reversed viewport, got %v", err)
	}

	good := timerange.Range{Start: date(2024, 3, 1), End: date(2024, 3, 10)}
	if _, err := SelectResolution(good, bad); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for reversed available range, got %v", err)
	}
}

func TestIsModeSuitable(t *testing.T) {
	testCases := []struct {
		mode     Mode
		spanDays float64
		expected bool
	}{
		{Mode1Month, 20, true},
		{Mode1Month, 31, true},
		{Mode1Month, 31.5, false},
		{Mode1Year, 200, true},
		{Mode1Year, 400, false},
		{ModeFull, 100000, true},
	}

	for _, tc := range testCases {
		got, err := IsModeSuitable(tc.mode, tc.spanDays)
		if err != nil {
			t.Fatalf("IsModeSuitable(%s, %v) failed: %v", tc.mode, tc.spanDays, err)
		}
		if got != tc.expected {
			t.Errorf("IsModeSuitable(%s, %v): Expected %v, got %v",
				tc.mode, tc.spanDays, tc.expected, got)
		}
	}

	if _, err := IsModeSuitable("3months", 10); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}

func TestDefaultRangeForMode(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}

	r, err := DefaultRangeForMode(Mode1Month, available)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(date(2023, 12, 1)) || !r.End.Equal(available.End) {
		t.Errorf("Expected [2023-12-01, latest], got [%v, %v]", r.Start, r.End)
	}

	// The window never reaches before the earliest reading.
	r, err = DefaultRangeForMode(Mode1Year, available)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(available.Start) {
		t.Errorf("Expected start clamped to earliest, got %v", r.Start)
	}

	r, err = DefaultRangeForMode(ModeFull, available)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(available.Start) || !r.End.Equal(available.End) {
		t.Error("Expected full mode to return the whole available range")
	}

	if _, err := DefaultRangeForMode("3months", available); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}
