package sampling

import (
	"errors"
	"testing"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

func dayRange(t *testing.T, days int) timerange.Range {
	t.Helper()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r, err := timerange.New(start, start.AddDate(0, 0, days))
	if err != nil {
		t.Fatalf("building %d-day range: %v", days, err)
	}
	return r
}

func TestCatalogOrdering(t *testing.T) {
	opts := Catalog()
	if len(opts) != 4 {
		t.Fatalf("Expected 4 catalog options, got %d", len(opts))
	}

	// Finest to coarsest, strictly increasing interval.
	for i := 1; i < len(opts); i++ {
		if opts[i].IntervalMinutes <= opts[i-1].IntervalMinutes {
			t.Errorf("Catalog not ordered finest to coarsest at %d: %d <= %d",
				i, opts[i].IntervalMinutes, opts[i-1].IntervalMinutes)
		}
	}

	if Finest().Rate != Rate15Min {
		t.Errorf("Expected finest=%s, got %s", Rate15Min, Finest().Rate)
	}
	if Coarsest().Rate != RateDaily {
		t.Errorf("Expected coarsest=%s, got %s", RateDaily, Coarsest().Rate)
	}
}

func TestCatalogPointsPerDay(t *testing.T) {
	// PointsPerDay must agree with the interval; a mismatch would skew
	// every budget estimate.
	for _, opt := range Catalog() {
		expected := (24 * 60) / opt.IntervalMinutes
		if opt.PointsPerDay != expected {
			t.Errorf("%s: Expected PointsPerDay=%d, got %d", opt.Rate, expected, opt.PointsPerDay)
		}
	}
}

func TestLookup(t *testing.T) {
	opt, err := Lookup(Rate6Hour)
	if err != nil {
		t.Fatalf("Lookup(%s) failed: %v", Rate6Hour, err)
	}
	if opt.IntervalMinutes != 360 || opt.PointsPerDay != 4 {
		t.Errorf("Expected 360min/4pts, got %dmin/%dpts", opt.IntervalMinutes, opt.PointsPerDay)
	}

	if _, err := Lookup("30min"); !errors.Is(err, ErrUnknownRate) {
		t.Errorf("Expected ErrUnknownRate for unknown rate, got %v", err)
	}

	if IsValid("1hour") != true {
		t.Error("Expected 1hour to be valid")
	}
	if IsValid("weekly") {
		t.Error("Expected weekly to be invalid")
	}
}

func TestSelectBestSampling(t *testing.T) {
	testCases := []struct {
		name           string
		days           int
		maxPoints      int
		expectedRate   Rate
		expectedPoints int
		expectUpgrade  bool
		expectExceeded bool
	}{
		{"short range gets finest", 10, 1500, Rate15Min, 960, true, false},
		{"15min exactly at budget", 15, 1440, Rate15Min, 1440, true, false},
		{"one day over pushes to hourly", 16, 1500, RateHourly, 384, true, false},
		{"quarter year lands on 6hour", 100, 1500, Rate6Hour, 400, true, false},
		{"full year lands on 6hour", 366, 1500, Rate6Hour, 1464, true, false},
		{"multi year falls to daily", 1000, 1500, RateDaily, 1000, false, false},
		{"tight budget still answers", 400, 100, RateDaily, 400, false, true},
		{"budget of one point", 1, 1, RateDaily, 1, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calc, err := SelectBestSampling(dayRange(t, tc.days), tc.maxPoints)
			if err != nil {
				t.Fatalf("SelectBestSampling failed: %v", err)
			}
			if calc.Rate != tc.expectedRate {
				t.Errorf("Expected rate=%s, got %s", tc.expectedRate, calc.Rate)
			}
			if calc.EstimatedPoints != tc.expectedPoints {
				t.Errorf("Expected points=%d, got %d", tc.expectedPoints, calc.EstimatedPoints)
			}
			if calc.TimeSpanDays != tc.days {
				t.Errorf("Expected span=%d days, got %d", tc.days, calc.TimeSpanDays)
			}
			if calc.UpgradeFromCoarsest != tc.expectUpgrade {
				t.Errorf("Expected upgrade=%v, got %v", tc.expectUpgrade, calc.UpgradeFromCoarsest)
			}
			if calc.BudgetExceeded != tc.expectExceeded {
				t.Errorf("Expected exceeded=%v, got %v", tc.expectExceeded, calc.BudgetExceeded)
			}
		})
	}
}

func TestSelectBestSamplingZeroSpan(t *testing.T) {
	// An instant still counts as one day so the finest rate applies.
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r, err := timerange.New(at, at)
	if err != nil {
		t.Fatalf("zero-span range should be valid: %v", err)
	}

	calc, err := SelectBestSampling(r, 1500)
	if err != nil {
		t.Fatalf("SelectBestSampling failed: %v", err)
	}
	if calc.TimeSpanDays != 1 {
		t.Errorf("Expected span=1 day, got %d", calc.TimeSpanDays)
	}
	if calc.Rate != Rate15Min {
		t.Errorf("Expected rate=%s, got %s", Rate15Min, calc.Rate)
	}
	if calc.EstimatedPoints != 96 {
		t.Errorf("Expected points=96, got %d", calc.EstimatedPoints)
	}
}

func TestSelectBestSamplingPartialDay(t *testing.T) {
	// 10 days plus one hour rounds up to 11 days.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r, err := timerange.New(start, start.AddDate(0, 0, 10).Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	calc, err := SelectBestSampling(r, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if calc.TimeSpanDays != 11 {
		t.Errorf("Expected span=11 days, got %d", calc.TimeSpanDays)
	}
	if calc.EstimatedPoints != 11*96 {
		t.Errorf("Expected points=%d, got %d", 11*96, calc.EstimatedPoints)
	}
}

func TestSelectBestSamplingInvalidInput(t *testing.T) {
	if _, err := SelectBestSampling(dayRange(t, 10), 0); !errors.Is(err, ErrInvalidBudget) {
		t.Errorf("Expected ErrInvalidBudget for zero budget, got %v", err)
	}
	if _, err := SelectBestSampling(dayRange(t, 10), -5); !errors.Is(err, ErrInvalidBudget) {
		t.Errorf("Expected ErrInvalidBudget for negative budget, got %v", err)
	}

	bad := timerange.Range{
		Start: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := SelectBestSampling(bad, 1500); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for reversed range, got %v", err)
	}
}

func TestListFeasibleSamplings(t *testing.T) {
	// 100 days under a 1500-point budget: 15min=9600 and 1hour=2400 are out,
	// 6hour=400 and daily=100 fit.
	feasible, err := ListFeasibleSamplings(dayRange(t, 100), 1500)
	if err != nil {
		t.Fatalf("ListFeasibleSamplings failed: %v", err)
	}
	if len(feasible) != 2 {
		t.Fatalf("Expected 2 feasible rates, got %d", len(feasible))
	}
	if feasible[0].Rate != Rate6Hour || feasible[1].Rate != RateDaily {
		t.Errorf("Expected [6hour daily], got [%s %s]", feasible[0].Rate, feasible[1].Rate)
	}
	for _, calc := range feasible {
		if calc.BudgetExceeded {
			t.Errorf("Feasible rate %s should never be flagged as exceeded", calc.Rate)
		}
	}
}

func TestListFeasibleSamplingsMonotonic(t *testing.T) {
	// A larger budget never shrinks the feasible set.
	r := dayRange(t, 50)
	previous := -1
	for _, budget := range []int{10, 100, 500, 2000, 10000} {
		feasible, err := ListFeasibleSamplings(r, budget)
		if err != nil {
			t.Fatalf("budget %d: %v", budget, err)
		}
		if len(feasible) < previous {
			t.Errorf("Feasible set shrank from %d to %d at budget %d", previous, len(feasible), budget)
		}
		previous = len(feasible)
	}
}

func TestListFeasibleSamplingsEmpty(t *testing.T) {
	// 400 days with a 100-point budget: even daily needs 400 points.
	feasible, err := ListFeasibleSamplings(dayRange(t, 400), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(feasible) != 0 {
		t.Errorf("Expected empty feasible set, got %d entries", len(feasible))
	}
}

func TestCatalogIsCopy(t *testing.T) {
	opts := Catalog()
	opts[0].PointsPerDay = 9999

	fresh := Catalog()
	if fresh[0].PointsPerDay == 9999 {
		t.Error("Catalog() must return a copy, caller mutation leaked into the table")
	}
}
