package sampling

import (
	"errors"
	"fmt"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

// ErrInvalidBudget indicates a non-positive point budget.
var ErrInvalidBudget = errors.New("point budget must be positive")

// Calculation is the outcome of selecting a sampling rate for a viewport
// under a point budget. It is derived per query, never stored.
type Calculation struct {
	Rate            Rate   `json:"rate"`
	Label           string `json:"label"`
	IntervalMinutes int    `json:"interval_minutes"`
	EstimatedPoints int    `json:"estimated_points"`
	TimeSpanDays    int    `json:"time_span_days"`
	MaxPoints       int    `json:"max_points"`

	// UpgradeFromCoarsest is true whenever a finer rate than the catalog's
	// coarsest tier was selected.
	UpgradeFromCoarsest bool `json:"upgrade_from_coarsest"`

	// BudgetExceeded marks the fallback case where even the coarsest tier
	// overruns the budget. The coarsest rate is still returned so callers
	// always get something usable; they decide whether to clamp further.
	BudgetExceeded bool `json:"budget_exceeded,omitempty"`
}

// SelectBestSampling walks the catalog finest to coarsest and returns the
// first rate whose estimated point count fits within maxPoints for the given
// range. The span is rounded up to whole days, so a partial trailing day
// still counts against the budget. When no tier fits, the coarsest tier is
// returned with BudgetExceeded set rather than failing outright.
func SelectBestSampling(r timerange.Range, maxPoints int) (Calculation, error) {
	if err := r.Validate(); err != nil {
		return Calculation{}, err
	}
	if maxPoints <= 0 {
		return Calculation{}, fmt.Errorf("%w: got %d", ErrInvalidBudget, maxPoints)
	}

	days := r.CeilDays()
	for _, opt := range catalog {
		estimated := days * opt.PointsPerDay
		if estimated <= maxPoints {
			return newCalculation(opt, days, estimated, maxPoints, false), nil
		}
	}

	// Budget smaller than even one point per day over the span. Fall back to
	// the coarsest tier; the caller sees BudgetExceeded and owns any further
	// clamping.
	coarsest := Coarsest()
	return newCalculation(coarsest, days, days*coarsest.PointsPerDay, maxPoints, true), nil
}

// ListFeasibleSamplings returns every rate whose estimated point count fits
// within maxPoints for the range, ordered finest to coarsest. The list can
// be empty; it backs the "also available" rate picker, where the fallback
// tier would be misleading.
func ListFeasibleSamplings(r timerange.Range, maxPoints int) ([]Calculation, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if maxPoints <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, maxPoints)
	}

	days := r.CeilDays()
	var feasible []Calculation
	for _, opt := range catalog {
		estimated := days * opt.PointsPerDay
		if estimated <= maxPoints {
			feasible = append(feasible, newCalculation(opt, days, estimated, maxPoints, false))
		}
	}
	return feasible, nil
}

func newCalculation(opt Option, days, estimated, maxPoints int, exceeded bool) Calculation {
	return Calculation{
		Rate:                opt.Rate,
		Label:               opt.Label,
		IntervalMinutes:     opt.IntervalMinutes,
		EstimatedPoints:     estimated,
		TimeSpanDays:        days,
		MaxPoints:           maxPoints,
		UpgradeFromCoarsest: opt.Rate != Coarsest().Rate,
		BudgetExceeded:      exceeded,
	}
}
