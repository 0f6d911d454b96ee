// Package timeseries answers viewport queries for the dashboard: it picks a
// granularity with the resolution core, serves day-aligned segments from the
// segment cache, and fetches from InfluxDB only on a miss.
package timeseries

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/readings"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/navigation"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/resolution"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/sampling"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/segment"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
	v2oss "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb/v2-oss"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/redis"
)

// ErrNoData indicates a well with no stored readings for the requested
// series, or a viewport that does not overlap the stored extent.
var ErrNoData = errors.New("no readings in the requested range")

// ErrInvalidSeries indicates an unrecognized series identifier.
var ErrInvalidSeries = errors.New("invalid reading series")

const (
	// availRangeTTL bounds how stale the cached earliest/latest extent may
	// get between imports. Imports invalidate eagerly; the TTL covers
	// writes that bypass the import job.
	availRangeTTL     = 5 * time.Minute
	availRangeEntries = 1024
)

var (
	store      segment.Store[[]readings.Response]
	availCache *expirable.LRU[string, timerange.Range]
	log        *logger.ScopedLogger
)

type (
	// QueryRequest is a viewport query for one well. MaxPoints selects
	// budget-driven sampling; Mode forces a resolution mode. With neither,
	// the resolution selector picks a mode from the span.
	QueryRequest struct {
		WellNumber string
		Series     readings.Series
		Range      timerange.Range
		MaxPoints  int
		Mode       resolution.Mode
	}

	// QueryResult carries the readings plus the calculations the dashboard
	// needs to label the chart and wire the pan/zoom controls.
	QueryResult struct {
		Readings    []readings.Response     `json:"readings"`
		Sampling    *sampling.Calculation   `json:"sampling,omitempty"`
		Resolution  *resolution.Calculation `json:"resolution,omitempty"`
		Navigation  navigation.State        `json:"navigation"`
		Available   timerange.Range         `json:"available_range"`
		Granularity string                  `json:"granularity"`
		CacheHit    bool                    `json:"cache_hit"`
	}
)

// Init builds the segment cache backend selected by config and the
// available-range cache.
func Init() error {
	log = logger.WithScope("timeseries")
	cfg := config.Get()

	ttl := 15 * time.Minute
	if cfg.Cache.TTL != "" {
		parsed, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", cfg.Cache.TTL, err)
		}
		ttl = parsed
	}

	maxEntries := cfg.Cache.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 256
	}

	switch cfg.Cache.Backend {
	case "redis":
		client, err := redis.NewClientForSegments()
		if err != nil {
			return fmt.Errorf("failed to create segment cache backend: %w", err)
		}
		store = segment.NewRedisCache[[]readings.Response](client, ttl)
	case "", "memory":
		mem, err := segment.NewMemoryCache[[]readings.Response](maxEntries, ttl)
		if err != nil {
			return err
		}
		store = mem
	default:
		return fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	availCache = expirable.NewLRU[string, timerange.Range](availRangeEntries, nil, availRangeTTL)

	log.Info().
		Str("backend", cfg.Cache.Backend).
		Dur("ttl", ttl).
		Msg("Timeseries service initialized")
	return nil
}

// Query runs the full viewport flow: granularity selection, segment cache
// lookup, fetch on miss, crop, navigation state.
func Query(ctx context.Context, dataset config.DatasetConfig, req QueryRequest) (*QueryResult, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	if !req.Series.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeries, req.Series)
	}

	available, err := AvailableRange(ctx, dataset, req.WellNumber, req.Series)
	if err != nil {
		return nil, err
	}

	viewport, ok := req.Range.Intersect(available)
	if !ok {
		return nil, fmt.Errorf("%w: viewport outside stored extent", ErrNoData)
	}

	result := &QueryResult{Available: available}
	var intervalMinutes float64

	if req.MaxPoints > 0 {
		calc, err := sampling.SelectBestSampling(viewport, clampBudget(req.MaxPoints))
		if err != nil {
			return nil, err
		}
		result.Sampling = &calc
		result.Granularity = string(calc.Rate)
		intervalMinutes = float64(calc.IntervalMinutes)
	} else if req.Mode != "" {
		if _, err := resolution.Lookup(req.Mode); err != nil {
			return nil, err
		}
		calc, err := resolution.SelectResolution(viewport, available)
		if err != nil {
			return nil, err
		}
		opt, _ := resolution.Lookup(req.Mode)
		calc = forceMode(calc, opt)
		result.Resolution = &calc
		result.Granularity = string(opt.Mode)
		intervalMinutes = calc.IntervalMinutes
	} else {
		calc, err := resolution.SelectResolution(viewport, available)
		if err != nil {
			return nil, err
		}
		result.Resolution = &calc
		result.Granularity = string(calc.Mode)
		intervalMinutes = calc.IntervalMinutes
	}

	fetch := dayAligned(viewport)
	key := segment.NewKey(cacheWellID(dataset.ID, req.WellNumber, req.Series), fetch, result.Granularity)

	rows, hit := store.Get(ctx, key)
	if !hit {
		rows, err = fetchSegment(dataset.Bucket, req, fetch, intervalMinutes)
		if err != nil {
			return nil, err
		}
		if err := store.Set(ctx, key, rows); err != nil {
			log.Warn().Err(err).Str("key", key.String()).Msg("Failed to cache segment")
		}
	}
	result.CacheHit = hit
	result.Readings = crop(rows, viewport)

	state, err := navigation.ComputeState(viewport, available)
	if err != nil {
		return nil, err
	}
	result.Navigation = state

	return result, nil
}

// Navigate shifts the viewport one width left or right and reruns the query
// flow at the shifted position. A shift past the stored extent surfaces
// navigation.ErrOutOfBounds untouched so the UI can disable the control.
func Navigate(ctx context.Context, dataset config.DatasetConfig, req QueryRequest, direction string) (*QueryResult, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}

	available, err := AvailableRange(ctx, dataset, req.WellNumber, req.Series)
	if err != nil {
		return nil, err
	}

	var shifted timerange.Range
	switch direction {
	case "left":
		shifted, err = navigation.ShiftLeft(req.Range, available)
	case "right":
		shifted, err = navigation.ShiftRight(req.Range, available)
	default:
		return nil, fmt.Errorf("%w: direction %q", navigation.ErrInvalidZoom, direction)
	}
	if err != nil {
		return nil, err
	}

	req.Range = shifted
	return Query(ctx, dataset, req)
}

// FeasibleSamplings lists every catalog rate that fits the budget for the
// viewport, for the "also available" rate picker.
func FeasibleSamplings(viewport timerange.Range, maxPoints int) ([]sampling.Calculation, error) {
	return sampling.ListFeasibleSamplings(viewport, clampBudget(maxPoints))
}

// DefaultViewport returns the most recent window for a resolution mode,
// clamped to the well's stored extent.
func DefaultViewport(ctx context.Context, dataset config.DatasetConfig, wellNumber string, series readings.Series, mode resolution.Mode) (timerange.Range, timerange.Range, error) {
	available, err := AvailableRange(ctx, dataset, wellNumber, series)
	if err != nil {
		return timerange.Range{}, timerange.Range{}, err
	}
	viewport, err := resolution.DefaultRangeForMode(mode, available)
	if err != nil {
		return timerange.Range{}, timerange.Range{}, err
	}
	return viewport, available, nil
}

// AvailableRange returns the earliest/latest stored timestamps for a well's
// series, cached briefly since every viewport interaction needs it.
func AvailableRange(_ context.Context, dataset config.DatasetConfig, wellNumber string, series readings.Series) (timerange.Range, error) {
	if !series.IsValid() {
		return timerange.Range{}, fmt.Errorf("%w: %q", ErrInvalidSeries, series)
	}

	cacheKey := cacheWellID(dataset.ID, wellNumber, series)
	if availCache != nil {
		if cached, ok := availCache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	client, err := v2Client()
	if err != nil {
		return timerange.Range{}, err
	}

	qb := v2oss.NewQueryBuilder(readings.QueryConfigFor(series))
	coverage, err := qb.GetCoverage(wellNumber, dataset.Bucket, client)
	if err != nil {
		return timerange.Range{}, fmt.Errorf("coverage probe failed for well %s: %w", wellNumber, err)
	}
	if coverage == nil {
		return timerange.Range{}, fmt.Errorf("%w: well %s has no %s readings", ErrNoData, wellNumber, series)
	}

	available := timerange.Range{Start: coverage.Earliest, End: coverage.Latest}
	if availCache != nil {
		availCache.Add(cacheKey, available)
	}
	return available, nil
}

// InvalidateAvailableRange drops the cached extent for a well's series,
// called by the import job after new readings land.
func InvalidateAvailableRange(datasetID, wellNumber string, series readings.Series) {
	if availCache != nil {
		availCache.Remove(cacheWellID(datasetID, wellNumber, series))
	}
}

// forceMode rewrites a selector calculation for an explicitly requested
// mode. The selector's refined interval survives when it is coarser than
// the mode's default; the point estimate is re-derived from whichever
// interval wins so the two never disagree.
func forceMode(calc resolution.Calculation, opt resolution.Option) resolution.Calculation {
	if float64(opt.IntervalMinutes) > calc.IntervalMinutes {
		calc.IntervalMinutes = float64(opt.IntervalMinutes)
		calc.EstimatedPoints = int(math.Ceil(calc.TimeSpanDays * 1440 / calc.IntervalMinutes))
	}
	calc.Mode = opt.Mode
	calc.Label = opt.Label
	return calc
}

// fetchSegment pulls one day-aligned block from InfluxDB at the chosen
// aggregation interval.
func fetchSegment(bucket string, req QueryRequest, fetch timerange.Range, intervalMinutes float64) ([]readings.Response, error) {
	client, err := v2Client()
	if err != nil {
		return nil, err
	}

	qb := v2oss.NewQueryBuilder(readings.QueryConfigFor(req.Series))
	rows, err := qb.ExecuteWindowQuery(&v2oss.WindowRequest{
		WellNumber:      req.WellNumber,
		Start:           fetch.Start,
		Stop:            fetch.End,
		IntervalMinutes: intervalMinutes,
		Aggregate:       "mean",
	}, bucket, client)
	if err != nil {
		return nil, fmt.Errorf("segment fetch failed for well %s: %w", req.WellNumber, err)
	}

	out := make([]readings.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, readings.MapToResponse(row))
	}
	return out, nil
}

// v2Client returns the active v2-oss client; the Flux query path requires it.
func v2Client() (*v2oss.Client, error) {
	client, ok := influxdb.GetCurrentClient().(*v2oss.Client)
	if !ok || client == nil {
		return nil, fmt.Errorf("influxdb v2-oss client not initialized")
	}
	return client, nil
}

// clampBudget keeps request budgets under the configured ceiling. The
// default budget applies when the caller sends none.
func clampBudget(maxPoints int) int {
	cfg := config.Get()
	if cfg == nil {
		return maxPoints
	}
	if maxPoints <= 0 && cfg.Sampling.MaxPoints > 0 {
		return cfg.Sampling.MaxPoints
	}
	if cfg.Sampling.MaxPointsCeiling > 0 && maxPoints > cfg.Sampling.MaxPointsCeiling {
		return cfg.Sampling.MaxPointsCeiling
	}
	return maxPoints
}

// cacheWellID composes the well component of a segment key. Colons keep the
// parts apart without colliding with the key codec's underscore delimiter.
func cacheWellID(datasetID, wellNumber string, series readings.Series) string {
	well := strings.ReplaceAll(wellNumber, "_", "-")
	return datasetID + ":" + well + ":" + string(series)
}

// dayAligned widens a viewport to UTC calendar-day bounds so sub-day pans on
// the same days reuse one cached segment, matching the key codec's day
// precision.
func dayAligned(viewport timerange.Range) timerange.Range {
	start := viewport.Start.UTC().Truncate(24 * time.Hour)
	end := viewport.End.UTC().Truncate(24 * time.Hour)
	if end.Before(viewport.End.UTC()) || end.Equal(start) {
		end = end.Add(24 * time.Hour)
	}
	return timerange.Range{Start: start, End: end}
}

// crop trims a day-aligned segment back to the requested viewport.
func crop(rows []readings.Response, viewport timerange.Range) []readings.Response {
	out := make([]readings.Response, 0, len(rows))
	for _, row := range rows {
		if row.Timestamp.Before(viewport.Start) || row.Timestamp.After(viewport.End) {
			continue
		}
		out = append(out, row)
	}
	return out
}
