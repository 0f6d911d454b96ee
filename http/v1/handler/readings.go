package handler

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/constants"
	readingsEntity "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/readings"
	readingsJob "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/jobs/readings"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/resolution"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/timeseries"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/asynq"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/response"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/utils"
)

// QueryReadings serves the viewport query: granularity selection, segment
// cache, navigation state
func QueryReadings(c echo.Context) error {
	var req readingsEntity.QueryRequest

	// Bind JSON into struct
	if err := c.Bind(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeInvalidJSON, err.Error())
	}

	// Validate using echo.Validator (with struct tags)
	if err := c.Validate(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeValidationFailed, err.Error())
	}

	dataset, err := datasets.Resolve(req.Dataset)
	if err != nil {
		return failFromError(c, err)
	}

	result, err := timeseries.Query(c.Request().Context(), dataset, timeseries.QueryRequest{
		WellNumber: req.WellNumber,
		Series:     req.Series,
		Range:      timerange.Range{Start: req.Start, End: req.End},
		MaxPoints:  req.MaxPoints,
		Mode:       resolution.Mode(req.Mode),
	})
	if err != nil {
		return failFromError(c, err)
	}

	return response.Success(c, result)
}

// NavigateReadings shifts the viewport one width left or right, then runs
// the same query flow at the shifted position
func NavigateReadings(c echo.Context) error {
	var req readingsEntity.NavigateRequest

	// Bind JSON into struct
	if err := c.Bind(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeInvalidJSON, err.Error())
	}

	// Validate using echo.Validator (with struct tags)
	if err := c.Validate(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeValidationFailed, err.Error())
	}

	dataset, err := datasets.Resolve(req.Dataset)
	if err != nil {
		return failFromError(c, err)
	}

	result, err := timeseries.Navigate(c.Request().Context(), dataset, timeseries.QueryRequest{
		WellNumber: req.WellNumber,
		Series:     req.Series,
		Range:      timerange.Range{Start: req.Start, End: req.End},
		MaxPoints:  req.MaxPoints,
		Mode:       resolution.Mode(req.Mode),
	}, req.Direction)
	if err != nil {
		return failFromError(c, err)
	}

	return response.Success(c, result)
}

// SamplingOptions lists every catalog rate that fits the budget for a
// viewport, for the "also available rates" picker
func SamplingOptions(c echo.Context) error {
	if _, err := datasets.Resolve(c.Param("dataset")); err != nil {
		return failFromError(c, err)
	}

	viewport, err := parseRangeParams(c)
	if err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeInvalidParameter, err.Error())
	}

	maxPoints := 0
	if raw := c.QueryParam("max_points"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &maxPoints); err != nil {
			return response.FailWithCodeAndMessage(c, constants.CodeInvalidParameter, "max_points must be an integer")
		}
	}

	options, err := timeseries.FeasibleSamplings(viewport, maxPoints)
	if err != nil {
		return failFromError(c, err)
	}

	data := map[string]interface{}{
		"well_number": c.Param("well"),
		"options":     options,
		"count":       len(options),
	}
	return response.Success(c, data)
}

// DefaultViewport returns the most recent window for a resolution mode,
// clamped to the well's stored extent
func DefaultViewport(c echo.Context) error {
	dataset, err := datasets.Resolve(c.Param("dataset"))
	if err != nil {
		return failFromError(c, err)
	}

	series := readingsEntity.Series(c.QueryParam("series"))
	if series == "" {
		series = readingsEntity.SeriesTransducer
	}

	mode := resolution.Mode(c.Param("mode"))
	viewport, available, err := timeseries.DefaultViewport(c.Request().Context(), dataset, c.Param("well"), series, mode)
	if err != nil {
		return failFromError(c, err)
	}

	data := map[string]interface{}{
		"well_number":     c.Param("well"),
		"mode":            mode,
		"series":          series,
		"viewport":        availableRangePayload(viewport),
		"available_range": availableRangePayload(available),
	}
	return response.Success(c, data)
}

// ImportReadings enqueues an ingestion job for a batch of readings
func ImportReadings(c echo.Context) error {
	var req readingsEntity.ImportRequest

	// set logger scope
	log := logger.WithScope("ImportReadings")

	// Bind JSON into struct
	if err := c.Bind(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeInvalidJSON, err.Error())
	}

	// Validate using echo.Validator (with struct tags)
	if err := c.Validate(&req); err != nil {
		return response.FailWithCodeAndMessage(c, constants.CodeValidationFailed, err.Error())
	}

	// Reject unknown datasets before enqueueing
	dataset, err := datasets.Resolve(req.Dataset)
	if err != nil {
		return failFromError(c, err)
	}

	// Auto-generate BatchID from request_id
	req.BatchID = constants.GetRequestID(c)
	if req.BatchID == "" {
		req.BatchID = fmt.Sprintf("req-%d-%08x", time.Now().Unix(), rand.Uint32())
	}

	jobID := generateImportJobId(&req)
	payload := asynq.Payload{
		TaskId:   jobID,
		TaskType: readingsJob.TypeReadingsImport,
		Data:     req,
	}

	if err := asynq.DispatchJob(&payload); err != nil {
		log.Error().
			Err(err).
			Str("dataset", dataset.ID).
			Str("well_number", req.WellNumber).
			Str("job_id", jobID).
			Msg("Failed to enqueue job")
		return response.FailWithCodeAndMessage(c, constants.CodeInternalError, "Failed to dispatch job")
	}

	data := map[string]interface{}{
		"message":     "Job dispatched!",
		"job_id":      jobID,
		"batch_id":    req.BatchID,
		"dataset":     dataset.ID,
		"well_number": req.WellNumber,
		"readings":    len(req.Readings),
		"timestamp":   utils.NowFormatted(),
	}
	return response.Accepted(c, data)
}

// generateImportJobId for unique jobid
func generateImportJobId(req *readingsEntity.ImportRequest) string {
	uniqueId := fmt.Sprintf("%s-%s-%s-%s-%d",
		req.Dataset,
		req.WellNumber,
		req.Series,
		req.BatchID,
		len(req.Readings),
	)
	hash := md5.Sum([]byte(uniqueId))
	return fmt.Sprintf("ri_%x", hash[:8])
}

// parseRangeParams reads RFC3339 start/end query parameters
func parseRangeParams(c echo.Context) (timerange.Range, error) {
	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return timerange.Range{}, fmt.Errorf("invalid start: %v", err)
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return timerange.Range{}, fmt.Errorf("invalid end: %v", err)
	}
	return timerange.Range{Start: start, End: end}, nil
}
