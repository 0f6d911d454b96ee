package handler

import (
	"crypto/md5"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/constants"
	readingsEntity "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/readings"
	wellsEntity "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/wells"
	wellsJob "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/jobs/wells"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/timeseries"
	wellsService "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/wells"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/asynq"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/response"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/utils"
)

// ListWells returns the wells of a dataset, filterable by aquifer, well
// field, and series type
func ListWells(c echo.Context) error {
	dataset, err := datasets.Resolve(c.Param("dataset"))
	if err != nil {
		return failFromError(c, err)
	}

	filter := wellsService.ListFilter{
		Aquifer:   c.QueryParam("aquifer"),
		WellField: c.QueryParam("well_field"),
		DataType:  c.QueryParam("data_type"),
	}

	list, err := wellsService.List(dataset, filter)
	if err != nil {
		return failFromError(c, err)
	}

	data := map[string]interface{}{
		"dataset": dataset.ID,
		"wells":   list,
		"count":   len(list),
	}
	return response.Success(c, data)
}

// DetailWell returns one well's metadata plus the stored extent of its
// primary series, which the dashboard needs before the first viewport query
func DetailWell(c echo.Context) error {
	dataset, err := datasets.Resolve(c.Param("dataset"))
	if err != nil {
		return failFromError(c, err)
	}

	well, err := wellsService.Get(dataset, c.Param("well"))
	if err != nil {
		return failFromError(c, err)
	}

	data := map[string]interface{}{
		"dataset": dataset.ID,
		"well":    well,
	}

	// The available range is advisory here; a well with metadata but no
	// readings yet still has a detail page.
	series := readingsEntity.Series(well.DataType)
	if series.IsValid() {
		if available, err := timeseries.AvailableRange(c.Request().Context(), dataset, well.WellNumber, series); err == nil {
			data["available_range"] = availableRangePayload(available)
		}
	}

	return response.Success(c, data)
}

// UpsertWell enqueues a well metadata upsert job
func UpsertWell(c echo.Context) error {
	var req wellsEntity.UpsertRequest

	// set logger scope
	log := logger.WithScope("UpsertWell")

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

	jobID := generateWellSyncJobId(&req)
	payload := asynq.Payload{
		TaskId:   jobID,
		TaskType: wellsJob.TypeWellsSync,
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
		"dataset":     dataset.ID,
		"well_number": req.WellNumber,
		"timestamp":   utils.NowFormatted(),
	}
	return response.Accepted(c, data)
}

// generateWellSyncJobId derives a stable job id so duplicate submissions of
// the same upsert dedupe in the queue
func generateWellSyncJobId(req *wellsEntity.UpsertRequest) string {
	uniqueId := fmt.Sprintf("%s-%s-%s-%s",
		req.Dataset,
		req.WellNumber,
		req.DataType,
		req.Name,
	)
	hash := md5.Sum([]byte(uniqueId))
	return fmt.Sprintf("ws_%x", hash[:8])
}

// availableRangePayload renders a stored extent for responses
func availableRangePayload(r timerange.Range) map[string]interface{} {
	return map[string]interface{}{
		"start":     r.Start,
		"end":       r.End,
		"span_days": r.SpanDays(),
	}
}
