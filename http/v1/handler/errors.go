package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/constants"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/navigation"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/resolution"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/sampling"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/segment"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/timeseries"
	wellsService "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/wells"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/response"
)

// failFromError maps domain sentinel errors onto the error-code table so
// every endpoint reports the same code for the same failure.
func failFromError(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, timerange.ErrDegenerateRange):
		code = constants.CodeDegenerateRange
	case errors.Is(err, sampling.ErrInvalidBudget):
		code = constants.CodeInvalidBudget
	case errors.Is(err, sampling.ErrUnknownRate),
		errors.Is(err, resolution.ErrUnknownMode):
		code = constants.CodeGranularityNotFound
	case errors.Is(err, navigation.ErrOutOfBounds):
		code = constants.CodeOutOfBounds
	case errors.Is(err, navigation.ErrInvalidZoom):
		code = constants.CodeInvalidParameter
	case errors.Is(err, timeseries.ErrNoData):
		code = constants.CodeNoData
	case errors.Is(err, timeseries.ErrInvalidSeries):
		code = constants.CodeInvalidParameter
	case errors.Is(err, segment.ErrInvalidKey):
		code = constants.CodeInvalidCacheKey
	case errors.Is(err, datasets.ErrNotFound):
		code = constants.CodeDatasetNotFound
	case errors.Is(err, wellsService.ErrNotFound):
		code = constants.CodeWellNotFound
	default:
		code = constants.CodeInternalError
	}
	return response.FailWithCodeAndMessage(c, code, err.Error())
}
