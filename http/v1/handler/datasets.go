package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/response"
)

// ListDatasets returns the configured monitoring datasets
func ListDatasets(c echo.Context) error {
	data := map[string]interface{}{
		"datasets": datasets.List(),
	}
	return response.Success(c, data)
}
