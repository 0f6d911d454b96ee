package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/constants"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/ws"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/response"
)

// Live upgrades the request to a WebSocket subscription on the live feed.
// Optional dataset/well query parameters narrow which events the client sees.
func Live(c echo.Context) error {
	log := logger.WithScope("Live")

	dataset := c.QueryParam("dataset")
	if dataset != "" {
		if _, err := datasets.Resolve(dataset); err != nil {
			return failFromError(c, err)
		}
	}

	hub := ws.Get()
	if hub == nil {
		log.Error().Msg("Live hub not initialized")
		return response.FailWithCode(c, constants.CodeServiceUnavailable)
	}

	if err := hub.Serve(c.Response(), c.Request(), dataset, c.QueryParam("well")); err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return err
	}
	return nil
}
