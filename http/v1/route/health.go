package route

import (
	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/registry"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/v1/handler"
)

// init registers v1 health check routes with the registry
func init() {
	registry.Register("v1", func(g *echo.Group) {
		g.GET("/health/live", handler.HealthLive)   // Liveness probe
		g.GET("/health/ready", handler.HealthReady) // Readiness probe
		g.GET("/health", handler.HealthDetailed)    // Full detail
	})
}
