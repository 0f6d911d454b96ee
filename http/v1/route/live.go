package route

import (
	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/registry"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/v1/handler"
)

func init() {
	// Register the live feed WebSocket for v1
	registry.Register("v1", func(g *echo.Group) {
		g.GET("/live", handler.Live)
	})
}
