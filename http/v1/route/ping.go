package route

import (
	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/registry"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/v1/handler"
)

// init registers v1 ping routes with the registry
func init() {
	registry.Register("v1", func(g *echo.Group) {
		g.GET("/ping", handler.Ping)
		g.POST("/ping", handler.PingPost)
	})
}
