package route

import (
	"github.com/labstack/echo/v4"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/middleware"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/registry"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/v1/handler"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/auth"
)

// init registers the dataset browsing, viewport query, and ingestion routes
func init() {
	registry.Register("v1", func(g *echo.Group) {
		g.GET("/datasets", handler.ListDatasets)

		ds := g.Group("/datasets/:dataset")

		// public read path for the dashboard
		ds.GET("/wells", handler.ListWells)
		ds.GET("/wells/:well", handler.DetailWell)
		ds.GET("/wells/:well/sampling-options", handler.SamplingOptions)
		ds.GET("/wells/:well/viewport/:mode", handler.DefaultViewport)
		ds.POST("/readings/query", handler.QueryReadings)
		ds.POST("/readings/navigate", handler.NavigateReadings)

		// JWT protected write path
		importProtected := ds.Group("")
		importProtected.Use(middleware.JWTAuthMiddleware(auth.ActionCreate + ":readings"))
		importProtected.POST("/readings/import", handler.ImportReadings)

		upsertProtected := ds.Group("")
		upsertProtected.Use(middleware.JWTAuthMiddleware(auth.ActionUpdate + ":wells"))
		upsertProtected.PUT("/wells/:well", handler.UpsertWell)
	})
}
