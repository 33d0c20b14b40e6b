// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/opc-go/internal/application/container"
	"github.com/AtRiskMedia/opc-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/opc-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/opc-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestMiddleware(container.Logger, container.PerfTracker))
	r.Use(middleware.CORSMiddleware(config.CORSAllowOrigins))

	if container.Images != nil && container.Images.Root() != "" {
		r.Static(config.MediaURLPrefix, container.Images.Root())
	}

	portletHandlers := handlers.NewPortletHandlers(container.PortletService, container.Logger, container.PerfTracker)
	blueprintHandlers := handlers.NewBlueprintHandlers(container.BlueprintService, container.Logger, container.PerfTracker)
	systemHandlers := handlers.NewSystemHandlers(container.DB, container.FragmentCache, container.Logger, container.PerfTracker)

	r.GET("/health", systemHandlers.GetHealth)

	api := r.Group("/api/v1/opc")
	{
		api.GET("/portlets", portletHandlers.GetPortlets)
		api.GET("/portlets/:class", portletHandlers.GetPortlet)

		render := api.Group("/render")
		{
			render.POST("/preview", portletHandlers.PostRenderPreview)
			render.POST("/final", portletHandlers.PostRenderFinal)
			render.POST("/preview/areas/:area", portletHandlers.PostRenderAreaPreview)
			render.POST("/final/areas/:area", portletHandlers.PostRenderAreaFinal)
		}

		if container.BlueprintService != nil {
			blueprints := api.Group("/blueprints")
			{
				blueprints.GET("", blueprintHandlers.GetBlueprints)
				blueprints.POST("", blueprintHandlers.PostBlueprint)
				blueprints.GET("/:id", blueprintHandlers.GetBlueprint)
				blueprints.DELETE("/:id", blueprintHandlers.DeleteBlueprint)
				blueprints.GET("/:id/instance", blueprintHandlers.GetBlueprintInstance)
				blueprints.GET("/:id/final", blueprintHandlers.GetBlueprintFinal)
			}
		}

		api.GET("/stats", systemHandlers.GetStats)
		api.POST("/logs/levels", systemHandlers.PostLogLevel)
	}

	return r
}
