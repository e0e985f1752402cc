package routes

import (
	"commhub/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupLocationRoutes sets up routes for the location provider
func SetupLocationRoutes(r *gin.RouterGroup, locationHandler *handlers.LocationHandler) {
	location := r.Group("/location")
	{
		location.GET("/", locationHandler.GetLocation)
		location.GET("/await", locationHandler.AwaitFix)
		location.POST("/position", locationHandler.ReportPosition)
		location.POST("/error", locationHandler.ReportSensorError)
		location.POST("/manual", locationHandler.SetManualCoordinates)
		location.POST("/search", locationHandler.SearchPlace)
		location.POST("/mode", locationHandler.SetMode)
	}
}

// SetupSystemRoutes sets up identity and map view routes
func SetupSystemRoutes(r *gin.RouterGroup, systemHandler *handlers.SystemHandler) {
	r.GET("/identity", systemHandler.GetIdentity)
	r.GET("/map", systemHandler.GetMap)
}
