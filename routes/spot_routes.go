package routes

import (
	"commhub/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSpotRoutes sets up routes for green spot functionality
func SetupSpotRoutes(r *gin.RouterGroup, spotHandler *handlers.SpotHandler) {
	spots := r.Group("/spots")
	{
		spots.POST("/", spotHandler.CreateSpot)
		spots.GET("/", spotHandler.ListSpots)
	}
}
