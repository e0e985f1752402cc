package routes

import (
	"commhub/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSOSRoutes sets up routes for SOS alert functionality
func SetupSOSRoutes(r *gin.RouterGroup, sosHandler *handlers.SOSHandler) {
	sos := r.Group("/sos")
	{
		sos.POST("/", sosHandler.RaiseSOS)
		sos.GET("/", sosHandler.ListSOS)
		sos.POST("/:id/resolve", sosHandler.ResolveSOS)
		sos.POST("/:id/view", sosHandler.ViewSOSOnMap)
	}
}
