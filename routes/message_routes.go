package routes

import (
	"commhub/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupMessageRoutes sets up routes for chat functionality
func SetupMessageRoutes(r *gin.RouterGroup, messageHandler *handlers.MessageHandler) {
	messages := r.Group("/messages")
	{
		messages.POST("/", messageHandler.SendMessage)
		messages.GET("/", messageHandler.ListMessages)
	}
}
