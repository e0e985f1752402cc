package handlers

import (
	"commhub/internal/services"
	"commhub/internal/utils"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves the device identity and the map view snapshot.
type SystemHandler struct {
	identityService services.IdentityService
	mapService      services.MapService
}

func NewSystemHandler(identityService services.IdentityService, mapService services.MapService) *SystemHandler {
	return &SystemHandler{
		identityService: identityService,
		mapService:      mapService,
	}
}

func (h *SystemHandler) GetIdentity(c *gin.Context) {
	username, err := h.identityService.Username(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Device identity", gin.H{"username": username})
}

func (h *SystemHandler) GetMap(c *gin.Context) {
	utils.SuccessResponse(c, "Map snapshot", h.mapService.Snapshot())
}
