package handlers

import (
	"errors"

	"commhub/internal/services"
	"commhub/internal/utils"
	"commhub/internal/validators"
	ws "commhub/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type SpotHandler struct {
	spotService services.SpotService
	mapService  services.MapService
	publisher   services.Publisher
}

func NewSpotHandler(spotService services.SpotService, mapService services.MapService, publisher services.Publisher) *SpotHandler {
	return &SpotHandler{
		spotService: spotService,
		mapService:  mapService,
		publisher:   publisher,
	}
}

// CreateSpot adds a green spot at the currently resolved coordinate.
func (h *SpotHandler) CreateSpot(c *gin.Context) {
	var request services.CreateSpotRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	spot, spots, err := h.spotService.Create(c.Request.Context(), &request)
	if err != nil {
		var validationErrs validators.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			utils.ValidationErrorResponse(c, validationErrs.ToMap())
		case errors.Is(err, services.ErrLocationNotResolved):
			utils.PreconditionFailedResponse(c, "LOCATION_REQUIRED", utils.ErrLocationNotSet)
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	h.mapService.RebuildSpots(spots)
	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventSpots, spots)
	}

	utils.CreatedResponse(c, "Green spot added successfully", spot)
}

// ListSpots returns every green spot in insertion order.
func (h *SpotHandler) ListSpots(c *gin.Context) {
	spots, err := h.spotService.List(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Green spots retrieved", spots, &utils.Meta{Count: len(spots)})
}
