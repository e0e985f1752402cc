package handlers

import (
	"errors"
	"strconv"

	"commhub/internal/repositories/interfaces"
	"commhub/internal/services"
	"commhub/internal/utils"
	"commhub/internal/validators"
	ws "commhub/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type SOSHandler struct {
	sosService services.SOSService
	mapService services.MapService
	publisher  services.Publisher
}

func NewSOSHandler(sosService services.SOSService, mapService services.MapService, publisher services.Publisher) *SOSHandler {
	return &SOSHandler{
		sosService: sosService,
		mapService: mapService,
		publisher:  publisher,
	}
}

// RaiseSOS broadcasts an emergency alert. The request must carry the
// explicit confirmation flag; without it nothing is written.
func (h *SOSHandler) RaiseSOS(c *gin.Context) {
	var request services.RaiseSOSRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	alert, alerts, err := h.sosService.Raise(c.Request.Context(), &request)
	if err != nil {
		var validationErrs validators.ValidationErrors
		switch {
		case errors.Is(err, services.ErrSOSNotConfirmed):
			utils.PreconditionFailedResponse(c, "CONFIRMATION_REQUIRED", utils.ErrSOSNotConfirmed)
		case errors.As(err, &validationErrs):
			utils.ValidationErrorResponse(c, validationErrs.ToMap())
		case errors.Is(err, services.ErrLocationNotResolved):
			utils.PreconditionFailedResponse(c, "LOCATION_REQUIRED", utils.ErrLocationNotSet)
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventSOS, alerts)
	}

	utils.CreatedResponse(c, "SOS alert sent, your location has been broadcast", alert)
}

// ResolveSOS applies the one-way active to resolved transition.
func (h *SOSHandler) ResolveSOS(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid alert ID")
		return
	}

	alert, alerts, err := h.sosService.Resolve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			utils.NotFoundResponse(c, "SOS alert")
		case errors.Is(err, interfaces.ErrAlreadyResolved):
			utils.ConflictResponse(c, utils.ErrAlertResolved)
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventSOS, alerts)
	}

	utils.SuccessResponse(c, "SOS alert resolved", alert)
}

// ListSOS returns alerts newest first.
func (h *SOSHandler) ListSOS(c *gin.Context) {
	alerts, err := h.sosService.List(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "SOS alerts retrieved", alerts, &utils.Meta{Count: len(alerts)})
}

// ViewSOSOnMap focuses the map on an alert with a transient marker.
func (h *SOSHandler) ViewSOSOnMap(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid alert ID")
		return
	}

	alert, err := h.sosService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			utils.NotFoundResponse(c, "SOS alert")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	h.mapService.FocusSOS(alert)

	utils.SuccessResponse(c, "Map focused on SOS alert", h.mapService.Snapshot())
}
