package handlers

import (
	"errors"
	"net/http"
	"time"

	"commhub/internal/models"
	"commhub/internal/services"
	"commhub/internal/utils"
	"commhub/internal/validators"
	ws "commhub/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService services.LocationService
	mapService      services.MapService
	publisher       services.Publisher
}

func NewLocationHandler(locationService services.LocationService, mapService services.MapService, publisher services.Publisher) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		mapService:      mapService,
		publisher:       publisher,
	}
}

type positionRequest struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

type sensorErrorRequest struct {
	Code string `json:"code"`
}

type manualCoordinatesRequest struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type placeSearchRequest struct {
	Query string `json:"query"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// GetLocation returns the provider's current state.
func (h *LocationHandler) GetLocation(c *gin.Context) {
	utils.SuccessResponse(c, "Location state", h.locationService.State())
}

// AwaitFix blocks until the first coordinate is resolved or the fix window
// elapses.
func (h *LocationHandler) AwaitFix(c *gin.Context) {
	_, err := h.locationService.AwaitFix(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrFixTimeout) {
			utils.ErrorResponse(c, http.StatusRequestTimeout, "FIX_TIMEOUT", utils.StatusLocationTimeout)
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	state := h.locationService.State()
	h.syncSelf(state)

	utils.SuccessResponse(c, "Location fix acquired", state)
}

// ReportPosition ingests one sensor reading from the UI.
func (h *LocationHandler) ReportPosition(c *gin.Context) {
	var request positionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	coord := models.Coordinate{Lat: request.Lat, Lng: request.Lng}
	if !coord.Valid() {
		utils.BadRequestResponse(c, utils.ErrInvalidInput)
		return
	}

	_, hadFix := h.locationService.Current()

	state := h.locationService.ReportPosition(c.Request.Context(), models.PositionReport{
		Coordinate: coord,
		Accuracy:   request.Accuracy,
		ReportedAt: time.Now(),
	})

	// Only the first fix recenters the viewport. Later watch readings move
	// the self marker without stealing the view, which may be focused on an
	// SOS alert.
	if hadFix {
		h.syncSelf(state)
	} else {
		h.syncMap(state, utils.FixZoom)
	}

	utils.SuccessResponse(c, "Position recorded", state)
}

// ReportSensorError classifies a sensor failure reported by the UI.
func (h *LocationHandler) ReportSensorError(c *gin.Context) {
	var request sensorErrorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	state := h.locationService.ReportSensorError(c.Request.Context(), models.SensorError(request.Code))

	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventLocation, state)
	}

	utils.SuccessResponse(c, "Sensor error recorded", state)
}

// SetManualCoordinates adopts typed latitude/longitude values.
func (h *LocationHandler) SetManualCoordinates(c *gin.Context) {
	var request manualCoordinatesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	_, err := h.locationService.SetManualCoordinates(c.Request.Context(), request.Lat, request.Lng)
	if err != nil {
		switch {
		case errors.Is(err, validators.ErrNotNumeric):
			utils.BadRequestResponse(c, "Latitude and longitude must be numeric")
		case errors.Is(err, validators.ErrLatitudeRange):
			utils.BadRequestResponse(c, utils.ErrLatitudeOutOfRange)
		case errors.Is(err, validators.ErrLongitudeRange):
			utils.BadRequestResponse(c, utils.ErrLongitudeOutOfRange)
		default:
			utils.BadRequestResponse(c, utils.ErrInvalidInput)
		}
		return
	}

	state := h.locationService.State()
	h.syncMap(state, utils.FixZoom)

	utils.SuccessResponse(c, "Manual location set", state)
}

// SearchPlace geocodes a place name and adopts the first match.
func (h *LocationHandler) SearchPlace(c *gin.Context) {
	var request placeSearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.locationService.SearchPlace(c.Request.Context(), request.Query)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyQuery):
			utils.BadRequestResponse(c, "Please enter a place name")
		case errors.Is(err, services.ErrPlaceNotFound):
			utils.NotFoundResponse(c, "Place")
		default:
			utils.ErrorResponse(c, http.StatusBadGateway, "SEARCH_FAILED", utils.ErrPlaceSearchFailed)
		}
		return
	}

	state := h.locationService.State()
	h.syncMap(state, utils.FixZoom)

	utils.SuccessResponse(c, "Location found: "+result.Address, state)
}

// SetMode switches between auto and manual resolution; a resolved coordinate
// survives the switch.
func (h *LocationHandler) SetMode(c *gin.Context) {
	var request modeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	mode := models.LocationMode(request.Mode)
	if mode != models.LocationModeAuto && mode != models.LocationModeManual {
		utils.BadRequestResponse(c, "Mode must be auto or manual")
		return
	}

	state := h.locationService.SetMode(c.Request.Context(), mode)

	utils.SuccessResponse(c, "Location mode updated", state)
}

func (h *LocationHandler) syncMap(state models.LocationState, zoom int) {
	if state.Coordinate != nil {
		h.mapService.SetSelf(*state.Coordinate, state.Accuracy)
		h.mapService.Recenter(*state.Coordinate, zoom)
	}

	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventLocation, state)
	}
}

func (h *LocationHandler) syncSelf(state models.LocationState) {
	if state.Coordinate != nil {
		h.mapService.SetSelf(*state.Coordinate, state.Accuracy)
	}

	if h.publisher != nil {
		h.publisher.Broadcast(ws.EventLocation, state)
	}
}
