package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commhub/internal/models"
	"commhub/internal/services"
	"commhub/internal/utils"
	"commhub/pkg/maps"
)

func TestGetLocationInitialState(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/v1/location/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, models.LocationModeAuto, state.Mode)
	assert.Nil(t, state.Coordinate)
	assert.Equal(t, utils.StatusLocationWaiting, state.Status)
}

func TestAwaitFix(t *testing.T) {
	f := newFixture(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		f.resolveLocation()
	}()

	w, env := f.do(t, http.MethodGet, "/api/v1/location/await", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.Coordinate)
	assert.Equal(t, 12.9716, state.Coordinate.Lat)
}

func TestAwaitFixAlreadyResolved(t *testing.T) {
	f := newFixture(t)
	f.resolveLocation()

	w, _ := f.do(t, http.MethodGet, "/api/v1/location/await", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReportPosition(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/location/position", map[string]interface{}{
		"lat":      12.9716,
		"lng":      77.5946,
		"accuracy": 25,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.Coordinate)
	assert.Equal(t, 12.9716, state.Coordinate.Lat)

	// The map recenters onto the fix.
	_, mapEnv := f.do(t, http.MethodGet, "/api/v1/map", nil)
	var snapshot services.MapSnapshot
	require.NoError(t, json.Unmarshal(mapEnv.Data, &snapshot))
	assert.Equal(t, 12.9716, snapshot.Center.Lat)
	assert.Equal(t, utils.FixZoom, snapshot.Zoom)
	require.NotNil(t, snapshot.Self)
}

func TestReportPositionAfterFixMovesSelfOnly(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/location/position", map[string]interface{}{
		"lat": 12.9716,
		"lng": 77.5946,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// A later watch reading moves the self marker but leaves the viewport
	// where it is.
	w, _ = f.do(t, http.MethodPost, "/api/v1/location/position", map[string]interface{}{
		"lat": 13.05,
		"lng": 77.70,
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, mapEnv := f.do(t, http.MethodGet, "/api/v1/map", nil)
	var snapshot services.MapSnapshot
	require.NoError(t, json.Unmarshal(mapEnv.Data, &snapshot))
	assert.Equal(t, 12.9716, snapshot.Center.Lat)
	assert.Equal(t, utils.FixZoom, snapshot.Zoom)
	require.NotNil(t, snapshot.Self)
	assert.Equal(t, 13.05, snapshot.Self.Lat)
}

func TestWatchReadingKeepsSOSFocus(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/location/position", map[string]interface{}{
		"lat": 55.0,
		"lng": 66.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	alert := raiseSOS(t, f, "medical")

	w, _ = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/sos/%d/view", alert.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A watch reading arriving inside the focus window must not yank the
	// viewport back to the self coordinate.
	w, _ = f.do(t, http.MethodPost, "/api/v1/location/position", map[string]interface{}{
		"lat": 10.0001,
		"lng": 10.0001,
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, mapEnv := f.do(t, http.MethodGet, "/api/v1/map", nil)
	var snapshot services.MapSnapshot
	require.NoError(t, json.Unmarshal(mapEnv.Data, &snapshot))
	assert.Equal(t, 55.0, snapshot.Center.Lat)
	assert.Equal(t, 66.0, snapshot.Center.Lng)
	assert.Equal(t, utils.SOSFocusZoom, snapshot.Zoom)
	require.Len(t, snapshot.Transient, 1)
	require.NotNil(t, snapshot.Self)
	assert.Equal(t, 10.0001, snapshot.Self.Lat)
}

func TestReportPositionOutOfRange(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/location/position", map[string]interface{}{
		"lat": 95.0,
		"lng": 10.0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportSensorError(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/location/error", map[string]interface{}{
		"code": "permission_denied",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, utils.StatusPermissionDenied, state.Status)
}

func TestSetManualCoordinates(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/location/manual", map[string]interface{}{
		"lat": "28.6139",
		"lng": "77.2090",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.Coordinate)
	assert.Equal(t, 28.6139, state.Coordinate.Lat)
}

func TestSetManualCoordinatesRejected(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lng     string
		message string
	}{
		{"latitude out of range", "91", "0", utils.ErrLatitudeOutOfRange},
		{"longitude out of range", "0", "-181", utils.ErrLongitudeOutOfRange},
		{"non numeric", "abc", "0", "Latitude and longitude must be numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			w, env := f.do(t, http.MethodPost, "/api/v1/location/manual", map[string]interface{}{
				"lat": tt.lat,
				"lng": tt.lng,
			})

			require.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestSearchPlace(t *testing.T) {
	f := newFixture(t)
	f.geocoder.response = &maps.GeocodeResponse{
		Results: []maps.GeocodeResult{
			{Address: "Bengaluru, Karnataka, India", Coordinates: maps.Location{Latitude: 12.9716, Longitude: 77.5946}},
		},
	}

	w, env := f.do(t, http.MethodPost, "/api/v1/location/search", map[string]interface{}{
		"query": "Bengaluru",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.Message, "Bengaluru")

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.Coordinate)
	assert.Equal(t, 12.9716, state.Coordinate.Lat)
}

func TestSearchPlaceNotFound(t *testing.T) {
	f := newFixture(t)
	f.geocoder.response = &maps.GeocodeResponse{}

	w, _ := f.do(t, http.MethodPost, "/api/v1/location/search", map[string]interface{}{
		"query": "xyzzy nowhere",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchPlaceFailure(t *testing.T) {
	f := newFixture(t)
	f.geocoder.err = errors.New("connection refused")

	w, env := f.do(t, http.MethodPost, "/api/v1/location/search", map[string]interface{}{
		"query": "Bengaluru",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SEARCH_FAILED", env.Error.Code)
}

func TestSearchPlaceEmptyQuery(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/location/search", map[string]interface{}{
		"query": "   ",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetMode(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/v1/location/mode", map[string]interface{}{
		"mode": "manual",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var state models.LocationState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, models.LocationModeManual, state.Mode)

	w, _ = f.do(t, http.MethodPost, "/api/v1/location/mode", map[string]interface{}{
		"mode": "teleport",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIdentity(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/v1/identity", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data.Username, "User_")

	// Identity is stable across calls.
	_, env2 := f.do(t, http.MethodGet, "/api/v1/identity", nil)
	var data2 struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env2.Data, &data2))
	assert.Equal(t, data.Username, data2.Username)
}

func TestGetMapDefaults(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/v1/map", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot services.MapSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Equal(t, utils.DefaultMapLat, snapshot.Center.Lat)
	assert.Equal(t, utils.DefaultMapLng, snapshot.Center.Lng)
	assert.Equal(t, utils.DefaultMapZoom, snapshot.Zoom)
	assert.Nil(t, snapshot.Self)
}
