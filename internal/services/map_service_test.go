package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commhub/internal/models"
	"commhub/internal/utils"
)

func TestMapServiceDefaults(t *testing.T) {
	svc := NewMapService(&fakePublisher{}, MapOptions{})

	snapshot := svc.Snapshot()
	assert.Equal(t, utils.DefaultMapLat, snapshot.Center.Lat)
	assert.Equal(t, utils.DefaultMapLng, snapshot.Center.Lng)
	assert.Equal(t, utils.DefaultMapZoom, snapshot.Zoom)
	assert.Nil(t, snapshot.Self)
	assert.Empty(t, snapshot.Spots)
	assert.Empty(t, snapshot.Transient)
}

func TestMapServiceSetSelfRepositions(t *testing.T) {
	publisher := &fakePublisher{}
	svc := NewMapService(publisher, MapOptions{})

	svc.SetSelf(models.Coordinate{Lat: 12.9716, Lng: 77.5946}, 20)
	svc.SetSelf(models.Coordinate{Lat: 12.9720, Lng: 77.5950}, 15)

	snapshot := svc.Snapshot()
	require.NotNil(t, snapshot.Self)
	assert.Equal(t, "self", snapshot.Self.ID)
	assert.Equal(t, 12.9720, snapshot.Self.Lat)
	assert.Equal(t, "15m", snapshot.Self.Popup["accuracy"])
	assert.Equal(t, 2, publisher.count())
}

func TestMapServiceRecenter(t *testing.T) {
	svc := NewMapService(&fakePublisher{}, MapOptions{})

	svc.Recenter(models.Coordinate{Lat: 12.9716, Lng: 77.5946}, utils.FixZoom)

	snapshot := svc.Snapshot()
	assert.Equal(t, 12.9716, snapshot.Center.Lat)
	assert.Equal(t, utils.FixZoom, snapshot.Zoom)

	// Zoom zero means keep the current zoom.
	svc.Recenter(models.Coordinate{Lat: 13.0, Lng: 78.0}, 0)
	assert.Equal(t, utils.FixZoom, svc.Snapshot().Zoom)
}

func TestMapServiceRebuildSpots(t *testing.T) {
	svc := NewMapService(&fakePublisher{}, MapOptions{})

	svc.RebuildSpots([]*models.Spot{
		{ID: 1, Description: "Clinic", Category: models.SpotCategoryMedical, Lat: 1, Lng: 2, Username: "User_a1b2c"},
		{ID: 2, Description: "Kitchen", Category: models.SpotCategoryFood, Lat: 3, Lng: 4, Username: "User_a1b2c"},
	})

	snapshot := svc.Snapshot()
	require.Len(t, snapshot.Spots, 2)
	assert.Equal(t, "spot-1", snapshot.Spots[0].ID)
	assert.Equal(t, "#ff6b6b", snapshot.Spots[0].Color)
	assert.Equal(t, "#ffa94d", snapshot.Spots[1].Color)
	assert.Equal(t, "Clinic", snapshot.Spots[0].Popup["title"])

	// Rebuild replaces the whole set.
	svc.RebuildSpots([]*models.Spot{
		{ID: 3, Description: "Shelter", Category: models.SpotCategoryShelter, Lat: 5, Lng: 6},
	})

	snapshot = svc.Snapshot()
	require.Len(t, snapshot.Spots, 1)
	assert.Equal(t, "spot-3", snapshot.Spots[0].ID)
}

func TestMapServiceFocusSOS(t *testing.T) {
	svc := NewMapService(&fakePublisher{}, MapOptions{SOSWindow: 30 * time.Millisecond})

	alert := &models.SOSAlert{
		ID:       7,
		Type:     models.SOSTypeMedical,
		Username: "User_a1b2c",
		Lat:      12.9716,
		Lng:      77.5946,
		Status:   models.SOSStatusActive,
	}
	svc.FocusSOS(alert)

	snapshot := svc.Snapshot()
	assert.Equal(t, 12.9716, snapshot.Center.Lat)
	assert.Equal(t, utils.SOSFocusZoom, snapshot.Zoom)
	require.Len(t, snapshot.Transient, 1)
	assert.Equal(t, "sos-7", snapshot.Transient[0].ID)

	// The focus marker removes itself after the display window.
	assert.Eventually(t, func() bool {
		return len(svc.Snapshot().Transient) == 0
	}, time.Second, 10*time.Millisecond)

	// The recentered view survives the marker removal.
	assert.Equal(t, utils.SOSFocusZoom, svc.Snapshot().Zoom)
}

func TestMapServicePublishesOnEveryMutation(t *testing.T) {
	publisher := &fakePublisher{}
	svc := NewMapService(publisher, MapOptions{SOSWindow: time.Minute})

	svc.SetSelf(models.Coordinate{Lat: 1, Lng: 2}, 0)
	svc.Recenter(models.Coordinate{Lat: 1, Lng: 2}, 15)
	svc.RebuildSpots(nil)
	svc.FocusSOS(&models.SOSAlert{ID: 1, Type: models.SOSTypeOther})

	assert.Equal(t, 4, publisher.count())
}
