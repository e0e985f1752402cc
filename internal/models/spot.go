package models

import (
	"time"
)

type SpotCategory string

const (
	SpotCategorySafeZone      SpotCategory = "safe-zone"
	SpotCategoryMedical       SpotCategory = "medical"
	SpotCategoryFood          SpotCategory = "food"
	SpotCategoryShelter       SpotCategory = "shelter"
	SpotCategoryCommunication SpotCategory = "communication"
	SpotCategoryMeeting       SpotCategory = "meeting"
)

func ValidSpotCategory(c SpotCategory) bool {
	switch c {
	case SpotCategorySafeZone, SpotCategoryMedical, SpotCategoryFood,
		SpotCategoryShelter, SpotCategoryCommunication, SpotCategoryMeeting:
		return true
	}
	return false
}

// Spot is a user-submitted point of interest. The coordinate is snapshotted
// from the location provider at creation time and never changes afterwards.
type Spot struct {
	ID          int64        `json:"id" bson:"_id"`
	Description string       `json:"description" bson:"description" validate:"required"`
	Category    SpotCategory `json:"category" bson:"category" validate:"required"`
	Notes       string       `json:"notes" bson:"notes"`
	Lat         float64      `json:"lat" bson:"lat"`
	Lng         float64      `json:"lng" bson:"lng"`
	Username    string       `json:"username" bson:"username"`
	Timestamp   time.Time    `json:"timestamp" bson:"timestamp"`
}

func (s *Spot) Coordinate() Coordinate {
	return Coordinate{Lat: s.Lat, Lng: s.Lng}
}
