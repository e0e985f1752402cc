package models

import (
	"time"
)

type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type LocationMode string

const (
	LocationModeAuto   LocationMode = "auto"
	LocationModeManual LocationMode = "manual"
)

type SensorError string

const (
	SensorErrorPermissionDenied    SensorError = "permission_denied"
	SensorErrorPositionUnavailable SensorError = "position_unavailable"
	SensorErrorTimeout             SensorError = "timeout"
	SensorErrorUnknown             SensorError = "unknown"
)

// PositionReport is one reading from the device sensor, forwarded by the UI.
type PositionReport struct {
	Coordinate `bson:",inline"`
	Accuracy   float64   `json:"accuracy"`
	ReportedAt time.Time `json:"reported_at"`
}

// LocationState is the provider's externally visible state.
type LocationState struct {
	Mode       LocationMode `json:"mode"`
	Coordinate *Coordinate  `json:"coordinate,omitempty"`
	Accuracy   float64      `json:"accuracy,omitempty"`
	Status     string       `json:"status"`
	Stale      bool         `json:"stale"`
	UpdatedAt  time.Time    `json:"updated_at,omitempty"`
}
