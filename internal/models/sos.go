package models

import (
	"time"
)

type SOSType string
type SOSStatus string

const (
	SOSTypeMedical  SOSType = "medical"
	SOSTypeTrapped  SOSType = "trapped"
	SOSTypeSupplies SOSType = "supplies"
	SOSTypeDanger   SOSType = "danger"
	SOSTypeOther    SOSType = "other"

	SOSStatusActive   SOSStatus = "active"
	SOSStatusResolved SOSStatus = "resolved"
)

func ValidSOSType(t SOSType) bool {
	switch t {
	case SOSTypeMedical, SOSTypeTrapped, SOSTypeSupplies, SOSTypeDanger, SOSTypeOther:
		return true
	}
	return false
}

// SOSAlert is a user-confirmed emergency broadcast record. It carries the
// sender's coordinate at send time and starts out active; the only mutation
// ever applied to it is the one-way transition to resolved.
type SOSAlert struct {
	ID         int64      `json:"id" bson:"_id"`
	Type       SOSType    `json:"type" bson:"type" validate:"required"`
	Details    string     `json:"details" bson:"details"`
	Username   string     `json:"username" bson:"username"`
	Lat        float64    `json:"lat" bson:"lat"`
	Lng        float64    `json:"lng" bson:"lng"`
	Status     SOSStatus  `json:"status" bson:"status"`
	Timestamp  time.Time  `json:"timestamp" bson:"timestamp"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

func (a *SOSAlert) Coordinate() Coordinate {
	return Coordinate{Lat: a.Lat, Lng: a.Lng}
}

func (a *SOSAlert) Active() bool {
	return a.Status == SOSStatusActive
}
