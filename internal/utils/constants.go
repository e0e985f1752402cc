package utils

import "time"

// Application Constants
const (
	AppName    = "CommHub"
	AppVersion = "1.0.0"

	// Location
	LocationFixTimeout     = 10 * time.Second
	LocationWatchStaleness = 5 * time.Second

	// Map defaults (used until a location fix is available)
	DefaultMapLat   = 20.5937
	DefaultMapLng   = 78.9629
	DefaultMapZoom  = 13
	FixZoom         = 15
	SOSFocusZoom    = 17
	SOSMarkerWindow = 10 * time.Second

	// Identity
	UsernamePrefix       = "User_"
	UsernameSuffixLength = 5

	// Chat
	MaxMessageLength = 1000
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidInput        = "invalid input"
	ErrInternalServer      = "internal server error"
	ErrValidationFailed    = "validation failed"
	ErrLocationNotSet      = "location not resolved yet, wait for a fix or set it manually"
	ErrEmptyMessage        = "message text cannot be empty"
	ErrSOSNotConfirmed     = "sos alert requires explicit confirmation"
	ErrAlertNotFound       = "sos alert not found"
	ErrAlertResolved       = "sos alert is already resolved"
	ErrPlaceNotFound       = "place not found"
	ErrPlaceSearchFailed   = "place search failed"
	ErrLatitudeOutOfRange  = "latitude must be between -90 and 90"
	ErrLongitudeOutOfRange = "longitude must be between -180 and 180"
)

// Location status lines, one per sensor outcome.
const (
	StatusLocationWaiting     = "Getting GPS location..."
	StatusLocationActive      = "GPS active"
	StatusLocationStale       = "GPS signal lost, using last known position"
	StatusLocationManual      = "Manual location set"
	StatusPermissionDenied    = "Location access denied. Please allow location access."
	StatusPositionUnavailable = "Location unavailable. Using default location."
	StatusLocationTimeout     = "Location request timeout."
	StatusLocationUnknown     = "Unknown location error."
)
