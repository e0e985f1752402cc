package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"commhub/internal/models"
	"commhub/internal/utils"
	"commhub/internal/validators"
	"commhub/pkg/logger"
	"commhub/pkg/maps"
)

var (
	// ErrLocationNotResolved blocks spot and SOS creation until a fix exists.
	ErrLocationNotResolved = errors.New("location not resolved")
	// ErrFixTimeout is returned when no fix arrives inside the fix window.
	ErrFixTimeout = errors.New("location fix timed out")
	// ErrPlaceNotFound means the geocoder answered with zero matches.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrPlaceSearchFailed wraps transport failures talking to the geocoder,
	// kept distinct from a clean zero-match answer.
	ErrPlaceSearchFailed = errors.New("place search failed")
	// ErrEmptyQuery rejects blank place searches before any network call.
	ErrEmptyQuery = errors.New("place name cannot be empty")
)

// LocationService is the hub's location provider. Sensor readings arrive as
// position reports from the UI; manual mode accepts typed coordinates or a
// geocoded place name. Whatever the source, the resolved coordinate is the
// snapshot every spot and SOS alert denormalizes at creation time.
type LocationService interface {
	ReportPosition(ctx context.Context, report models.PositionReport) models.LocationState
	ReportSensorError(ctx context.Context, code models.SensorError) models.LocationState
	SetManualCoordinates(ctx context.Context, latStr, lngStr string) (models.Coordinate, error)
	SearchPlace(ctx context.Context, query string) (*maps.GeocodeResult, error)
	SetMode(ctx context.Context, mode models.LocationMode) models.LocationState
	Current() (models.Coordinate, bool)
	State() models.LocationState
	AwaitFix(ctx context.Context) (models.Coordinate, error)
	Start(ctx context.Context)
}

type LocationOptions struct {
	FixTimeout     time.Duration
	WatchStaleness time.Duration
}

type locationService struct {
	geocoder maps.Geocoder
	logger   *logger.Logger
	opts     LocationOptions

	mu         sync.RWMutex
	mode       models.LocationMode
	coordinate *models.Coordinate
	accuracy   float64
	status     string
	updatedAt  time.Time
	lastReport time.Time

	fixed   chan struct{}
	fixOnce sync.Once

	now func() time.Time
}

func NewLocationService(geocoder maps.Geocoder, log *logger.Logger, opts LocationOptions) LocationService {
	if opts.FixTimeout == 0 {
		opts.FixTimeout = utils.LocationFixTimeout
	}
	if opts.WatchStaleness == 0 {
		opts.WatchStaleness = utils.LocationWatchStaleness
	}

	return &locationService{
		geocoder: geocoder,
		logger:   log,
		opts:     opts,
		mode:     models.LocationModeAuto,
		status:   utils.StatusLocationWaiting,
		fixed:    make(chan struct{}),
		now:      time.Now,
	}
}

// ReportPosition ingests one sensor reading. In manual mode the reading is
// recorded for staleness tracking but does not displace the manual
// coordinate.
func (s *locationService) ReportPosition(ctx context.Context, report models.PositionReport) models.LocationState {
	s.mu.Lock()

	s.lastReport = s.now()

	if s.mode == models.LocationModeAuto {
		coord := report.Coordinate
		s.coordinate = &coord
		s.accuracy = report.Accuracy
		s.status = fmt.Sprintf("%s (%.0fm accuracy)", utils.StatusLocationActive, report.Accuracy)
		s.updatedAt = s.lastReport
	}

	resolved := s.coordinate != nil
	s.mu.Unlock()

	if resolved {
		s.signalFix()
	}

	return s.State()
}

// ReportSensorError classifies a sensor failure into one of the four
// outcomes. A previously resolved coordinate is kept; only the status line
// changes.
func (s *locationService) ReportSensorError(ctx context.Context, code models.SensorError) models.LocationState {
	var status string
	switch code {
	case models.SensorErrorPermissionDenied:
		status = utils.StatusPermissionDenied
	case models.SensorErrorPositionUnavailable:
		status = utils.StatusPositionUnavailable
	case models.SensorErrorTimeout:
		status = utils.StatusLocationTimeout
	default:
		status = utils.StatusLocationUnknown
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	s.logger.LogLocationEvent("sensor_error", map[string]interface{}{"code": string(code)})

	return s.State()
}

// SetManualCoordinates validates typed input and adopts it as the resolved
// coordinate. Invalid input leaves the location state untouched.
func (s *locationService) SetManualCoordinates(ctx context.Context, latStr, lngStr string) (models.Coordinate, error) {
	coord, err := validators.ParseManualCoordinates(latStr, lngStr)
	if err != nil {
		return models.Coordinate{}, err
	}

	s.adopt(coord, fmt.Sprintf("%s: %.4f, %.4f", utils.StatusLocationManual, coord.Lat, coord.Lng))

	s.logger.LogLocationEvent("manual_set", map[string]interface{}{"lat": coord.Lat, "lng": coord.Lng})

	return coord, nil
}

// SearchPlace geocodes a free-text place name and adopts the first match.
// Zero matches and transport failures are distinct outcomes; in both cases
// the current coordinate is unchanged.
func (s *locationService) SearchPlace(ctx context.Context, query string) (*maps.GeocodeResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}

	resp, err := s.geocoder.Geocode(ctx, trimmed)
	if err != nil {
		s.logger.WithError(err).Warn("Place search failed")
		return nil, fmt.Errorf("%w: %v", ErrPlaceSearchFailed, err)
	}

	first := resp.First()
	if first == nil {
		return nil, ErrPlaceNotFound
	}

	coord := models.Coordinate{Lat: first.Coordinates.Latitude, Lng: first.Coordinates.Longitude}
	s.adopt(coord, fmt.Sprintf("Found: %s", truncate(first.Address, 50)))

	s.logger.LogLocationEvent("place_found", map[string]interface{}{"address": first.Address})

	return first, nil
}

// SetMode switches between auto and manual resolution. A resolved coordinate
// is never cleared by a mode switch.
func (s *locationService) SetMode(ctx context.Context, mode models.LocationMode) models.LocationState {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	return s.State()
}

func (s *locationService) Current() (models.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.coordinate == nil {
		return models.Coordinate{}, false
	}
	return *s.coordinate, true
}

func (s *locationService) State() models.LocationState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := models.LocationState{
		Mode:      s.mode,
		Accuracy:  s.accuracy,
		Status:    s.status,
		UpdatedAt: s.updatedAt,
	}

	if s.coordinate != nil {
		coord := *s.coordinate
		state.Coordinate = &coord
	}

	// The watch goes stale when no reading arrived inside the staleness
	// window; the last coordinate is retained.
	if s.mode == models.LocationModeAuto && !s.lastReport.IsZero() {
		state.Stale = s.now().Sub(s.lastReport) > s.opts.WatchStaleness
	}

	return state
}

// AwaitFix blocks until the first coordinate is resolved, the fix window
// elapses, or the caller gives up.
func (s *locationService) AwaitFix(ctx context.Context) (models.Coordinate, error) {
	if coord, ok := s.Current(); ok {
		return coord, nil
	}

	timer := time.NewTimer(s.opts.FixTimeout)
	defer timer.Stop()

	select {
	case <-s.fixed:
		coord, _ := s.Current()
		return coord, nil
	case <-timer.C:
		return models.Coordinate{}, ErrFixTimeout
	case <-ctx.Done():
		return models.Coordinate{}, ctx.Err()
	}
}

// Start runs the staleness watch until the context is cancelled. Unlike the
// sensor watch in a page session, a long-lived process has to tear this down
// on shutdown.
func (s *locationService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.opts.WatchStaleness)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				state := s.State()
				if state.Stale {
					s.mu.Lock()
					s.status = utils.StatusLocationStale
					s.mu.Unlock()
				}
			}
		}
	}()
}

func (s *locationService) adopt(coord models.Coordinate, status string) {
	s.mu.Lock()
	s.coordinate = &coord
	s.status = status
	s.updatedAt = s.now()
	s.mu.Unlock()

	s.signalFix()
}

func (s *locationService) signalFix() {
	s.fixOnce.Do(func() {
		close(s.fixed)
	})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
