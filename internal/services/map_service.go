package services

import (
	"fmt"
	"sync"
	"time"

	"commhub/internal/models"
	"commhub/internal/utils"

	ws "commhub/pkg/websocket"
)

// Publisher pushes view updates to connected UI clients. *websocket.Hub
// satisfies it; tests use a recording stub.
type Publisher interface {
	Broadcast(eventType string, data interface{})
}

type Marker struct {
	ID       string            `json:"id"`
	Lat      float64           `json:"lat"`
	Lng      float64           `json:"lng"`
	Icon     string            `json:"icon"`
	Color    string            `json:"color"`
	Category string            `json:"category,omitempty"`
	Popup    map[string]string `json:"popup,omitempty"`
}

type MapSnapshot struct {
	Center    models.Coordinate `json:"center"`
	Zoom      int               `json:"zoom"`
	Self      *Marker           `json:"self,omitempty"`
	Spots     []Marker          `json:"spots"`
	Transient []Marker          `json:"transient"`
}

type categoryStyle struct {
	Icon  string
	Color string
}

var categoryStyles = map[models.SpotCategory]categoryStyle{
	models.SpotCategorySafeZone:      {Icon: "shield", Color: "#51cf66"},
	models.SpotCategoryMedical:       {Icon: "medical", Color: "#ff6b6b"},
	models.SpotCategoryFood:          {Icon: "food", Color: "#ffa94d"},
	models.SpotCategoryShelter:       {Icon: "shelter", Color: "#4c6ef5"},
	models.SpotCategoryCommunication: {Icon: "antenna", Color: "#9775fa"},
	models.SpotCategoryMeeting:       {Icon: "meeting", Color: "#20c997"},
}

// MapService is the server-side model of the map surface: one self marker
// repositioned in place, a spot marker set rebuilt wholesale on every
// reload, and short-lived focus markers for SOS alerts.
type MapService interface {
	Snapshot() MapSnapshot
	SetSelf(coord models.Coordinate, accuracy float64)
	Recenter(coord models.Coordinate, zoom int)
	RebuildSpots(spots []*models.Spot)
	FocusSOS(alert *models.SOSAlert)
}

type MapOptions struct {
	DefaultCenter models.Coordinate
	DefaultZoom   int
	SOSWindow     time.Duration
}

type mapService struct {
	publisher Publisher
	opts      MapOptions

	mu        sync.RWMutex
	center    models.Coordinate
	zoom      int
	self      *Marker
	spots     []Marker
	transient map[string]Marker
}

func NewMapService(publisher Publisher, opts MapOptions) MapService {
	if opts.DefaultZoom == 0 {
		opts.DefaultZoom = utils.DefaultMapZoom
	}
	if opts.SOSWindow == 0 {
		opts.SOSWindow = utils.SOSMarkerWindow
	}
	if opts.DefaultCenter == (models.Coordinate{}) {
		opts.DefaultCenter = models.Coordinate{Lat: utils.DefaultMapLat, Lng: utils.DefaultMapLng}
	}

	return &mapService{
		publisher: publisher,
		opts:      opts,
		center:    opts.DefaultCenter,
		zoom:      opts.DefaultZoom,
		spots:     []Marker{},
		transient: make(map[string]Marker),
	}
}

func (s *mapService) Snapshot() MapSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// SetSelf repositions the self marker, creating it on the first call. The
// marker identity is stable; later calls only move it.
func (s *mapService) SetSelf(coord models.Coordinate, accuracy float64) {
	s.mu.Lock()

	if s.self == nil {
		s.self = &Marker{
			ID:    "self",
			Icon:  "self",
			Color: "#4285f4",
		}
	}

	s.self.Lat = coord.Lat
	s.self.Lng = coord.Lng
	s.self.Popup = map[string]string{
		"title":       "Your Location",
		"coordinates": fmt.Sprintf("%.6f, %.6f", coord.Lat, coord.Lng),
	}
	if accuracy > 0 {
		s.self.Popup["accuracy"] = fmt.Sprintf("%.0fm", accuracy)
	}

	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

func (s *mapService) Recenter(coord models.Coordinate, zoom int) {
	s.mu.Lock()
	s.center = coord
	if zoom > 0 {
		s.zoom = zoom
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// RebuildSpots tears down every spot marker and rebuilds the set from the
// reloaded collection. No diffing.
func (s *mapService) RebuildSpots(spots []*models.Spot) {
	markers := make([]Marker, 0, len(spots))
	for _, spot := range spots {
		style := categoryStyles[spot.Category]
		markers = append(markers, Marker{
			ID:       fmt.Sprintf("spot-%d", spot.ID),
			Lat:      spot.Lat,
			Lng:      spot.Lng,
			Icon:     style.Icon,
			Color:    style.Color,
			Category: string(spot.Category),
			Popup: map[string]string{
				"title":       spot.Description,
				"category":    string(spot.Category),
				"added_by":    spot.Username,
				"notes":       spot.Notes,
				"coordinates": fmt.Sprintf("%.6f, %.6f", spot.Lat, spot.Lng),
				"timestamp":   spot.Timestamp.Format(time.RFC3339),
			},
		})
	}

	s.mu.Lock()
	s.spots = markers
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// FocusSOS recenters onto the alert and drops a marker that removes itself
// after the display window.
func (s *mapService) FocusSOS(alert *models.SOSAlert) {
	marker := Marker{
		ID:    fmt.Sprintf("sos-%d", alert.ID),
		Lat:   alert.Lat,
		Lng:   alert.Lng,
		Icon:  "sos",
		Color: "#ff6b6b",
		Popup: map[string]string{
			"title": fmt.Sprintf("%s emergency", alert.Type),
			"from":  alert.Username,
		},
	}

	s.mu.Lock()
	s.center = alert.Coordinate()
	s.zoom = utils.SOSFocusZoom
	s.transient[marker.ID] = marker
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)

	time.AfterFunc(s.opts.SOSWindow, func() {
		s.removeTransient(marker.ID)
	})
}

func (s *mapService) removeTransient(id string) {
	s.mu.Lock()
	if _, ok := s.transient[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.transient, id)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

func (s *mapService) snapshotLocked() MapSnapshot {
	snapshot := MapSnapshot{
		Center:    s.center,
		Zoom:      s.zoom,
		Spots:     make([]Marker, len(s.spots)),
		Transient: make([]Marker, 0, len(s.transient)),
	}

	copy(snapshot.Spots, s.spots)

	if s.self != nil {
		self := *s.self
		snapshot.Self = &self
	}

	for _, marker := range s.transient {
		snapshot.Transient = append(snapshot.Transient, marker)
	}

	return snapshot
}

func (s *mapService) publish(snapshot MapSnapshot) {
	if s.publisher != nil {
		s.publisher.Broadcast(ws.EventMap, snapshot)
	}
}
