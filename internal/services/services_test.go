package services

import (
	"context"
	"errors"
	"sync"

	"commhub/internal/models"
	"commhub/internal/repositories/interfaces"
	"commhub/pkg/logger"
	"commhub/pkg/maps"
)

func newTestLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stderr"})
	return log
}

type fakeSpotRepo struct {
	mu     sync.Mutex
	spots  []*models.Spot
	nextID int64
	fail   bool
}

func (r *fakeSpotRepo) Create(ctx context.Context, spot *models.Spot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store write failed")
	}
	r.nextID++
	spot.ID = r.nextID
	copied := *spot
	r.spots = append(r.spots, &copied)
	return nil
}

func (r *fakeSpotRepo) GetAll(ctx context.Context) ([]*models.Spot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Spot, len(r.spots))
	copy(out, r.spots)
	return out, nil
}

func (r *fakeSpotRepo) GetByCategory(ctx context.Context, category models.SpotCategory) ([]*models.Spot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Spot
	for _, s := range r.spots {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSpotRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.spots)), nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
	nextID   int64
	fail     bool
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store write failed")
	}
	r.nextID++
	message.ID = r.nextID
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) GetAll(ctx context.Context) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

func (r *fakeMessageRepo) GetByUsername(ctx context.Context, username string) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Message
	for _, m := range r.messages {
		if m.Username == username {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages)), nil
}

type fakeSOSRepo struct {
	mu     sync.Mutex
	alerts []*models.SOSAlert
	nextID int64
	fail   bool
}

func (r *fakeSOSRepo) Create(ctx context.Context, alert *models.SOSAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store write failed")
	}
	r.nextID++
	alert.ID = r.nextID
	alert.Status = models.SOSStatusActive
	copied := *alert
	r.alerts = append(r.alerts, &copied)
	return nil
}

func (r *fakeSOSRepo) GetAll(ctx context.Context) ([]*models.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.SOSAlert, len(r.alerts))
	copy(out, r.alerts)
	return out, nil
}

func (r *fakeSOSRepo) GetByID(ctx context.Context, id int64) (*models.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeSOSRepo) Resolve(ctx context.Context, id int64) (*models.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			if a.Status != models.SOSStatusActive {
				return nil, interfaces.ErrAlreadyResolved
			}
			a.Status = models.SOSStatusResolved
			now := a.Timestamp
			a.ResolvedAt = &now
			return a, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeSOSRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.alerts)), nil
}

type fakeSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: make(map[string]string)}
}

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.values[key]
	if !ok {
		return "", interfaces.ErrNotFound
	}
	return value, nil
}

func (r *fakeSettingsRepo) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type fakeGeocoder struct {
	response *maps.GeocodeResponse
	err      error
}

func (g *fakeGeocoder) Geocode(ctx context.Context, query string) (*maps.GeocodeResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.response, nil
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*maps.GeocodeResponse, error) {
	return g.Geocode(ctx, "")
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Broadcast(eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newResolvedLocation(lat, lng float64) LocationService {
	svc := NewLocationService(&fakeGeocoder{}, newTestLogger(), LocationOptions{})
	svc.ReportPosition(context.Background(), models.PositionReport{
		Coordinate: models.Coordinate{Lat: lat, Lng: lng},
		Accuracy:   10,
	})
	return svc
}

func newUnresolvedLocation() LocationService {
	return NewLocationService(&fakeGeocoder{}, newTestLogger(), LocationOptions{})
}
