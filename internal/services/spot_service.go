package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"commhub/internal/models"
	"commhub/internal/repositories/interfaces"
	"commhub/internal/validators"
	"commhub/pkg/database"
	"commhub/pkg/logger"
)

type CreateSpotRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,spot_category"`
	Notes       string `json:"notes" validate:"max=500"`
}

// SpotService runs the green spot pipeline: validate, snapshot the resolved
// coordinate, persist one record, reload the whole collection.
type SpotService interface {
	Create(ctx context.Context, req *CreateSpotRequest) (*models.Spot, []*models.Spot, error)
	List(ctx context.Context) ([]*models.Spot, error)
}

type spotService struct {
	spotRepo interfaces.SpotRepository
	location LocationService
	identity IdentityService
	logger   *logger.Logger
}

func NewSpotService(
	spotRepo interfaces.SpotRepository,
	location LocationService,
	identity IdentityService,
	log *logger.Logger,
) SpotService {
	return &spotService{
		spotRepo: spotRepo,
		location: location,
		identity: identity,
		logger:   log,
	}
}

func (s *spotService) Create(ctx context.Context, req *CreateSpotRequest) (*models.Spot, []*models.Spot, error) {
	if errs := validators.ValidateStruct(req); errs != nil {
		return nil, nil, errs
	}

	// Precondition: a spot can only exist with a resolved coordinate.
	coord, ok := s.location.Current()
	if !ok {
		return nil, nil, ErrLocationNotResolved
	}

	username, err := s.identity.Username(ctx)
	if err != nil {
		return nil, nil, err
	}

	spot := &models.Spot{
		Description: strings.TrimSpace(req.Description),
		Category:    models.SpotCategory(req.Category),
		Notes:       strings.TrimSpace(req.Notes),
		Lat:         coord.Lat,
		Lng:         coord.Lng,
		Username:    username,
		Timestamp:   time.Now(),
	}

	if err := s.spotRepo.Create(ctx, spot); err != nil {
		return nil, nil, fmt.Errorf("failed to persist spot: %w", err)
	}

	s.logger.WithContext(ctx).LogRecordEvent(database.CollectionSpots, spot.ID, "spot_added", map[string]interface{}{
		"category": spot.Category,
		"username": spot.Username,
	})

	// Reload everything; the marker set is rebuilt from this, never patched.
	spots, err := s.spotRepo.GetAll(ctx)
	if err != nil {
		return spot, nil, fmt.Errorf("failed to reload spots: %w", err)
	}

	return spot, spots, nil
}

func (s *spotService) List(ctx context.Context) ([]*models.Spot, error) {
	return s.spotRepo.GetAll(ctx)
}
