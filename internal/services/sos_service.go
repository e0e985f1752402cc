package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commhub/internal/models"
	"commhub/internal/repositories/interfaces"
	"commhub/internal/validators"
	"commhub/pkg/database"
	"commhub/pkg/logger"
)

// ErrSOSNotConfirmed rejects an alert whose sender did not explicitly
// acknowledge the broadcast intent. No record is written.
var ErrSOSNotConfirmed = errors.New("sos alert not confirmed")

type RaiseSOSRequest struct {
	Type    string `json:"type" validate:"required,sos_type"`
	Details string `json:"details" validate:"max=500"`
	Confirm bool   `json:"confirm"`
}

// SOSService runs the SOS pipeline. Alerts require a resolved coordinate and
// an explicit confirmation, start out active, and support a one-way resolve
// transition. The list view is newest first, the reverse of store order.
type SOSService interface {
	Raise(ctx context.Context, req *RaiseSOSRequest) (*models.SOSAlert, []*models.SOSAlert, error)
	Resolve(ctx context.Context, id int64) (*models.SOSAlert, []*models.SOSAlert, error)
	List(ctx context.Context) ([]*models.SOSAlert, error)
	Get(ctx context.Context, id int64) (*models.SOSAlert, error)
}

type sosService struct {
	sosRepo  interfaces.SOSRepository
	location LocationService
	identity IdentityService
	logger   *logger.Logger
}

func NewSOSService(
	sosRepo interfaces.SOSRepository,
	location LocationService,
	identity IdentityService,
	log *logger.Logger,
) SOSService {
	return &sosService{
		sosRepo:  sosRepo,
		location: location,
		identity: identity,
		logger:   log,
	}
}

func (s *sosService) Raise(ctx context.Context, req *RaiseSOSRequest) (*models.SOSAlert, []*models.SOSAlert, error) {
	// Confirmation comes first: an aborted confirmation must leave no trace,
	// not even a validation round-trip side effect.
	if !req.Confirm {
		return nil, nil, ErrSOSNotConfirmed
	}

	if errs := validators.ValidateStruct(req); errs != nil {
		return nil, nil, errs
	}

	coord, ok := s.location.Current()
	if !ok {
		return nil, nil, ErrLocationNotResolved
	}

	username, err := s.identity.Username(ctx)
	if err != nil {
		return nil, nil, err
	}

	alert := &models.SOSAlert{
		Type:      models.SOSType(req.Type),
		Details:   strings.TrimSpace(req.Details),
		Username:  username,
		Lat:       coord.Lat,
		Lng:       coord.Lng,
		Status:    models.SOSStatusActive,
		Timestamp: time.Now(),
	}

	if err := s.sosRepo.Create(ctx, alert); err != nil {
		return nil, nil, fmt.Errorf("failed to persist sos alert: %w", err)
	}

	s.logger.WithContext(ctx).LogRecordEvent(database.CollectionSOS, alert.ID, "sos_raised", map[string]interface{}{
		"sos_type": alert.Type,
		"username": alert.Username,
	})

	alerts, err := s.List(ctx)
	if err != nil {
		return alert, nil, fmt.Errorf("failed to reload sos alerts: %w", err)
	}

	return alert, alerts, nil
}

func (s *sosService) Resolve(ctx context.Context, id int64) (*models.SOSAlert, []*models.SOSAlert, error) {
	alert, err := s.sosRepo.Resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithContext(ctx).LogRecordEvent(database.CollectionSOS, alert.ID, "sos_resolved", map[string]interface{}{
		"username": alert.Username,
	})

	alerts, err := s.List(ctx)
	if err != nil {
		return alert, nil, fmt.Errorf("failed to reload sos alerts: %w", err)
	}

	return alert, alerts, nil
}

// List returns alerts newest first.
func (s *sosService) List(ctx context.Context) ([]*models.SOSAlert, error) {
	alerts, err := s.sosRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	reversed := make([]*models.SOSAlert, len(alerts))
	for i, alert := range alerts {
		reversed[len(alerts)-1-i] = alert
	}

	return reversed, nil
}

func (s *sosService) Get(ctx context.Context, id int64) (*models.SOSAlert, error) {
	return s.sosRepo.GetByID(ctx, id)
}
