package interfaces

import (
	"context"
	"errors"

	"commhub/internal/models"
)

// ErrAlreadyResolved is returned when resolving an alert that is not active.
var ErrAlreadyResolved = errors.New("alert already resolved")

// SOSRepository persists SOS alerts. Alerts are append-only except for the
// one-way active -> resolved transition.
type SOSRepository interface {
	Create(ctx context.Context, alert *models.SOSAlert) error
	GetAll(ctx context.Context) ([]*models.SOSAlert, error)
	GetByID(ctx context.Context, id int64) (*models.SOSAlert, error)
	Resolve(ctx context.Context, id int64) (*models.SOSAlert, error)
	Count(ctx context.Context) (int64, error)
}
