package interfaces

import (
	"context"
	"errors"

	"commhub/internal/models"
)

// ErrNotFound is returned when a record id does not exist in its collection.
var ErrNotFound = errors.New("record not found")

// SpotRepository persists green spots. The collection is append-only: there
// is no update or delete, and GetAll returns records in insertion order.
type SpotRepository interface {
	Create(ctx context.Context, spot *models.Spot) error
	GetAll(ctx context.Context) ([]*models.Spot, error)
	GetByCategory(ctx context.Context, category models.SpotCategory) ([]*models.Spot, error)
	Count(ctx context.Context) (int64, error)
}
