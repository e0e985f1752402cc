package interfaces

import (
	"context"

	"commhub/internal/models"
)

// MessageRepository persists chat messages, append-only, insertion order.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetAll(ctx context.Context) ([]*models.Message, error)
	GetByUsername(ctx context.Context, username string) ([]*models.Message, error)
	Count(ctx context.Context) (int64, error)
}
