package interfaces

import (
	"context"
)

// SettingsRepository is the small key-value store behind device-local
// settings such as the persisted identity.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
