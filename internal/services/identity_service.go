package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"commhub/internal/repositories/interfaces"
	"commhub/internal/utils"
	"commhub/pkg/logger"
)

const usernameSettingKey = "username"

// IdentityService owns the device's pseudonymous display name. The name is
// generated once, persisted in the settings collection, and reused across
// restarts. It is never checked for uniqueness against other devices.
type IdentityService interface {
	Username(ctx context.Context) (string, error)
}

type identityService struct {
	settingsRepo interfaces.SettingsRepository
	logger       *logger.Logger

	mu     sync.Mutex
	cached string
}

func NewIdentityService(settingsRepo interfaces.SettingsRepository, log *logger.Logger) IdentityService {
	return &identityService{
		settingsRepo: settingsRepo,
		logger:       log,
	}
}

func (s *identityService) Username(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	username, err := s.settingsRepo.Get(ctx, usernameSettingKey)
	if err == nil {
		s.cached = username
		return username, nil
	}

	if !errors.Is(err, interfaces.ErrNotFound) {
		return "", fmt.Errorf("failed to load identity: %w", err)
	}

	username = utils.GenerateUsername()
	if err := s.settingsRepo.Set(ctx, usernameSettingKey, username); err != nil {
		return "", fmt.Errorf("failed to persist identity: %w", err)
	}

	s.logger.WithUsername(username).Info("Generated device identity")
	s.cached = username

	return username, nil
}
