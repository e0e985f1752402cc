package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commhub/internal/utils"
)

func TestIdentityServiceGeneratesOnce(t *testing.T) {
	settings := newFakeSettingsRepo()
	svc := NewIdentityService(settings, newTestLogger())

	first, err := svc.Username(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, utils.UsernamePrefix))
	assert.Len(t, first, len(utils.UsernamePrefix)+utils.UsernameSuffixLength)

	second, err := svc.Username(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := settings.Get(context.Background(), "username")
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestIdentityServiceReusesPersisted(t *testing.T) {
	settings := newFakeSettingsRepo()
	require.NoError(t, settings.Set(context.Background(), "username", "User_k3x9p"))

	svc := NewIdentityService(settings, newTestLogger())

	username, err := svc.Username(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "User_k3x9p", username)
}

func TestIdentityServiceSurvivesRestart(t *testing.T) {
	settings := newFakeSettingsRepo()

	first, err := NewIdentityService(settings, newTestLogger()).Username(context.Background())
	require.NoError(t, err)

	// A fresh service over the same store sees the same identity.
	second, err := NewIdentityService(settings, newTestLogger()).Username(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
