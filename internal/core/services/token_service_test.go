package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/repository"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
)

func seedUser(t *testing.T, repo *repository.InMemoryUserRepository, id, username string, isAdmin bool) *domain.User {
	t.Helper()
	user, err := domain.NewUser(id, username, isAdmin)
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("secret-pass"))
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestTokenService_RoundTrip(t *testing.T) {
	repo := repository.NewInMemoryUserRepository()
	svc := services.NewTokenService("test-secret", "takeoff-test", time.Hour, repo)

	user := seedUser(t, repo, "u1", "pilot", true)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestTokenService_AdminFlagFollowsLiveUser(t *testing.T) {
	repo := repository.NewInMemoryUserRepository()
	svc := services.NewTokenService("test-secret", "takeoff-test", time.Hour, repo)

	user := seedUser(t, repo, "u1", "pilot", true)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	// demote after the token was issued
	demoted := *user
	demoted.IsAdmin = false
	require.NoError(t, repo.Delete(context.Background(), user.ID))
	require.NoError(t, repo.Create(context.Background(), &demoted))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin, "admin claim must not outlive a demotion")
}

func TestTokenService_Rejections(t *testing.T) {
	repo := repository.NewInMemoryUserRepository()
	svc := services.NewTokenService("test-secret", "takeoff-test", time.Hour, repo)
	user := seedUser(t, repo, "u1", "pilot", false)

	t.Run("Tampered token", func(t *testing.T) {
		token, err := svc.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token + "x")
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := services.NewTokenService("other-secret", "takeoff-test", time.Hour, repo)
		token, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		other := services.NewTokenService("test-secret", "someone-else", time.Hour, repo)
		token, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := services.NewTokenService("test-secret", "takeoff-test", -time.Minute, repo)
		token, err := expired.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Deleted user", func(t *testing.T) {
		ghost := seedUser(t, repo, "u2", "ghost", false)
		token, err := svc.GenerateToken(ghost)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(context.Background(), "u2"))

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
