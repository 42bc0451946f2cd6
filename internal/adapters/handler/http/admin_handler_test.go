package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http"
	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http/middleware"
	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/repository"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
)

type adminFixture struct {
	router *gin.Engine
	svc    *services.AuthService
	admin  string // caller's user ID, set on every request
}

func setupAdminRouter(t *testing.T) *adminFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemoryUserRepository()
	tokens := services.NewTokenService("test-secret", "takeoff-test", time.Hour, repo)
	svc := services.NewAuthService(repo, tokens)

	admin, err := svc.CreateUser(context.Background(), services.CreateUserInput{
		Username: "admin",
		Password: "admin-pass",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	f := &adminFixture{svc: svc, admin: admin.ID}

	router := gin.New()
	group := router.Group("/api/v1/admin")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, f.admin)
		c.Set(middleware.ContextIsAdminKey, true)
		c.Next()
	})
	group.Use(middleware.AdminMiddleware())
	adapterHTTP.NewAdminHandler(svc).RegisterRoutes(group)

	f.router = router
	return f
}

func TestAdminHandler_Create(t *testing.T) {
	f := setupAdminRouter(t)

	t.Run("Creates and returns the user", func(t *testing.T) {
		w := perform(f.router, http.MethodPost, "/api/v1/admin/users", gin.H{
			"username": "pilot",
			"password": "pilot-pass",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			IsAdmin  bool   `json:"is_admin"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "pilot", resp.Username)
		assert.False(t, resp.IsAdmin)
	})

	t.Run("Duplicate username is a 409", func(t *testing.T) {
		w := perform(f.router, http.MethodPost, "/api/v1/admin/users", gin.H{
			"username": "pilot",
			"password": "other-pass",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Binding enforces field lengths", func(t *testing.T) {
		w := perform(f.router, http.MethodPost, "/api/v1/admin/users", gin.H{
			"username": "x",
			"password": "pilot-pass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = perform(f.router, http.MethodPost, "/api/v1/admin/users", gin.H{
			"username": "copilot",
			"password": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler_ListAndDelete(t *testing.T) {
	f := setupAdminRouter(t)

	w := perform(f.router, http.MethodPost, "/api/v1/admin/users", gin.H{
		"username": "pilot",
		"password": "pilot-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("List shows both accounts", func(t *testing.T) {
		w := perform(f.router, http.MethodGet, "/api/v1/admin/users", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Users []struct {
				Username string `json:"username"`
			} `json:"users"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Users, 2)
	})

	t.Run("Self-deletion is a 400", func(t *testing.T) {
		w := perform(f.router, http.MethodDelete, "/api/v1/admin/users/"+f.admin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "own account")
	})

	t.Run("Deleting another user is a 204", func(t *testing.T) {
		w := perform(f.router, http.MethodDelete, "/api/v1/admin/users/"+created.ID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Deleting a ghost is a 404", func(t *testing.T) {
		w := perform(f.router, http.MethodDelete, "/api/v1/admin/users/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminHandler_ChangePassword(t *testing.T) {
	f := setupAdminRouter(t)

	w := perform(f.router, http.MethodPost, "/api/v1/admin/users", gin.H{
		"username": "pilot",
		"password": "pilot-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("Resets the password", func(t *testing.T) {
		w := perform(f.router, http.MethodPut, "/api/v1/admin/users/"+created.ID+"/password", gin.H{
			"new_password": "fresh-pass",
		})
		require.Equal(t, http.StatusOK, w.Code)

		_, err := f.svc.Login(context.Background(), services.LoginInput{Username: "pilot", Password: "fresh-pass"})
		assert.NoError(t, err)
	})

	t.Run("Unknown target is a 404", func(t *testing.T) {
		w := perform(f.router, http.MethodPut, "/api/v1/admin/users/ghost/password", gin.H{
			"new_password": "fresh-pass",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
