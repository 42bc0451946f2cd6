package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http/middleware"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
)

// AdminHandler exposes user management. Every route here sits behind the
// admin middleware.
type AdminHandler struct {
	service *services.AuthService
}

func NewAdminHandler(service *services.AuthService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	IsAdmin  bool   `json:"is_admin"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.DELETE("/:id", h.Delete)
		users.PUT("/:id/password", h.ChangePassword)
	}
}

func (h *AdminHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *AdminHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		case errors.Is(err, domain.ErrUsernameTooShort),
			errors.Is(err, domain.ErrUsernameTooLong),
			errors.Is(err, domain.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			handleError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	targetID := c.Param("id")

	if err := h.service.DeleteUser(c.Request.Context(), callerID, targetID); err != nil {
		if errors.Is(err, domain.ErrCannotDeleteSelf) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
			return
		}
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ChangePassword(c *gin.Context) {
	targetID := c.Param("id")

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), targetID, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrPasswordTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
