package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/constants"
	"github.com/yukikurage/agiliza-api/internal/dto"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
	"github.com/yukikurage/agiliza-api/internal/middleware"
	"github.com/yukikurage/agiliza-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	log         *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// Register creates a regular user and signs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username     string `json:"username" binding:"required,max=80"`
		Email        string `json:"email" binding:"required,email,max=120"`
		Password     string `json:"password" binding:"required"`
		Name         string `json:"name" binding:"required,max=100"`
		DepartmentID uint64 `json:"department_id" binding:"required"`
		AvatarColor  string `json:"avatar_color" binding:"omitempty,hexcolor"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	session, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		AvatarColor:  req.AvatarColor,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	if !h.saveSession(c, session.User.ID) {
		return
	}
	c.JSON(http.StatusCreated, dto.ToAuthResponse(session))
}

// Login authenticates a user, issues a token and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	if !h.saveSession(c, session.User.ID) {
		return
	}
	c.JSON(http.StatusOK, dto.ToAuthResponse(session))
}

// Logout removes the authentication session. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) saveSession(c *gin.Context, userID uint64) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		h.log.WithError(err).Error("Failed to save session")
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
