package http

import (
	"errors"
	"net/http"
	"time"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"
	"inknet/internal/core/services"
	apperrors "inknet/pkg/errors"
	"inknet/pkg/utils"
	"inknet/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	userService ports.UserService
	accessTTL   time.Duration
}

func NewAuthHandler(authService services.AuthService, userService ports.UserService, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		accessTTL:   accessTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/refresh", h.RefreshToken)
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,max=2048"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInput("invalid request format"))
		return
	}

	req.Username = utils.SanitizeString(req.Username)
	req.Email = utils.NormalizeEmail(req.Email)

	if err := validation.ValidateUsername(req.Username); err != nil {
		c.Error(apperrors.NewInvalidInput(err.Error()))
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.Error(apperrors.NewInvalidInput(err.Error()))
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.Error(apperrors.NewInvalidInput(err.Error()))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			c.Error(apperrors.NewConflict("username already taken"))
			return
		}
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to register user", http.StatusInternalServerError))
		return
	}

	h.respondWithTokens(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInput("invalid request format"))
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), utils.SanitizeString(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Error(apperrors.NewUnauthorized("invalid credentials"))
			return
		}
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to authenticate", http.StatusInternalServerError))
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInput("invalid request format"))
		return
	}

	claims, err := h.authService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Error(apperrors.NewUnauthorized("invalid refresh token"))
		return
	}

	// Refresh tokens carry no username; resolve it so the new access token
	// does.
	user, err := h.userService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Error(apperrors.NewUnauthorized("invalid refresh token"))
		return
	}

	accessToken, err := h.authService.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate token", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"expires_in":   int(h.accessTTL / time.Second),
	})
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user *domain.User) {
	accessToken, err := h.authService.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate token", http.StatusInternalServerError))
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken(user.ID)
	if err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate refresh token", http.StatusInternalServerError))
		return
	}

	c.JSON(status, gin.H{
		"user_id":       user.ID,
		"username":      user.Username,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(h.accessTTL / time.Second),
	})
}
