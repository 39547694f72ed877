package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"productstore-backend/internal/domains/user"
	"productstore-backend/internal/shared/response"
	"productstore-backend/pkg/logger"
)

// UserHandler handles HTTP requests for the user domain
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	userDTO, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+userDTO.ID.String())
	response.Success(c, http.StatusCreated, userDTO)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	loginResp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loginResp)
}

// Logout handles POST /auth/logout (authenticated)
func (h *UserHandler) Logout(c *gin.Context) {
	token := c.GetString("sessionToken")
	if token == "" {
		response.Unauthorized(c, "no active session")
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// ========================================
// OAUTH ENDPOINTS
// ========================================

// OAuthLogin handles GET /auth/oauth/:provider
// Redirects the browser to the provider consent page with a state cookie.
func (h *UserHandler) OAuthLogin(c *gin.Context) {
	provider := c.Param("provider")

	state := generateOAuthState()
	c.SetCookie("oauthstate", state, int((10 * time.Minute).Seconds()), "/", "", false, true)

	url, err := h.service.OAuthRedirectURL(provider, state)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// OAuthCallback handles GET /auth/oauth/:provider/callback
func (h *UserHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")

	expectedState, err := c.Cookie("oauthstate")
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		response.Unauthorized(c, "invalid oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "missing authorization code")
		return
	}

	loginResp, err := h.service.CompleteOAuth(c.Request.Context(), provider, code)
	if err != nil {
		h.handleError(c, err)
		return
	}

	logger.Info("oauth login completed", map[string]interface{}{
		"provider": provider,
		"user_id":  loginResp.User.ID,
	})

	response.Success(c, http.StatusOK, loginResp)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /users/me (authenticated)
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	userDTO, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userDTO)
}

// UpdateProfile handles PUT /users/me (authenticated)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	userDTO, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userDTO)
}

// handleError maps domain errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", verrs)
		return
	}

	switch {
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, "email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid email or password")
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, user.ErrUnsupportedProvider):
		response.BadRequest(c, "unsupported oauth provider")
	case errors.Is(err, user.ErrOAuthNotConfigured):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "OAUTH_NOT_CONFIGURED", "oauth provider is not configured")
	case errors.Is(err, user.ErrOAuthExchangeFailed):
		response.Unauthorized(c, "oauth login failed")
	default:
		logger.Error("user handler error", err)
		response.InternalServerError(c, "internal server error")
	}
}

func generateOAuthState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
