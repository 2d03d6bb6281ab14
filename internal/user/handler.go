package user

import (
	"errors"
	"net/http"

	"arenabook/internal/api"
	"arenabook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register creates a player account and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loginResponse(sess))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse(sess))
}

func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	access, u, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{AccessToken: access, User: *u})
}

func loginResponse(s *Session) LoginResponse {
	return LoginResponse{
		AccessToken:  s.Tokens.Access,
		RefreshToken: s.Tokens.Refresh,
		User:         *s.User,
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailExists):
		api.Fail(c, http.StatusConflict, "email_exists", "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		api.Fail(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, ErrUserNotFound):
		api.Fail(c, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, auth.ErrTokenExpired):
		api.Fail(c, http.StatusUnauthorized, "token_expired", "Refresh token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenKind):
		api.Fail(c, http.StatusUnauthorized, "invalid_token", "Invalid refresh token")
	default:
		api.Fail(c, http.StatusInternalServerError, "internal", "Internal server error")
	}
}
