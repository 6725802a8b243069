package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/server/services"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// AuthHandler serves the unauthenticated auth endpoints.
type AuthHandler struct {
	Auth   *services.Auth
	Logger logging.Logger
}

type credentialsBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.Auth.SignUp(c.Request.Context(), body.Email, body.Password, body.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrorEmailTaken):
			c.JSON(http.StatusConflict, authError("email_taken", "An account with this email already exists"))
		case errors.Is(err, shared.ErrorValidation):
			c.JSON(http.StatusBadRequest, authError("validation", "Email and password are required"))
		default:
			h.logError(c.Request.Context(), "sign-up failed", err)
			c.JSON(http.StatusInternalServerError, authError("unexpected", "Unexpected error"))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{"id": user.ID, "email": user.Email, "display_name": user.DisplayName},
	})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, pair, err := h.Auth.SignIn(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrorInvalidCredentials):
			c.JSON(http.StatusUnauthorized, authError("invalid_credentials", "Invalid login credentials"))
		case errors.Is(err, shared.ErrorEmailNotConfirmed):
			c.JSON(http.StatusForbidden, authError("email_not_confirmed", "Email not confirmed"))
		case errors.Is(err, shared.ErrorRateLimited):
			c.JSON(http.StatusTooManyRequests, authError("over_request_rate_limit", "Too many sign-in attempts, please retry later"))
		default:
			h.logError(c.Request.Context(), "sign-in failed", err)
			c.JSON(http.StatusInternalServerError, authError("unexpected", "Unexpected error"))
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse(user.ID, user.Email, user.DisplayName, pair))
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	var body refreshBody
	// Sign-out never fails from the client's perspective: a missing or
	// unknown token is already signed out.
	_ = c.ShouldBindJSON(&body)
	if err := h.Auth.SignOut(c.Request.Context(), body.RefreshToken); err != nil {
		h.logError(c.Request.Context(), "sign-out failed", err)
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil || body.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, pair, err := h.Auth.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrRefreshTokenExpired):
			c.JSON(http.StatusUnauthorized, authError("refresh_token_expired", "Session expired, please sign in again"))
		case errors.Is(err, shared.ErrorUnauthorized):
			c.JSON(http.StatusUnauthorized, authError("invalid_refresh_token", "Invalid refresh token"))
		default:
			h.logError(c.Request.Context(), "token refresh failed", err)
			c.JSON(http.StatusInternalServerError, authError("unexpected", "Unexpected error"))
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse(user.ID, user.Email, user.DisplayName, pair))
}

func (h *AuthHandler) logError(ctx context.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(ctx, msg, "error", err)
	}
}

func authError(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func tokenResponse(userID, email, displayName string, pair *services.TokenPair) gin.H {
	return gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt.Format(time.RFC3339),
		"user":          gin.H{"id": userID, "email": email, "display_name": displayName},
	}
}
