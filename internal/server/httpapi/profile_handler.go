package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/services"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// ProfileHandler serves the authenticated user's profile row.
type ProfileHandler struct {
	Profiles *services.Profiles
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	profile, err := h.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}

	c.JSON(http.StatusOK, profileJSON(profile))
}

type upsertProfileBody struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	CoverURL    string `json:"cover_url"`
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	var body upsertProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile := &models.Profile{
		UserID:      userID,
		Email:       body.Email,
		DisplayName: body.DisplayName,
		AvatarURL:   body.AvatarURL,
		CoverURL:    body.CoverURL,
	}
	if err := h.Profiles.Upsert(c.Request.Context(), profile); err != nil {
		if errors.Is(err, shared.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and display_name are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}

	c.JSON(http.StatusOK, profileJSON(profile))
}

func profileJSON(p *models.Profile) gin.H {
	return gin.H{
		"user_id":      p.UserID,
		"email":        p.Email,
		"display_name": p.DisplayName,
		"avatar_url":   p.AvatarURL,
		"cover_url":    p.CoverURL,
	}
}
