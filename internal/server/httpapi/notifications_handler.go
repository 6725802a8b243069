package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/services"
)

// NotificationHandler serves the owner-scoped notification feed endpoints.
type NotificationHandler struct {
	Notifications *services.Notifications
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	includeRead := c.Query("include_read") == "true"

	items, err := h.Notifications.List(c.Request.Context(), userID, limit, includeRead)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, n := range items {
		out = append(out, notificationJSON(n))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

type createNotificationBody struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Kind      string     `json:"kind"`
	ActionURL string     `json:"action_url"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *NotificationHandler) Create(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	var body createNotificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if body.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	id, err := h.Notifications.Create(c.Request.Context(), userID, body.Title, body.Message, body.Kind, body.ActionURL, body.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	updated, err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	count, err := h.Notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	deleted, err := h.Notifications.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func notificationJSON(n *models.Notification) gin.H {
	out := gin.H{
		"id":         n.ID,
		"user_id":    n.UserID,
		"title":      n.Title,
		"message":    n.Message,
		"kind":       n.Kind,
		"read":       n.Read,
		"action_url": n.ActionURL,
		"created_at": n.CreatedAt.Format(time.RFC3339),
	}
	if n.ExpiresAt != nil {
		out["expires_at"] = n.ExpiresAt.Format(time.RFC3339)
	}
	return out
}
