package services

import (
	"context"
	"fmt"
	"time"

	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/repositories/notifications"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// Notification kinds accepted by the backend. Anything else is coerced to
// "info" rather than rejected, since notifications are a side channel.
var notificationKinds = map[string]struct{}{
	"info":    {},
	"success": {},
	"warning": {},
	"error":   {},
}

// Notifications implements the notification remote procedures
// (create_notification, mark_notification_read, mark_all_notifications_read)
// plus the owner-scoped list and delete operations.
type Notifications struct {
	repo notifications.Repository
}

// NewNotifications constructs the notification service.
func NewNotifications(repo notifications.Repository) *Notifications {
	return &Notifications{repo: repo}
}

// Create stores a durable notification and returns its id.
func (s *Notifications) Create(ctx context.Context, userID, title, message, kind, actionURL string, expiresAt *time.Time) (string, error) {
	if userID == "" || title == "" {
		return "", shared.ErrorValidation
	}
	if _, ok := notificationKinds[kind]; !ok {
		kind = "info"
	}

	id, err := s.repo.Insert(ctx, &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Kind:      kind,
		ActionURL: actionURL,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("error creating notification: %w", err)
	}
	return id, nil
}

// List returns userID's notifications, newest first. Expired rows are
// excluded by the repository.
func (s *Notifications) List(ctx context.Context, userID string, limit int, includeRead bool) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, !includeRead)
}

// MarkRead flags one notification as read. Marking an already-read or
// missing row reports false, not an error: the operation is idempotent.
func (s *Notifications) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead flags all unread notifications of userID and returns the count.
func (s *Notifications) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete hard-deletes a notification owned by userID.
func (s *Notifications) Delete(ctx context.Context, id, userID string) (bool, error) {
	return s.repo.Delete(ctx, id, userID)
}
