package notifications

import (
	"context"

	"github.com/wealthboard/wealthboard/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, n *models.Notification) (string, error)
	ListByUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}
