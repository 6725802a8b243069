package investors

import (
	"context"

	"github.com/wealthboard/wealthboard/internal/server/models"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Investor, error)
	Upsert(ctx context.Context, investor *models.Investor) (*models.Investor, error)
}
