package profiles

import (
	"context"

	"github.com/wealthboard/wealthboard/internal/server/models"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}
