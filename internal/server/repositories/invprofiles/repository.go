package invprofiles

import (
	"context"

	"github.com/wealthboard/wealthboard/internal/server/models"
)

type Repository interface {
	GetByInvestorID(ctx context.Context, investorID string) (*models.InvestmentProfile, error)
	Upsert(ctx context.Context, profile *models.InvestmentProfile) (*models.InvestmentProfile, error)
}
