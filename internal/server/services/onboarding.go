package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wealthboard/wealthboard/internal/dbx"
	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/repositories/repomanager"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// Onboarding manages the two dependent onboarding rows: the investor record
// keyed by user id, and the investment profile keyed by the investor id.
type Onboarding struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

// NewOnboarding constructs the onboarding service.
func NewOnboarding(db *sql.DB, rm repomanager.RepositoryManager) *Onboarding {
	return &Onboarding{db: db, rm: rm}
}

// GetInvestor returns userID's investor row, or shared.ErrorNotFound.
func (s *Onboarding) GetInvestor(ctx context.Context, userID string) (*models.Investor, error) {
	return s.rm.Investors(s.db).GetByUserID(ctx, userID)
}

// UpsertInvestor creates or updates userID's investor row.
func (s *Onboarding) UpsertInvestor(ctx context.Context, inv *models.Investor) (*models.Investor, error) {
	if inv.UserID == "" || inv.FullName == "" {
		return nil, shared.ErrorValidation
	}
	return s.rm.Investors(s.db).Upsert(ctx, inv)
}

// GetInvestmentProfile returns the investment profile for userID's investor
// row, or shared.ErrorNotFound when either row is missing.
func (s *Onboarding) GetInvestmentProfile(ctx context.Context, userID string) (*models.InvestmentProfile, error) {
	inv, err := s.rm.Investors(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.rm.InvestmentProfiles(s.db).GetByInvestorID(ctx, inv.ID)
}

// UpsertInvestmentProfile creates or updates the investment profile for
// userID's investor row. The investor row must exist first: the second
// onboarding step depends on the first, so the lookup and the write run in
// one transaction to keep the profile from attaching to a deleted investor.
func (s *Onboarding) UpsertInvestmentProfile(ctx context.Context, userID string, p *models.InvestmentProfile) (*models.InvestmentProfile, error) {
	var out *models.InvestmentProfile

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		inv, err := s.rm.Investors(tx).GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("investor lookup: %w", err)
		}
		p.InvestorID = inv.ID

		out, err = s.rm.InvestmentProfiles(tx).Upsert(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
