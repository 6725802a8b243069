// Package invprofiles provides a PostgreSQL-backed repository for investment
// profile rows, the second of the two onboarding records.
package invprofiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wealthboard/wealthboard/internal/dbx"
	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// PostgresRepository implements investment profile storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByInvestorID returns the investment profile row for investorID,
// or shared.ErrorNotFound.
func (r *PostgresRepository) GetByInvestorID(ctx context.Context, investorID string) (*models.InvestmentProfile, error) {
	query := `
		SELECT id, investor_id, risk_tolerance, horizon_years, annual_income, created_at
		FROM investment_profiles
		WHERE investor_id = $1
	`
	p := &models.InvestmentProfile{}
	err := r.db.QueryRowContext(ctx, query, investorID).Scan(
		&p.ID, &p.InvestorID, &p.RiskTolerance, &p.HorizonYears, &p.AnnualIncome, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Upsert inserts the investment profile row or updates the existing one by
// investor_id, returning the row with its DB-generated id.
func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.InvestmentProfile) (*models.InvestmentProfile, error) {
	query := `
		INSERT INTO investment_profiles (investor_id, risk_tolerance, horizon_years, annual_income)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (investor_id)
		DO UPDATE SET
			risk_tolerance = EXCLUDED.risk_tolerance,
			horizon_years = EXCLUDED.horizon_years,
			annual_income = EXCLUDED.annual_income
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.InvestorID, profile.RiskTolerance, profile.HorizonYears, profile.AnnualIncome).Scan(&profile.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profile, nil
}
