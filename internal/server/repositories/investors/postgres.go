// Package investors provides a PostgreSQL-backed repository for investor
// rows, the first of the two onboarding records.
package investors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wealthboard/wealthboard/internal/dbx"
	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// PostgresRepository implements investor storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUserID returns the investor row for userID, or shared.ErrorNotFound.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Investor, error) {
	query := `
		SELECT id, user_id, full_name, country, net_worth, created_at
		FROM investors
		WHERE user_id = $1
	`
	inv := &models.Investor{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&inv.ID, &inv.UserID, &inv.FullName, &inv.Country, &inv.NetWorth, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

// Upsert inserts the investor row or updates the existing one by user_id,
// returning the row with its DB-generated id.
func (r *PostgresRepository) Upsert(ctx context.Context, investor *models.Investor) (*models.Investor, error) {
	query := `
		INSERT INTO investors (user_id, full_name, country, net_worth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			full_name = EXCLUDED.full_name,
			country = EXCLUDED.country,
			net_worth = EXCLUDED.net_worth
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		investor.UserID, investor.FullName, investor.Country, investor.NetWorth).Scan(&investor.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return investor, nil
}
