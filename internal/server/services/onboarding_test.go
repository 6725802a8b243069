package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/repositories/repomanager"
	"github.com/wealthboard/wealthboard/internal/shared"
)

func newOnboardingWithMock(t *testing.T) (*Onboarding, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOnboarding(db, repomanager.NewPostgresRepositoryManager()), mock
}

func TestUpsertInvestor_Validation(t *testing.T) {
	s, _ := newOnboardingWithMock(t)

	_, err := s.UpsertInvestor(context.Background(), &models.Investor{UserID: "u-1"})
	require.ErrorIs(t, err, shared.ErrorValidation)

	_, err = s.UpsertInvestor(context.Background(), &models.Investor{FullName: "Alice"})
	require.ErrorIs(t, err, shared.ErrorValidation)
}

func TestUpsertInvestmentProfile_RunsInTransaction(t *testing.T) {
	s, mock := newOnboardingWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, user_id, full_name, country, net_worth, created_at\s+FROM investors`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "full_name", "country", "net_worth", "created_at"}).
			AddRow("inv-1", "u-1", "Alice", "LV", "120000", time.Now()))
	mock.ExpectQuery(`INSERT INTO investment_profiles`).
		WithArgs("inv-1", "balanced", 10, decimal.NewFromInt(90000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ip-1"))
	mock.ExpectCommit()

	p, err := s.UpsertInvestmentProfile(context.Background(), "u-1", &models.InvestmentProfile{
		RiskTolerance: "balanced",
		HorizonYears:  10,
		AnnualIncome:  decimal.NewFromInt(90000),
	})
	require.NoError(t, err)
	require.Equal(t, "ip-1", p.ID)
	require.Equal(t, "inv-1", p.InvestorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertInvestmentProfile_MissingInvestorRollsBack(t *testing.T) {
	s, mock := newOnboardingWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, user_id, full_name, country, net_worth, created_at\s+FROM investors`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "full_name", "country", "net_worth", "created_at"}))
	mock.ExpectRollback()

	_, err := s.UpsertInvestmentProfile(context.Background(), "u-1", &models.InvestmentProfile{
		RiskTolerance: "balanced",
	})
	require.ErrorIs(t, err, shared.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
