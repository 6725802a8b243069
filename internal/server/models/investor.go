package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investor is the first of the two onboarding rows. A user has completed
// onboarding once both an Investor and an InvestmentProfile row exist.
type Investor struct {
	ID        string
	UserID    string
	FullName  string
	Country   string
	NetWorth  decimal.Decimal
	CreatedAt time.Time
}

// InvestmentProfile is the second onboarding row, keyed by the investor id.
type InvestmentProfile struct {
	ID            string
	InvestorID    string
	RiskTolerance string
	HorizonYears  int
	AnnualIncome  decimal.Decimal
	CreatedAt     time.Time
}
