package repomanager

import (
	"context"
	"database/sql"

	"github.com/wealthboard/wealthboard/internal/dbx"
	"github.com/wealthboard/wealthboard/internal/server/repositories/investors"
	"github.com/wealthboard/wealthboard/internal/server/repositories/invprofiles"
	"github.com/wealthboard/wealthboard/internal/server/repositories/notifications"
	"github.com/wealthboard/wealthboard/internal/server/repositories/profiles"
	"github.com/wealthboard/wealthboard/internal/server/repositories/refreshtokens"
	"github.com/wealthboard/wealthboard/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run any subset of repositories inside one transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Investors(db dbx.DBTX) investors.Repository
	InvestmentProfiles(db dbx.DBTX) invprofiles.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
