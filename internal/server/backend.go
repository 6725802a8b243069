package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wealthboard/wealthboard/internal/remote"
	"github.com/wealthboard/wealthboard/internal/server/config"
	"github.com/wealthboard/wealthboard/internal/server/gateway"
	"github.com/wealthboard/wealthboard/internal/server/repositories/repomanager"
	"github.com/wealthboard/wealthboard/internal/server/services"
	"github.com/wealthboard/wealthboard/internal/server/storage"
)

// Backend exposes the backend through the remote collaborator contracts, for
// clients that embed the server in-process instead of calling the HTTP API.
type Backend struct {
	db      *sql.DB
	auth    *gateway.AuthGateway
	tables  *gateway.TableGateway
	rpc     *gateway.RPCGateway
	objects *storage.S3ObjectStore
}

// NewBackend opens the database, applies migrations, and wires the gateways.
func NewBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	objects, err := storage.NewS3ObjectStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	authSvc := services.NewAuth(rm.Users(db), rm.RefreshTokens(db), cfg)
	notifSvc := services.NewNotifications(rm.Notifications(db))

	return &Backend{
		db:      db,
		auth:    gateway.NewAuthGateway(authSvc),
		tables:  gateway.NewTableGateway(db),
		rpc:     gateway.NewRPCGateway(notifSvc),
		objects: objects,
	}, nil
}

func (b *Backend) Auth() remote.AuthProvider   { return b.auth }
func (b *Backend) Tables() remote.Table        { return b.tables }
func (b *Backend) RPC() remote.RPC             { return b.rpc }
func (b *Backend) Objects() remote.ObjectStore { return b.objects }

func (b *Backend) Close() error { return b.db.Close() }
