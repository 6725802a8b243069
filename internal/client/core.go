// Package client assembles the dashboard client core: session store, toast
// queue, notification feed, and the image upload pipeline, all bound to the
// remote collaborator contracts.
package client

import (
	"context"

	"github.com/wealthboard/wealthboard/internal/client/feed"
	"github.com/wealthboard/wealthboard/internal/client/session"
	"github.com/wealthboard/wealthboard/internal/client/toast"
	"github.com/wealthboard/wealthboard/internal/client/upload"
	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/remote"
)

// Core bundles the client-side components behind one constructor. All
// components share the same collaborators and logger.
type Core struct {
	Session *session.Store
	Toasts  *toast.Queue
	Feed    *feed.Client
	Uploads *upload.Pipeline
}

// New wires the client core. objects may be nil when the embedding app does
// not offer image uploads; Uploads is nil in that case.
func New(auth remote.AuthProvider, tables remote.Table, rpc remote.RPC, objects remote.ObjectStore, logger logging.Logger) *Core {
	feedClient := feed.NewClient(rpc, tables, logger)

	core := &Core{
		Session: session.NewStore(auth, tables, logger),
		Toasts:  toast.NewQueue(),
		Feed:    feedClient,
	}
	if objects != nil {
		core.Uploads = upload.NewPipeline(objects, tables, feedClient, logger)
	}
	return core
}

// Init resolves the initial session and onboarding state.
func (c *Core) Init(ctx context.Context) {
	c.Session.Init(ctx)
}

// Close detaches the core from auth notifications.
func (c *Core) Close() {
	c.Session.Close()
}
