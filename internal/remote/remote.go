// Package remote defines the contracts of the hosted backend the dashboard
// client core talks to: an auth provider, a table gateway, named remote
// procedures, and an object store. The client core depends only on these
// interfaces; production wiring binds them to the in-process server
// implementation (internal/server/gateway).
package remote

import (
	"context"
	"time"
)

// Session describes an authenticated user session as seen by the client.
// At most one session is active per auth provider at a time.
type Session struct {
	UserID string
	Email  string
	Token  string
	Expiry time.Time
}

// AuthProvider is the authentication collaborator.
//
// Implementations own the current session: GetSession returns it (nil when
// signed out), and OnAuthStateChange notifies subscribers whenever it is
// replaced — sign-in, sign-out, or a background token refresh.
type AuthProvider interface {
	GetSession(ctx context.Context) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*Session, error)
	SignOut(ctx context.Context) error

	// OnAuthStateChange registers fn to be called with the new session
	// (nil on sign-out) after every session change. The returned function
	// unsubscribes.
	OnAuthStateChange(fn func(*Session)) (unsubscribe func())
}

// Row is a single table row keyed by column name. Value types are the
// gateway's native Go types: string, bool, int64, time.Time, decimal, nil.
type Row map[string]any

// Filter is an equality filter on an indexed column.
type Filter struct {
	Column string
	Value  any
}

// Table is the row-level table collaborator. Collection names are logical
// ("profiles", "investors", "investment_profiles", "user_notifications");
// implementations map them to actual storage.
type Table interface {
	// MaybeSingle returns at most one row matching the filters, or nil with
	// no error when nothing matches.
	MaybeSingle(ctx context.Context, collection string, filters []Filter, columns ...string) (Row, error)

	// Select returns rows matching the filters, ordered by orderBy
	// (descending when desc is set), limited to limit when limit > 0.
	Select(ctx context.Context, collection string, filters []Filter, orderBy string, desc bool, limit int) ([]Row, error)

	// Upsert inserts row or, on a conflict on conflictColumn, updates the
	// existing row with the provided values.
	Upsert(ctx context.Context, collection string, row Row, conflictColumn string) error

	// Delete removes all rows matching the filters.
	Delete(ctx context.Context, collection string, filters []Filter) error
}

// RPC invokes named server-side procedures with named parameters.
type RPC interface {
	Invoke(ctx context.Context, name string, params map[string]any) (any, error)
}

// UploadOptions controls object-store writes.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	// Upsert allows overwriting an existing object at the same path.
	Upsert bool
}

// ObjectStore is the object storage collaborator.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket string, paths []string) error
}
