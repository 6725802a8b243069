// Package feed is the client for the persistent notification feed. All
// writes go through named server-side procedures so authorization stays on
// the server; reads go through the table gateway.
//
// Every operation degrades instead of failing: errors are logged and the
// caller gets an empty value. A broken feed must never take the page down.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/remote"
)

// Notification kinds understood by the UI. Anything else renders as info.
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

// Notification is one entry in a user's feed.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Kind      string
	ActionURL string
	Read      bool
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// CreateParams describes a notification to insert.
type CreateParams struct {
	UserID    string
	Title     string
	Message   string
	Kind      string
	ActionURL string
	ExpiresAt *time.Time
}

// ListOptions narrows a List call.
type ListOptions struct {
	Limit       int
	IncludeRead bool
}

// Client reads and mutates a user's notification feed. It is safe for
// concurrent use; the cache is guarded the same way the session store and
// toast queue guard their state.
type Client struct {
	rpc    remote.RPC
	tables remote.Table
	logger logging.Logger

	mu     sync.Mutex
	cached []Notification
}

func NewClient(rpc remote.RPC, tables remote.Table, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Client{rpc: rpc, tables: tables, logger: logger.With("module", "notification_feed")}
}

// Create inserts a notification through the create_notification procedure and
// returns the new id, or "" when the call fails.
func (c *Client) Create(ctx context.Context, p CreateParams) string {
	params := map[string]any{
		"p_user_id": p.UserID,
		"p_title":   p.Title,
		"p_message": p.Message,
		"p_kind":    p.Kind,
	}
	if p.ActionURL != "" {
		params["p_action_url"] = p.ActionURL
	}
	if p.ExpiresAt != nil {
		params["p_expires_at"] = *p.ExpiresAt
	}

	res, err := c.rpc.Invoke(ctx, "create_notification", params)
	if err != nil {
		c.logger.Warn(ctx, "create notification failed", "error", err, "title", p.Title)
		return ""
	}

	id, _ := res.(string)
	return id
}

// List fetches the user's notifications, newest first. Read entries are
// excluded unless opts.IncludeRead is set. A fetch failure returns an empty
// list. Successful results are cached for FilterCached.
func (c *Client) List(ctx context.Context, userID string, opts ListOptions) []Notification {
	filters := []remote.Filter{{Column: "user_id", Value: userID}}
	if !opts.IncludeRead {
		filters = append(filters, remote.Filter{Column: "read", Value: false})
	}

	rows, err := c.tables.Select(ctx, "user_notifications", filters, "created_at", true, opts.Limit)
	if err != nil {
		c.logger.Warn(ctx, "list notifications failed", "error", err)
		return []Notification{}
	}

	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notificationFromRow(row))
	}

	// Cache a copy so later cache mutations never write into the slice the
	// caller is holding.
	c.mu.Lock()
	c.cached = append([]Notification(nil), out...)
	c.mu.Unlock()
	return out
}

// MarkRead marks one notification as read, scoped to the owning user.
// Returns false when the procedure fails or reports no matching row.
func (c *Client) MarkRead(ctx context.Context, userID, notificationID string) bool {
	res, err := c.rpc.Invoke(ctx, "mark_notification_read", map[string]any{
		"p_notification_id": notificationID,
		"p_user_id":         userID,
	})
	if err != nil {
		c.logger.Warn(ctx, "mark notification read failed", "error", err, "id", notificationID)
		return false
	}

	ok, _ := res.(bool)
	if ok {
		c.markCachedRead(notificationID)
	}
	return ok
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many were updated, or 0 on failure.
func (c *Client) MarkAllRead(ctx context.Context, userID string) int64 {
	res, err := c.rpc.Invoke(ctx, "mark_all_notifications_read", map[string]any{
		"p_user_id": userID,
	})
	if err != nil {
		c.logger.Warn(ctx, "mark all notifications read failed", "error", err)
		return 0
	}

	n, _ := res.(int64)
	if n > 0 {
		c.mu.Lock()
		for i := range c.cached {
			c.cached[i].Read = true
		}
		c.mu.Unlock()
	}
	return n
}

// Remove deletes one notification, scoped to the owning user so a stale or
// foreign id cannot touch another user's feed. Returns false on failure.
func (c *Client) Remove(ctx context.Context, userID, notificationID string) bool {
	err := c.tables.Delete(ctx, "user_notifications", []remote.Filter{
		{Column: "id", Value: notificationID},
		{Column: "user_id", Value: userID},
	})
	if err != nil {
		c.logger.Warn(ctx, "remove notification failed", "error", err, "id", notificationID)
		return false
	}

	c.mu.Lock()
	for i, n := range c.cached {
		if n.ID == notificationID {
			c.cached = append(c.cached[:i], c.cached[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return true
}

// FilterCached filters the last successful List result in memory, without a
// network round-trip. kind == "" matches all kinds.
func (c *Client) FilterCached(onlyUnread bool, kind string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, 0, len(c.cached))
	for _, n := range c.cached {
		if onlyUnread && n.Read {
			continue
		}
		if kind != "" && n.Kind != kind {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (c *Client) markCachedRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cached {
		if c.cached[i].ID == id {
			c.cached[i].Read = true
			return
		}
	}
}

func notificationFromRow(row remote.Row) Notification {
	n := Notification{
		ID:        stringAt(row, "id"),
		UserID:    stringAt(row, "user_id"),
		Title:     stringAt(row, "title"),
		Message:   stringAt(row, "message"),
		Kind:      stringAt(row, "kind"),
		ActionURL: stringAt(row, "action_url"),
	}
	if n.Kind == "" {
		n.Kind = KindInfo
	}
	if v, ok := row["read"].(bool); ok {
		n.Read = v
	}
	if v, ok := row["created_at"].(time.Time); ok {
		n.CreatedAt = v
	}
	switch v := row["expires_at"].(type) {
	case time.Time:
		n.ExpiresAt = &v
	case *time.Time:
		n.ExpiresAt = v
	}
	return n
}

func stringAt(row remote.Row, column string) string {
	s, _ := row[column].(string)
	return s
}
