package models

import "time"

// Notification is a durable per-user notification row. ExpiresAt is nil for
// notifications that never expire.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Kind      string
	Read      bool
	ActionURL string
	CreatedAt time.Time
	ExpiresAt *time.Time
}
