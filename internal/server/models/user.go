// Package models holds the server-side row types shared by repositories and
// services.
package models

import "time"

type User struct {
	ID             string
	Email          string
	PasswordHash   string
	DisplayName    string
	EmailConfirmed bool
	CreatedAt      time.Time
}
