package models

import "time"

// Profile is the public-facing user profile row. AvatarURL and CoverURL are
// object-store public URLs written by the upload linkage step.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	AvatarURL   string
	CoverURL    string
	UpdatedAt   time.Time
}
