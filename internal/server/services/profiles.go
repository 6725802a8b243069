package services

import (
	"context"

	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/repositories/profiles"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// Profiles exposes owner-scoped access to user profile rows. The upload
// linkage step writes avatar/cover URLs through Upsert.
type Profiles struct {
	repo profiles.Repository
}

// NewProfiles constructs the profile service.
func NewProfiles(repo profiles.Repository) *Profiles {
	return &Profiles{repo: repo}
}

// Get returns userID's profile, or shared.ErrorNotFound.
func (s *Profiles) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Upsert writes the profile row. Email and display name are mandatory on
// creation; the repository upsert does not distinguish create from update,
// so the rule is enforced here.
func (s *Profiles) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.UserID == "" || profile.Email == "" || profile.DisplayName == "" {
		return shared.ErrorValidation
	}
	return s.repo.Upsert(ctx, profile)
}
