package app

import (
	"context"
	"fmt"

	"staybook/internal/domain"
	"staybook/internal/validation"
)

type PreferenceService struct {
	store domain.PreferenceStore
}

func NewPreferenceService(s domain.PreferenceStore) *PreferenceService {
	return &PreferenceService{store: s}
}

// Get returns domain.ErrNotFound when the user has not saved preferences.
func (s *PreferenceService) Get(ctx context.Context, sess domain.Session) (domain.Preferences, error) {
	return s.store.GetPreferences(ctx, sess)
}

// Save validates the submitted form, normalizes it and replaces the stored
// record. Validation failures are returned as *validation.Error.
func (s *PreferenceService) Save(ctx context.Context, sess domain.Session, in domain.PreferencesPayload) (domain.Preferences, error) {
	if err := validation.Struct(in); err != nil {
		return domain.Preferences{}, err
	}
	p := in.Preferences()
	if err := s.store.SetPreferences(ctx, sess, p); err != nil {
		return domain.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}
