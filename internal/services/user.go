package services

import (
	"context"
	"fmt"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

type UserService struct {
	client APIClient
}

func NewUserService(client APIClient) *UserService {
	return &UserService{client: client}
}

// Profile returns the canonical user, profile included.
func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, "/users/me/profile", nil, &user); err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.Put(ctx, "/users/me/profile", update, &profile); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return &profile, nil
}

func (s *UserService) Preferences(ctx context.Context) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := s.client.Get(ctx, "/users/me/preferences", nil, &prefs); err != nil {
		return nil, fmt.Errorf("getting preferences: %w", err)
	}
	return &prefs, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := s.client.Put(ctx, "/users/me/preferences", update, &prefs); err != nil {
		return nil, fmt.Errorf("updating preferences: %w", err)
	}
	return &prefs, nil
}
