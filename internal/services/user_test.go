package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

func TestUserService_UpdateProfileAndPreferences(t *testing.T) {
	var paths []string
	client := &fakeAPI{
		PutFunc: func(ctx context.Context, path string, body, out any) error {
			paths = append(paths, path)
			switch path {
			case "/users/me/profile":
				if bodyJSON(body)["name"] != "Ana Silva" {
					t.Fatalf("unexpected profile body %v", body)
				}
				return respond(out, `{"name":"Ana Silva"}`)
			case "/users/me/preferences":
				got := bodyJSON(body)
				if got["max_daily_suggestions"] != float64(7) {
					t.Fatalf("unexpected preferences body %v", got)
				}
				return respond(out, `{"max_daily_suggestions":7}`)
			}
			t.Fatalf("unexpected path %s", path)
			return nil
		},
	}

	svc := NewUserService(client)
	profile, err := svc.UpdateProfile(context.Background(), models.ProfileUpdate{Name: "Ana Silva"})
	if err != nil || profile.Name != "Ana Silva" {
		t.Fatalf("unexpected profile result %+v, %v", profile, err)
	}
	prefs, err := svc.UpdatePreferences(context.Background(), models.PreferencesUpdate{MaxDailySuggestions: 7})
	if err != nil || prefs.MaxDailySuggestions != 7 {
		t.Fatalf("unexpected preferences result %+v, %v", prefs, err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected two PUTs, got %v", paths)
	}
}

func TestUserService_Preferences(t *testing.T) {
	client := &fakeAPI{
		GetFunc: func(ctx context.Context, path string, query url.Values, out any) error {
			if path != "/users/me/preferences" {
				t.Fatalf("unexpected path %s", path)
			}
			return respond(out, `{"notifications":{"email":true,"push":false,"sms":true},"categories_of_interest":["finance","health"]}`)
		},
	}

	prefs, err := NewUserService(client).Preferences(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefs.Notifications == nil || !prefs.Notifications.SMS || len(prefs.CategoriesOfInterest) != 2 {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
}
