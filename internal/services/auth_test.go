package services

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/tokenstore"
)

func quietLogger() *logging.Logger {
	return logging.New().SetOutput(&bytes.Buffer{})
}

func TestAuthService_LoginPersistsBothTokens(t *testing.T) {
	ctx := context.Background()
	tokens := tokenstore.NewMemoryStore()
	client := &fakeAPI{
		PostFunc: func(ctx context.Context, path string, body, out any) error {
			if path != "/auth/login" {
				t.Fatalf("unexpected path %s", path)
			}
			if got := bodyJSON(body); got["username"] != "ana" || got["password"] != "Secret#123" {
				t.Fatalf("unexpected body %v", got)
			}
			return respond(out, `{"access_token":"a","refresh_token":"r","token_type":"bearer"}`)
		},
	}

	svc := NewAuthService(client, tokens, quietLogger())
	pair, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "Secret#123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := tokens.Load(ctx)
	if stored != pair || stored.AccessToken != "a" || stored.RefreshToken != "r" {
		t.Fatalf("expected pair to be stored, got %+v", stored)
	}
	if !svc.IsAuthenticated(ctx) {
		t.Fatal("expected authenticated after login")
	}
}

func TestAuthService_LoginFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	tokens := tokenstore.NewMemoryStore()
	client := &fakeAPI{
		PostFunc: func(ctx context.Context, path string, body, out any) error {
			return errors.New("bad credentials")
		},
	}

	svc := NewAuthService(client, tokens, quietLogger())
	if _, err := svc.Login(ctx, models.Credentials{}); err == nil {
		t.Fatal("expected error")
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatal("expected no session after failed login")
	}
}

func TestAuthService_RegisterMapsNameToUsername(t *testing.T) {
	var got map[string]interface{}
	client := &fakeAPI{
		PostFunc: func(ctx context.Context, path string, body, out any) error {
			if path != "/auth/register" {
				t.Fatalf("unexpected path %s", path)
			}
			got = bodyJSON(body)
			return nil
		},
	}

	tokens := tokenstore.NewMemoryStore()
	svc := NewAuthService(client, tokens, quietLogger())
	err := svc.Register(context.Background(), models.RegisterParams{Name: "ana_silva", Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["username"] != "ana_silva" || got["email"] != "ana@example.com" || got["password"] != "pw" {
		t.Fatalf("unexpected body %v", got)
	}
	if _, ok := got["name"]; ok {
		t.Fatal("name must not be sent")
	}
	if svc.IsAuthenticated(context.Background()) {
		t.Fatal("registration must not establish a session")
	}
}

func TestAuthService_LogoutClearsEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	tokens := tokenstore.NewMemoryStore()
	_ = tokens.Save(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"})

	posted := false
	client := &fakeAPI{
		PostFunc: func(ctx context.Context, path string, body, out any) error {
			posted = true
			if path != "/auth/logout" {
				t.Fatalf("unexpected path %s", path)
			}
			return errors.New("network down")
		},
	}

	svc := NewAuthService(client, tokens, quietLogger())
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !posted {
		t.Fatal("expected best-effort server logout")
	}
	if _, err := tokens.Load(ctx); !errors.Is(err, tokenstore.ErrNoTokens) {
		t.Fatalf("expected tokens cleared, got %v", err)
	}
}

func TestAuthService_LogoutWithoutSessionSkipsServer(t *testing.T) {
	client := &fakeAPI{
		PostFunc: func(ctx context.Context, path string, body, out any) error {
			t.Fatal("no server call expected without a session")
			return nil
		},
	}
	svc := NewAuthService(client, tokenstore.NewMemoryStore(), quietLogger())
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	tokens := tokenstore.NewMemoryStore()
	_ = tokens.Save(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"})

	client := &fakeAPI{
		PostFunc: func(ctx context.Context, path string, body, out any) error {
			if path != "/auth/refresh" || bodyJSON(body)["refresh_token"] != "r" {
				t.Fatalf("unexpected refresh call %s %v", path, body)
			}
			return respond(out, `{"access_token":"a2"}`)
		},
	}

	pair, err := NewAuthService(client, tokens, quietLogger()).Refresh(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken != "a2" || pair.RefreshToken != "r" {
		t.Fatalf("expected refresh token to be kept, got %+v", pair)
	}
}

func TestAuthService_RefreshWithoutSession(t *testing.T) {
	svc := NewAuthService(&fakeAPI{}, tokenstore.NewMemoryStore(), quietLogger())
	if _, err := svc.Refresh(context.Background()); !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	client := &fakeAPI{
		GetFunc: func(ctx context.Context, path string, query url.Values, out any) error {
			if path != "/users/me/profile" {
				t.Fatalf("unexpected path %s", path)
			}
			return respond(out, `{"id":"7d8f4c3e-1b2a-4c5d-9e6f-0a1b2c3d4e5f","username":"ana","email":"ana@example.com","profile":{"name":"Ana Silva"}}`)
		},
	}

	user, err := NewAuthService(client, tokenstore.NewMemoryStore(), quietLogger()).CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DisplayName() != "Ana" {
		t.Fatalf("expected display name Ana, got %q", user.DisplayName())
	}
}
