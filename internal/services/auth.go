package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HammerMeetNail/suggestly/internal/api"
	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/tokenstore"
)

var ErrNoRefreshToken = errors.New("no refresh token stored")

// logoutTimeout bounds the best-effort server-side invalidation.
const logoutTimeout = 3 * time.Second

type AuthService struct {
	client APIClient
	tokens tokenstore.Store
	logger *logging.Logger
}

func NewAuthService(client APIClient, tokens tokenstore.Store, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default
	}
	return &AuthService{client: client, tokens: tokens, logger: logger.WithComponent("auth_service")}
}

// Login exchanges credentials for a token pair and persists both tokens.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var pair models.TokenPair
	if err := s.client.Post(ctx, "/auth/login", creds, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("logging in: %w", err)
	}
	if pair.Empty() {
		return models.TokenPair{}, fmt.Errorf("logging in: %w", api.ErrUnexpectedShape)
	}
	if err := s.tokens.Save(ctx, pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("saving session: %w", err)
	}
	return pair, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates the account. The backend takes the display name as the
// username. No session is established.
func (s *AuthService) Register(ctx context.Context, params models.RegisterParams) error {
	body := registerRequest{
		Username: params.Name,
		Email:    params.Email,
		Password: params.Password,
	}
	if err := s.client.Post(ctx, "/auth/register", body, nil); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

// Logout clears the stored tokens, then asks the backend to invalidate the
// old access token. The server call cannot fail the logout.
func (s *AuthService) Logout(ctx context.Context) error {
	pair, loadErr := s.tokens.Load(ctx)
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	if loadErr != nil || pair.AccessToken == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(api.WithToken(ctx, pair.AccessToken), logoutTimeout)
	defer cancel()
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.logger.Debug("Server-side logout failed", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, "/users/me/profile", nil, &user); err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}
	return &user, nil
}

// Refresh trades the stored refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context) (models.TokenPair, error) {
	current, err := s.tokens.Load(ctx)
	if err != nil || current.RefreshToken == "" {
		return models.TokenPair{}, ErrNoRefreshToken
	}

	var pair models.TokenPair
	body := map[string]string{"refresh_token": current.RefreshToken}
	if err := s.client.Post(ctx, "/auth/refresh", body, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("refreshing session: %w", err)
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = current.RefreshToken
	}
	if err := s.tokens.Save(ctx, pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("saving session: %w", err)
	}
	return pair, nil
}

// IsAuthenticated reports whether a session marker is stored. It does not
// contact the backend.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	pair, err := s.tokens.Load(ctx)
	return err == nil && !pair.Empty()
}
