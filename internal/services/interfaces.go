package services

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

// APIClient is the transport the services map requests onto.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	GetList(ctx context.Context, path string, query url.Values, out any, envelopes ...string) error
}

// AuthServiceInterface defines the contract for session operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	Register(ctx context.Context, params models.RegisterParams) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) (models.TokenPair, error)
	IsAuthenticated(ctx context.Context) bool
}

// SuggestionServiceInterface defines the contract for suggestion operations.
type SuggestionServiceInterface interface {
	List(ctx context.Context, filters models.Filters) ([]models.Suggestion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	Accept(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.InteractResponse, error)
	Postpone(ctx context.Context, id uuid.UUID, until time.Time) (*models.InteractResponse, error)
	Execute(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// UserServiceInterface defines the contract for profile operations.
type UserServiceInterface interface {
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	Preferences(ctx context.Context) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error)
}

// AnalyticsServiceInterface defines the contract for history and analytics.
type AnalyticsServiceInterface interface {
	DashboardStats(ctx context.Context) (*models.Stats, error)
	BehaviorPatterns(ctx context.Context) (*models.BehaviorAnalysis, error)
	Engagement(ctx context.Context) (*models.EngagementMetrics, error)
	ActivityHistory(ctx context.Context, q models.HistoryQuery) ([]models.Interaction, error)
	Transactions(ctx context.Context, q models.HistoryQuery) ([]models.Transaction, error)
	Transaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}
