package store

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/models"
)

func quietLogger() *logging.Logger {
	return logging.New().SetOutput(&bytes.Buffer{})
}

type mockSuggestionService struct {
	ListFunc     func(ctx context.Context, filters models.Filters) ([]models.Suggestion, error)
	GetFunc      func(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	AcceptFunc   func(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error)
	RejectFunc   func(ctx context.Context, id uuid.UUID, reason string) (*models.InteractResponse, error)
	PostponeFunc func(ctx context.Context, id uuid.UUID, until time.Time) (*models.InteractResponse, error)
	ExecuteFunc  func(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error)
	StatsFunc    func(ctx context.Context) (*models.Stats, error)
}

func (m *mockSuggestionService) List(ctx context.Context, filters models.Filters) ([]models.Suggestion, error) {
	return m.ListFunc(ctx, filters)
}

func (m *mockSuggestionService) Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockSuggestionService) Accept(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error) {
	return m.AcceptFunc(ctx, id)
}

func (m *mockSuggestionService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.InteractResponse, error) {
	return m.RejectFunc(ctx, id, reason)
}

func (m *mockSuggestionService) Postpone(ctx context.Context, id uuid.UUID, until time.Time) (*models.InteractResponse, error) {
	return m.PostponeFunc(ctx, id, until)
}

func (m *mockSuggestionService) Execute(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error) {
	return m.ExecuteFunc(ctx, id)
}

func (m *mockSuggestionService) Stats(ctx context.Context) (*models.Stats, error) {
	return m.StatsFunc(ctx)
}

type mockAnalyticsService struct {
	DashboardStatsFunc   func(ctx context.Context) (*models.Stats, error)
	BehaviorPatternsFunc func(ctx context.Context) (*models.BehaviorAnalysis, error)
	EngagementFunc       func(ctx context.Context) (*models.EngagementMetrics, error)
	ActivityHistoryFunc  func(ctx context.Context, q models.HistoryQuery) ([]models.Interaction, error)
	TransactionsFunc     func(ctx context.Context, q models.HistoryQuery) ([]models.Transaction, error)
	TransactionFunc      func(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

func (m *mockAnalyticsService) DashboardStats(ctx context.Context) (*models.Stats, error) {
	return m.DashboardStatsFunc(ctx)
}

func (m *mockAnalyticsService) BehaviorPatterns(ctx context.Context) (*models.BehaviorAnalysis, error) {
	return m.BehaviorPatternsFunc(ctx)
}

func (m *mockAnalyticsService) Engagement(ctx context.Context) (*models.EngagementMetrics, error) {
	return m.EngagementFunc(ctx)
}

func (m *mockAnalyticsService) ActivityHistory(ctx context.Context, q models.HistoryQuery) ([]models.Interaction, error) {
	return m.ActivityHistoryFunc(ctx, q)
}

func (m *mockAnalyticsService) Transactions(ctx context.Context, q models.HistoryQuery) ([]models.Transaction, error) {
	return m.TransactionsFunc(ctx, q)
}

func (m *mockAnalyticsService) Transaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return m.TransactionFunc(ctx, id)
}

type mockAuthService struct {
	LoginFunc           func(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	RegisterFunc        func(ctx context.Context, params models.RegisterParams) error
	LogoutFunc          func(ctx context.Context) error
	CurrentUserFunc     func(ctx context.Context) (*models.User, error)
	RefreshFunc         func(ctx context.Context) (models.TokenPair, error)
	IsAuthenticatedFunc func(ctx context.Context) bool
}

func (m *mockAuthService) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	return m.LoginFunc(ctx, creds)
}

func (m *mockAuthService) Register(ctx context.Context, params models.RegisterParams) error {
	return m.RegisterFunc(ctx, params)
}

func (m *mockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx)
}

func (m *mockAuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	return m.CurrentUserFunc(ctx)
}

func (m *mockAuthService) Refresh(ctx context.Context) (models.TokenPair, error) {
	return m.RefreshFunc(ctx)
}

func (m *mockAuthService) IsAuthenticated(ctx context.Context) bool {
	if m.IsAuthenticatedFunc == nil {
		return false
	}
	return m.IsAuthenticatedFunc(ctx)
}

type mockUserService struct {
	ProfileFunc           func(ctx context.Context) (*models.User, error)
	UpdateProfileFunc     func(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	PreferencesFunc       func(ctx context.Context) (*models.Preferences, error)
	UpdatePreferencesFunc func(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error)
}

func (m *mockUserService) Profile(ctx context.Context) (*models.User, error) {
	return m.ProfileFunc(ctx)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	return m.UpdateProfileFunc(ctx, update)
}

func (m *mockUserService) Preferences(ctx context.Context) (*models.Preferences, error) {
	return m.PreferencesFunc(ctx)
}

func (m *mockUserService) UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error) {
	return m.UpdatePreferencesFunc(ctx, update)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveLoad(concern, outcome string) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, concern+":"+outcome)
	r.mu.Unlock()
}

func (r *recordingObserver) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.outcomes...)
}
