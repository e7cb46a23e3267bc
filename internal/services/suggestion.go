package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

// Snooze bounds accepted by the backend, in hours.
const (
	MinSnoozeHours = 1
	MaxSnoozeHours = 168
)

const (
	actionAccept  = "accept"
	actionReject  = "reject"
	actionSnooze  = "snooze"
	actionExecute = "execute"
)

type interactRequest struct {
	Action      string `json:"action"`
	Feedback    string `json:"feedback,omitempty"`
	SnoozeHours int    `json:"snooze_hours,omitempty"`
}

type SuggestionService struct {
	client APIClient
	now    func() time.Time
}

func NewSuggestionService(client APIClient) *SuggestionService {
	return &SuggestionService{client: client, now: time.Now}
}

func (s *SuggestionService) List(ctx context.Context, filters models.Filters) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	if err := s.client.GetList(ctx, "/suggestions", filters.Query(), &suggestions, "suggestions", "items"); err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return suggestions, nil
}

func (s *SuggestionService) Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	if err := s.client.Get(ctx, "/suggestions/"+id.String(), nil, &suggestion); err != nil {
		return nil, fmt.Errorf("getting suggestion: %w", err)
	}
	return &suggestion, nil
}

func (s *SuggestionService) Accept(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error) {
	return s.interact(ctx, id, interactRequest{Action: actionAccept})
}

func (s *SuggestionService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.InteractResponse, error) {
	return s.interact(ctx, id, interactRequest{Action: actionReject, Feedback: reason})
}

// Postpone snoozes the suggestion until the given time, sent to the backend
// as whole hours from now.
func (s *SuggestionService) Postpone(ctx context.Context, id uuid.UUID, until time.Time) (*models.InteractResponse, error) {
	return s.interact(ctx, id, interactRequest{Action: actionSnooze, SnoozeHours: SnoozeHours(until, s.now())})
}

func (s *SuggestionService) Execute(ctx context.Context, id uuid.UUID) (*models.InteractResponse, error) {
	return s.interact(ctx, id, interactRequest{Action: actionExecute})
}

func (s *SuggestionService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := s.client.Get(ctx, "/suggestions/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("getting suggestion stats: %w", err)
	}
	return &stats, nil
}

func (s *SuggestionService) interact(ctx context.Context, id uuid.UUID, req interactRequest) (*models.InteractResponse, error) {
	var resp models.InteractResponse
	if err := s.client.Post(ctx, "/suggestions/"+id.String()+"/interact", req, &resp); err != nil {
		return nil, fmt.Errorf("%s suggestion: %w", req.Action, err)
	}
	return &resp, nil
}

// SnoozeHours converts an absolute resume time into whole hours from now,
// rounded up and clamped to the range the backend accepts.
func SnoozeHours(until, now time.Time) int {
	hours := int(math.Ceil(until.Sub(now).Hours()))
	if hours < MinSnoozeHours {
		return MinSnoozeHours
	}
	if hours > MaxSnoozeHours {
		return MaxSnoozeHours
	}
	return hours
}
