package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFinance       Category = "finance"
	CategoryHealth        Category = "health"
	CategoryProductivity  Category = "productivity"
	CategoryLifestyle     Category = "lifestyle"
	CategoryRelationships Category = "relationships"
)

// Categories lists the suggestion categories in display order.
var Categories = []Category{
	CategoryFinance,
	CategoryHealth,
	CategoryProductivity,
	CategoryLifestyle,
	CategoryRelationships,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type SuggestionType string

const (
	TypeAnniversary    SuggestionType = "anniversary"
	TypePurchase       SuggestionType = "purchase"
	TypeRoutine        SuggestionType = "routine"
	TypeSeasonal       SuggestionType = "seasonal"
	TypeSavings        SuggestionType = "savings"
	TypeReminder       SuggestionType = "reminder"
	TypeRecommendation SuggestionType = "recommendation"
)

type SuggestionStatus string

const (
	StatusPending   SuggestionStatus = "pending"
	StatusAccepted  SuggestionStatus = "accepted"
	StatusRejected  SuggestionStatus = "rejected"
	StatusPostponed SuggestionStatus = "postponed"
	// StatusExecuted is reported by the backend for suggestions the user
	// carried out; clients treat it like any other settled status.
	StatusExecuted SuggestionStatus = "executed"
)

const (
	MinPriority = 0
	MaxPriority = 10
)

type Suggestion struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id,omitempty"`
	Category      Category               `json:"category,omitempty"`
	Type          SuggestionType         `json:"type"`
	Content       string                 `json:"content"`
	ScheduledDate time.Time              `json:"scheduled_date"`
	Priority      int                    `json:"priority"`
	Status        SuggestionStatus       `json:"status"`
	ContextData   string                 `json:"context_data,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"created_at,omitempty"`
	ExecutedAt    *time.Time             `json:"executed_at,omitempty"`
}

// IsPending reports whether the suggestion still accepts user actions.
func (s *Suggestion) IsPending() bool {
	return s.Status == StatusPending
}

// EstimatedSavings returns the estimated_savings metadata value. The value
// is looked up in Metadata first and then in the JSON-encoded ContextData.
func (s *Suggestion) EstimatedSavings() (float64, bool) {
	if v, ok := numberFrom(s.Metadata["estimated_savings"]); ok {
		return v, true
	}
	if s.ContextData == "" {
		return 0, false
	}
	var ctx map[string]interface{}
	if err := json.Unmarshal([]byte(s.ContextData), &ctx); err != nil {
		return 0, false
	}
	return numberFrom(ctx["estimated_savings"])
}

func numberFrom(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, n > 0
	case int:
		return float64(n), n > 0
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && f > 0
	default:
		return 0, false
	}
}

// InteractResponse is the body returned by POST /suggestions/{id}/interact.
type InteractResponse struct {
	Message      string `json:"message"`
	SuggestionID string `json:"suggestion_id"`
}

// Stats is the dashboard statistics snapshot computed by the backend.
type Stats struct {
	DaysActive     int     `json:"days_active"`
	TotalActions   int     `json:"total_actions"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	TotalSavings   float64 `json:"total_savings"`

	TotalSuggestions    int            `json:"total_suggestions,omitempty"`
	PendingSuggestions  int            `json:"pending_suggestions,omitempty"`
	AcceptedSuggestions int            `json:"accepted_suggestions,omitempty"`
	RejectedSuggestions int            `json:"rejected_suggestions,omitempty"`
	ExecutedSuggestions int            `json:"executed_suggestions,omitempty"`
	ByType              map[string]int `json:"by_type,omitempty"`
	ByStatus            map[string]int `json:"by_status,omitempty"`
}

// Clone returns a copy of s that shares no maps or pointers with it.
func (s Suggestion) Clone() Suggestion {
	c := s
	if s.Metadata != nil {
		c.Metadata = cloneValue(s.Metadata).(map[string]interface{})
	}
	if s.ExecutedAt != nil {
		t := *s.ExecutedAt
		c.ExecutedAt = &t
	}
	return c
}

// cloneValue deep-copies decoded JSON values.
func cloneValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = cloneValue(e)
		}
		return m
	case []interface{}:
		l := make([]interface{}, len(x))
		for i, e := range x {
			l[i] = cloneValue(e)
		}
		return l
	default:
		return v
	}
}

func (s *Stats) Clone() *Stats {
	if s == nil {
		return nil
	}
	c := *s
	c.ByType = cloneCounts(s.ByType)
	c.ByStatus = cloneCounts(s.ByStatus)
	return &c
}

func cloneCounts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
