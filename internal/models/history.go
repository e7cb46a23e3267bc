package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	SuggestionID uuid.UUID   `json:"suggestion_id"`
	Action       string      `json:"action"`
	Feedback     string      `json:"feedback,omitempty"`
	ExtraData    string      `json:"extra_data,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Suggestion   *Suggestion `json:"suggestion,omitempty"`
}

type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Type        string    `json:"type"`
	Amount      Amount    `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryQuery filters the interaction and transaction listings. Empty
// fields and "all" are not sent.
type HistoryQuery struct {
	DateRange string // today, week, month, year
	Status    string // interactions only
	Type      string // transactions only
}

type BehaviorPattern struct {
	PatternType     string    `json:"pattern_type"`
	Description     string    `json:"description"`
	Confidence      float64   `json:"confidence"`
	Occurrences     int       `json:"occurrences"`
	LastObserved    time.Time `json:"last_observed"`
	Recommendations []string  `json:"recommendations"`
}

type BehaviorAnalysis struct {
	UserID                   string                 `json:"user_id"`
	AnalysisDate             time.Time              `json:"analysis_date"`
	Patterns                 []BehaviorPattern      `json:"patterns"`
	SpendingHabits           map[string]interface{} `json:"spending_habits"`
	ActivityTimes            map[string]int         `json:"activity_times"`
	PreferredCategories      []string               `json:"preferred_categories"`
	SuggestionResponsiveness map[string]float64     `json:"suggestion_responsiveness"`
}

type EngagementMetrics struct {
	DailyActiveRate     float64        `json:"daily_active_rate"`
	AverageResponseTime float64        `json:"average_response_time"`
	FeatureUsage        map[string]int `json:"feature_usage"`
	PeakActivityHours   []int          `json:"peak_activity_hours"`
	EngagementScore     float64        `json:"engagement_score"`
}

// Amount is a monetary value that decodes from either a JSON number or a
// decimal string.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing amount %q: %w", s, err)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}
