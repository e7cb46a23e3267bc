package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

type AnalyticsService struct {
	client APIClient
}

func NewAnalyticsService(client APIClient) *AnalyticsService {
	return &AnalyticsService{client: client}
}

func (s *AnalyticsService) DashboardStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := s.client.Get(ctx, "/suggestions/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("getting dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *AnalyticsService) BehaviorPatterns(ctx context.Context) (*models.BehaviorAnalysis, error) {
	var analysis models.BehaviorAnalysis
	if err := s.client.Get(ctx, "/analytics/behavior-patterns", nil, &analysis); err != nil {
		return nil, fmt.Errorf("getting behavior patterns: %w", err)
	}
	return &analysis, nil
}

func (s *AnalyticsService) Engagement(ctx context.Context) (*models.EngagementMetrics, error) {
	var metrics models.EngagementMetrics
	if err := s.client.Get(ctx, "/analytics/engagement", nil, &metrics); err != nil {
		return nil, fmt.Errorf("getting engagement metrics: %w", err)
	}
	return &metrics, nil
}

func (s *AnalyticsService) ActivityHistory(ctx context.Context, q models.HistoryQuery) ([]models.Interaction, error) {
	var interactions []models.Interaction
	query := historyQuery(q.DateRange, "status", q.Status)
	if err := s.client.GetList(ctx, "/interactions", query, &interactions, "interactions", "activities", "items"); err != nil {
		return nil, fmt.Errorf("getting activity history: %w", err)
	}
	return interactions, nil
}

func (s *AnalyticsService) Transactions(ctx context.Context, q models.HistoryQuery) ([]models.Transaction, error) {
	var transactions []models.Transaction
	query := historyQuery(q.DateRange, "type", q.Type)
	if err := s.client.GetList(ctx, "/transactions", query, &transactions, "transactions", "items"); err != nil {
		return nil, fmt.Errorf("getting transactions: %w", err)
	}
	return transactions, nil
}

func (s *AnalyticsService) Transaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.client.Get(ctx, "/transactions/"+id.String(), nil, &tx); err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return &tx, nil
}

// historyQuery drops empty and "all" values.
func historyQuery(dateRange, kindKey, kind string) url.Values {
	q := url.Values{}
	if dateRange != "" && dateRange != "all" {
		q.Set("date_range", dateRange)
	}
	if kind != "" && kind != "all" {
		q.Set(kindKey, kind)
	}
	return q
}
