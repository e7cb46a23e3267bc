package view

import (
	"embed"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/HammerMeetNail/suggestly/internal/format"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	defaultErrorTitle   = "Erro"
	defaultErrorMessage = "Ocorreu um erro inesperado."
	historyContentWidth = 60
)

func formatMoney(v float64) string { return format.Currency(v) }

var funcs = template.FuncMap{
	"priority":    PriorityLabel,
	"status":      StatusLabel,
	"category":    CategoryLabel,
	"kind":        TypeLabel,
	"interaction": InteractionLabel,
	"txkind":      TransactionLabel,
	"signed":      SignedAmount,
	"actions":     ActionsFor,
	"filters":     FiltersLabel,
	"when":        format.ShortDateTime,
	"date":        format.Date,
	"money":       format.Currency,
	"percent":     format.Percentage,
	"phone":       format.Phone,
	"truncate":    format.Truncate,
	"savings": func(s models.Suggestion) float64 {
		v, _ := s.EstimatedSavings()
		return v
	},
	"amount": func(a models.Amount) float64 { return float64(a) },
}

var templates = template.Must(template.New("view").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))

type statsView struct {
	Pending bool
	Values  models.Stats
}

func newStatsView(stats *models.Stats, loading bool) statsView {
	v := statsView{Pending: loading && stats == nil}
	if stats != nil {
		v.Values = *stats
	}
	return v
}

type dashboardView struct {
	Greeting    string
	Name        string
	Stats       statsView
	Filters     models.Filters
	Loading     bool
	Suggestions []models.Suggestion
}

func RenderSuggestion(w io.Writer, s models.Suggestion) error {
	return templates.ExecuteTemplate(w, "suggestion", s)
}

// RenderStats prints the four dashboard counters. Missing stats print as
// zero unless a load is still in flight.
func RenderStats(w io.Writer, stats *models.Stats, loading bool) error {
	return templates.ExecuteTemplate(w, "stats", newStatsView(stats, loading))
}

// RenderDashboard prints the greeting, stats, active filters and the
// suggestion list. While a suggestions load is in flight the list is
// replaced by a loading line.
func RenderDashboard(w io.Writer, user *models.User, state store.AppState, now time.Time) error {
	name := ""
	if user != nil {
		name = user.DisplayName()
	}
	return templates.ExecuteTemplate(w, "dashboard", dashboardView{
		Greeting:    format.Greeting(now.Hour()),
		Name:        name,
		Stats:       newStatsView(state.Stats, state.Loading.Stats),
		Filters:     state.Filters,
		Loading:     state.Loading.Suggestions,
		Suggestions: state.Suggestions,
	})
}

func RenderHistory(w io.Writer, items []models.Interaction) error {
	return templates.ExecuteTemplate(w, "history", struct {
		Items []models.Interaction
		Width int
	}{items, historyContentWidth})
}

func RenderTransactions(w io.Writer, items []models.Transaction) error {
	return templates.ExecuteTemplate(w, "transactions", items)
}

func RenderUser(w io.Writer, user *models.User) error {
	return templates.ExecuteTemplate(w, "user", user)
}

// ErrorBanner formats a general error. Empty title and message use the
// generic wording; retry adds the "try again" hint.
func ErrorBanner(title, message string, retry bool) string {
	if title == "" {
		title = defaultErrorTitle
	}
	if message == "" {
		message = defaultErrorMessage
	}
	var b strings.Builder
	b.WriteString("! " + title + "\n")
	b.WriteString("  " + message + "\n")
	if retry {
		b.WriteString("  Tentar novamente\n")
	}
	return b.String()
}

func RenderInsights(w io.Writer, engagement *models.EngagementMetrics, behavior *models.BehaviorAnalysis) error {
	return templates.ExecuteTemplate(w, "insights", struct {
		Engagement *models.EngagementMetrics
		Behavior   *models.BehaviorAnalysis
	}{engagement, behavior})
}
