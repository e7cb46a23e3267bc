// Package view turns store snapshots into terminal text. Labels follow the
// product's pt-BR wording.
package view

import (
	"strings"

	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/store"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityLevel maps 0-3 to low, 4-7 to medium and 8-10 to high. Values
// outside 0-10 fall into the nearest band.
func PriorityLevel(p int) Priority {
	switch {
	case p <= 3:
		return PriorityLow
	case p <= 7:
		return PriorityMedium
	default:
		return PriorityHigh
	}
}

func PriorityLabel(p int) string {
	switch PriorityLevel(p) {
	case PriorityLow:
		return "Baixa"
	case PriorityMedium:
		return "Média"
	default:
		return "Alta"
	}
}

// ActionState says which suggestion controls are enabled. It is derived
// from the current status every time and never cached.
type ActionState struct {
	Accept   bool
	Reject   bool
	Postpone bool
}

func ActionsFor(status models.SuggestionStatus) ActionState {
	pending := status == models.StatusPending
	return ActionState{Accept: pending, Reject: pending, Postpone: pending}
}

func (a ActionState) Enabled() []store.Action {
	var out []store.Action
	if a.Accept {
		out = append(out, store.ActionAccept)
	}
	if a.Reject {
		out = append(out, store.ActionReject)
	}
	if a.Postpone {
		out = append(out, store.ActionPostpone)
	}
	return out
}

// Allows reports whether the action's control is enabled.
func (a ActionState) Allows(action store.Action) bool {
	for _, enabled := range a.Enabled() {
		if enabled == action {
			return true
		}
	}
	return false
}

var actionNames = map[store.Action]string{
	store.ActionAccept:   "aceitar",
	store.ActionReject:   "rejeitar",
	store.ActionPostpone: "adiar",
}

func (a ActionState) String() string {
	enabled := a.Enabled()
	if len(enabled) == 0 {
		return "indisponíveis"
	}
	names := make([]string, 0, len(enabled))
	for _, action := range enabled {
		names = append(names, actionNames[action])
	}
	return strings.Join(names, ", ")
}

var statusLabels = map[models.SuggestionStatus]string{
	models.StatusPending:   "Pendente",
	models.StatusAccepted:  "Aceita",
	models.StatusRejected:  "Rejeitada",
	models.StatusPostponed: "Adiada",
	models.StatusExecuted:  "Executada",
}

func StatusLabel(s models.SuggestionStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

var categoryLabels = map[models.Category]string{
	models.CategoryFinance:       "Finanças",
	models.CategoryHealth:        "Saúde",
	models.CategoryProductivity:  "Produtividade",
	models.CategoryLifestyle:     "Estilo de Vida",
	models.CategoryRelationships: "Relacionamentos",
}

func CategoryLabel(c models.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

var typeLabels = map[models.SuggestionType]string{
	models.TypeAnniversary:    "Aniversário",
	models.TypePurchase:       "Compra",
	models.TypeRoutine:        "Rotina",
	models.TypeSeasonal:       "Sazonal",
	models.TypeSavings:        "Economia",
	models.TypeReminder:       "Lembrete",
	models.TypeRecommendation: "Recomendação",
}

// TypeLabel matches case-insensitively and returns unknown types as-is.
func TypeLabel(t models.SuggestionType) string {
	if label, ok := typeLabels[models.SuggestionType(strings.ToLower(string(t)))]; ok {
		return label
	}
	return string(t)
}

var interactionLabels = map[string]string{
	"viewed":    "Visualizada",
	"accepted":  "Aceita",
	"rejected":  "Rejeitada",
	"snoozed":   "Adiada",
	"postponed": "Adiada",
	"executed":  "Executada",
	"dismissed": "Descartada",
	"clicked":   "Clicada",
}

func InteractionLabel(action string) string {
	if label, ok := interactionLabels[action]; ok {
		return label
	}
	return action
}

var transactionLabels = map[string]string{
	"savings": "Economia",
	"expense": "Despesa",
}

// TransactionLabel names a transaction type; anything that is neither
// savings nor an expense is a reminder.
func TransactionLabel(kind string) string {
	if label, ok := transactionLabels[kind]; ok {
		return label
	}
	return "Lembrete"
}

// SignedAmount prefixes savings with "+" and expenses with "-".
func SignedAmount(kind string, amount float64) string {
	switch kind {
	case "savings":
		return "+" + formatMoney(amount)
	case "expense":
		return "-" + formatMoney(amount)
	default:
		return formatMoney(amount)
	}
}

var statusFilterLabels = map[models.StatusFilter]string{
	models.FilterStatusPending:  "Pendentes",
	models.FilterStatusAccepted: "Aceitas",
	models.FilterStatusRejected: "Rejeitadas",
	models.FilterStatusAll:      "Todas",
}

var dateRangeLabels = map[models.DateRange]string{
	models.DateRangeUpcoming: "Próximas",
	models.DateRangeToday:    "Hoje",
	models.DateRangeWeek:     "Esta Semana",
	models.DateRangeMonth:    "Este Mês",
	models.DateRangeAll:      "Todas",
}

// FiltersLabel renders the active filters as "Status: ... | Categoria: ...
// | Período: ...".
func FiltersLabel(f models.Filters) string {
	category := "Todas"
	if f.Category != models.FilterCategoryAll {
		category = CategoryLabel(models.Category(f.Category))
	}
	return "Status: " + lookup(statusFilterLabels, f.Status) +
		" | Categoria: " + category +
		" | Período: " + lookup(dateRangeLabels, f.DateRange)
}

func lookup[K ~string](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}
