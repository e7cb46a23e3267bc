package view

import (
	"testing"

	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/store"
)

func TestPriorityLevel(t *testing.T) {
	tests := []struct {
		priority int
		want     Priority
		label    string
	}{
		{0, PriorityLow, "Baixa"},
		{3, PriorityLow, "Baixa"},
		{4, PriorityMedium, "Média"},
		{7, PriorityMedium, "Média"},
		{8, PriorityHigh, "Alta"},
		{10, PriorityHigh, "Alta"},
	}

	for _, tt := range tests {
		if got := PriorityLevel(tt.priority); got != tt.want {
			t.Errorf("PriorityLevel(%d) = %s, want %s", tt.priority, got, tt.want)
		}
		if got := PriorityLabel(tt.priority); got != tt.label {
			t.Errorf("PriorityLabel(%d) = %s, want %s", tt.priority, got, tt.label)
		}
	}
}

func TestActionsFor(t *testing.T) {
	statuses := []models.SuggestionStatus{
		models.StatusPending,
		models.StatusAccepted,
		models.StatusRejected,
		models.StatusPostponed,
		models.StatusExecuted,
	}

	for _, status := range statuses {
		a := ActionsFor(status)
		want := status == models.StatusPending
		if a.Accept != want || a.Reject != want || a.Postpone != want {
			t.Errorf("ActionsFor(%s) = %+v, want all %v", status, a, want)
		}
		if a.Allows(store.ActionPostpone) != want {
			t.Errorf("ActionsFor(%s).Allows(postpone) mismatch", status)
		}
	}

	// A status reported back to pending re-enables the controls.
	if !ActionsFor(models.StatusPending).Allows(store.ActionAccept) {
		t.Fatal("expected accept enabled for pending")
	}
	if ActionsFor(models.StatusPending).Allows(store.ActionExecute) {
		t.Fatal("execute has no suggestion control")
	}
}

func TestActionState_String(t *testing.T) {
	if got := ActionsFor(models.StatusPending).String(); got != "aceitar, rejeitar, adiar" {
		t.Fatalf("unexpected %q", got)
	}
	if got := ActionsFor(models.StatusAccepted).String(); got != "indisponíveis" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"status", StatusLabel(models.StatusPostponed), "Adiada"},
		{"unknown status", StatusLabel("archived"), "archived"},
		{"category", CategoryLabel(models.CategoryLifestyle), "Estilo de Vida"},
		{"unknown category", CategoryLabel("travel"), "travel"},
		{"type", TypeLabel(models.TypeAnniversary), "Aniversário"},
		{"type upper case", TypeLabel("SAVINGS"), "Economia"},
		{"unknown type", TypeLabel("gift"), "gift"},
		{"interaction", InteractionLabel("snoozed"), "Adiada"},
		{"transaction savings", TransactionLabel("savings"), "Economia"},
		{"transaction other", TransactionLabel("reminder"), "Lembrete"},
		{"signed savings", SignedAmount("savings", 10), "+R$ 10,00"},
		{"signed expense", SignedAmount("expense", 10), "-R$ 10,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestFiltersLabel(t *testing.T) {
	got := FiltersLabel(models.DefaultFilters())
	want := "Status: Pendentes | Categoria: Todas | Período: Próximas"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = FiltersLabel(models.Filters{Status: models.FilterStatusAll, Category: "health", DateRange: models.DateRangeWeek})
	want = "Status: Todas | Categoria: Saúde | Período: Esta Semana"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
