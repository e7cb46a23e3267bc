package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/suggestly/internal/api"
	"github.com/HammerMeetNail/suggestly/internal/forms"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/store"
	"github.com/HammerMeetNail/suggestly/internal/validation"
	"github.com/HammerMeetNail/suggestly/internal/view"
)

var errNotLoggedIn = errors.New("not logged in")

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parseInterspersed lets flags follow positional arguments, as in
// "reject <id> --reason x".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// fail prints a banner and returns an error the caller will not log again.
func (a *app) fail(title, message string, retry bool) error {
	fmt.Fprint(a.out, view.ErrorBanner(title, message, retry))
	return fmt.Errorf("%w: %s", errReported, message)
}

func (a *app) failValidation(errs validation.Errors) error {
	fmt.Fprint(a.out, view.ErrorBanner("Dados inválidos", errs.Error(), false))
	return fmt.Errorf("%w: %w", errReported, errs)
}

func (a *app) requireUser() (*models.User, error) {
	snap := a.auth.Snapshot()
	if !snap.IsAuthenticated() {
		fmt.Fprint(a.out, view.ErrorBanner("Sessão", "Faça login com: suggestly login --user <usuário> --password <senha>", false))
		return nil, fmt.Errorf("%w: %w", errReported, errNotLoggedIn)
	}
	return snap.User, nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login", a.out)
	var form forms.LoginForm
	fs.StringVar(&form.Username, "user", "", "username or email")
	fs.StringVar(&form.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if errs := form.Validate(); errs.Err() != nil {
		return a.failValidation(errs)
	}

	out := a.auth.Login(ctx, form.Credentials())
	if !out.OK {
		return a.fail("Falha no login", out.Message, false)
	}
	fmt.Fprintf(a.out, "Bem-vindo, %s!\n", out.User.DisplayName())
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register", a.out)
	var form forms.RegisterForm
	fs.StringVar(&form.Name, "name", "", "username")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Password, "password", "", "password")
	fs.StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation")
	fs.BoolVar(&form.AcceptTerms, "accept-terms", false, "accept the terms of use")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if errs := form.Validate(); errs.Err() != nil {
		return a.failValidation(errs)
	}

	out := a.auth.Register(ctx, form.Params())
	switch {
	case !out.AccountCreated:
		return a.fail("Falha no cadastro", out.Message(), false)
	case !out.OK():
		return a.fail("Conta criada, mas o login falhou", out.Message(), false)
	}
	fmt.Fprintf(a.out, "Conta criada. Bem-vindo, %s!\n", out.Login.User.DisplayName())
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Sessão encerrada.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	return view.RenderUser(a.out, a.auth.Snapshot().User)
}

func cmdSuggestions(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("suggestions", a.out)
	status := fs.String("status", "", "pending, accepted, rejected or all")
	category := fs.String("category", "", "a category or all")
	dateRange := fs.String("range", "", "upcoming, today, week, month or all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	var patch models.FilterPatch
	if *status != "" {
		v := models.StatusFilter(*status)
		patch.Status = &v
	}
	if *category != "" {
		v := models.CategoryFilter(*category)
		patch.Category = &v
	}
	if *dateRange != "" {
		v := models.DateRange(*dateRange)
		patch.DateRange = &v
	}

	if patch.Empty() {
		_ = a.store.Refresh(ctx)
	} else if err := a.store.UpdateFilters(ctx, patch); err != nil {
		return a.fail("Filtro inválido", err.Error(), false)
	}
	return view.RenderDashboard(a.out, user, a.store.Snapshot(), a.now())
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	id, err := singleID("show", args)
	if err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}
	s, err := a.suggestions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return a.fail("Sugestão", "Sugestão não encontrada", false)
		}
		return a.fail("Sugestão", api.Message(err, "Falha ao carregar a sugestão"), true)
	}
	return view.RenderSuggestion(a.out, *s)
}

func singleID(name string, args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, fmt.Errorf("%w: suggestly %s <id>", errUsage, name)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	return id, nil
}

func actionCommand(action store.Action) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		fs := newFlagSet(string(action), a.out)
		reason := fs.String("reason", "", "optional feedback (reject)")
		until := fs.String("until", "", "postpone until this RFC3339 time")
		in := fs.Duration("in", 0, "postpone for this long")
		positional, err := parseInterspersed(fs, args)
		if err != nil {
			return err
		}
		id, err := singleID(string(action), positional)
		if err != nil {
			return err
		}

		data := store.ActionData{Reason: *reason}
		if action == store.ActionPostpone {
			if data.Until, err = postponeTime(*until, *in, a.now()); err != nil {
				return err
			}
		}

		user, err := a.requireUser()
		if err != nil {
			return err
		}
		res := a.store.HandleSuggestionAction(ctx, id, action, data)
		if !res.OK {
			return a.fail("Ação falhou", res.Message, false)
		}
		if res.Response != nil && res.Response.Message != "" {
			fmt.Fprintln(a.out, res.Response.Message)
		}
		return view.RenderDashboard(a.out, user, a.store.Snapshot(), a.now())
	}
}

var (
	errPostponeBoth = errors.New("use either --until or --in, not both")
	errPostponePast = errors.New("postpone time must be in the future")
)

// postponeTime normalises the postpone flags to an absolute time. Neither
// flag yields the zero time, which the store turns into its default.
func postponeTime(until string, in time.Duration, now time.Time) (time.Time, error) {
	switch {
	case until != "" && in != 0:
		return time.Time{}, errPostponeBoth
	case until != "":
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --until: %w", err)
		}
		if !t.After(now) {
			return time.Time{}, errPostponePast
		}
		return t, nil
	case in < 0:
		return time.Time{}, errPostponePast
	case in > 0:
		return now.Add(in), nil
	}
	return time.Time{}, nil
}

func cmdStats(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}
	if err := a.store.LoadStats(ctx); err != nil {
		return a.fail("Estatísticas", api.Message(err, "Falha ao carregar estatísticas"), true)
	}
	snap := a.store.Snapshot()
	return view.RenderStats(a.out, snap.Stats, snap.Loading.Stats)
}

func cmdHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("history", a.out)
	var q models.HistoryQuery
	fs.StringVar(&q.DateRange, "range", "", "today, week, month or year")
	fs.StringVar(&q.Status, "status", "", "accepted, rejected, postponed or all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}
	items, err := a.analytics.ActivityHistory(ctx, q)
	if err != nil {
		return a.fail("Histórico", api.Message(err, "Falha ao carregar o histórico"), true)
	}
	return view.RenderHistory(a.out, items)
}

func cmdTransactions(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("transactions", a.out)
	var q models.HistoryQuery
	fs.StringVar(&q.DateRange, "range", "", "today, week, month or year")
	fs.StringVar(&q.Type, "type", "", "savings, expense or all")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	if len(positional) > 0 {
		id, err := singleID("transactions", positional)
		if err != nil {
			return err
		}
		tx, err := a.analytics.Transaction(ctx, id)
		if err != nil {
			return a.fail("Transação", api.Message(err, "Falha ao carregar a transação"), true)
		}
		return view.RenderTransactions(a.out, []models.Transaction{*tx})
	}

	items, err := a.analytics.Transactions(ctx, q)
	if err != nil {
		return a.fail("Transações", api.Message(err, "Falha ao carregar as transações"), true)
	}
	return view.RenderTransactions(a.out, items)
}

func cmdInsights(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}
	engagement, err := a.analytics.Engagement(ctx)
	if err != nil {
		return a.fail("Engajamento", api.Message(err, "Falha ao carregar o engajamento"), true)
	}
	behavior, err := a.analytics.BehaviorPatterns(ctx)
	if err != nil {
		return a.fail("Padrões", api.Message(err, "Falha ao carregar os padrões de comportamento"), true)
	}
	return view.RenderInsights(a.out, engagement, behavior)
}
