package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/HammerMeetNail/suggestly/internal/api"
	"github.com/HammerMeetNail/suggestly/internal/config"
	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/metrics"
	"github.com/HammerMeetNail/suggestly/internal/services"
	"github.com/HammerMeetNail/suggestly/internal/store"
	"github.com/HammerMeetNail/suggestly/internal/tokenstore"
)

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
	// errReported marks failures already shown to the user.
	errReported = errors.New("command failed")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) && !errors.Is(err, errUsage) {
			logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		}
		os.Exit(1)
	}
}

type command struct {
	summary string
	// offline commands never touch the API or the session.
	offline bool
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":        {summary: "log in with --user and --password", run: cmdLogin},
	"register":     {summary: "create an account and log in", run: cmdRegister},
	"logout":       {summary: "end the session", run: cmdLogout},
	"whoami":       {summary: "show the logged-in user", run: cmdWhoami},
	"suggestions":  {summary: "show the dashboard (--status, --category, --range)", run: cmdSuggestions},
	"show":         {summary: "show one suggestion by id", run: cmdShow},
	"accept":       {summary: "accept a suggestion", run: actionCommand(store.ActionAccept)},
	"reject":       {summary: "reject a suggestion (--reason)", run: actionCommand(store.ActionReject)},
	"postpone":     {summary: "postpone a suggestion (--until RFC3339 or --in 24h)", run: actionCommand(store.ActionPostpone)},
	"execute":      {summary: "mark a suggestion as carried out", run: actionCommand(store.ActionExecute)},
	"stats":        {summary: "show dashboard statistics", run: cmdStats},
	"history":      {summary: "list past interactions (--range, --status)", run: cmdHistory},
	"transactions": {summary: "list transactions (--range, --type) or show one by id", run: cmdTransactions},
	"insights":     {summary: "show engagement and behavior patterns", run: cmdInsights},
	"profile":      {summary: "show or edit the profile and preferences", run: cmdProfile},
	"watch":        {summary: "refresh the dashboard on a schedule (--every)", run: cmdWatch},
	"migrate":      {summary: "run session-store migrations (up, down, version)", offline: true, run: cmdMigrate},
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: suggestly <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-13s %s\n", name, commands[name].summary)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(out)
		if len(args) == 0 {
			return errUsage
		}
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(out)
		return fmt.Errorf("%w: %q", errUnknownCommand, args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	if cmd.offline {
		return cmd.run(ctx, &app{cfg: cfg, logger: logger, out: out, now: time.Now}, args[1:])
	}

	a, err := newApp(ctx, cfg, logger, out)
	if err != nil {
		return err
	}
	defer a.Close()

	err = cmd.run(ctx, a, args[1:])
	a.flushMetrics()
	return err
}

func newLogger(cfg *config.Config) *logging.Logger {
	logger := logging.New()
	level, ok := logging.ParseLevel(cfg.Client.LogLevel)
	if cfg.Client.Debug {
		level = logging.LevelDebug
	}
	logger.SetLevel(level)
	logging.SetDefaultLevel(level)
	if !ok {
		logger.Warn("Unknown log level, using INFO", map[string]interface{}{"log_level": cfg.Client.LogLevel})
	}
	return logger
}

// app holds everything a command needs. It is built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	out     io.Writer
	now     func() time.Time
	metrics *metrics.Collectors
	tokens  *tokenstore.Opened

	suggestions services.SuggestionServiceInterface
	analytics   services.AnalyticsServiceInterface
	users       services.UserServiceInterface

	auth  *store.AuthStore
	store *store.AppStore
}

var openTokens = tokenstore.Open

func newApp(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) (*app, error) {
	tokens, err := openTokens(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	collectors := metrics.New()
	client := api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		UserAgent: cfg.API.UserAgent,
	}, tokens, api.WithLogger(logger), api.WithMetrics(collectors))

	authService := services.NewAuthService(client, tokens, logger)
	suggestionService := services.NewSuggestionService(client)
	userService := services.NewUserService(client)
	analyticsService := services.NewAnalyticsService(client)

	a := &app{
		cfg:         cfg,
		logger:      logger,
		out:         out,
		now:         time.Now,
		metrics:     collectors,
		tokens:      tokens,
		suggestions: suggestionService,
		analytics:   analyticsService,
		users:       userService,
	}
	a.auth = store.NewAuthStore(ctx, authService, userService, store.WithAuthLogger(logger))
	a.store = store.NewAppStore(suggestionService, analyticsService,
		store.WithAppLogger(logger),
		store.WithLoadObserver(collectors),
	)
	return a, nil
}

func (a *app) Close() {
	if a.tokens != nil {
		a.tokens.Close()
	}
}

func (a *app) flushMetrics() {
	if a.metrics == nil || a.cfg.Client.MetricsFile == "" {
		return
	}
	if err := a.metrics.WriteToTextfile(a.cfg.Client.MetricsFile); err != nil {
		a.logger.Warn("Failed to write metrics", map[string]interface{}{
			"path":  a.cfg.Client.MetricsFile,
			"error": err.Error(),
		})
	}
}
