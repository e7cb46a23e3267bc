package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/view"
)

var errIntervalTooShort = errors.New("refresh interval must be at least one second")

// cronLogger routes scheduler events into the structured logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.logger.Error(msg, fields)
}

func pairs(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}

func schedule(every time.Duration) (string, error) {
	if every < time.Second {
		return "", errIntervalTooShort
	}
	return "@every " + every.String(), nil
}

// cmdWatch redraws the dashboard after every scheduled refresh until the
// context is cancelled.
func cmdWatch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watch", a.out)
	every := fs.Duration("every", a.cfg.Client.RefreshInterval, "refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	spec, err := schedule(*every)
	if err != nil {
		return err
	}
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	logger := cronLogger{logger: a.logger.WithComponent("watch")}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	tick := func() {
		_ = a.store.Refresh(ctx)
		if err := view.RenderDashboard(a.out, user, a.store.Snapshot(), a.now()); err != nil {
			a.logger.Error("Failed to render dashboard", map[string]interface{}{"error": err.Error()})
		}
		a.flushMetrics()
	}
	if _, err := c.AddFunc(spec, tick); err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}

	tick()
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
