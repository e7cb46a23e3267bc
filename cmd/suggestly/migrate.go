package main

import (
	"context"
	"fmt"

	"github.com/HammerMeetNail/suggestly/internal/database"
)

// migrator is the subset of database.Migrator the command uses.
type migrator interface {
	Up() (bool, error)
	Down() error
	Status() (database.SchemaVersion, error)
	Close() error
}

var newMigrator = func(dsn, path string) (migrator, error) {
	return database.NewMigrator(dsn, path)
}

func cmdMigrate(ctx context.Context, a *app, args []string) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}
	switch direction {
	case "up", "down", "version":
	default:
		return fmt.Errorf("%w: suggestly migrate [up|down|version]", errUsage)
	}

	m, err := newMigrator(a.cfg.Database.DSN(), a.cfg.Database.MigrationsPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = m.Close() }()

	switch direction {
	case "up":
		a.logger.Info("Running database migrations...")
		changed, err := m.Up()
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		if !changed {
			a.logger.Info("Session schema already up to date")
			break
		}
		a.logger.Info("Migrations completed")
	case "down":
		if err := m.Down(); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		a.logger.Info("Rolled back all migrations")
	case "version":
		status, err := m.Status()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, status)
	}
	return nil
}
