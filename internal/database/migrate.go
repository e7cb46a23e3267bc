package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirtySchema means an earlier migration stopped halfway and the
// session tables need manual repair.
var ErrDirtySchema = errors.New("session schema is dirty")

// SchemaVersion is the applied state of the session-store schema.
type SchemaVersion struct {
	Version uint
	Dirty   bool
}

// Applied reports whether at least one migration has run.
func (v SchemaVersion) Applied() bool {
	return v.Version > 0
}

func (v SchemaVersion) String() string {
	if !v.Applied() {
		return "no migrations applied"
	}
	return fmt.Sprintf("version %d (dirty: %v)", v.Version, v.Dirty)
}

// Migrator applies the session-store schema under migrations/.
type Migrator struct {
	m *migrate.Migrate
}

var newMigrate = migrate.New

func NewMigrator(dsn, migrationsPath string) (*Migrator, error) {
	m, err := newMigrate(sourceURL(migrationsPath), dsn)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return &Migrator{m: m}, nil
}

func sourceURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// Up applies every pending migration and reports whether anything ran.
func (m *Migrator) Up() (bool, error) {
	err := m.m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return false, nil
	case err != nil:
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return false, fmt.Errorf("%w at version %d", ErrDirtySchema, dirty.Version)
		}
		return false, fmt.Errorf("applying session schema: %w", err)
	}
	return true, nil
}

// Down drops the session tables by rolling back every migration.
func (m *Migrator) Down() error {
	err := m.m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back session schema: %w", err)
	}
	return nil
}

// Status reads the applied version. A fresh database is not an error.
func (m *Migrator) Status() (SchemaVersion, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaVersion{}, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("reading schema version: %w", err)
	}
	return SchemaVersion{Version: version, Dirty: dirty}, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

// EnsureSchema brings the session tables up to date before a Postgres
// token store is used. An already current schema is left alone.
func EnsureSchema(dsn, migrationsPath string) (SchemaVersion, error) {
	m, err := NewMigrator(dsn, migrationsPath)
	if err != nil {
		return SchemaVersion{}, err
	}
	defer func() { _ = m.Close() }()

	if _, err := m.Up(); err != nil {
		return SchemaVersion{}, err
	}
	return m.Status()
}
