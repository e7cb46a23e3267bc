package database

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source"
)

type stubSource struct {
	openFn     func(string) (source.Driver, error)
	closeFn    func() error
	firstFn    func() (uint, error)
	prevFn     func(uint) (uint, error)
	nextFn     func(uint) (uint, error)
	readUpFn   func(uint) (io.ReadCloser, string, error)
	readDownFn func(uint) (io.ReadCloser, string, error)
}

func (s *stubSource) Open(url string) (source.Driver, error) {
	if s.openFn != nil {
		return s.openFn(url)
	}
	return s, nil
}

func (s *stubSource) Close() error {
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

func (s *stubSource) First() (uint, error) {
	if s.firstFn != nil {
		return s.firstFn()
	}
	return 0, os.ErrNotExist
}

func (s *stubSource) Prev(version uint) (uint, error) {
	if s.prevFn != nil {
		return s.prevFn(version)
	}
	return 0, os.ErrNotExist
}

func (s *stubSource) Next(version uint) (uint, error) {
	if s.nextFn != nil {
		return s.nextFn(version)
	}
	return 0, os.ErrNotExist
}

func (s *stubSource) ReadUp(version uint) (io.ReadCloser, string, error) {
	if s.readUpFn != nil {
		return s.readUpFn(version)
	}
	return nil, "", os.ErrNotExist
}

func (s *stubSource) ReadDown(version uint) (io.ReadCloser, string, error) {
	if s.readDownFn != nil {
		return s.readDownFn(version)
	}
	return nil, "", os.ErrNotExist
}

type stubDB struct {
	openFn       func(string) (migratedb.Driver, error)
	closeFn      func() error
	lockFn       func() error
	unlockFn     func() error
	runFn        func(io.Reader) error
	setVersionFn func(int, bool) error
	versionFn    func() (int, bool, error)
	dropFn       func() error
}

func (d *stubDB) Open(url string) (migratedb.Driver, error) {
	if d.openFn != nil {
		return d.openFn(url)
	}
	return d, nil
}

func (d *stubDB) Close() error {
	if d.closeFn != nil {
		return d.closeFn()
	}
	return nil
}

func (d *stubDB) Lock() error {
	if d.lockFn != nil {
		return d.lockFn()
	}
	return nil
}

func (d *stubDB) Unlock() error {
	if d.unlockFn != nil {
		return d.unlockFn()
	}
	return nil
}

func (d *stubDB) Run(migration io.Reader) error {
	if d.runFn != nil {
		return d.runFn(migration)
	}
	return nil
}

func (d *stubDB) SetVersion(version int, dirty bool) error {
	if d.setVersionFn != nil {
		return d.setVersionFn(version, dirty)
	}
	return nil
}

func (d *stubDB) Version() (int, bool, error) {
	if d.versionFn != nil {
		return d.versionFn()
	}
	return migratedb.NilVersion, false, nil
}

func (d *stubDB) Drop() error {
	if d.dropFn != nil {
		return d.dropFn()
	}
	return nil
}

const sessionsUp = "CREATE TABLE IF NOT EXISTS client_sessions (session_key TEXT PRIMARY KEY);"

// sessionSchemaSource serves a single migration, version 1.
func sessionSchemaSource() *stubSource {
	return &stubSource{
		firstFn: func() (uint, error) { return 1, nil },
		readUpFn: func(version uint) (io.ReadCloser, string, error) {
			if version != 1 {
				return nil, "", os.ErrNotExist
			}
			return io.NopCloser(strings.NewReader(sessionsUp)), "create_client_sessions", nil
		},
		readDownFn: func(uint) (io.ReadCloser, string, error) {
			return nil, "", os.ErrExist
		},
	}
}

// sessionDB records applied statements and tracks the schema version.
type sessionDB struct {
	stubDB
	version int
	dirty   bool
	ran     []string
}

func newSessionDB(version int, dirty bool) *sessionDB {
	d := &sessionDB{version: version, dirty: dirty}
	d.versionFn = func() (int, bool, error) { return d.version, d.dirty, nil }
	d.setVersionFn = func(version int, dirty bool) error {
		d.version, d.dirty = version, dirty
		return nil
	}
	d.runFn = func(r io.Reader) error {
		body, err := io.ReadAll(r)
		d.ran = append(d.ran, string(body))
		return err
	}
	return d
}

func newTestMigrator(t *testing.T, src source.Driver, db migratedb.Driver) *Migrator {
	t.Helper()

	m, err := migrate.NewWithInstance("stub", src, "stub", db)
	if err != nil {
		t.Fatalf("unexpected migrate.NewWithInstance error: %v", err)
	}
	return &Migrator{m: m}
}

func stubMigrate(t *testing.T, src source.Driver, db migratedb.Driver, gotURL *string) {
	t.Helper()
	orig := newMigrate
	newMigrate = func(sourceURL, dsn string) (*migrate.Migrate, error) {
		*gotURL = sourceURL
		return migrate.NewWithInstance("stub", src, "stub", db)
	}
	t.Cleanup(func() { newMigrate = orig })
}

func TestEnsureSchema_FreshDatabase(t *testing.T) {
	db := newSessionDB(migratedb.NilVersion, false)
	var gotURL string
	stubMigrate(t, sessionSchemaSource(), db, &gotURL)

	dir := t.TempDir()
	status, err := EnsureSchema("postgres://localhost/suggestly", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Version != 1 || status.Dirty || !status.Applied() {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(db.ran) != 1 || db.ran[0] != sessionsUp {
		t.Fatalf("expected the session migration to run once, got %q", db.ran)
	}
	if gotURL != "file://"+filepath.ToSlash(dir) {
		t.Fatalf("unexpected source url %q", gotURL)
	}
}

func TestEnsureSchema_AlreadyCurrent(t *testing.T) {
	db := newSessionDB(1, false)
	var gotURL string
	stubMigrate(t, sessionSchemaSource(), db, &gotURL)

	status, err := EnsureSchema("postgres://localhost/suggestly", "migrations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Version != 1 || len(db.ran) != 0 {
		t.Fatalf("expected no migration to run, got %+v %q", status, db.ran)
	}
}

func TestEnsureSchema_DirtySchema(t *testing.T) {
	db := newSessionDB(1, true)
	var gotURL string
	stubMigrate(t, sessionSchemaSource(), db, &gotURL)

	_, err := EnsureSchema("postgres://localhost/suggestly", "migrations")
	if !errors.Is(err, ErrDirtySchema) {
		t.Fatalf("expected ErrDirtySchema, got %v", err)
	}
}

func TestEnsureSchema_CreateFails(t *testing.T) {
	_, err := EnsureSchema("not-a-dsn", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "creating migrator") {
		t.Fatalf("expected wrapped creation error, got %v", err)
	}
}

func TestMigratorUp_ReportsChange(t *testing.T) {
	m := newTestMigrator(t, sessionSchemaSource(), newSessionDB(migratedb.NilVersion, false))
	changed, err := m.Up()
	if err != nil || !changed {
		t.Fatalf("expected change, got %v %v", changed, err)
	}

	changed, err = m.Up()
	if err != nil || changed {
		t.Fatalf("expected no change on second run, got %v %v", changed, err)
	}
}

func TestMigratorUp_ErrorWrapped(t *testing.T) {
	db := &stubDB{
		lockFn: func() error {
			return errors.New("lock failed")
		},
	}

	m := newTestMigrator(t, &stubSource{}, db)
	_, err := m.Up()
	if err == nil || !strings.Contains(err.Error(), "applying session schema") || !strings.Contains(err.Error(), "lock failed") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestMigratorStatus(t *testing.T) {
	tests := []struct {
		name    string
		version int
		want    string
	}{
		{"fresh database", migratedb.NilVersion, "no migrations applied"},
		{"migrated", 1, "version 1 (dirty: false)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMigrator(t, &stubSource{}, newSessionDB(tt.version, false))
			status, err := m.Status()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status.String() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, status.String())
			}
		})
	}
}

func TestMigratorDown_NoChangeIgnored(t *testing.T) {
	m := newTestMigrator(t, &stubSource{}, newSessionDB(migratedb.NilVersion, false))
	if err := m.Down(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestMigratorClose_SourceErrorWins(t *testing.T) {
	srcErr := errors.New("source close failed")
	src := &stubSource{closeFn: func() error { return srcErr }}
	db := &stubDB{closeFn: func() error { return errors.New("db close failed") }}

	m := newTestMigrator(t, src, db)
	if err := m.Close(); err != srcErr {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestSourceURL_RelativeMadeAbsolute(t *testing.T) {
	rel := sourceURL("migrations")
	if !strings.HasPrefix(rel, "file://") || !strings.HasSuffix(rel, "/migrations") {
		t.Fatalf("expected absolute file url, got %q", rel)
	}
}
