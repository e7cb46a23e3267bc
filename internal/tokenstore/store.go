// Package tokenstore persists the session token pair between runs. Every
// backend writes both tokens together and clears both together.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/HammerMeetNail/suggestly/internal/config"
	"github.com/HammerMeetNail/suggestly/internal/database"
	"github.com/HammerMeetNail/suggestly/internal/models"
)

var ErrNoTokens = errors.New("no stored session")

type Store interface {
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the pair for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	pair models.TokenPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair.AccessToken == "" {
		return models.TokenPair{}, ErrNoTokens
	}
	return s.pair, nil
}

func (s *MemoryStore) Save(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	s.pair = pair
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.pair = models.TokenPair{}
	s.mu.Unlock()
	return nil
}

// Opened is a Store together with the connection it owns, if any.
type Opened struct {
	Store
	closer func()
}

func (o *Opened) Close() {
	if o.closer != nil {
		o.closer()
	}
}

var (
	openRedis    = database.NewRedisDB
	openPostgres = database.NewPostgresDB
	ensureSchema = database.EnsureSchema
)

// Open builds the backend selected by cfg.Session.Store. The Postgres
// backend migrates its table before first use.
func Open(ctx context.Context, cfg *config.Config) (*Opened, error) {
	switch cfg.Session.Store {
	case config.StoreMemory:
		return &Opened{Store: NewMemoryStore()}, nil
	case config.StoreFile:
		fs, err := NewFileStore(cfg.Session.File, cfg.Session.Secret)
		if err != nil {
			return nil, err
		}
		return &Opened{Store: fs}, nil
	case config.StoreRedis:
		rdb, err := openRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("opening redis session store: %w", err)
		}
		return &Opened{
			Store:  NewRedisStore(rdb.Client, cfg.Session.Key),
			closer: func() { _ = rdb.Close() },
		}, nil
	case config.StorePostgres:
		pg, err := openPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("opening postgres session store: %w", err)
		}
		if _, err := ensureSchema(cfg.Database.DSN(), cfg.Database.MigrationsPath); err != nil {
			pg.Close()
			return nil, fmt.Errorf("preparing postgres session store: %w", err)
		}
		return &Opened{
			Store:  NewPostgresStore(NewPoolConn(pg.Pool), cfg.Session.Key),
			closer: pg.Close,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidTokenStore, cfg.Session.Store)
	}
}
