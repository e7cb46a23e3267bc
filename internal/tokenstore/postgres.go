package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

type CommandTag interface {
	RowsAffected() int64
}

type Row interface {
	Scan(dest ...any) error
}

// DBConn is the slice of the pool the Postgres store needs.
type DBConn interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

type poolConn struct {
	pool *pgxpool.Pool
}

func NewPoolConn(pool *pgxpool.Pool) DBConn {
	return poolConn{pool: pool}
}

func (p poolConn) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p poolConn) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// PostgresStore keeps one client_sessions row per session key.
type PostgresStore struct {
	db  DBConn
	key string
}

func NewPostgresStore(db DBConn, sessionKey string) *PostgresStore {
	return &PostgresStore{db: db, key: sessionKey}
}

func (s *PostgresStore) Load(ctx context.Context) (models.TokenPair, error) {
	var pair models.TokenPair
	err := s.db.QueryRow(ctx,
		`SELECT access_token, refresh_token, token_type
		 FROM client_sessions WHERE session_key = $1`,
		s.key,
	).Scan(&pair.AccessToken, &pair.RefreshToken, &pair.TokenType)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.TokenPair{}, ErrNoTokens
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("reading session: %w", err)
	}
	if pair.AccessToken == "" {
		return models.TokenPair{}, ErrNoTokens
	}
	return pair, nil
}

func (s *PostgresStore) Save(ctx context.Context, pair models.TokenPair) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO client_sessions (session_key, access_token, refresh_token, token_type, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (session_key) DO UPDATE
		 SET access_token = EXCLUDED.access_token,
		     refresh_token = EXCLUDED.refresh_token,
		     token_type = EXCLUDED.token_type,
		     updated_at = NOW()`,
		s.key, pair.AccessToken, pair.RefreshToken, pair.TokenType,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM client_sessions WHERE session_key = $1`, s.key); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
