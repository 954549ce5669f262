package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists answered chat exchanges for analytics. Optional: the
// server runs without it when no DSN is configured.
type Store struct {
	pool *pgxpool.Pool
}

// Exchange is one answered chat request.
type Exchange struct {
	RequestID  string
	Message    string
	Intent     string
	Source     string
	Confidence float64
	Cached     bool
	LatencyMS  int64
	CreatedAt  time.Time
}

// IntentCount is an aggregate row for the performance endpoint.
type IntentCount struct {
	Intent string `json:"intent"`
	Count  int64  `json:"count"`
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS chat_exchanges (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL,
			message TEXT NOT NULL,
			intent TEXT NOT NULL,
			source TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			cached BOOLEAN NOT NULL DEFAULT FALSE,
			latency_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_exchanges_intent_created ON chat_exchanges(intent, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_exchanges_created ON chat_exchanges(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SaveExchange(ctx context.Context, ex Exchange) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_exchanges(request_id, message, intent, source, confidence, cached, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ex.RequestID, ex.Message, ex.Intent, ex.Source, ex.Confidence, ex.Cached, ex.LatencyMS)
	return err
}

// CountByIntent aggregates answered exchanges per intent since the
// given time, most frequent first.
func (s *Store) CountByIntent(ctx context.Context, since time.Time, limit int) ([]IntentCount, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT intent, COUNT(*)
		FROM chat_exchanges
		WHERE created_at >= $1
		GROUP BY intent
		ORDER BY COUNT(*) DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]IntentCount, 0, limit)
	for rows.Next() {
		var item IntentCount
		if err := rows.Scan(&item.Intent, &item.Count); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
