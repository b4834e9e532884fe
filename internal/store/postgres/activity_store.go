package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

// ActivityStore implements domain.ActivityStore on PostgreSQL. One row per
// submitted state-changing transaction.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore creates an ActivityStore backed by the given pool.
func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Record inserts one activity row, assigning a fresh id and timestamp when
// absent.
func (s *ActivityStore) Record(ctx context.Context, a domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO activity (id, kind, user_id, market_id, tx_hash, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, string(a.Kind), a.UserID, a.MarketID, a.TxHash, a.Detail, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: record activity: %w", err)
	}
	return nil
}

// Recent returns the most recent activity rows, newest first.
func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, user_id, market_id, tx_hash, detail, created_at
		FROM activity
		ORDER BY created_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list activity: %w", err)
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		var kind string
		if err := rows.Scan(&a.ID, &kind, &a.UserID, &a.MarketID, &a.TxHash, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan activity: %w", err)
		}
		a.Kind = domain.ActivityKind(kind)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate activity: %w", err)
	}
	return out, nil
}

var _ domain.ActivityStore = (*ActivityStore)(nil)
