package domain

import (
	"context"
	"time"
)

// ActivityKind classifies a recorded on-chain action.
type ActivityKind string

const (
	ActivityMarketCreated  ActivityKind = "market_created"
	ActivityBetPlaced      ActivityKind = "bet_placed"
	ActivityMarketResolved ActivityKind = "market_resolved"
)

// Activity is one audit row for a submitted state-changing transaction.
// Recording is best-effort: a write failure never fails the user's wizard.
type Activity struct {
	ID        string
	Kind      ActivityKind
	UserID    int64
	MarketID  uint64
	TxHash    string
	Detail    string
	CreatedAt time.Time
}

// ActivityStore persists the audit trail of submitted transactions.
type ActivityStore interface {
	Record(ctx context.Context, a Activity) error
	Recent(ctx context.Context, limit int) ([]Activity, error)
}
