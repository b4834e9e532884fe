package domain

import (
	"context"
	"math/big"
	"time"
)

// ChainClient is the contract adapter consumed by the dialogue engine.
// Implementations wrap a single deployed market contract plus its staking
// token; see internal/chain for the concrete RPC-backed client.
type ChainClient interface {
	// MarketCount returns the total number of markets ever created.
	MarketCount(ctx context.Context) (uint64, error)

	// Market fetches one market. Absent markets (out-of-range id or a
	// failed read) return ok=false, never an error.
	Market(ctx context.Context, id uint64) (Market, bool)

	// CreateMarket submits a market creation and, after confirmation,
	// derives the new id by re-reading the market count.
	CreateMarket(ctx context.Context, question string, expiry time.Time) (hash string, id uint64, err error)

	// ApproveSpend authorizes the market contract to move the given token
	// units. Must be confirmed before PlaceBet.
	ApproveSpend(ctx context.Context, amount *big.Int) (hash string, err error)

	// PlaceBet stakes amount token units on one side of a market.
	PlaceBet(ctx context.Context, marketID uint64, side bool, amount *big.Int) (hash string, err error)

	// ResolveMarket sets a market's final outcome. Only the configured
	// resolver identity may call it; others get ErrUnauthorized without
	// anything being submitted.
	ResolveMarket(ctx context.Context, marketID uint64, outcome bool) (hash string, err error)

	// ResolverAuthorized reports whether the signing identity matches the
	// configured resolver (case-insensitive address compare).
	ResolverAuthorized() bool

	// CheckConnection probes node liveness. Non-fatal on failure.
	CheckConnection(ctx context.Context) bool
}
