package domain

import (
	"math/big"
	"time"
)

// Market mirrors one prediction market as stored by the contract. The chain
// owns this state; the bot only ever reads it through contract calls.
type Market struct {
	ID       uint64
	Question string
	Expiry   time.Time
	TotalYes *big.Int // token units staked on YES
	TotalNo  *big.Int // token units staked on NO
	Resolved bool
	Outcome  bool // meaningful only when Resolved
}

// Active reports whether the market still accepts bets at the given instant.
func (m Market) Active(now time.Time) bool {
	return !m.Resolved && m.Expiry.After(now)
}

// TxResult is the outcome of a submitted transaction after receipt polling.
type TxResult struct {
	Hash    string
	Success bool
}
