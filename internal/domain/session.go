package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Flow identifies which wizard a session is currently running.
type Flow string

const (
	FlowNone    Flow = ""
	FlowCreate  Flow = "create_market"
	FlowBet     Flow = "place_bet"
	FlowResolve Flow = "resolve_market"
)

// Step identifies the current position inside a wizard. Steps are scoped to
// their flow; the zero value means idle.
type Step string

const (
	StepNone Step = ""

	// Create-market wizard.
	StepCreateQuestion Step = "entering_question"
	StepCreateExpiry   Step = "entering_expiry"
	StepCreateConfirm  Step = "confirming_creation"

	// Place-bet wizard.
	StepBetAmount  Step = "entering_amount"
	StepBetConfirm Step = "confirming_bet"

	// Resolve-market wizard.
	StepResolveMarketID Step = "entering_market_id"
	StepResolveOutcome  Step = "entering_outcome"
	StepResolveConfirm  Step = "confirming_resolution"
)

// Session holds one user's wizard state. Fields are collected step by step
// and discarded together on completion, cancellation, or any fatal error.
type Session struct {
	UserID int64 `json:"user_id"`
	Flow   Flow  `json:"flow"`
	Step   Step  `json:"step"`

	// Collected wizard fields.
	Question   string          `json:"question,omitempty"`
	Expiry     time.Time       `json:"expiry,omitempty"`
	ExpiryText string          `json:"expiry_text,omitempty"`
	MarketID   uint64          `json:"market_id,omitempty"`
	Side       bool            `json:"side,omitempty"` // true = YES
	Amount     decimal.Decimal `json:"amount,omitempty"`
	Outcome    bool            `json:"outcome,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Idle reports whether no wizard is active.
func (s Session) Idle() bool { return s.Flow == FlowNone }

// Reset clears the wizard state and every collected field, keeping only the
// user identity.
func (s *Session) Reset() {
	*s = Session{UserID: s.UserID, UpdatedAt: s.UpdatedAt}
}

// SessionStore is the session repository. Get returns a zero-valued session
// for unknown users so callers never distinguish "new" from "idle".
type SessionStore interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Put(ctx context.Context, s Session) error
	Clear(ctx context.Context, userID int64) error
}
