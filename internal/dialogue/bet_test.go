package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

func TestSelectSideRevalidatesMarket(t *testing.T) {
	resolved := activeMarket(2, "Already settled question?", 0, 0)
	resolved.Resolved = true
	expired := activeMarket(3, "Already expired question?", 0, 0)
	expired.Expiry = testNow.Add(-time.Minute)

	fc := &fakeChain{markets: map[uint64]domain.Market{
		1: activeMarket(1, "Still open question here?", 0, 0),
		2: resolved,
		3: expired,
	}}
	e, store := newTestEngine(fc)
	ctx := context.Background()

	tests := []struct {
		data string
		want string
	}{
		{"bet_yes_99", "Market not found"},
		{"bet_yes_2", "has been resolved"},
		{"bet_no_3", "has expired"},
	}
	for _, tt := range tests {
		reply, err := e.HandleCallback(ctx, 1, tt.data)
		if err != nil {
			t.Fatalf("%s: %v", tt.data, err)
		}
		if !strings.Contains(reply.Text, tt.want) {
			t.Errorf("%s: got %q, want mention of %q", tt.data, reply.Text, tt.want)
		}
		mustIdle(t, store, 1)
	}

	reply, err := e.HandleCallback(ctx, 1, "bet_no_1")
	if err != nil {
		t.Fatalf("bet_no_1: %v", err)
	}
	if !strings.Contains(reply.Text, "Place Bet") {
		t.Fatalf("got %q", reply.Text)
	}
	sess, _ := store.Get(ctx, 1)
	if sess.Flow != domain.FlowBet || sess.Step != domain.StepBetAmount {
		t.Fatalf("session = %+v", sess)
	}
	if sess.MarketID != 1 || sess.Side {
		t.Errorf("stored market %d side %v, want 1 NO", sess.MarketID, sess.Side)
	}
}

func TestEnterAmountValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		accepted bool
	}{
		{"not a number", "ten", false},
		{"zero", "0", false},
		{"negative", "-5", false},
		{"above cap", "1000001", false},
		{"just above cap", "1000000.01", false},
		{"at cap", "1000000", true},
		{"smallest sensible", "0.01", true},
		{"fractional", "25.50", true},
	}

	for _, tt := range tests {
		fc := &fakeChain{markets: map[uint64]domain.Market{
			1: activeMarket(1, "Takes any valid stake?", 90_000_000, 10_000_000),
		}}
		e, store := newTestEngine(fc)
		ctx := context.Background()

		_, _ = e.HandleCallback(ctx, 1, "bet_yes_1")
		reply, err := e.HandleMessage(ctx, 1, tt.input)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}

		sess, _ := store.Get(ctx, 1)
		if tt.accepted {
			if sess.Step != domain.StepBetConfirm {
				t.Errorf("%s: step = %s, want confirm", tt.name, sess.Step)
			}
			if !strings.Contains(reply.Text, "Confirm Bet") {
				t.Errorf("%s: got %q", tt.name, reply.Text)
			}
		} else {
			if sess.Step != domain.StepBetAmount {
				t.Errorf("%s: step = %s, want amount re-prompt", tt.name, sess.Step)
			}
		}
	}
}

func TestBetHappyPath(t *testing.T) {
	fc := &fakeChain{
		betHash: "0xbet456",
		markets: map[uint64]domain.Market{
			1: activeMarket(1, "Will the pools move today?", 90_000_000, 10_000_000),
		},
	}
	e, store := newTestEngine(fc)
	ctx := context.Background()

	_, _ = e.HandleCallback(ctx, 1, "bet_yes_1")
	reply, err := e.HandleMessage(ctx, 1, "10")
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	// Pools 90/10, stake 10 on YES: payout 11, profit 1 at 10%.
	for _, want := range []string{"Payout: 11.00 MON", "+1.00 MON (+10.0%)"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("preview missing %q:\n%s", want, reply.Text)
		}
	}

	// Simulate the confirmed bet moving the YES pool.
	fc.markets[1] = activeMarket(1, "Will the pools move today?", 100_000_000, 10_000_000)

	reply, err = e.HandleCallback(ctx, 1, "confirm_place_bet")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !strings.Contains(reply.Text, "Bet Placed Successfully") {
		t.Fatalf("got %q", reply.Text)
	}
	for _, want := range []string{"0xbet456", "YES: 100.00 MON", "NO: 10.00 MON"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("success missing %q:\n%s", want, reply.Text)
		}
	}

	if fc.approveUnits == nil || fc.approveUnits.Int64() != 10_000_000 {
		t.Errorf("approved units = %v, want 10000000", fc.approveUnits)
	}
	if fc.betUnits == nil || fc.betUnits.Int64() != 10_000_000 {
		t.Errorf("bet units = %v, want 10000000", fc.betUnits)
	}
	if fc.betMarketID != 1 || !fc.betSide {
		t.Errorf("bet on market %d side %v, want 1 YES", fc.betMarketID, fc.betSide)
	}
	mustIdle(t, store, 1)
}

func TestApproveFailureStopsBeforeBet(t *testing.T) {
	fc := &fakeChain{
		approveErr: &domain.TransactionError{Op: "approve spend", Hash: "0xdead", Err: errors.New("timed out")},
		markets: map[uint64]domain.Market{
			1: activeMarket(1, "Will approval go through?", 0, 0),
		},
	}
	e, store := newTestEngine(fc)
	ctx := context.Background()

	_, _ = e.HandleCallback(ctx, 1, "bet_yes_1")
	_, _ = e.HandleMessage(ctx, 1, "10")

	reply, err := e.HandleCallback(ctx, 1, "confirm_place_bet")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !strings.Contains(reply.Text, "did not complete; no bet was placed") {
		t.Errorf("got %q", reply.Text)
	}
	if fc.betUnits != nil {
		t.Error("bet submitted after failed approval")
	}
	mustIdle(t, store, 1)
}

func TestPlaceBetFailureAfterApproval(t *testing.T) {
	fc := &fakeChain{
		betErr: &domain.ContractError{Op: "place bet", Err: errors.New("execution reverted")},
		markets: map[uint64]domain.Market{
			1: activeMarket(1, "Will the bet itself fail?", 0, 0),
		},
	}
	e, store := newTestEngine(fc)
	ctx := context.Background()

	_, _ = e.HandleCallback(ctx, 1, "bet_yes_1")
	_, _ = e.HandleMessage(ctx, 1, "10")

	reply, err := e.HandleCallback(ctx, 1, "confirm_place_bet")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// The message distinguishes the succeeded approval from the failed bet.
	for _, want := range []string{"succeeded", "allowance remains on-chain"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("missing %q in %q", want, reply.Text)
		}
	}
	if fc.approveUnits == nil {
		t.Error("approval never submitted")
	}
	mustIdle(t, store, 1)
}

func TestMarketVanishesBetweenAmountAndPreview(t *testing.T) {
	fc := &fakeChain{markets: map[uint64]domain.Market{
		1: activeMarket(1, "Will this market vanish?", 0, 0),
	}}
	e, store := newTestEngine(fc)
	ctx := context.Background()

	_, _ = e.HandleCallback(ctx, 1, "bet_yes_1")
	delete(fc.markets, 1)

	reply, err := e.HandleMessage(ctx, 1, "10")
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if !strings.Contains(reply.Text, "Market not found") {
		t.Errorf("got %q", reply.Text)
	}
	mustIdle(t, store, 1)
}
