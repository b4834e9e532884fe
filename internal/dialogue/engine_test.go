package dialogue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/session"
	"github.com/escalate-labs/escalatebot/internal/token"
)

// testNow is the frozen clock every engine test runs against.
var testNow = time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

// fakeChain is an in-memory domain.ChainClient that records submitted
// transactions.
type fakeChain struct {
	markets  map[uint64]domain.Market
	count    uint64
	countErr error
	resolver bool

	createHash  string
	createID    uint64
	createErr   error
	gotQuestion string
	gotExpiry   time.Time

	approveErr   error
	approveUnits *big.Int
	betHash      string
	betErr       error
	betMarketID  uint64
	betSide      bool
	betUnits     *big.Int

	resolveHash     string
	resolveErr      error
	resolvedID      uint64
	resolvedOutcome bool
}

func (f *fakeChain) MarketCount(context.Context) (uint64, error) {
	return f.count, f.countErr
}

func (f *fakeChain) Market(_ context.Context, id uint64) (domain.Market, bool) {
	m, ok := f.markets[id]
	return m, ok
}

func (f *fakeChain) CreateMarket(_ context.Context, question string, expiry time.Time) (string, uint64, error) {
	if f.createErr != nil {
		return "", 0, f.createErr
	}
	f.gotQuestion = question
	f.gotExpiry = expiry
	return f.createHash, f.createID, nil
}

func (f *fakeChain) ApproveSpend(_ context.Context, amount *big.Int) (string, error) {
	if f.approveErr != nil {
		return "", f.approveErr
	}
	f.approveUnits = amount
	return "0xapprove", nil
}

func (f *fakeChain) PlaceBet(_ context.Context, marketID uint64, side bool, amount *big.Int) (string, error) {
	if f.betErr != nil {
		return "", f.betErr
	}
	f.betMarketID = marketID
	f.betSide = side
	f.betUnits = amount
	return f.betHash, nil
}

func (f *fakeChain) ResolveMarket(_ context.Context, marketID uint64, outcome bool) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	f.resolvedID = marketID
	f.resolvedOutcome = outcome
	return f.resolveHash, nil
}

func (f *fakeChain) ResolverAuthorized() bool { return f.resolver }

func (f *fakeChain) CheckConnection(context.Context) bool { return true }

var _ domain.ChainClient = (*fakeChain)(nil)

// newTestEngine wires an engine with a frozen clock, in-memory sessions, and
// a 6-decimal codec.
func newTestEngine(fc *fakeChain) (*Engine, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour)
	e := New(
		fc,
		store,
		token.NewCodec(6),
		Config{MinMarketDuration: 5 * time.Minute},
		nil,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	e.now = func() time.Time { return testNow }
	return e, store
}

// activeMarket builds an unresolved market expiring well after testNow.
func activeMarket(id uint64, question string, yes, no int64) domain.Market {
	return domain.Market{
		ID:       id,
		Question: question,
		Expiry:   testNow.Add(24 * time.Hour),
		TotalYes: big.NewInt(yes),
		TotalNo:  big.NewInt(no),
	}
}

func mustIdle(t *testing.T, store *session.MemoryStore, userID int64) {
	t.Helper()
	sess, _ := store.Get(context.Background(), userID)
	if !sess.Idle() {
		t.Fatalf("session not idle: %+v", sess)
	}
}

func TestStartClearsSession(t *testing.T) {
	e, store := newTestEngine(&fakeChain{})
	ctx := context.Background()

	_ = store.Put(ctx, domain.Session{UserID: 1, Flow: domain.FlowBet, Step: domain.StepBetAmount, MarketID: 3})

	reply, err := e.HandleCommand(ctx, 1, "start")
	if err != nil {
		t.Fatalf("HandleCommand: %v", err)
	}
	if !strings.Contains(reply.Text, "Welcome to Escalate") {
		t.Errorf("missing welcome: %q", reply.Text)
	}
	if len(reply.Keyboard) == 0 {
		t.Error("welcome has no keyboard")
	}
	mustIdle(t, store, 1)
}

func TestUnknownCommand(t *testing.T) {
	e, _ := newTestEngine(&fakeChain{})

	reply, err := e.HandleCommand(context.Background(), 1, "frobnicate")
	if err != nil {
		t.Fatalf("HandleCommand: %v", err)
	}
	if !strings.Contains(reply.Text, "Unknown command") {
		t.Errorf("got %q", reply.Text)
	}
}

func TestCancelFromEveryStep(t *testing.T) {
	steps := []struct {
		flow domain.Flow
		step domain.Step
	}{
		{domain.FlowCreate, domain.StepCreateQuestion},
		{domain.FlowCreate, domain.StepCreateExpiry},
		{domain.FlowCreate, domain.StepCreateConfirm},
		{domain.FlowBet, domain.StepBetAmount},
		{domain.FlowBet, domain.StepBetConfirm},
		{domain.FlowResolve, domain.StepResolveMarketID},
		{domain.FlowResolve, domain.StepResolveOutcome},
		{domain.FlowResolve, domain.StepResolveConfirm},
	}

	for _, tt := range steps {
		e, store := newTestEngine(&fakeChain{})
		ctx := context.Background()

		_ = store.Put(ctx, domain.Session{
			UserID:   1,
			Flow:     tt.flow,
			Step:     tt.step,
			MarketID: 9,
			Question: "leftover state",
		})

		reply, err := e.HandleCallback(ctx, 1, "cancel")
		if err != nil {
			t.Fatalf("%s/%s: HandleCallback: %v", tt.flow, tt.step, err)
		}
		if !strings.Contains(reply.Text, "Action cancelled") {
			t.Errorf("%s/%s: got %q", tt.flow, tt.step, reply.Text)
		}
		mustIdle(t, store, 1)
	}
}

func TestTextIgnoredWhenIdle(t *testing.T) {
	e, _ := newTestEngine(&fakeChain{})

	reply, err := e.HandleMessage(context.Background(), 1, "hello there")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Text != "" {
		t.Errorf("idle text produced reply %q", reply.Text)
	}
}

func TestUnknownCallbackIgnored(t *testing.T) {
	e, _ := newTestEngine(&fakeChain{})

	reply, err := e.HandleCallback(context.Background(), 1, "stale_button_42")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if reply.Text != "" {
		t.Errorf("unknown callback produced reply %q", reply.Text)
	}
}

func TestListMarketsEmpty(t *testing.T) {
	e, _ := newTestEngine(&fakeChain{count: 0})

	reply, err := e.HandleCallback(context.Background(), 1, "view_markets")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if !strings.Contains(reply.Text, "No markets available") {
		t.Errorf("got %q", reply.Text)
	}
}

func TestListMarketsAllInactive(t *testing.T) {
	expired := activeMarket(1, "Old question here?", 0, 0)
	expired.Expiry = testNow.Add(-time.Hour)
	resolved := activeMarket(2, "Settled question here?", 0, 0)
	resolved.Resolved = true

	fc := &fakeChain{count: 2, markets: map[uint64]domain.Market{1: expired, 2: resolved}}
	e, _ := newTestEngine(fc)

	reply, err := e.HandleCallback(context.Background(), 1, "view_markets")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if !strings.Contains(reply.Text, "No active markets") {
		t.Errorf("got %q", reply.Text)
	}
}

func TestListMarketsCapped(t *testing.T) {
	fc := &fakeChain{count: 8, markets: map[uint64]domain.Market{}}
	for id := uint64(1); id <= 8; id++ {
		fc.markets[id] = activeMarket(id, "Will something happen?", 0, 0)
	}
	e, _ := newTestEngine(fc)

	reply, err := e.HandleCallback(context.Background(), 1, "view_markets")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if got := strings.Count(reply.Text, "Market #"); got != maxListedMarkets {
		t.Errorf("listed %d markets, want %d", got, maxListedMarkets)
	}
}

func TestListMarketsChainError(t *testing.T) {
	fc := &fakeChain{countErr: errors.New("rpc down")}
	e, _ := newTestEngine(fc)

	reply, err := e.HandleCallback(context.Background(), 1, "view_markets")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if !strings.Contains(reply.Text, "Error loading markets") {
		t.Errorf("got %q", reply.Text)
	}
}

func TestViewMarketNotFound(t *testing.T) {
	e, _ := newTestEngine(&fakeChain{markets: map[uint64]domain.Market{}})

	reply, err := e.HandleCallback(context.Background(), 1, "view_market_99")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if !strings.Contains(reply.Text, "Market not found") {
		t.Errorf("got %q", reply.Text)
	}
}
