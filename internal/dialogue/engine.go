// Package dialogue implements the per-user wizard state machines behind the
// chat surface: create-market, place-bet, and resolve-market. Each wizard is
// a linear flow with a cancel transition from every non-terminal step, and
// every blockchain failure is terminal for the current invocation.
package dialogue

import (
	"context"
	"log/slog"
	"time"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/render"
	"github.com/escalate-labs/escalatebot/internal/token"
)

// maxListedMarkets caps how many active markets a single listing shows.
const maxListedMarkets = 5

// Notifier receives operator event alerts. Satisfied by notify.Notifier.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Config tunes the engine.
type Config struct {
	MinMarketDuration time.Duration
}

// Engine drives the wizards. One inbound event per user is processed to
// completion before the next; the transport enforces that serialization.
type Engine struct {
	chain    domain.ChainClient
	sessions domain.SessionStore
	codec    token.Codec
	cfg      Config

	activity domain.ActivityStore // optional
	notifier Notifier             // optional

	logger *slog.Logger
	now    func() time.Time
}

// New creates an Engine. activity and notifier may be nil.
func New(
	chain domain.ChainClient,
	sessions domain.SessionStore,
	codec token.Codec,
	cfg Config,
	activity domain.ActivityStore,
	notifier Notifier,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		chain:    chain,
		sessions: sessions,
		codec:    codec,
		cfg:      cfg,
		activity: activity,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "dialogue")),
		now:      time.Now,
	}
}

const welcomeText = "🎯 *Welcome to Escalate*\n\n" +
	"A decentralized prediction market on Monad testnet.\n\n" +
	"Choose an option below to get started:"

const menuText = "🎯 *Escalate - Main Menu*\n\nChoose an option below:"

// HandleCommand processes a slash command (without the leading slash).
func (e *Engine) HandleCommand(ctx context.Context, userID int64, cmd string) (render.Reply, error) {
	switch cmd {
	case "start":
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return e.storeFailure(ctx, err)
		}
		return render.Reply{Text: welcomeText, Keyboard: render.MainMenuKeyboard()}, nil
	case "resolve":
		return e.startResolve(ctx, userID)
	default:
		return render.Reply{Text: "❓ Unknown command. Use /start"}, nil
	}
}

// HandleCallback processes a button press. Tokens that do not fit the
// session's current step are ignored (stale keyboards from edited messages).
func (e *Engine) HandleCallback(ctx context.Context, userID int64, data string) (render.Reply, error) {
	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return e.storeFailure(ctx, err)
	}

	switch data {
	case render.CallbackCancel:
		return e.cancel(ctx, userID)
	case render.CallbackBackToMenu:
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return e.storeFailure(ctx, err)
		}
		return render.Reply{Text: menuText, Keyboard: render.MainMenuKeyboard()}, nil
	case render.CallbackViewMarkets:
		return e.listMarkets(ctx, false)
	case render.CallbackPlaceBet:
		return e.listMarkets(ctx, true)
	case render.CallbackCreateMarket:
		return e.startCreate(ctx, userID)
	case render.CallbackOutcomeYes, render.CallbackOutcomeNo:
		return e.selectOutcome(ctx, sess, data == render.CallbackOutcomeYes)
	case render.CallbackConfirmCreate:
		return e.confirmCreate(ctx, sess)
	case render.CallbackConfirmBet:
		return e.confirmBet(ctx, sess)
	case render.CallbackConfirmResolve:
		return e.confirmResolve(ctx, sess)
	}

	if id, side, ok := render.ParseBetCallback(data); ok {
		return e.selectSide(ctx, sess, id, side)
	}
	if id, ok := render.ParseViewMarketCallback(data); ok {
		return e.viewMarket(ctx, id)
	}

	e.logger.DebugContext(ctx, "ignoring unknown callback",
		slog.Int64("user_id", userID),
		slog.String("data", data),
	)
	return render.Reply{}, nil
}

// HandleMessage processes free text against the session's current step.
// Text arriving while no wizard expects input is ignored.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, text string) (render.Reply, error) {
	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return e.storeFailure(ctx, err)
	}

	switch sess.Step {
	case domain.StepCreateQuestion:
		return e.enterQuestion(ctx, sess, text)
	case domain.StepCreateExpiry:
		return e.enterExpiry(ctx, sess, text)
	case domain.StepBetAmount:
		return e.enterAmount(ctx, sess, text)
	case domain.StepResolveMarketID:
		return e.enterResolveMarketID(ctx, sess, text)
	default:
		return render.Reply{}, nil
	}
}

// cancel clears the wizard state unconditionally, from any step.
func (e *Engine) cancel(ctx context.Context, userID int64) (render.Reply, error) {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return e.storeFailure(ctx, err)
	}
	return render.Reply{
		Text:     "❌ Action cancelled.\n\nReturning to main menu...",
		Keyboard: render.MainMenuKeyboard(),
	}, nil
}

// listMarkets scans markets 1..count and renders the active ones. forBetting
// only changes the header; the keyboard is identical.
func (e *Engine) listMarkets(ctx context.Context, forBetting bool) (render.Reply, error) {
	count, err := e.chain.MarketCount(ctx)
	if err != nil {
		e.notifyError(ctx, "market listing", err)
		return render.Reply{
			Text:     "❌ *Error loading markets*\n\nFailed to fetch markets from blockchain.",
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	if count == 0 {
		return render.Reply{
			Text:     "📊 *No markets available*\n\nBe the first to create a market!",
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	active := e.activeMarkets(ctx, count)
	if len(active) == 0 {
		return render.Reply{
			Text:     "📊 *No active markets*\n\nAll markets have expired or been resolved.",
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	text := render.MarketList(active, e.codec, e.now())
	if forBetting {
		text = "💰 *Select a market to bet on:*\n\n" + text
	}
	return render.Reply{Text: text, Keyboard: render.MarketListKeyboard(active)}, nil
}

// activeMarkets fetches every market and keeps the unresolved, unexpired
// ones, capped at maxListedMarkets.
func (e *Engine) activeMarkets(ctx context.Context, count uint64) []domain.Market {
	now := e.now()
	var active []domain.Market
	for id := uint64(1); id <= count && len(active) < maxListedMarkets; id++ {
		m, ok := e.chain.Market(ctx, id)
		if ok && m.Active(now) {
			active = append(active, m)
		}
	}
	return active
}

// viewMarket renders one market's detail view.
func (e *Engine) viewMarket(ctx context.Context, id uint64) (render.Reply, error) {
	m, ok := e.chain.Market(ctx, id)
	if !ok {
		return render.Reply{
			Text:     "❌ Market not found.",
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}
	return render.Reply{
		Text:     render.MarketSummary(m, e.codec, e.now()),
		Keyboard: render.MarketDetailKeyboard(id),
	}, nil
}

// storeFailure handles a session repository error: the user gets a generic
// message, the incident is logged.
func (e *Engine) storeFailure(ctx context.Context, err error) (render.Reply, error) {
	e.logger.ErrorContext(ctx, "session store failure", slog.String("error", err.Error()))
	return render.Reply{
		Text:     "❌ Something went wrong. Please try again.",
		Keyboard: render.MainMenuKeyboard(),
	}, err
}

// notifyError forwards a fatal failure to the operator channel.
func (e *Engine) notifyError(ctx context.Context, what string, err error) {
	e.logger.ErrorContext(ctx, "operation failed",
		slog.String("operation", what),
		slog.String("error", err.Error()),
	)
	if e.notifier != nil {
		_ = e.notifier.Notify(ctx, "error", "Escalate bot error", what+": "+err.Error())
	}
}

// record writes a best-effort activity row.
func (e *Engine) record(ctx context.Context, a domain.Activity) {
	if e.activity == nil {
		return
	}
	if err := e.activity.Record(ctx, a); err != nil {
		e.logger.WarnContext(ctx, "activity record failed",
			slog.String("kind", string(a.Kind)),
			slog.String("error", err.Error()),
		)
	}
}

// notifyEvent forwards a successful action to the operator channel.
func (e *Engine) notifyEvent(ctx context.Context, event, title, message string) {
	if e.notifier != nil {
		_ = e.notifier.Notify(ctx, event, title, message)
	}
}
