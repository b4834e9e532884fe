package dialogue

import (
	"context"
	"fmt"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/render"
)

// startResolve gates entry on the resolver identity, then begins the
// resolve-market wizard. Unauthorized callers are rejected before any state
// is created.
func (e *Engine) startResolve(ctx context.Context, userID int64) (render.Reply, error) {
	if !e.chain.ResolverAuthorized() {
		return render.Reply{
			Text: "❌ *Access Denied*\n\nOnly the designated resolver can resolve markets.",
		}, nil
	}

	sess := domain.Session{
		UserID: userID,
		Flow:   domain.FlowResolve,
		Step:   domain.StepResolveMarketID,
	}
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text:     "🏁 *Resolve Market*\n\nEnter the Market ID you want to resolve.\n\nExample: `1`",
		Keyboard: render.CancelKeyboard(),
	}, nil
}

// enterResolveMarketID validates the target market: it must exist and be
// unresolved. Invalid input re-prompts in place.
func (e *Engine) enterResolveMarketID(ctx context.Context, sess domain.Session, text string) (render.Reply, error) {
	id, verr := parseMarketID(text)
	if verr != nil {
		return render.Reply{Text: verr.Error()}, nil
	}

	m, ok := e.chain.Market(ctx, id)
	if !ok {
		return render.Reply{Text: fmt.Sprintf("❌ Market #%d not found.", id)}, nil
	}
	if m.Resolved {
		return render.Reply{Text: fmt.Sprintf("❌ Market #%d has already been resolved.", id)}, nil
	}

	sess.MarketID = id
	sess.Question = m.Question
	sess.Step = domain.StepResolveOutcome
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text:     render.ResolvePools(m, e.codec),
		Keyboard: render.OutcomeKeyboard(),
	}, nil
}

// selectOutcome captures the binary outcome verbatim and asks for the final
// irreversible confirmation.
func (e *Engine) selectOutcome(ctx context.Context, sess domain.Session, outcome bool) (render.Reply, error) {
	if sess.Flow != domain.FlowResolve || sess.Step != domain.StepResolveOutcome {
		return render.Reply{}, nil
	}

	sess.Outcome = outcome
	sess.Step = domain.StepResolveConfirm
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text:     render.ResolveConfirmation(sess.MarketID, sess.Question, outcome),
		Keyboard: render.ConfirmKeyboard(render.CallbackConfirmResolve),
	}, nil
}

// confirmResolve submits the resolution. The authorization gate runs again
// inside the chain client, so a reconfigured resolver cannot slip through a
// stale session.
func (e *Engine) confirmResolve(ctx context.Context, sess domain.Session) (render.Reply, error) {
	if sess.Flow != domain.FlowResolve || sess.Step != domain.StepResolveConfirm {
		return render.Reply{}, nil
	}

	if err := e.sessions.Clear(ctx, sess.UserID); err != nil {
		return e.storeFailure(ctx, err)
	}

	hash, err := e.chain.ResolveMarket(ctx, sess.MarketID, sess.Outcome)
	if err != nil {
		e.notifyError(ctx, "market resolution", err)
		return render.Reply{
			Text: fmt.Sprintf(
				"❌ *Resolution Failed*\n\nError: %v\n\nPlease try again or contact support.",
				err,
			),
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	e.record(ctx, domain.Activity{
		Kind:     domain.ActivityMarketResolved,
		UserID:   sess.UserID,
		MarketID: sess.MarketID,
		TxHash:   hash,
		Detail:   render.SideLabel(sess.Outcome),
	})
	e.notifyEvent(ctx, "market_resolved", "Market resolved",
		fmt.Sprintf("#%d resolved %s", sess.MarketID, render.SideLabel(sess.Outcome)))

	return render.Reply{
		Text:     render.ResolveSuccess(sess.MarketID, sess.Question, sess.Outcome, hash),
		Keyboard: render.MainMenuKeyboard(),
	}, nil
}
