package dialogue

import (
	"context"
	"fmt"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/render"
)

// startCreate begins the create-market wizard. Any stale wizard state is
// replaced.
func (e *Engine) startCreate(ctx context.Context, userID int64) (render.Reply, error) {
	sess := domain.Session{
		UserID: userID,
		Flow:   domain.FlowCreate,
		Step:   domain.StepCreateQuestion,
	}
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text: "➕ *Create New Market*\n\n" +
			"Please enter the market question.\n\n" +
			"Example: _Will Bitcoin reach $100k by end of 2026?_",
		Keyboard: render.CancelKeyboard(),
	}, nil
}

// enterQuestion validates and stores the market question.
func (e *Engine) enterQuestion(ctx context.Context, sess domain.Session, text string) (render.Reply, error) {
	question, verr := parseQuestion(text)
	if verr != nil {
		return render.Reply{Text: verr.Error()}, nil
	}

	sess.Question = question
	sess.Step = domain.StepCreateExpiry
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text: fmt.Sprintf(
			"✅ Question saved:\n_%s_\n\n"+
				"Now enter the expiry date and time in UTC.\n\n"+
				"*Format:* `YYYY-MM-DD HH:MM`\n"+
				"*Example:* `2026-12-31 23:59`\n\n"+
				"_Minimum duration: %s_",
			question, e.cfg.MinMarketDuration,
		),
		Keyboard: render.CancelKeyboard(),
	}, nil
}

// enterExpiry parses and validates the expiry timestamp.
func (e *Engine) enterExpiry(ctx context.Context, sess domain.Session, text string) (render.Reply, error) {
	expiry, expiryText, verr := e.parseExpiry(text)
	if verr != nil {
		return render.Reply{Text: verr.Error()}, nil
	}

	sess.Expiry = expiry
	sess.ExpiryText = expiryText
	sess.Step = domain.StepCreateConfirm
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text:     render.CreateConfirmation(sess.Question, expiryText),
		Keyboard: render.ConfirmKeyboard(render.CallbackConfirmCreate),
	}, nil
}

// confirmCreate submits the creation transaction. Success and failure both
// clear the wizard; only a validation step can leave it standing.
func (e *Engine) confirmCreate(ctx context.Context, sess domain.Session) (render.Reply, error) {
	if sess.Flow != domain.FlowCreate || sess.Step != domain.StepCreateConfirm {
		return render.Reply{}, nil
	}

	if err := e.sessions.Clear(ctx, sess.UserID); err != nil {
		return e.storeFailure(ctx, err)
	}

	hash, marketID, err := e.chain.CreateMarket(ctx, sess.Question, sess.Expiry)
	if err != nil {
		e.notifyError(ctx, "market creation", err)
		return render.Reply{
			Text: fmt.Sprintf(
				"❌ *Market Creation Failed*\n\nError: %v\n\nPlease try again or contact support.",
				err,
			),
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	e.record(ctx, domain.Activity{
		Kind:     domain.ActivityMarketCreated,
		UserID:   sess.UserID,
		MarketID: marketID,
		TxHash:   hash,
		Detail:   sess.Question,
	})
	e.notifyEvent(ctx, "market_created", "Market created",
		fmt.Sprintf("#%d: %s (expires %s UTC)", marketID, sess.Question, sess.ExpiryText))

	return render.Reply{
		Text:     render.CreateSuccess(marketID, sess.Question, hash),
		Keyboard: render.MainMenuKeyboard(),
	}, nil
}
