package dialogue

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/payout"
	"github.com/escalate-labs/escalatebot/internal/render"
)

// selectSide starts (or restarts) the place-bet wizard for one market side.
// The market is re-fetched and re-validated at selection time: it may have
// expired or resolved since it was listed.
func (e *Engine) selectSide(ctx context.Context, sess domain.Session, marketID uint64, side bool) (render.Reply, error) {
	m, ok := e.chain.Market(ctx, marketID)
	if !ok {
		return render.Reply{Text: "❌ Market not found.", Keyboard: render.MainMenuKeyboard()}, nil
	}
	if m.Resolved {
		return render.Reply{Text: "❌ This market has been resolved.", Keyboard: render.MainMenuKeyboard()}, nil
	}
	if !m.Expiry.After(e.now()) {
		return render.Reply{Text: "❌ This market has expired.", Keyboard: render.MainMenuKeyboard()}, nil
	}

	sess.Reset()
	sess.Flow = domain.FlowBet
	sess.Step = domain.StepBetAmount
	sess.MarketID = marketID
	sess.Side = side
	sess.Question = m.Question
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text: fmt.Sprintf(
			"💰 *Place Bet*\n\n"+
				"*Market:* %s\n"+
				"*Side:* %s\n\n"+
				"Enter the amount in MON you want to bet.\n\n"+
				"Example: `10` or `25.50`",
			m.Question, render.SideLabel(side),
		),
		Keyboard: render.CancelKeyboard(),
	}, nil
}

// enterAmount validates the stake, re-fetches the market, and shows the
// payout preview before confirmation.
func (e *Engine) enterAmount(ctx context.Context, sess domain.Session, text string) (render.Reply, error) {
	amount, verr := parseBetAmount(text)
	if verr != nil {
		return render.Reply{Text: verr.Error()}, nil
	}

	m, ok := e.chain.Market(ctx, sess.MarketID)
	if !ok {
		if clearErr := e.sessions.Clear(ctx, sess.UserID); clearErr != nil {
			return e.storeFailure(ctx, clearErr)
		}
		return render.Reply{Text: "❌ Market not found.", Keyboard: render.MainMenuKeyboard()}, nil
	}

	preview := payout.Calculate(
		e.codec.ToDecimal(m.TotalYes),
		e.codec.ToDecimal(m.TotalNo),
		amount,
		sess.Side,
	)

	sess.Amount = amount
	sess.Step = domain.StepBetConfirm
	if err := e.sessions.Put(ctx, sess); err != nil {
		return e.storeFailure(ctx, err)
	}

	return render.Reply{
		Text:     render.BetConfirmation(sess.Question, sess.Side, amount, preview),
		Keyboard: render.ConfirmKeyboard(render.CallbackConfirmBet),
	}, nil
}

// confirmBet executes the two-phase approve-then-bet sequence. A failure in
// either phase clears the wizard; an already-confirmed approval is an
// accepted on-chain side effect and is not rolled back.
func (e *Engine) confirmBet(ctx context.Context, sess domain.Session) (render.Reply, error) {
	if sess.Flow != domain.FlowBet || sess.Step != domain.StepBetConfirm {
		return render.Reply{}, nil
	}

	if err := e.sessions.Clear(ctx, sess.UserID); err != nil {
		return e.storeFailure(ctx, err)
	}

	units := e.codec.ToUnits(sess.Amount)

	if _, err := e.chain.ApproveSpend(ctx, units); err != nil {
		e.notifyError(ctx, "bet approval", err)
		return render.Reply{
			Text: fmt.Sprintf(
				"❌ *Bet Placement Failed*\n\n"+
					"Step 1/2 (approving MON) did not complete; no bet was placed.\n\n"+
					"Error: %v\n\n"+
					"Please check:\n"+
					"• You have sufficient MON balance\n"+
					"• Your wallet has enough gas",
				err,
			),
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	betHash, err := e.chain.PlaceBet(ctx, sess.MarketID, sess.Side, units)
	if err != nil {
		e.notifyError(ctx, "bet placement", err)
		return render.Reply{
			Text: fmt.Sprintf(
				"❌ *Bet Placement Failed*\n\n"+
					"Step 1/2 (approving MON) succeeded, but step 2/2 (placing the bet) failed. "+
					"The approved allowance remains on-chain; no stake was taken.\n\n"+
					"Error: %v\n\n"+
					"Please check:\n"+
					"• The market is still active\n"+
					"• Your wallet has enough gas",
				err,
			),
			Keyboard: render.MainMenuKeyboard(),
		}, nil
	}

	e.record(ctx, domain.Activity{
		Kind:     domain.ActivityBetPlaced,
		UserID:   sess.UserID,
		MarketID: sess.MarketID,
		TxHash:   betHash,
		Detail:   fmt.Sprintf("%s on %s", sess.Amount.StringFixed(2), render.SideLabel(sess.Side)),
	})
	e.notifyEvent(ctx, "bet_placed", "Bet placed",
		fmt.Sprintf("%s MON on %s of market #%d", sess.Amount.StringFixed(2), render.SideLabel(sess.Side), sess.MarketID))

	// Refresh pools for the success summary; fall back to the last known
	// question if the read races.
	totalYes, totalNo := decimal.Zero, decimal.Zero
	if m, ok := e.chain.Market(ctx, sess.MarketID); ok {
		totalYes = e.codec.ToDecimal(m.TotalYes)
		totalNo = e.codec.ToDecimal(m.TotalNo)
	}

	return render.Reply{
		Text:     render.BetSuccess(sess.Question, sess.Side, sess.Amount, totalYes, totalNo, betHash),
		Keyboard: render.MainMenuKeyboard(),
	}, nil
}
