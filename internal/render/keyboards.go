package render

import (
	"fmt"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

// MainMenuKeyboard is the top-level navigation.
func MainMenuKeyboard() Keyboard {
	return Keyboard{
		{{Label: "📊 View Markets", Data: CallbackViewMarkets}},
		{{Label: "➕ Create Market", Data: CallbackCreateMarket}},
		{{Label: "💰 Place Bet", Data: CallbackPlaceBet}},
	}
}

// MarketListKeyboard lists each market with its bet shortcuts, plus a back
// row.
func MarketListKeyboard(markets []domain.Market) Keyboard {
	var kb Keyboard
	for _, m := range markets {
		kb = append(kb,
			[]Button{{Label: fmt.Sprintf("📈 Market #%d", m.ID), Data: CallbackViewMarket(m.ID)}},
			[]Button{
				{Label: "✅ Bet YES", Data: CallbackBetYes(m.ID)},
				{Label: "❌ Bet NO", Data: CallbackBetNo(m.ID)},
			},
		)
	}
	kb = append(kb, []Button{{Label: "🔙 Back to Menu", Data: CallbackBackToMenu}})
	return kb
}

// MarketDetailKeyboard offers bets on one market and a way back to the list.
func MarketDetailKeyboard(marketID uint64) Keyboard {
	return Keyboard{
		{
			{Label: "✅ Bet YES", Data: CallbackBetYes(marketID)},
			{Label: "❌ Bet NO", Data: CallbackBetNo(marketID)},
		},
		{{Label: "🔙 Back to Markets", Data: CallbackViewMarkets}},
	}
}

// ConfirmKeyboard pairs a confirm token with cancel.
func ConfirmKeyboard(confirmData string) Keyboard {
	return Keyboard{
		{
			{Label: "✅ Confirm", Data: confirmData},
			{Label: "❌ Cancel", Data: CallbackCancel},
		},
	}
}

// OutcomeKeyboard selects a resolution outcome.
func OutcomeKeyboard() Keyboard {
	return Keyboard{
		{
			{Label: "✅ YES", Data: CallbackOutcomeYes},
			{Label: "❌ NO", Data: CallbackOutcomeNo},
		},
		{{Label: "🔙 Cancel", Data: CallbackCancel}},
	}
}

// CancelKeyboard is the single-row cancel fallback shown on every prompt.
func CancelKeyboard() Keyboard {
	return Keyboard{
		{{Label: "❌ Cancel", Data: CallbackCancel}},
	}
}
