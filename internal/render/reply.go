// Package render formats domain data into chat text and keyboard layouts.
// Everything here is purely derived: no side effects, no I/O, so the
// dialogue engine can be tested without a chat transport.
package render

// Button is one selectable action: a visible label and the opaque callback
// token delivered back when pressed.
type Button struct {
	Label string
	Data  string
}

// Keyboard is rows of buttons.
type Keyboard [][]Button

// Reply is one outbound message: Markdown text plus an optional keyboard.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Callback tokens consumed by the dialogue engine. The parameterized ones
// are produced by the helpers below.
const (
	CallbackViewMarkets    = "view_markets"
	CallbackCreateMarket   = "create_market"
	CallbackPlaceBet       = "place_bet"
	CallbackOutcomeYes     = "outcome_yes"
	CallbackOutcomeNo      = "outcome_no"
	CallbackConfirmCreate  = "confirm_create_market"
	CallbackConfirmBet     = "confirm_place_bet"
	CallbackConfirmResolve = "confirm_resolve"
	CallbackCancel         = "cancel"
	CallbackBackToMenu     = "back_to_menu"

	prefixBetYes     = "bet_yes_"
	prefixBetNo      = "bet_no_"
	prefixViewMarket = "view_market_"
)
