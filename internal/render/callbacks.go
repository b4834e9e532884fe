package render

import (
	"strconv"
	"strings"
)

// CallbackBetYes builds the bet_yes_<marketId> token.
func CallbackBetYes(marketID uint64) string {
	return prefixBetYes + strconv.FormatUint(marketID, 10)
}

// CallbackBetNo builds the bet_no_<marketId> token.
func CallbackBetNo(marketID uint64) string {
	return prefixBetNo + strconv.FormatUint(marketID, 10)
}

// CallbackViewMarket builds the view_market_<marketId> token.
func CallbackViewMarket(marketID uint64) string {
	return prefixViewMarket + strconv.FormatUint(marketID, 10)
}

// ParseBetCallback extracts the side and market id from a bet_yes_/bet_no_
// token. ok is false for any other token or a malformed id.
func ParseBetCallback(data string) (marketID uint64, side bool, ok bool) {
	switch {
	case strings.HasPrefix(data, prefixBetYes):
		marketID, ok = parseID(strings.TrimPrefix(data, prefixBetYes))
		return marketID, true, ok
	case strings.HasPrefix(data, prefixBetNo):
		marketID, ok = parseID(strings.TrimPrefix(data, prefixBetNo))
		return marketID, false, ok
	default:
		return 0, false, false
	}
}

// ParseViewMarketCallback extracts the market id from a view_market_ token.
func ParseViewMarketCallback(data string) (marketID uint64, ok bool) {
	if !strings.HasPrefix(data, prefixViewMarket) {
		return 0, false
	}
	return parseID(strings.TrimPrefix(data, prefixViewMarket))
}

func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
