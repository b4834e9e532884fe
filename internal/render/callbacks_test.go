package render

import "testing"

func TestParseBetCallback(t *testing.T) {
	tests := []struct {
		data     string
		marketID uint64
		side     bool
		ok       bool
	}{
		{"bet_yes_5", 5, true, true},
		{"bet_no_12", 12, false, true},
		{"bet_yes_0", 0, true, false},
		{"bet_yes_abc", 0, true, false},
		{"bet_maybe_5", 0, false, false},
		{"view_markets", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		id, side, ok := ParseBetCallback(tt.data)
		if id != tt.marketID || side != tt.side || ok != tt.ok {
			t.Errorf("ParseBetCallback(%q) = (%d, %v, %v), want (%d, %v, %v)",
				tt.data, id, side, ok, tt.marketID, tt.side, tt.ok)
		}
	}
}

func TestParseViewMarketCallback(t *testing.T) {
	if id, ok := ParseViewMarketCallback("view_market_7"); !ok || id != 7 {
		t.Errorf("ParseViewMarketCallback(view_market_7) = (%d, %v)", id, ok)
	}
	if _, ok := ParseViewMarketCallback("view_market_"); ok {
		t.Error("empty id accepted")
	}
	if _, ok := ParseViewMarketCallback("bet_yes_7"); ok {
		t.Error("bet token accepted as view token")
	}
}

func TestCallbackRoundTrip(t *testing.T) {
	id, side, ok := ParseBetCallback(CallbackBetYes(42))
	if !ok || id != 42 || !side {
		t.Errorf("bet yes round trip = (%d, %v, %v)", id, side, ok)
	}
	id, side, ok = ParseBetCallback(CallbackBetNo(42))
	if !ok || id != 42 || side {
		t.Errorf("bet no round trip = (%d, %v, %v)", id, side, ok)
	}
	if id, ok := ParseViewMarketCallback(CallbackViewMarket(42)); !ok || id != 42 {
		t.Errorf("view round trip = (%d, %v)", id, ok)
	}
}
