package render

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/token"
)

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   string
	}{
		{"days", now.Add(53 * time.Hour), "2d 5h"},
		{"hours", now.Add(3*time.Hour + 12*time.Minute), "3h 12m"},
		{"minutes", now.Add(45 * time.Minute), "45m"},
		{"past", now.Add(-time.Minute), "Expired"},
		{"exact now", now, "Expired"},
	}
	for _, tt := range tests {
		if got := TimeRemaining(tt.expiry, now); got != tt.want {
			t.Errorf("%s: TimeRemaining = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSideLabel(t *testing.T) {
	if got := SideLabel(true); got != "✅ YES" {
		t.Errorf("SideLabel(true) = %q", got)
	}
	if got := SideLabel(false); got != "❌ NO" {
		t.Errorf("SideLabel(false) = %q", got)
	}
}

func TestMarketSummaryProbability(t *testing.T) {
	codec := token.NewCodec(6)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	m := domain.Market{
		ID:       3,
		Question: "Will it rain tomorrow?",
		Expiry:   now.Add(2 * time.Hour),
		TotalYes: big.NewInt(75_000_000), // 75 MON
		TotalNo:  big.NewInt(25_000_000), // 25 MON
	}

	out := MarketSummary(m, codec, now)
	for _, want := range []string{"Market #3", "75.00 MON (75.0%)", "25.00 MON (25.0%)", "100.00 MON", "2h 0m"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Resolved") {
		t.Errorf("unresolved market shows resolution line:\n%s", out)
	}
}

func TestMarketSummaryEmptyPools(t *testing.T) {
	codec := token.NewCodec(6)
	now := time.Now()

	m := domain.Market{ID: 1, Question: "Empty?", Expiry: now.Add(time.Hour)}

	// With no liquidity both sides read as even odds.
	out := MarketSummary(m, codec, now)
	if !strings.Contains(out, "(50.0%)") {
		t.Errorf("empty market does not show 50%% odds:\n%s", out)
	}
}

func TestMarketSummaryResolved(t *testing.T) {
	codec := token.NewCodec(6)
	now := time.Now()

	m := domain.Market{
		ID:       9,
		Question: "Done?",
		Expiry:   now.Add(-time.Hour),
		Resolved: true,
		Outcome:  true,
	}

	out := MarketSummary(m, codec, now)
	if !strings.Contains(out, "🏁 *Resolved:* YES ✅") {
		t.Errorf("resolved market missing outcome line:\n%s", out)
	}
}
