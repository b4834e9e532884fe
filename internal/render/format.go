package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/payout"
	"github.com/escalate-labs/escalatebot/internal/token"
)

const divider = "━━━━━━━━━━━━━━━━━━━━"

// TimeRemaining renders a compact countdown to expiry ("2d 5h", "3h 12m",
// "45m", or "Expired").
func TimeRemaining(expiry, now time.Time) string {
	remaining := expiry.Sub(now)
	if remaining <= 0 {
		return "Expired"
	}

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60

	switch {
	case hours > 24:
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// SideLabel renders a betting side with its emoji.
func SideLabel(side bool) string {
	if side {
		return "✅ YES"
	}
	return "❌ NO"
}

// MarketSummary renders one market with pools, implied probability, total
// liquidity, and countdown.
func MarketSummary(m domain.Market, codec token.Codec, now time.Time) string {
	totalYes := codec.ToDecimal(m.TotalYes)
	totalNo := codec.ToDecimal(m.TotalNo)
	liquidity := totalYes.Add(totalNo)

	yesProb := decimal.NewFromInt(50)
	if liquidity.IsPositive() {
		yesProb = totalYes.Div(liquidity).Mul(decimal.NewFromInt(100))
	}
	noProb := decimal.NewFromInt(100).Sub(yesProb)

	var b strings.Builder
	fmt.Fprintf(&b, "*Market #%d*\n❓ %s\n\n", m.ID, m.Question)
	fmt.Fprintf(&b, "📊 *Pools:*\n")
	fmt.Fprintf(&b, "  ✅ YES: %s MON (%s%%)\n", totalYes.StringFixed(2), yesProb.StringFixed(1))
	fmt.Fprintf(&b, "  ❌ NO: %s MON (%s%%)\n\n", totalNo.StringFixed(2), noProb.StringFixed(1))
	fmt.Fprintf(&b, "💰 *Total Liquidity:* %s MON\n", liquidity.StringFixed(2))
	fmt.Fprintf(&b, "⏰ *Expires in:* %s\n", TimeRemaining(m.Expiry, now))

	if m.Resolved {
		fmt.Fprintf(&b, "\n🏁 *Resolved:* %s", outcomeLabel(m.Outcome))
	}
	return b.String()
}

func outcomeLabel(outcome bool) string {
	if outcome {
		return "YES ✅"
	}
	return "NO ❌"
}

// MarketList renders the browsing view over active markets.
func MarketList(markets []domain.Market, codec token.Codec, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Active Prediction Markets*\n%s\n\n", divider)
	for _, m := range markets {
		b.WriteString(MarketSummary(m, codec, now))
		fmt.Fprintf(&b, "\n%s\n\n", divider)
	}
	return b.String()
}

// BetConfirmation renders the pre-confirmation summary with the payout
// preview.
func BetConfirmation(question string, side bool, amount decimal.Decimal, p payout.Preview) string {
	var profitLine string
	switch {
	case p.Profit.IsPositive():
		profitLine = fmt.Sprintf("📈 +%s MON (+%s%%)", p.Profit.StringFixed(2), p.ProfitPercent.StringFixed(1))
	case p.Profit.IsNegative():
		profitLine = fmt.Sprintf("📉 %s MON (%s%%)", p.Profit.StringFixed(2), p.ProfitPercent.StringFixed(1))
	default:
		profitLine = "➖ 0.00 MON (0%)"
	}

	return fmt.Sprintf(
		"📋 *Confirm Bet*\n\n"+
			"*Market:* %s\n"+
			"*Side:* %s\n"+
			"*Amount:* %s MON\n\n"+
			"💰 *Potential Returns (if you win):*\n"+
			"  • Payout: %s MON\n"+
			"  • Profit: %s\n\n"+
			"⚠️ This will:\n"+
			"1. Approve MON spending\n"+
			"2. Place your bet on-chain\n\n"+
			"Proceed?",
		question, SideLabel(side), amount.StringFixed(2),
		p.Payout.StringFixed(2), profitLine,
	)
}

// BetSuccess renders the post-bet summary with the refreshed pools.
func BetSuccess(question string, side bool, amount, totalYes, totalNo decimal.Decimal, txHash string) string {
	return fmt.Sprintf(
		"✅ *Bet Placed Successfully!*\n\n"+
			"*Market:* %s\n"+
			"*Side:* %s\n"+
			"*Amount:* %s MON\n\n"+
			"*Updated Pools:*\n"+
			"  ✅ YES: %s MON\n"+
			"  ❌ NO: %s MON\n\n"+
			"*Transaction Hash:*\n`%s`",
		question, SideLabel(side), amount.StringFixed(2),
		totalYes.StringFixed(2), totalNo.StringFixed(2), txHash,
	)
}

// CreateConfirmation renders the market-creation summary.
func CreateConfirmation(question, expiryText string) string {
	return fmt.Sprintf(
		"📋 *Confirm Market Creation*\n\n"+
			"*Question:*\n%s\n\n"+
			"*Expiry:* %s UTC\n\n"+
			"Proceed with creation?",
		question, expiryText,
	)
}

// CreateSuccess renders the post-creation summary. The id is the one the
// contract reported at confirmation time.
func CreateSuccess(marketID uint64, question, txHash string) string {
	return fmt.Sprintf(
		"✅ *Market Created Successfully!*\n\n"+
			"*Market ID:* #%d\n"+
			"*Question:* %s\n\n"+
			"*Transaction Hash:*\n`%s`\n\n"+
			"Your market is now live and accepting bets!",
		marketID, question, txHash,
	)
}

// ResolveConfirmation renders the irreversible-resolution warning.
func ResolveConfirmation(marketID uint64, question string, outcome bool) string {
	return fmt.Sprintf(
		"⚠️ *Confirm Market Resolution*\n\n"+
			"*Market ID:* #%d\n"+
			"*Question:* %s\n"+
			"*Outcome:* %s\n\n"+
			"This action is irreversible. Proceed?",
		marketID, question, SideLabel(outcome),
	)
}

// ResolveSuccess renders the post-resolution summary.
func ResolveSuccess(marketID uint64, question string, outcome bool, txHash string) string {
	return fmt.Sprintf(
		"✅ *Market Resolved Successfully!*\n\n"+
			"*Market ID:* #%d\n"+
			"*Question:* %s\n"+
			"*Outcome:* %s\n\n"+
			"*Transaction Hash:*\n`%s`\n\n"+
			"Winners can now claim their winnings.",
		marketID, question, SideLabel(outcome), txHash,
	)
}

// ResolvePools renders the pool snapshot shown before the outcome choice.
func ResolvePools(m domain.Market, codec token.Codec) string {
	totalYes := codec.ToDecimal(m.TotalYes)
	totalNo := codec.ToDecimal(m.TotalNo)
	return fmt.Sprintf(
		"📊 *Market #%d*\n\n"+
			"*Question:* %s\n\n"+
			"*Pools:*\n"+
			"  ✅ YES: %s MON\n"+
			"  ❌ NO: %s MON\n\n"+
			"Select the outcome:",
		m.ID, m.Question, totalYes.StringFixed(2), totalNo.StringFixed(2),
	)
}
