package dialogue

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

const (
	minQuestionLen = 10
	maxQuestionLen = 200

	// expiryLayout is the fixed input format for market expiry, in UTC.
	expiryLayout = "2006-01-02 15:04"
)

// maxBetAmount is the largest accepted stake in whole MON.
var maxBetAmount = decimal.NewFromInt(1_000_000)

// Input parsers. Each returns a ValidationError whose message is shown
// verbatim as the re-prompt; the wizard stays in its current step.

func parseQuestion(text string) (string, *domain.ValidationError) {
	question := strings.TrimSpace(text)
	switch n := utf8.RuneCountInString(question); {
	case n < minQuestionLen:
		return "", domain.Validationf("❌ Question too short. Please enter at least %d characters.", minQuestionLen)
	case n > maxQuestionLen:
		return "", domain.Validationf("❌ Question too long. Please keep it under %d characters.", maxQuestionLen)
	}
	return question, nil
}

// parseExpiry requires the timestamp to be strictly later than now plus the
// minimum market duration.
func (e *Engine) parseExpiry(text string) (time.Time, string, *domain.ValidationError) {
	expiryText := strings.TrimSpace(text)

	expiry, err := time.ParseInLocation(expiryLayout, expiryText, time.UTC)
	if err != nil {
		return time.Time{}, "", domain.Validationf(
			"❌ Invalid date format.\n\nPlease use format: `YYYY-MM-DD HH:MM`\nExample: `2026-12-31 23:59`")
	}

	if minExpiry := e.now().Add(e.cfg.MinMarketDuration); !expiry.After(minExpiry) {
		return time.Time{}, "", domain.Validationf(
			"❌ Expiry must be at least %s in the future.\n\nPlease enter a valid expiry time.",
			e.cfg.MinMarketDuration)
	}
	return expiry, expiryText, nil
}

func parseBetAmount(text string) (decimal.Decimal, *domain.ValidationError) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, domain.Validationf("❌ Invalid amount. Please enter a number.\n\nExample: `10` or `25.50`")
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.Validationf("❌ Amount must be greater than 0.")
	}
	if amount.GreaterThan(maxBetAmount) {
		return decimal.Zero, domain.Validationf("❌ Amount too large. Maximum bet is 1,000,000 MON.")
	}
	return amount, nil
}

func parseMarketID(text string) (uint64, *domain.ValidationError) {
	id, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Validationf("❌ Invalid market ID. Please enter a positive number.\n\nExample: `1`")
	}
	return id, nil
}
