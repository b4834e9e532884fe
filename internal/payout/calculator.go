// Package payout computes the constant pool-share payout preview shown
// before a bet is confirmed: winners split the combined pool proportionally
// to their contribution to the winning side.
package payout

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Preview is the post-bet pool split and the bettor's proportional return
// if their side wins.
type Preview struct {
	NewYes        decimal.Decimal
	NewNo         decimal.Decimal
	TotalPool     decimal.Decimal
	Share         decimal.Decimal
	Payout        decimal.Decimal
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
}

// Calculate applies a stake to one side of the current pools. side true is
// YES. The stake is guaranteed positive by input validation upstream; a zero
// side pool after the bet (impossible for stake > 0) yields a zero share.
func Calculate(yes, no, stake decimal.Decimal, side bool) Preview {
	p := Preview{NewYes: yes, NewNo: no}
	if side {
		p.NewYes = yes.Add(stake)
	} else {
		p.NewNo = no.Add(stake)
	}
	p.TotalPool = p.NewYes.Add(p.NewNo)

	sidePool := p.NewYes
	if !side {
		sidePool = p.NewNo
	}
	if sidePool.IsPositive() {
		p.Share = stake.Div(sidePool)
	}

	p.Payout = p.TotalPool.Mul(p.Share)
	p.Profit = p.Payout.Sub(stake)
	if stake.IsPositive() {
		p.ProfitPercent = p.Profit.Div(stake).Mul(hundred)
	}
	return p
}
