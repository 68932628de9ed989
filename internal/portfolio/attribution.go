package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// Waterfall stage names, in chart order.
const (
	StageStartingCapital = "starting_capital"
	StageMarketGains     = "market_gains"
	StageDepositFees     = "deposit_fees"
	StageTradingFees     = "trading_fees"
	StageClosingFees     = "closing_fees"
	StageOtherFees       = "other_fees"
	StageFXImpact        = "fx_impact"
	StageNetPosition     = "net_position"
)

// AttributionInput is what AttributeReturns needs. Holdings should already be
// marked to market; LatestFxRate may be nil.
type AttributionInput struct {
	CashFlows    []model.CashFlow
	Holdings     map[string]model.Holding
	LatestFxRate *decimal.Decimal
	XIRR         XIRRResult
}

// AttributeReturns decomposes the return into starting capital, market gains,
// fee impacts per category and FX impact. Fee impacts are negative; maintenance
// and withdrawal fees are reported under other fees. Net position is the sum of
// all stages. Percentages are relative to starting capital and are 0 when it is 0.
//
// Fee flows linked to a trade are left out of the fee stages: the trade's fee
// is already part of the holding's cost basis and so of market gains.
func (e Engine) AttributeReturns(in AttributionInput) (model.ReturnAttribution, error) {
	var unlinked []model.CashFlow
	for _, cf := range in.CashFlows {
		if !cf.LinkedToTrade() {
			unlinked = append(unlinked, cf)
		}
	}
	breakdown, err := e.FeeBreakdown(unlinked)
	if err != nil {
		return model.ReturnAttribution{}, err
	}
	summary, err := e.SummarizeCashFlows(in.CashFlows)
	if err != nil {
		return model.ReturnAttribution{}, err
	}
	fxImpact, err := e.FXImpact(in.CashFlows, in.LatestFxRate)
	if err != nil {
		return model.ReturnAttribution{}, err
	}

	start := summary.NetInvested
	pct := func(d decimal.Decimal) decimal.Decimal {
		return e.num.Percent(d, start)
	}

	attr := model.ReturnAttribution{
		StartingCapital:   start,
		MarketGains:       e.MarketGains(in.Holdings),
		DepositFeesImpact: breakdown.DepositFees.Neg(),
		TradingFeesImpact: breakdown.TradingFees.Neg(),
		ClosingFeesImpact: breakdown.ClosingFees.Neg(),
		OtherFeesImpact: e.num.Sum(breakdown.MaintenanceFees, breakdown.WithdrawalFees,
			breakdown.OtherFees).Neg(),
		TotalFeesImpact: breakdown.TotalFees.Neg(),
		FXImpact:        fxImpact,
		XIRR:            e.XIRRPercent(in.XIRR),
	}

	attr.NetPosition = e.num.Sum(attr.StartingCapital, attr.MarketGains, attr.DepositFeesImpact,
		attr.TradingFeesImpact, attr.ClosingFeesImpact, attr.OtherFeesImpact, attr.FXImpact)
	attr.NetReturn = e.num.Sub(attr.NetPosition, attr.StartingCapital)

	attr.MarketGainsPct = pct(attr.MarketGains)
	attr.DepositFeesImpactPct = pct(attr.DepositFeesImpact)
	attr.TradingFeesImpactPct = pct(attr.TradingFeesImpact)
	attr.ClosingFeesImpactPct = pct(attr.ClosingFeesImpact)
	attr.OtherFeesImpactPct = pct(attr.OtherFeesImpact)
	attr.TotalFeesImpactPct = pct(attr.TotalFeesImpact)
	attr.FXImpactPct = pct(attr.FXImpact)
	attr.NetPositionPct = pct(attr.NetPosition)
	attr.NetReturnPct = pct(attr.NetReturn)

	return attr, nil
}

// FXImpact is the USD value lost (negative) or gained (positive) by the net
// invested capital if it were converted at the latest rate instead of the rate
// recorded on each cash flow. COP rows are restated as amount/latestRate; USD
// rows are unaffected. Without a latest rate the impact is 0.
func (e Engine) FXImpact(flows []model.CashFlow, latestRate *decimal.Decimal) (decimal.Decimal, error) {
	if latestRate == nil {
		return decimal.Zero, nil
	}
	if !latestRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: latest rate must be positive", apperrors.ErrInvalidFxRate)
	}

	impact := decimal.Zero
	for _, cf := range flows {
		if cf.Currency != model.CurrencyCOP {
			continue
		}

		restated, err := e.num.Div(cf.Amount, *latestRate)
		if err != nil {
			return decimal.Zero, err
		}
		delta := e.num.Sub(restated, cf.UsdAmount)

		switch cf.Type {
		case model.CashFlowDeposit:
			impact = e.num.Add(impact, delta)
		case model.CashFlowWithdrawal:
			impact = e.num.Sub(impact, delta)
		}
	}
	return impact, nil
}

// Waterfall returns the attribution as chart stages. Each stage carries its own
// delta and the running total after it; the last stage is the net position.
func (e Engine) Waterfall(attr model.ReturnAttribution) []model.WaterfallStage {
	deltas := []struct {
		name  string
		delta decimal.Decimal
	}{
		{StageStartingCapital, attr.StartingCapital},
		{StageMarketGains, attr.MarketGains},
		{StageDepositFees, attr.DepositFeesImpact},
		{StageTradingFees, attr.TradingFeesImpact},
		{StageClosingFees, attr.ClosingFeesImpact},
		{StageOtherFees, attr.OtherFeesImpact},
		{StageFXImpact, attr.FXImpact},
	}

	stages := make([]model.WaterfallStage, 0, len(deltas)+1)
	running := decimal.Zero
	for _, d := range deltas {
		running = e.num.Add(running, d.delta)
		stages = append(stages, model.WaterfallStage{
			Name:    d.name,
			Delta:   d.delta,
			Running: running,
			Pct:     e.num.Percent(d.delta, attr.StartingCapital),
		})
	}

	return append(stages, model.WaterfallStage{
		Name:    StageNetPosition,
		Delta:   decimal.Zero,
		Running: running,
		Pct:     e.num.Percent(running, attr.StartingCapital),
	})
}
