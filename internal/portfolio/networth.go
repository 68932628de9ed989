package portfolio

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

const topHoldingsLimit = 5

// NetWorthInput holds the already-derived figures NetWorth combines.
type NetWorthInput struct {
	Holdings     map[string]model.Holding
	Summary      model.CashFlowSummary
	CashBalance  decimal.Decimal
	LatestFxRate *decimal.Decimal
	XIRR         XIRRResult
}

// NetWorth combines marked holdings and the cash balance into the overall
// position. Gain/loss is measured against net invested capital. NetWorthCOP is
// zero when no FX rate is known.
func (e Engine) NetWorth(in NetWorthInput) model.NetWorthSummary {
	holdingsValue := e.HoldingsValue(in.Holdings)
	netWorth := e.num.Add(holdingsValue, in.CashBalance)
	gain := e.num.Sub(netWorth, in.Summary.NetInvested)

	summary := model.NetWorthSummary{
		HoldingsValue:    holdingsValue,
		CashBalance:      in.CashBalance,
		NetWorth:         netWorth,
		TotalInvested:    in.Summary.NetInvested,
		TotalFees:        in.Summary.Fees,
		TotalGainLoss:    gain,
		TotalGainLossPct: e.num.Percent(gain, in.Summary.NetInvested),
		NetWorthCOP:      decimal.Zero,
		XIRR:             e.XIRRPercent(in.XIRR),
		Breakdown:        e.breakdown(in.Holdings),
	}
	if in.LatestFxRate != nil {
		summary.NetWorthCOP = e.num.Mul(netWorth, *in.LatestFxRate)
	}
	return summary
}

func (e Engine) breakdown(holdings map[string]model.Holding) model.NetWorthBreakdown {
	b := model.NetWorthBreakdown{
		ByAssetType: make(map[string]decimal.Decimal),
		ByTicker:    make(map[string]decimal.Decimal),
	}
	for ticker, h := range holdings {
		b.ByAssetType[h.AssetType] = e.num.Add(b.ByAssetType[h.AssetType], h.MarketValue)
		b.ByTicker[ticker] = h.MarketValue
	}

	top := SortedHoldings(holdings)
	slices.SortStableFunc(top, func(a, b model.Holding) int {
		if c := b.MarketValue.Cmp(a.MarketValue); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	if len(top) > topHoldingsLimit {
		top = top[:topHoldingsLimit]
	}
	b.TopHoldings = top
	return b
}

// Performance reports returns against net invested capital. TotalReturn is the
// gain before fees; NetReturnAfterFees subtracts the fees paid.
func (e Engine) Performance(nw model.NetWorthSummary, fxImpact decimal.Decimal, xirr XIRRResult) model.PerformanceMetrics {
	netReturn := nw.TotalGainLoss
	gross := e.num.Add(netReturn, nw.TotalFees)

	return model.PerformanceMetrics{
		TotalInvested:      nw.TotalInvested,
		TotalValue:         nw.HoldingsValue,
		TotalCash:          nw.CashBalance,
		NetWorth:           nw.NetWorth,
		TotalReturn:        gross,
		TotalReturnPct:     e.num.Percent(gross, nw.TotalInvested),
		TotalFees:          nw.TotalFees,
		TotalFXImpact:      fxImpact,
		NetReturnAfterFees: netReturn,
		XIRR:               e.XIRRPercent(xirr),
		XIRRConverged:      xirr.Converged,
	}
}
