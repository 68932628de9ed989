package portfolio

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// position is the running state of the average-cost walk for one ticker.
type position struct {
	assetType string
	quantity  decimal.Decimal
	cost      decimal.Decimal // cost basis including fees
	fees      decimal.Decimal // fees carried in the cost basis
	grossCost decimal.Decimal // cost basis excluding fees
}

// CalculateHoldings converts a trade ledger into per-ticker positions using
// the average-cost method. Only tickers with a positive remaining quantity are
// returned; market fields are zero until ApplyMarketPrices runs.
//
// Trades are validated first and the first malformed trade fails the whole
// call with an *InputError. Within a ticker, trades are walked in date order;
// trades sharing a timestamp keep their input order.
//
// Selling reduces the cost basis proportionally and does not book a realized
// gain. A sell against an empty or short position is ignored, and a sell larger
// than the position closes it at zero rather than going negative.
func (e Engine) CalculateHoldings(trades []model.Trade) (map[string]model.Holding, error) {
	for _, t := range trades {
		if err := ValidateTrade(t); err != nil {
			return nil, err
		}
	}

	byTicker := make(map[string][]model.Trade)
	for _, t := range trades {
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	holdings := make(map[string]model.Holding)
	for ticker, tickerTrades := range byTicker {
		slices.SortStableFunc(tickerTrades, func(a, b model.Trade) int {
			return a.Date.Compare(b.Date)
		})

		pos := e.walk(tickerTrades)
		if !pos.quantity.IsPositive() {
			continue
		}
		holdings[ticker] = e.toHolding(ticker, pos)
	}

	return holdings, nil
}

func (e Engine) walk(trades []model.Trade) position {
	pos := position{
		quantity:  decimal.Zero,
		cost:      decimal.Zero,
		fees:      decimal.Zero,
		grossCost: decimal.Zero,
	}

	for _, t := range trades {
		pos.assetType = t.AssetType

		if t.IsBuy() {
			pos.quantity = e.num.Add(pos.quantity, t.Quantity)
			pos.cost = e.num.Add(pos.cost, t.Total)
			pos.fees = e.num.Add(pos.fees, t.Fee)
			pos.grossCost = e.num.Add(pos.grossCost, e.num.Mul(t.Quantity, t.Price))
			continue
		}

		if !pos.quantity.IsPositive() {
			continue
		}

		// quantity is positive here, so the averages cannot divide by zero.
		avgCost := e.num.DivOrZero(pos.cost, pos.quantity)
		avgFee := e.num.DivOrZero(pos.fees, pos.quantity)
		avgGross := e.num.DivOrZero(pos.grossCost, pos.quantity)

		remaining := e.num.Sub(pos.quantity, t.Quantity)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		pos.quantity = remaining
		pos.cost = e.num.Mul(remaining, avgCost)
		pos.fees = e.num.Mul(remaining, avgFee)
		pos.grossCost = e.num.Mul(remaining, avgGross)
	}

	return pos
}

func (e Engine) toHolding(ticker string, pos position) model.Holding {
	return model.Holding{
		Ticker:              ticker,
		AssetType:           pos.assetType,
		Quantity:            pos.quantity,
		AvgCost:             e.num.DivOrZero(pos.cost, pos.quantity),
		AvgCostWithoutFees:  e.num.DivOrZero(pos.grossCost, pos.quantity),
		TotalInvested:       pos.cost,
		TotalFees:           pos.fees,
		MarketValue:         decimal.Zero,
		UnrealizedPL:        decimal.Zero,
		UnrealizedPLPercent: decimal.Zero,
		FeeImpactPercent:    e.num.Percent(pos.fees, pos.cost),
	}
}

// SortedHoldings returns the holdings ordered by ticker.
func SortedHoldings(holdings map[string]model.Holding) []model.Holding {
	out := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b model.Holding) int {
		switch {
		case a.Ticker < b.Ticker:
			return -1
		case a.Ticker > b.Ticker:
			return 1
		}
		return 0
	})
	return out
}
