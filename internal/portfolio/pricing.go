package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// ApplyMarketPrices marks holdings to market and returns a new map; the input
// is not modified. Tickers missing from prices are copied through unchanged
// with Priced left false, so a stale or partial price feed still yields a
// usable result.
func (e Engine) ApplyMarketPrices(holdings map[string]model.Holding, prices map[string]decimal.Decimal) map[string]model.Holding {
	out := make(map[string]model.Holding, len(holdings))
	for ticker, h := range holdings {
		price, ok := prices[ticker]
		if !ok {
			out[ticker] = h
			continue
		}

		h.MarketValue = e.num.Mul(h.Quantity, price)
		h.UnrealizedPL = e.num.Sub(h.MarketValue, h.TotalInvested)
		h.UnrealizedPLPercent = e.num.Percent(h.UnrealizedPL, h.TotalInvested)
		h.Priced = true
		out[ticker] = h
	}
	return out
}

// HoldingsValue sums the market value of all holdings.
func (e Engine) HoldingsValue(holdings map[string]model.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = e.num.Add(total, h.MarketValue)
	}
	return total
}

// MarketGains sums the unrealized profit and loss of all holdings.
func (e Engine) MarketGains(holdings map[string]model.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = e.num.Add(total, h.UnrealizedPL)
	}
	return total
}

// UnpricedTickers lists the holdings that have no market price applied.
func UnpricedTickers(holdings map[string]model.Holding) []string {
	var tickers []string
	for _, h := range SortedHoldings(holdings) {
		if !h.Priced {
			tickers = append(tickers, h.Ticker)
		}
	}
	return tickers
}
