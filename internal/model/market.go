package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate is a COP per USD exchange rate observation.
type FxRate struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// MarketPrice is the latest cached price for a ticker, in USD.
type MarketPrice struct {
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PriceMap indexes market prices by ticker.
func PriceMap(prices []MarketPrice) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(prices))
	for _, p := range prices {
		m[p.Ticker] = p.Price
	}
	return m
}

// PriceRefreshResult reports the outcome of a market price refresh run.
type PriceRefreshResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}
