package request

import "github.com/shopspring/decimal"

type CreateFxRateRequest struct {
	Date   string          `json:"date"`
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
}

type UpdateFxRateRequest struct {
	Date   *string          `json:"date,omitempty"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Source *string          `json:"source,omitempty"`
}

// SetMarketPriceRequest is the body of PUT /api/market-price/{ticker}, used to
// enter a price by hand when the quote provider has none.
type SetMarketPriceRequest struct {
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}
