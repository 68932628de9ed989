package request

import "github.com/shopspring/decimal"

// CreateTradeRequest is the body of POST /api/trade. Decimal fields accept JSON
// strings or numbers; strings keep full precision.
type CreateTradeRequest struct {
	Date      string           `json:"date"`
	Ticker    string           `json:"ticker"`
	AssetType string           `json:"asset_type"`
	Side      string           `json:"side"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Fee       *decimal.Decimal `json:"fee,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

// UpdateTradeRequest is the body of PUT /api/trade/{uuid}. Omitted fields keep
// their stored value.
type UpdateTradeRequest struct {
	Date      *string          `json:"date,omitempty"`
	Ticker    *string          `json:"ticker,omitempty"`
	AssetType *string          `json:"asset_type,omitempty"`
	Side      *string          `json:"side,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Fee       *decimal.Decimal `json:"fee,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}
