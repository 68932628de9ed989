package request

import "github.com/shopspring/decimal"

// CreateCashFlowRequest is the body of POST /api/cash-flow.
// FxRate is COP per USD and is required for COP flows.
type CreateCashFlowRequest struct {
	Date           string           `json:"date"`
	Type           string           `json:"type"`
	Currency       string           `json:"currency"`
	Amount         decimal.Decimal  `json:"amount"`
	FxRate         *decimal.Decimal `json:"fx_rate,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	FeeType        *string          `json:"fee_type,omitempty"`
	RelatedTradeID *string          `json:"related_trade_id,omitempty"`
}

// UpdateCashFlowRequest is the body of PUT /api/cash-flow/{uuid}.
type UpdateCashFlowRequest struct {
	Date           *string          `json:"date,omitempty"`
	Type           *string          `json:"type,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	FxRate         *decimal.Decimal `json:"fx_rate,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	FeeType        *string          `json:"fee_type,omitempty"`
	RelatedTradeID *string          `json:"related_trade_id,omitempty"`
}
