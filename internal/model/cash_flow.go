package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cash flow types.
const (
	CashFlowDeposit    = "deposit"
	CashFlowWithdrawal = "withdrawal"
	CashFlowFee        = "fee"
)

// Currencies supported by the ledger.
const (
	CurrencyCOP = "COP"
	CurrencyUSD = "USD"
)

// Fee sub-categories used for attribution reporting.
const (
	FeeTypeDeposit     = "deposit"
	FeeTypeTrading     = "trading"
	FeeTypeClosing     = "closing"
	FeeTypeMaintenance = "maintenance"
	FeeTypeWithdrawal  = "withdrawal"
	FeeTypeOther       = "other"
)

// CashFlow represents money moving in or out of the brokerage account.
// FxRate is COP per USD and is required when Currency is COP.
// UsdAmount is derived at write time (Amount, or Amount/FxRate for COP) and is
// trusted as given by the accounting engine.
type CashFlow struct {
	ID             string           `json:"id"`
	Date           time.Time        `json:"date"`
	Type           string           `json:"type"`
	Currency       string           `json:"currency"`
	Amount         decimal.Decimal  `json:"amount"`
	FxRate         *decimal.Decimal `json:"fx_rate"`
	UsdAmount      decimal.Decimal  `json:"usd_amount"`
	Notes          *string          `json:"notes"`
	FeeType        *string          `json:"fee_type"`
	RelatedTradeID *string          `json:"related_trade_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// FeeCategory returns the fee sub-category, defaulting to "other".
func (c CashFlow) FeeCategory() string {
	if c.FeeType == nil || *c.FeeType == "" {
		return FeeTypeOther
	}
	return *c.FeeType
}

// LinkedToTrade reports whether the flow is attached to a trade.
func (c CashFlow) LinkedToTrade() bool {
	return c.RelatedTradeID != nil && *c.RelatedTradeID != ""
}
