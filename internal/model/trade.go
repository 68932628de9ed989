package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Asset types.
const (
	AssetTypeStock  = "stock"
	AssetTypeETF    = "etf"
	AssetTypeCrypto = "crypto"
)

// Trade represents a stock, ETF, or crypto trade. Price, fee and total are in USD.
// Total is quantity*price+fee for buys and quantity*price-fee for sells.
type Trade struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Ticker    string          `json:"ticker"`
	AssetType string          `json:"asset_type"`
	Side      string          `json:"side"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`
	Total     decimal.Decimal `json:"total"`
	Notes     *string         `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsBuy reports whether the trade adds to the position.
func (t Trade) IsBuy() bool { return t.Side == SideBuy }

// TradeValue is quantity*price, excluding fees.
func (t Trade) TradeValue() decimal.Decimal { return t.Quantity.Mul(t.Price) }
