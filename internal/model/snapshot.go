package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is a stored daily picture of the portfolio.
// It is the only derived value the system persists, and exists so the
// performance timeline does not have to replay historic prices.
type PortfolioSnapshot struct {
	ID               string          `json:"id"`
	SnapshotDate     time.Time       `json:"snapshot_date"`
	TotalValueUSD    decimal.Decimal `json:"total_value_usd"`
	TotalInvestedUSD decimal.Decimal `json:"total_invested_usd"`
	TotalCashUSD     decimal.Decimal `json:"total_cash_usd"`
	TotalFeesUSD     decimal.Decimal `json:"total_fees_usd"`
	TotalFXImpactUSD decimal.Decimal `json:"total_fx_impact_usd"`
	Holdings         []Holding       `json:"holdings"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PerformancePoint represents a point in the performance timeline.
type PerformancePoint struct {
	Date               time.Time       `json:"date"`
	PortfolioValue     decimal.Decimal `json:"portfolio_value"`
	InvestedCapital    decimal.Decimal `json:"invested_capital"`
	CumulativeFees     decimal.Decimal `json:"cumulative_fees"`
	CumulativeFXImpact decimal.Decimal `json:"cumulative_fx_impact"`
	NetReturn          decimal.Decimal `json:"net_return"`
	NetReturnPct       decimal.Decimal `json:"net_return_pct"`
}
