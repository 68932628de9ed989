package model

import "github.com/shopspring/decimal"

// Holding is a derived position for one ticker. It is recomputed from the
// trade ledger on every request and never persisted on its own.
type Holding struct {
	Ticker              string          `json:"ticker"`
	AssetType           string          `json:"assetType"`
	Quantity            decimal.Decimal `json:"quantity"`
	AvgCost             decimal.Decimal `json:"avgCost"`            // Includes pro-rated fees
	AvgCostWithoutFees  decimal.Decimal `json:"avgCostWithoutFees"` // Pure price average
	TotalInvested       decimal.Decimal `json:"totalInvested"`
	TotalFees           decimal.Decimal `json:"totalFees"` // Fees still carried in the cost basis
	MarketValue         decimal.Decimal `json:"marketValue"`
	UnrealizedPL        decimal.Decimal `json:"unrealizedPL"`
	UnrealizedPLPercent decimal.Decimal `json:"unrealizedPLPercent"`
	FeeImpactPercent    decimal.Decimal `json:"feeImpactPercent"` // Fees as % of total invested
	Priced              bool            `json:"priced"`
}
