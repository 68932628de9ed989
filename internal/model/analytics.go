package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowSummary aggregates the cash flow ledger in USD.
type CashFlowSummary struct {
	Deposits       decimal.Decimal            `json:"deposits"`
	Withdrawals    decimal.Decimal            `json:"withdrawals"`
	Fees           decimal.Decimal            `json:"fees"`
	NetInvested    decimal.Decimal            `json:"net_invested"`
	FeesByType     map[string]decimal.Decimal `json:"fees_by_type"`
	FeesByMonth    map[string]decimal.Decimal `json:"fees_by_month"`
	NetFlowByMonth map[string]decimal.Decimal `json:"net_flow_by_month"`
	Count          int                        `json:"count"`
}

// PerformanceMetrics represents portfolio performance calculations.
type PerformanceMetrics struct {
	TotalInvested      decimal.Decimal `json:"totalInvested"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	TotalCash          decimal.Decimal `json:"totalCash"`
	NetWorth           decimal.Decimal `json:"netWorth"`
	TotalReturn        decimal.Decimal `json:"totalReturn"`
	TotalReturnPct     decimal.Decimal `json:"totalReturnPct"`
	TotalFees          decimal.Decimal `json:"totalFees"`
	TotalFXImpact      decimal.Decimal `json:"totalFxImpact"`
	NetReturnAfterFees decimal.Decimal `json:"netReturnAfterFees"`
	XIRR               string          `json:"xirr"`
	XIRRConverged      bool            `json:"xirrConverged"`
}

// ReturnAttribution decomposes the portfolio return into a waterfall from
// starting capital to net position. Percentages are relative to starting capital.
type ReturnAttribution struct {
	StartingCapital      decimal.Decimal `json:"starting_capital"`
	MarketGains          decimal.Decimal `json:"market_gains"`
	MarketGainsPct       decimal.Decimal `json:"market_gains_pct"`
	DepositFeesImpact    decimal.Decimal `json:"deposit_fees_impact"`
	DepositFeesImpactPct decimal.Decimal `json:"deposit_fees_impact_pct"`
	TradingFeesImpact    decimal.Decimal `json:"trading_fees_impact"`
	TradingFeesImpactPct decimal.Decimal `json:"trading_fees_impact_pct"`
	ClosingFeesImpact    decimal.Decimal `json:"closing_fees_impact"`
	ClosingFeesImpactPct decimal.Decimal `json:"closing_fees_impact_pct"`
	OtherFeesImpact      decimal.Decimal `json:"other_fees_impact"`
	OtherFeesImpactPct   decimal.Decimal `json:"other_fees_impact_pct"`
	TotalFeesImpact      decimal.Decimal `json:"total_fees_impact"`
	TotalFeesImpactPct   decimal.Decimal `json:"total_fees_impact_pct"`
	FXImpact             decimal.Decimal `json:"fx_impact"`
	FXImpactPct          decimal.Decimal `json:"fx_impact_pct"`
	NetPosition          decimal.Decimal `json:"net_position"`
	NetPositionPct       decimal.Decimal `json:"net_position_pct"`
	NetReturn            decimal.Decimal `json:"net_return"`
	NetReturnPct         decimal.Decimal `json:"net_return_pct"`
	XIRR                 string          `json:"xirr"`
}

// WaterfallStage is one bar of the return attribution chart.
type WaterfallStage struct {
	Name    string          `json:"name"`
	Delta   decimal.Decimal `json:"delta"`
	Running decimal.Decimal `json:"running"`
	Pct     decimal.Decimal `json:"pct"`
}

// FeeBreakdown represents aggregate fee statistics.
type FeeBreakdown struct {
	DepositFees     decimal.Decimal            `json:"deposit_fees"`
	TradingFees     decimal.Decimal            `json:"trading_fees"`
	ClosingFees     decimal.Decimal            `json:"closing_fees"`
	MaintenanceFees decimal.Decimal            `json:"maintenance_fees"`
	WithdrawalFees  decimal.Decimal            `json:"withdrawal_fees"`
	OtherFees       decimal.Decimal            `json:"other_fees"`
	TotalFees       decimal.Decimal            `json:"total_fees"`
	FeesByMonth     map[string]decimal.Decimal `json:"fees_by_month"`
}

// FeeAttribution represents the fee load of a single trade.
type FeeAttribution struct {
	TradeID      string          `json:"trade_id"`
	Ticker       string          `json:"ticker"`
	Date         time.Time       `json:"date"`
	Side         string          `json:"side"`
	TradeFee     decimal.Decimal `json:"trade_fee"`
	LinkedFees   decimal.Decimal `json:"linked_fees"`
	TradeValue   decimal.Decimal `json:"trade_value"`
	FeeImpactPct decimal.Decimal `json:"fee_impact_pct"` // Fees as % of trade value
	CashFlowIDs  []string        `json:"cash_flow_ids"`
}

// FXImpactReport analyzes the impact of exchange rate changes.
type FXImpactReport struct {
	AvgInvestmentRate decimal.Decimal            `json:"avg_investment_rate"` // Weighted avg rate of COP deposits
	CurrentRate       decimal.Decimal            `json:"current_rate"`
	RateChangePct     decimal.Decimal            `json:"rate_change_pct"`
	FXImpactUSD       decimal.Decimal            `json:"fx_impact_usd"`
	FXImpactPct       decimal.Decimal            `json:"fx_impact_pct"`
	AvgRateByMonth    map[string]decimal.Decimal `json:"avg_rate_by_month"`
}

// ReconciliationReport checks trade fees against their linked fee cash flows.
type ReconciliationReport struct {
	IsReconciled      bool                  `json:"is_reconciled"`
	TotalTradeFees    decimal.Decimal       `json:"total_trade_fees"`
	TotalCashFlowFees decimal.Decimal       `json:"total_cash_flow_fees"`
	Difference        decimal.Decimal       `json:"difference"`
	MissingLinks      []string              `json:"missing_links"`       // Trade IDs with fees but no fee cash flow
	OrphanedCashFlows []string              `json:"orphaned_cash_flows"` // Fee cash flows pointing at unknown trades
	Discrepancies     []ReconciliationIssue `json:"discrepancies"`
}

// ReconciliationIssue represents a trade whose fee does not match its cash flows.
type ReconciliationIssue struct {
	TradeID            string          `json:"trade_id"`
	Ticker             string          `json:"ticker"`
	Date               string          `json:"date"`
	ExpectedFees       decimal.Decimal `json:"expected_fees"`
	ActualCashFlowFees decimal.Decimal `json:"actual_cash_flow_fees"`
	Difference         decimal.Decimal `json:"difference"`
	Description        string          `json:"description"`
}

// NetWorthSummary provides a complete picture of the financial position.
type NetWorthSummary struct {
	HoldingsValue    decimal.Decimal   `json:"holdings_value"`
	CashBalance      decimal.Decimal   `json:"cash_balance"`
	NetWorth         decimal.Decimal   `json:"net_worth"`
	TotalInvested    decimal.Decimal   `json:"total_invested"`
	TotalFees        decimal.Decimal   `json:"total_fees"`
	TotalGainLoss    decimal.Decimal   `json:"total_gain_loss"`
	TotalGainLossPct decimal.Decimal   `json:"total_gain_loss_pct"`
	NetWorthCOP      decimal.Decimal   `json:"net_worth_cop"`
	XIRR             string            `json:"xirr"`
	Breakdown        NetWorthBreakdown `json:"breakdown"`
}

// NetWorthBreakdown provides allocation information.
type NetWorthBreakdown struct {
	ByAssetType map[string]decimal.Decimal `json:"by_asset_type"`
	ByTicker    map[string]decimal.Decimal `json:"by_ticker"`
	TopHoldings []Holding                  `json:"top_holdings"`
}

// TickerFeeEfficiency summarizes how much of the traded value of a ticker went to fees.
type TickerFeeEfficiency struct {
	Ticker     string          `json:"ticker"`
	TradeCount int             `json:"trade_count"`
	TotalFees  decimal.Decimal `json:"total_fees"`
	TotalValue decimal.Decimal `json:"total_value"`
	AvgFeePct  decimal.Decimal `json:"avg_fee_pct"`
}

// PortfolioSummary is the dashboard view: marked holdings plus their totals.
type PortfolioSummary struct {
	AsOf                time.Time       `json:"as_of"`
	Holdings            []Holding       `json:"holdings"`
	HoldingsCount       int             `json:"holdings_count"`
	TotalInvested       decimal.Decimal `json:"total_invested"`
	TotalValue          decimal.Decimal `json:"total_value"`
	UnrealizedPL        decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPercent decimal.Decimal `json:"unrealized_pl_percent"`
	CashBalance         decimal.Decimal `json:"cash_balance"`
	NetWorth            decimal.Decimal `json:"net_worth"`
	XIRR                string          `json:"xirr"`
	XIRRConverged       bool            `json:"xirr_converged"`
	UnpricedTickers     []string        `json:"unpriced_tickers"`
}

// ReturnAttributionReport pairs the attribution figures with their waterfall stages.
type ReturnAttributionReport struct {
	ReturnAttribution
	Waterfall []WaterfallStage `json:"waterfall"`
}
