package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
)

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal and panics on bad input. Test data only.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr is Dec returning a pointer.
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// =============================================================================
// TRADE BUILDER
// =============================================================================

// TradeBuilder provides a fluent interface for creating test trades.
type TradeBuilder struct {
	trade model.Trade
}

// NewTrade creates a buy of 10 shares at 100 USD with no fee.
//
// Example usage:
//
//	trade := testutil.NewTrade("AAPL").Sell().WithQuantity("4").WithPrice("120").Build(t, db)
func NewTrade(ticker string) *TradeBuilder {
	now := time.Now().UTC()
	return &TradeBuilder{trade: model.Trade{
		ID:        MakeID(),
		Date:      Date(2024, 1, 1),
		Ticker:    ticker,
		AssetType: model.AssetTypeStock,
		Side:      model.SideBuy,
		Quantity:  Dec("10"),
		Price:     Dec("100"),
		Fee:       decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

func (b *TradeBuilder) WithID(id string) *TradeBuilder {
	b.trade.ID = id
	return b
}

func (b *TradeBuilder) WithDate(date time.Time) *TradeBuilder {
	b.trade.Date = date
	return b
}

func (b *TradeBuilder) WithAssetType(assetType string) *TradeBuilder {
	b.trade.AssetType = assetType
	return b
}

func (b *TradeBuilder) WithQuantity(qty string) *TradeBuilder {
	b.trade.Quantity = Dec(qty)
	return b
}

func (b *TradeBuilder) WithPrice(price string) *TradeBuilder {
	b.trade.Price = Dec(price)
	return b
}

func (b *TradeBuilder) WithFee(fee string) *TradeBuilder {
	b.trade.Fee = Dec(fee)
	return b
}

// Sell turns the trade into a sell.
func (b *TradeBuilder) Sell() *TradeBuilder {
	b.trade.Side = model.SideSell
	return b
}

// Build inserts the trade and returns it. Total is derived the way the trade
// service derives it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	tr := b.trade
	gross := tr.Quantity.Mul(tr.Price)
	if tr.Side == model.SideSell {
		tr.Total = gross.Sub(tr.Fee)
	} else {
		tr.Total = gross.Add(tr.Fee)
	}

	_, err := db.Exec(`
		INSERT INTO trade (id, date, ticker, asset_type, side, quantity, price, fee, total, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
	`, tr.ID, repository.FormatTime(tr.Date), tr.Ticker, tr.AssetType, tr.Side,
		tr.Quantity, tr.Price, tr.Fee, tr.Total,
		repository.FormatTime(tr.CreatedAt), repository.FormatTime(tr.UpdatedAt))
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}

	return tr
}

// =============================================================================
// CASH FLOW BUILDER
// =============================================================================

// CashFlowBuilder provides a fluent interface for creating test cash flows.
type CashFlowBuilder struct {
	cf model.CashFlow
}

// NewCashFlow creates a USD cash flow of the given type and amount.
//
// Example usage:
//
//	testutil.NewCashFlow(model.CashFlowDeposit, "1000").Build(t, db)
//	testutil.NewCashFlow(model.CashFlowDeposit, "4000000").InCOP("4000").Build(t, db)
//	testutil.NewCashFlow(model.CashFlowFee, "1").WithFeeType("trading").LinkedTo(trade.ID).Build(t, db)
func NewCashFlow(flowType, amount string) *CashFlowBuilder {
	now := time.Now().UTC()
	return &CashFlowBuilder{cf: model.CashFlow{
		ID:        MakeID(),
		Date:      Date(2024, 1, 1),
		Type:      flowType,
		Currency:  model.CurrencyUSD,
		Amount:    Dec(amount),
		UsdAmount: Dec(amount),
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

func (b *CashFlowBuilder) WithID(id string) *CashFlowBuilder {
	b.cf.ID = id
	return b
}

func (b *CashFlowBuilder) WithDate(date time.Time) *CashFlowBuilder {
	b.cf.Date = date
	return b
}

// InCOP makes the amount a COP amount converted at rate COP per USD.
func (b *CashFlowBuilder) InCOP(rate string) *CashFlowBuilder {
	r := Dec(rate)
	b.cf.Currency = model.CurrencyCOP
	b.cf.FxRate = &r
	b.cf.UsdAmount = b.cf.Amount.DivRound(r, 16)
	return b
}

func (b *CashFlowBuilder) WithFeeType(feeType string) *CashFlowBuilder {
	b.cf.FeeType = &feeType
	return b
}

func (b *CashFlowBuilder) LinkedTo(tradeID string) *CashFlowBuilder {
	b.cf.RelatedTradeID = &tradeID
	return b
}

func (b *CashFlowBuilder) Build(t *testing.T, db *sql.DB) model.CashFlow {
	t.Helper()

	cf := b.cf
	var fxRate any
	if cf.FxRate != nil {
		fxRate = *cf.FxRate
	}

	_, err := db.Exec(`
		INSERT INTO cash_flow (id, date, type, currency, amount, fx_rate, usd_amount, notes, fee_type, related_trade_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?, ?)
	`, cf.ID, repository.FormatTime(cf.Date), cf.Type, cf.Currency, cf.Amount, fxRate, cf.UsdAmount,
		cf.FeeType, cf.RelatedTradeID,
		repository.FormatTime(cf.CreatedAt), repository.FormatTime(cf.UpdatedAt))
	if err != nil {
		t.Fatalf("Failed to create test cash flow: %v", err)
	}

	return cf
}

// =============================================================================
// FX RATE, MARKET PRICE AND SNAPSHOT
// =============================================================================

// CreateFxRate inserts a COP per USD rate observed on date.
func CreateFxRate(t *testing.T, db *sql.DB, date time.Time, rate string) model.FxRate {
	t.Helper()

	fx := model.FxRate{
		ID:        MakeID(),
		Date:      date,
		Rate:      Dec(rate),
		Source:    "test",
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(`INSERT INTO fx_rate (id, date, rate, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		fx.ID, repository.FormatTime(fx.Date), fx.Rate, fx.Source, repository.FormatTime(fx.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test fx rate: %v", err)
	}
	return fx
}

// CreateMarketPrice caches a USD price for ticker.
func CreateMarketPrice(t *testing.T, db *sql.DB, ticker, price string) model.MarketPrice {
	t.Helper()

	mp := model.MarketPrice{
		Ticker:    ticker,
		Price:     Dec(price),
		Currency:  model.CurrencyUSD,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(`INSERT INTO market_price (ticker, price, currency, updated_at) VALUES (?, ?, ?, ?)`,
		mp.Ticker, mp.Price, mp.Currency, repository.FormatTime(mp.UpdatedAt))
	if err != nil {
		t.Fatalf("Failed to create test market price: %v", err)
	}
	return mp
}

// CreateSnapshot stores a snapshot with the given total value and invested capital.
func CreateSnapshot(t *testing.T, db *sql.DB, date time.Time, value, invested string) model.PortfolioSnapshot {
	t.Helper()

	s := model.PortfolioSnapshot{
		ID:               MakeID(),
		SnapshotDate:     date,
		TotalValueUSD:    Dec(value),
		TotalInvestedUSD: Dec(invested),
		TotalCashUSD:     decimal.Zero,
		TotalFeesUSD:     decimal.Zero,
		TotalFXImpactUSD: decimal.Zero,
		Holdings:         []model.Holding{},
		CreatedAt:        time.Now().UTC(),
	}
	holdings, _ := json.Marshal(s.Holdings)
	_, err := db.Exec(`
		INSERT INTO portfolio_snapshot (id, snapshot_date, total_value_usd, total_invested_usd, total_cash_usd,
			total_fees_usd, total_fx_impact_usd, holdings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, date.Format("2006-01-02"), s.TotalValueUSD, s.TotalInvestedUSD, s.TotalCashUSD,
		s.TotalFeesUSD, s.TotalFXImpactUSD, string(holdings), repository.FormatTime(s.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}
	return s
}
