package ibkr

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// importNamespace seeds the deterministic row IDs, so importing the same
// statement twice yields the same IDs.
var importNamespace = uuid.MustParse("6f1c3f0e-8a34-4d59-9a51-2b8f3c0d7e21")

// Cash transaction types that map onto the ledger.
const (
	cashDepositsWithdrawals = "Deposits/Withdrawals"
	cashOtherFees           = "Other Fees"
	cashCommissionAdjust    = "Commission Adjustments"
)

// Batch is a statement mapped onto ledger rows. Trade totals and USD amounts
// are left for the accounting engine to derive.
type Batch struct {
	Trades    []model.Trade
	CashFlows []model.CashFlow
	FxRates   []model.FxRate
	Skipped   []model.SkippedRow
}

// RowID derives the ledger ID for an IBKR row.
func RowID(kind, key string) string {
	return uuid.NewSHA1(importNamespace, []byte("ibkr:"+kind+":"+key)).String()
}

// parseDate accepts the yyyyMMdd and yyyy-MM-dd forms IBKR uses, with an
// optional ";HHmmss" or " HH:mm:ss" time suffix that is dropped.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "; "); i >= 0 {
		s = s[:i]
	}
	for _, layout := range []string{"20060102", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func assetType(category string) string {
	if strings.EqualFold(category, "CRYPTO") {
		return model.AssetTypeCrypto
	}
	return model.AssetTypeStock
}

func strPtr(s string) *string { return &s }

// ToLedger maps every statement in r onto ledger rows. Rows that cannot be
// represented (non-USD trades, dividends, COP cash without a rate) are listed
// in Batch.Skipped instead of failing the import.
func ToLedger(r FlexQueryResponse) Batch {
	var b Batch
	for _, stmt := range r.FlexStatements.FlexStatement {
		rates := b.addRates(stmt.ConversionRates.ConversionRate)
		for _, t := range stmt.Trades.Trade {
			b.addTrade(t)
		}
		for _, c := range stmt.CashTransactions.CashTransaction {
			b.addCash(c, rates)
		}
	}
	return b
}

func (b *Batch) skip(kind, id, reason string) {
	b.Skipped = append(b.Skipped, model.SkippedRow{Kind: kind, SourceID: id, Reason: reason})
}

// addRates records USD/COP conversion rates as COP per USD and returns them by date.
func (b *Batch) addRates(rates []ConversionRate) map[string]decimal.Decimal {
	byDate := make(map[string]decimal.Decimal)
	for _, cr := range rates {
		var rate decimal.Decimal
		switch {
		case cr.FromCurrency == model.CurrencyUSD && cr.ToCurrency == model.CurrencyCOP:
			rate = cr.Rate
		case cr.FromCurrency == model.CurrencyCOP && cr.ToCurrency == model.CurrencyUSD && cr.Rate.IsPositive():
			rate = decimal.NewFromInt(1).DivRound(cr.Rate, 6)
		default:
			continue
		}
		if !rate.IsPositive() {
			continue
		}
		date, err := parseDate(cr.ReportDate)
		if err != nil {
			b.skip("fx_rate", cr.ReportDate, err.Error())
			continue
		}

		key := date.Format(time.DateOnly)
		if _, seen := byDate[key]; seen {
			continue
		}
		byDate[key] = rate
		b.FxRates = append(b.FxRates, model.FxRate{
			ID:     RowID("fx", key),
			Date:   date,
			Rate:   rate,
			Source: "ibkr",
		})
	}
	return byDate
}

// addTrade records the trade and, when a commission was charged, a trading
// fee flow linked to it.
func (b *Batch) addTrade(t Trade) {
	if t.TransactionID == "" {
		b.skip("trade", t.Symbol, "missing transaction id")
		return
	}
	if t.Currency != model.CurrencyUSD {
		b.skip("trade", t.TransactionID, fmt.Sprintf("unsupported currency %s", t.Currency))
		return
	}
	if t.Quantity.IsZero() {
		b.skip("trade", t.TransactionID, "zero quantity")
		return
	}
	date, err := parseDate(t.TradeDate)
	if err != nil {
		b.skip("trade", t.TransactionID, err.Error())
		return
	}

	side := model.SideBuy
	if strings.HasPrefix(strings.ToUpper(t.BuySell), "SELL") || t.Quantity.IsNegative() {
		side = model.SideSell
	}
	fee := t.IBCommission.Abs()
	tradeID := RowID("trade", t.TransactionID)

	var notes *string
	if t.Description != "" {
		notes = strPtr(t.Description)
	}
	b.Trades = append(b.Trades, model.Trade{
		ID:        tradeID,
		Date:      date,
		Ticker:    strings.ToUpper(strings.TrimSpace(t.Symbol)),
		AssetType: assetType(t.AssetCategory),
		Side:      side,
		Quantity:  t.Quantity.Abs(),
		Price:     t.TradePrice,
		Fee:       fee,
		Notes:     notes,
	})

	if fee.IsPositive() {
		b.CashFlows = append(b.CashFlows, model.CashFlow{
			ID:             RowID("trade-fee", t.TransactionID),
			Date:           date,
			Type:           model.CashFlowFee,
			Currency:       model.CurrencyUSD,
			Amount:         fee,
			Notes:          strPtr("IBKR commission " + t.Symbol),
			FeeType:        strPtr(model.FeeTypeTrading),
			RelatedTradeID: &tradeID,
		})
	}
}

func (b *Batch) addCash(c CashTransaction, rates map[string]decimal.Decimal) {
	if c.TransactionID == "" {
		b.skip("cash_flow", c.Description, "missing transaction id")
		return
	}

	cf := model.CashFlow{
		ID:       RowID("cash", c.TransactionID),
		Currency: c.Currency,
		Amount:   c.Amount.Abs(),
	}
	if c.Description != "" {
		cf.Notes = strPtr(c.Description)
	}

	switch c.Type {
	case cashDepositsWithdrawals:
		cf.Type = model.CashFlowDeposit
		if c.Amount.IsNegative() {
			cf.Type = model.CashFlowWithdrawal
		}
	case cashOtherFees, cashCommissionAdjust:
		// Fee rows are negative; a positive one is a refund, which the ledger
		// has no row type for.
		if c.Amount.IsPositive() {
			b.skip("cash_flow", c.TransactionID, "fee refund")
			return
		}
		cf.Type = model.CashFlowFee
		cf.FeeType = strPtr(model.FeeTypeMaintenance)
		if c.Type == cashCommissionAdjust {
			cf.FeeType = strPtr(model.FeeTypeTrading)
		}
	default:
		b.skip("cash_flow", c.TransactionID, fmt.Sprintf("unsupported type %s", c.Type))
		return
	}

	date, err := parseDate(c.DateTime)
	if err != nil {
		b.skip("cash_flow", c.TransactionID, err.Error())
		return
	}
	cf.Date = date

	switch c.Currency {
	case model.CurrencyUSD:
	case model.CurrencyCOP:
		rate, ok := rates[date.Format(time.DateOnly)]
		if !ok {
			b.skip("cash_flow", c.TransactionID, "no COP rate for "+date.Format(time.DateOnly))
			return
		}
		cf.FxRate = &rate
	default:
		b.skip("cash_flow", c.TransactionID, fmt.Sprintf("unsupported currency %s", c.Currency))
		return
	}

	if cf.Amount.IsZero() {
		b.skip("cash_flow", c.TransactionID, "zero amount")
		return
	}
	b.CashFlows = append(b.CashFlows, cf)
}
