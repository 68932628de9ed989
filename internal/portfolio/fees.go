package portfolio

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// reconciliationTolerance is the largest aggregate USD difference between
// trade fees and linked fee cash flows still considered reconciled.
var reconciliationTolerance = decimal.RequireFromString("0.01")

// DateRange is an optional inclusive date filter. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// linkedFees indexes fee cash flows by the trade they are attached to.
func linkedFees(flows []model.CashFlow) map[string][]model.CashFlow {
	out := make(map[string][]model.CashFlow)
	for _, cf := range flows {
		if cf.Type == model.CashFlowFee && cf.LinkedToTrade() {
			out[*cf.RelatedTradeID] = append(out[*cf.RelatedTradeID], cf)
		}
	}
	return out
}

// TradeFeeAttribution lists the fee load of each trade in the range, newest
// first and then by ticker. Fee impact is the trade fee as a percentage of
// quantity*price.
func (e Engine) TradeFeeAttribution(trades []model.Trade, flows []model.CashFlow, r DateRange) []model.FeeAttribution {
	links := linkedFees(flows)

	out := make([]model.FeeAttribution, 0, len(trades))
	for _, t := range trades {
		if !r.Contains(t.Date) {
			continue
		}

		value := e.num.Mul(t.Quantity, t.Price)
		attr := model.FeeAttribution{
			TradeID:      t.ID,
			Ticker:       t.Ticker,
			Date:         t.Date,
			Side:         t.Side,
			TradeFee:     t.Fee,
			LinkedFees:   decimal.Zero,
			TradeValue:   value,
			FeeImpactPct: e.num.Percent(t.Fee, value),
			CashFlowIDs:  []string{},
		}
		for _, cf := range links[t.ID] {
			attr.LinkedFees = e.num.Add(attr.LinkedFees, cf.UsdAmount)
			attr.CashFlowIDs = append(attr.CashFlowIDs, cf.ID)
		}
		slices.Sort(attr.CashFlowIDs)
		out = append(out, attr)
	}

	slices.SortStableFunc(out, func(a, b model.FeeAttribution) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return out
}

// FeeEfficiencyByTicker aggregates trade fees per ticker, highest total fees first.
// Only trades that carry a fee are counted.
func (e Engine) FeeEfficiencyByTicker(trades []model.Trade) []model.TickerFeeEfficiency {
	type acc struct {
		count  int
		fees   decimal.Decimal
		value  decimal.Decimal
		pctSum decimal.Decimal
	}
	byTicker := make(map[string]*acc)
	for _, t := range trades {
		if !t.Fee.IsPositive() {
			continue
		}
		a, ok := byTicker[t.Ticker]
		if !ok {
			a = &acc{fees: decimal.Zero, value: decimal.Zero, pctSum: decimal.Zero}
			byTicker[t.Ticker] = a
		}
		value := e.num.Mul(t.Quantity, t.Price)
		a.count++
		a.fees = e.num.Add(a.fees, t.Fee)
		a.value = e.num.Add(a.value, value)
		a.pctSum = e.num.Add(a.pctSum, e.num.Percent(t.Fee, value))
	}

	out := make([]model.TickerFeeEfficiency, 0, len(byTicker))
	for ticker, a := range byTicker {
		out = append(out, model.TickerFeeEfficiency{
			Ticker:     ticker,
			TradeCount: a.count,
			TotalFees:  a.fees,
			TotalValue: a.value,
			AvgFeePct:  e.num.DivOrZero(a.pctSum, e.num.FromInt(int64(a.count))),
		})
	}
	slices.SortFunc(out, func(a, b model.TickerFeeEfficiency) int {
		if c := b.TotalFees.Cmp(a.TotalFees); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return out
}

// ReconcileFees checks trade fees against the fee cash flows linked to them.
// A trade with a fee but no linked flow is a missing link; a linked flow whose
// trade does not exist is orphaned; a trade whose fee differs from the sum of
// its linked flows is a discrepancy.
func (e Engine) ReconcileFees(trades []model.Trade, flows []model.CashFlow) model.ReconciliationReport {
	links := linkedFees(flows)
	known := make(map[string]bool, len(trades))

	report := model.ReconciliationReport{
		IsReconciled:      true,
		TotalTradeFees:    decimal.Zero,
		TotalCashFlowFees: decimal.Zero,
		MissingLinks:      []string{},
		OrphanedCashFlows: []string{},
		Discrepancies:     []model.ReconciliationIssue{},
	}

	for _, t := range trades {
		known[t.ID] = true
		if !t.Fee.IsPositive() {
			continue
		}
		report.TotalTradeFees = e.num.Add(report.TotalTradeFees, t.Fee)

		linked := decimal.Zero
		for _, cf := range links[t.ID] {
			linked = e.num.Add(linked, cf.UsdAmount)
		}
		if len(links[t.ID]) == 0 {
			report.MissingLinks = append(report.MissingLinks, t.ID)
		}
		if !t.Fee.Equal(linked) {
			report.Discrepancies = append(report.Discrepancies, model.ReconciliationIssue{
				TradeID:            t.ID,
				Ticker:             t.Ticker,
				Date:               t.Date.Format(time.DateOnly),
				ExpectedFees:       t.Fee,
				ActualCashFlowFees: linked,
				Difference:         e.num.Sub(t.Fee, linked),
				Description:        fmt.Sprintf("Trade fee (%s) doesn't match cash flow fees (%s)", t.Fee, linked),
			})
		}
	}

	for tradeID, linked := range links {
		for _, cf := range linked {
			report.TotalCashFlowFees = e.num.Add(report.TotalCashFlowFees, cf.UsdAmount)
			if !known[tradeID] {
				report.OrphanedCashFlows = append(report.OrphanedCashFlows, cf.ID)
			}
		}
	}

	slices.Sort(report.MissingLinks)
	slices.Sort(report.OrphanedCashFlows)
	slices.SortFunc(report.Discrepancies, func(a, b model.ReconciliationIssue) int {
		return strings.Compare(a.TradeID, b.TradeID)
	})

	report.Difference = e.num.Sub(report.TotalTradeFees, report.TotalCashFlowFees)
	if len(report.MissingLinks) > 0 || len(report.OrphanedCashFlows) > 0 || len(report.Discrepancies) > 0 ||
		report.Difference.Abs().GreaterThan(reconciliationTolerance) {
		report.IsReconciled = false
	}

	return report
}
