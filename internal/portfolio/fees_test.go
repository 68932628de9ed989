package portfolio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
)

func TestEngine_TradeFeeAttribution(t *testing.T) {
	e := newEngine()

	trades := []model.Trade{
		trade("t1", "2024-01-02", "AAPL", model.SideBuy, "10", "100", "1"),
		trade("t2", "2024-03-01", "VTI", model.SideBuy, "2", "250", "5"),
		trade("t3", "2024-03-01", "AAPL", model.SideSell, "4", "120", "0"),
	}
	flows := []model.CashFlow{
		feeFlow("f2", "2024-01-02", "0.4", model.FeeTypeTrading, strPtr("t1")),
		feeFlow("f1", "2024-01-02", "0.6", model.FeeTypeTrading, strPtr("t1")),
		feeFlow("f3", "2024-01-05", "9", model.FeeTypeMaintenance, nil),
	}

	t.Run("newest first then ticker", func(t *testing.T) {
		out := e.TradeFeeAttribution(trades, flows, portfolio.DateRange{})
		require.Len(t, out, 3)

		assert.Equal(t, "t3", out[0].TradeID)
		assert.Equal(t, "t2", out[1].TradeID)
		assert.Equal(t, "t1", out[2].TradeID)

		assertDecimal(t, "1", out[1].FeeImpactPct, "VTI fee impact")
		assertDecimal(t, "0", out[0].FeeImpactPct, "fee-free trade")
		assert.Empty(t, out[0].CashFlowIDs)

		assertDecimal(t, "1", out[2].LinkedFees, "linked fees")
		assert.Equal(t, []string{"f1", "f2"}, out[2].CashFlowIDs)
		assertDecimal(t, "0.1", out[2].FeeImpactPct, "AAPL fee impact")
	})

	t.Run("date range", func(t *testing.T) {
		start := day("2024-02-01")
		out := e.TradeFeeAttribution(trades, flows, portfolio.DateRange{Start: &start})
		require.Len(t, out, 2)
		for _, a := range out {
			assert.NotEqual(t, "t1", a.TradeID)
		}
	})
}

func TestEngine_FeeEfficiencyByTicker(t *testing.T) {
	e := newEngine()

	out := e.FeeEfficiencyByTicker([]model.Trade{
		trade("t1", "2024-01-01", "AAPL", model.SideBuy, "10", "100", "1"),
		trade("t2", "2024-01-05", "AAPL", model.SideBuy, "10", "100", "3"),
		trade("t3", "2024-01-05", "VTI", model.SideBuy, "1", "250", "5"),
		trade("t4", "2024-01-06", "BTC", model.SideBuy, "1", "40000", "0"),
	})
	require.Len(t, out, 2)

	assert.Equal(t, "VTI", out[0].Ticker)
	assert.Equal(t, "AAPL", out[1].Ticker)
	assert.Equal(t, 2, out[1].TradeCount)
	assertDecimal(t, "4", out[1].TotalFees, "AAPL fees")
	assertDecimal(t, "2000", out[1].TotalValue, "AAPL value")
	assertDecimal(t, "0.2", out[1].AvgFeePct, "AAPL avg fee pct")
}

func TestEngine_ReconcileFees(t *testing.T) {
	e := newEngine()

	t.Run("reconciled", func(t *testing.T) {
		report := e.ReconcileFees(
			[]model.Trade{trade("t1", "2024-01-02", "AAPL", model.SideBuy, "10", "100", "1")},
			[]model.CashFlow{feeFlow("f1", "2024-01-02", "1", model.FeeTypeTrading, strPtr("t1"))},
		)

		assert.True(t, report.IsReconciled)
		assertDecimal(t, "0", report.Difference, "difference")
		assert.Empty(t, report.MissingLinks)
		assert.Empty(t, report.OrphanedCashFlows)
		assert.Empty(t, report.Discrepancies)
	})

	t.Run("missing, orphaned and mismatched", func(t *testing.T) {
		trades := []model.Trade{
			trade("t1", "2024-01-02", "AAPL", model.SideBuy, "10", "100", "1"),
			trade("t2", "2024-01-03", "VTI", model.SideBuy, "1", "250", "2"),
			trade("t3", "2024-01-04", "BTC", model.SideBuy, "1", "40000", "0"),
		}
		flows := []model.CashFlow{
			feeFlow("f1", "2024-01-02", "0.5", model.FeeTypeTrading, strPtr("t1")),
			feeFlow("f9", "2024-01-09", "4", model.FeeTypeTrading, strPtr("ghost")),
			feeFlow("f5", "2024-01-05", "7", model.FeeTypeDeposit, nil),
		}

		report := e.ReconcileFees(trades, flows)

		assert.False(t, report.IsReconciled)
		assertDecimal(t, "3", report.TotalTradeFees, "trade fees")
		assertDecimal(t, "4.5", report.TotalCashFlowFees, "linked cash flow fees")
		assertDecimal(t, "-1.5", report.Difference, "difference")
		assert.Equal(t, []string{"t2"}, report.MissingLinks)
		assert.Equal(t, []string{"f9"}, report.OrphanedCashFlows)

		require.Len(t, report.Discrepancies, 2)
		assert.Equal(t, "t1", report.Discrepancies[0].TradeID)
		assertDecimal(t, "0.5", report.Discrepancies[0].Difference, "t1 difference")
		assert.Equal(t, "2024-01-02", report.Discrepancies[0].Date)
		assert.Equal(t, "t2", report.Discrepancies[1].TradeID)
	})
}
