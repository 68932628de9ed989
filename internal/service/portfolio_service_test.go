package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/testutil"
)

var valuationDate = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// seedPortfolio builds a small ledger:
//
//	deposit 10000 USD
//	buy 10 AAPL @ 100, fee 1 (linked trading fee flow)
//	buy 5 MSFT @ 200, no fee, no market price
//	AAPL priced at 120
func seedPortfolio(t *testing.T, db *sql.DB) {
	t.Helper()

	testutil.NewCashFlow(model.CashFlowDeposit, "10000").WithDate(testutil.Date(2024, 1, 1)).Build(t, db)
	aapl := testutil.NewTrade("AAPL").WithDate(testutil.Date(2024, 1, 2)).WithFee("1").Build(t, db)
	testutil.NewCashFlow(model.CashFlowFee, "1").
		WithDate(testutil.Date(2024, 1, 2)).
		WithFeeType(model.FeeTypeTrading).
		LinkedTo(aapl.ID).
		Build(t, db)
	testutil.NewTrade("MSFT").WithDate(testutil.Date(2024, 1, 3)).WithQuantity("5").WithPrice("200").Build(t, db)
	testutil.CreateMarketPrice(t, db, "AAPL", "120")
}

func newPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()
	return testutil.NewTestServices(t, db, nil).Portfolio.WithClock(func() time.Time { return valuationDate })
}

func TestPortfolioService_GetHoldings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice for an empty ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newPortfolioService(t, db)

		holdings, err := svc.GetHoldings(ctx)
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 0 {
			t.Errorf("Expected no holdings, got %d", len(holdings))
		}
	})

	t.Run("marks priced holdings and leaves others unpriced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		seedPortfolio(t, db)
		svc := newPortfolioService(t, db)

		holdings, err := svc.GetHoldings(ctx)
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 2 {
			t.Fatalf("Expected 2 holdings, got %d", len(holdings))
		}

		aapl := holdings[0]
		if aapl.Ticker != "AAPL" || !aapl.Priced {
			t.Fatalf("Expected priced AAPL first, got %+v", aapl)
		}
		if !aapl.TotalInvested.Equal(testutil.Dec("1001")) {
			t.Errorf("Expected AAPL invested 1001, got %s", aapl.TotalInvested)
		}
		if !aapl.MarketValue.Equal(testutil.Dec("1200")) {
			t.Errorf("Expected AAPL market value 1200, got %s", aapl.MarketValue)
		}
		if !aapl.UnrealizedPL.Equal(testutil.Dec("199")) {
			t.Errorf("Expected AAPL unrealized P/L 199, got %s", aapl.UnrealizedPL)
		}

		msft := holdings[1]
		if msft.Priced || !msft.MarketValue.IsZero() {
			t.Errorf("Expected MSFT unpriced with zero value, got %+v", msft)
		}
	})

	t.Run("surfaces malformed ledger rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewTrade("AAPL").WithQuantity("-1").Build(t, db)
		svc := newPortfolioService(t, db)

		_, err := svc.GetHoldings(ctx)
		if !errors.Is(err, apperrors.ErrInvalidTrade) {
			t.Errorf("Expected ErrInvalidTrade, got %v", err)
		}
	})
}

func TestPortfolioService_GetSummary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	seedPortfolio(t, db)
	svc := newPortfolioService(t, db)

	summary, err := svc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary() returned unexpected error: %v", err)
	}

	if summary.HoldingsCount != 2 {
		t.Errorf("Expected 2 holdings, got %d", summary.HoldingsCount)
	}
	if !summary.TotalInvested.Equal(testutil.Dec("2001")) {
		t.Errorf("Expected invested 2001, got %s", summary.TotalInvested)
	}
	if !summary.TotalValue.Equal(testutil.Dec("1200")) {
		t.Errorf("Expected value 1200, got %s", summary.TotalValue)
	}
	// The linked fee is inside the AAPL total and is not charged twice.
	if !summary.CashBalance.Equal(testutil.Dec("7999")) {
		t.Errorf("Expected cash 7999, got %s", summary.CashBalance)
	}
	if !summary.NetWorth.Equal(testutil.Dec("9199")) {
		t.Errorf("Expected net worth 9199, got %s", summary.NetWorth)
	}
	if len(summary.UnpricedTickers) != 1 || summary.UnpricedTickers[0] != "MSFT" {
		t.Errorf("Expected MSFT unpriced, got %v", summary.UnpricedTickers)
	}
	if !summary.AsOf.Equal(valuationDate) {
		t.Errorf("Expected as-of %s, got %s", valuationDate, summary.AsOf)
	}
	if !summary.XIRRConverged {
		t.Error("Expected XIRR to converge")
	}
}

func TestPortfolioService_GetNetWorth(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	seedPortfolio(t, db)
	testutil.CreateFxRate(t, db, testutil.Date(2024, 6, 1), "4000")
	svc := newPortfolioService(t, db)

	nw, err := svc.GetNetWorth(ctx)
	if err != nil {
		t.Fatalf("GetNetWorth() returned unexpected error: %v", err)
	}

	if !nw.TotalInvested.Equal(testutil.Dec("10000")) {
		t.Errorf("Expected invested 10000, got %s", nw.TotalInvested)
	}
	if !nw.TotalGainLoss.Equal(testutil.Dec("-801")) {
		t.Errorf("Expected gain -801, got %s", nw.TotalGainLoss)
	}
	if !nw.NetWorthCOP.Equal(testutil.Dec("36796000")) {
		t.Errorf("Expected COP net worth 36796000, got %s", nw.NetWorthCOP)
	}
	if !nw.Breakdown.ByAssetType[model.AssetTypeStock].Equal(testutil.Dec("1200")) {
		t.Errorf("Expected stock allocation 1200, got %s", nw.Breakdown.ByAssetType[model.AssetTypeStock])
	}
}

func TestPortfolioService_GetPerformance(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	seedPortfolio(t, db)
	svc := newPortfolioService(t, db)

	perf, err := svc.GetPerformance(ctx)
	if err != nil {
		t.Fatalf("GetPerformance() returned unexpected error: %v", err)
	}

	if !perf.TotalValue.Equal(testutil.Dec("1200")) {
		t.Errorf("Expected priced holdings value 1200, got %s", perf.TotalValue)
	}
	if !perf.TotalCash.Equal(testutil.Dec("7999")) {
		t.Errorf("Expected cash 7999, got %s", perf.TotalCash)
	}
	if !perf.NetWorth.Equal(perf.TotalValue.Add(perf.TotalCash)) {
		t.Errorf("Expected net worth %s to be value plus cash", perf.NetWorth)
	}
	if !perf.NetReturnAfterFees.Equal(testutil.Dec("-801")) {
		t.Errorf("Expected net return -801, got %s", perf.NetReturnAfterFees)
	}
}

func TestPortfolioService_GetCashFlowSummary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	seedPortfolio(t, db)
	testutil.NewCashFlow(model.CashFlowWithdrawal, "500").WithDate(testutil.Date(2024, 2, 1)).Build(t, db)
	svc := newPortfolioService(t, db)

	summary, err := svc.GetCashFlowSummary(ctx)
	if err != nil {
		t.Fatalf("GetCashFlowSummary() returned unexpected error: %v", err)
	}
	if !summary.NetInvested.Equal(testutil.Dec("9500")) {
		t.Errorf("Expected net invested 9500, got %s", summary.NetInvested)
	}
	if !summary.FeesByType[model.FeeTypeTrading].Equal(testutil.Dec("1")) {
		t.Errorf("Expected trading fees 1, got %s", summary.FeesByType[model.FeeTypeTrading])
	}
	if summary.Count != 3 {
		t.Errorf("Expected 3 flows, got %d", summary.Count)
	}
}

func TestPortfolioService_GetReturnAttribution(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	seedPortfolio(t, db)
	svc := newPortfolioService(t, db)

	attr, err := svc.GetReturnAttribution(ctx)
	if err != nil {
		t.Fatalf("GetReturnAttribution() returned unexpected error: %v", err)
	}

	if !attr.StartingCapital.Equal(testutil.Dec("10000")) {
		t.Errorf("Expected starting capital 10000, got %s", attr.StartingCapital)
	}
	if !attr.MarketGains.Equal(testutil.Dec("199")) {
		t.Errorf("Expected market gains 199, got %s", attr.MarketGains)
	}
	// The only trading fee is linked to AAPL and already sits in its cost basis.
	if !attr.TradingFeesImpact.IsZero() {
		t.Errorf("Expected no separate trading fee impact, got %s", attr.TradingFeesImpact)
	}
	if !attr.NetPosition.Equal(testutil.Dec("10199")) {
		t.Errorf("Expected net position 10199, got %s", attr.NetPosition)
	}

	if len(attr.Waterfall) == 0 {
		t.Fatal("Expected waterfall stages")
	}
	last := attr.Waterfall[len(attr.Waterfall)-1]
	if !last.Running.Equal(attr.NetPosition) {
		t.Errorf("Expected waterfall to end at %s, got %s", attr.NetPosition, last.Running)
	}
}

// TestPortfolioService_CreateSnapshot checks that one snapshot is kept per day.
func TestPortfolioService_CreateSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	seedPortfolio(t, db)
	svc := newPortfolioService(t, db)

	first, err := svc.CreateSnapshot(ctx)
	if err != nil {
		t.Fatalf("CreateSnapshot() returned unexpected error: %v", err)
	}
	if !first.SnapshotDate.Equal(testutil.Date(2024, 6, 30)) {
		t.Errorf("Expected snapshot date 2024-06-30, got %s", first.SnapshotDate)
	}
	if !first.TotalValueUSD.Equal(testutil.Dec("9199")) {
		t.Errorf("Expected snapshot value 9199, got %s", first.TotalValueUSD)
	}
	if len(first.Holdings) != 2 {
		t.Errorf("Expected 2 holdings in snapshot, got %d", len(first.Holdings))
	}

	if _, err := svc.CreateSnapshot(ctx); err != nil {
		t.Fatalf("second CreateSnapshot() returned unexpected error: %v", err)
	}
	testutil.AssertRowCount(t, db, "portfolio_snapshot", 1)
}
