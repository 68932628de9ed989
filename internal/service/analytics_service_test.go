package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/testutil"
)

func TestAnalyticsService_Fees(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, nil).Analytics

	aapl := testutil.NewTrade("AAPL").WithDate(testutil.Date(2024, 1, 5)).WithFee("2").Build(t, db)
	msft := testutil.NewTrade("MSFT").WithDate(testutil.Date(2024, 2, 5)).WithFee("1").Build(t, db)
	testutil.NewTrade("VOO").WithDate(testutil.Date(2024, 3, 5)).Build(t, db)

	testutil.NewCashFlow(model.CashFlowFee, "2").
		WithDate(testutil.Date(2024, 1, 5)).
		WithFeeType(model.FeeTypeTrading).
		LinkedTo(aapl.ID).
		Build(t, db)
	testutil.NewCashFlow(model.CashFlowFee, "3").
		WithDate(testutil.Date(2024, 2, 1)).
		WithFeeType(model.FeeTypeDeposit).
		Build(t, db)

	t.Run("breakdown totals fee flows by category", func(t *testing.T) {
		fb, err := svc.GetFeeBreakdown(ctx)
		if err != nil {
			t.Fatalf("GetFeeBreakdown() returned unexpected error: %v", err)
		}
		if !fb.TradingFees.Equal(testutil.Dec("2")) || !fb.DepositFees.Equal(testutil.Dec("3")) {
			t.Errorf("Unexpected breakdown: %+v", fb)
		}
		if !fb.TotalFees.Equal(testutil.Dec("5")) {
			t.Errorf("Expected total fees 5, got %s", fb.TotalFees)
		}
	})

	t.Run("trade attribution is newest first and filterable", func(t *testing.T) {
		all, err := svc.GetTradeFeeAttribution(ctx, request.LedgerFilters{})
		if err != nil {
			t.Fatalf("GetTradeFeeAttribution() returned unexpected error: %v", err)
		}
		if len(all) != 3 || all[0].Ticker != "VOO" {
			t.Fatalf("Expected 3 trades with VOO first, got %+v", all)
		}

		only, err := svc.GetTradeFeeAttribution(ctx, request.LedgerFilters{Ticker: "AAPL"})
		if err != nil {
			t.Fatalf("GetTradeFeeAttribution() returned unexpected error: %v", err)
		}
		if len(only) != 1 {
			t.Fatalf("Expected 1 trade, got %d", len(only))
		}
		if !only[0].LinkedFees.Equal(testutil.Dec("2")) || !only[0].FeeImpactPct.Equal(testutil.Dec("0.2")) {
			t.Errorf("Unexpected AAPL attribution: %+v", only[0])
		}
	})

	t.Run("efficiency only counts trades with fees", func(t *testing.T) {
		eff, err := svc.GetFeeEfficiency(ctx)
		if err != nil {
			t.Fatalf("GetFeeEfficiency() returned unexpected error: %v", err)
		}
		if len(eff) != 2 || eff[0].Ticker != "AAPL" {
			t.Errorf("Expected AAPL then MSFT, got %+v", eff)
		}
	})

	t.Run("reconciliation flags the unlinked trade fee", func(t *testing.T) {
		report, err := svc.GetReconciliation(ctx)
		if err != nil {
			t.Fatalf("GetReconciliation() returned unexpected error: %v", err)
		}
		if report.IsReconciled {
			t.Error("Expected ledger not to reconcile")
		}
		if len(report.MissingLinks) != 1 || report.MissingLinks[0] != msft.ID {
			t.Errorf("Expected MSFT trade as missing link, got %v", report.MissingLinks)
		}
	})
}

func TestAnalyticsService_GetFXImpact(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, nil).Analytics

	testutil.NewCashFlow(model.CashFlowDeposit, "4000000").InCOP("4000").Build(t, db)
	testutil.CreateFxRate(t, db, testutil.Date(2024, 1, 1), "4000")
	testutil.CreateFxRate(t, db, testutil.Date(2024, 6, 1), "5000")

	report, err := svc.GetFXImpact(ctx)
	if err != nil {
		t.Fatalf("GetFXImpact() returned unexpected error: %v", err)
	}
	if !report.AvgInvestmentRate.Equal(testutil.Dec("4000")) {
		t.Errorf("Expected average rate 4000, got %s", report.AvgInvestmentRate)
	}
	if !report.CurrentRate.Equal(testutil.Dec("5000")) {
		t.Errorf("Expected current rate 5000, got %s", report.CurrentRate)
	}
	if !report.FXImpactUSD.Equal(testutil.Dec("-200")) {
		t.Errorf("Expected FX impact -200, got %s", report.FXImpactUSD)
	}
	if !report.FXImpactPct.Equal(testutil.Dec("-20")) {
		t.Errorf("Expected FX impact -20%%, got %s", report.FXImpactPct)
	}
}

func TestAnalyticsService_GetTimeline(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to the ledger without snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Analytics
		testutil.NewCashFlow(model.CashFlowDeposit, "1000").WithDate(testutil.Date(2024, 1, 1)).Build(t, db)
		testutil.NewCashFlow(model.CashFlowDeposit, "500").WithDate(testutil.Date(2024, 2, 1)).Build(t, db)

		points, err := svc.GetTimeline(ctx, portfolio.IntervalDay)
		if err != nil {
			t.Fatalf("GetTimeline() returned unexpected error: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("Expected 2 points, got %d", len(points))
		}
		if !points[1].InvestedCapital.Equal(testutil.Dec("1500")) {
			t.Errorf("Expected invested 1500, got %s", points[1].InvestedCapital)
		}
	})

	t.Run("uses snapshots bucketed by month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Analytics
		testutil.CreateSnapshot(t, db, testutil.Date(2024, 1, 10), "1000", "1000")
		testutil.CreateSnapshot(t, db, testutil.Date(2024, 1, 31), "1100", "1000")
		testutil.CreateSnapshot(t, db, testutil.Date(2024, 2, 29), "1200", "1000")

		points, err := svc.GetTimeline(ctx, "month")
		if err != nil {
			t.Fatalf("GetTimeline() returned unexpected error: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("Expected 2 monthly points, got %d", len(points))
		}
		if !points[0].PortfolioValue.Equal(testutil.Dec("1100")) {
			t.Errorf("Expected January to close at 1100, got %s", points[0].PortfolioValue)
		}
		if !points[1].NetReturn.Equal(testutil.Dec("200")) {
			t.Errorf("Expected February net return 200, got %s", points[1].NetReturn)
		}
	})
}
