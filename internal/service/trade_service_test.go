package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/testutil"
)

func strPtr(s string) *string { return &s }

// TestTradeService_CreateTrade tests trade creation.
//
// WHY: The stored total feeds cash balance and cost basis. It must be derived
// from quantity, price and fee at write time with the side-dependent sign.
func TestTradeService_CreateTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("derives total for a buy and normalizes the ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Trade

		trade, err := svc.CreateTrade(ctx, request.CreateTradeRequest{
			Date:      "2024-03-01",
			Ticker:    "aapl",
			AssetType: model.AssetTypeStock,
			Side:      model.SideBuy,
			Quantity:  testutil.Dec("10"),
			Price:     testutil.Dec("100"),
			Fee:       testutil.DecPtr("1.5"),
		})
		if err != nil {
			t.Fatalf("CreateTrade() returned unexpected error: %v", err)
		}

		if trade.Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %s", trade.Ticker)
		}
		if !trade.Total.Equal(testutil.Dec("1001.5")) {
			t.Errorf("Expected total 1001.5, got %s", trade.Total)
		}
		testutil.AssertRowCount(t, db, "trade", 1)
	})

	t.Run("sell subtracts the fee and defaults a missing fee to zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Trade

		trade, err := svc.CreateTrade(ctx, request.CreateTradeRequest{
			Date:      "2024-03-01",
			Ticker:    "BTC-USD",
			AssetType: model.AssetTypeCrypto,
			Side:      model.SideSell,
			Quantity:  testutil.Dec("0.5"),
			Price:     testutil.Dec("60000"),
		})
		if err != nil {
			t.Fatalf("CreateTrade() returned unexpected error: %v", err)
		}
		if !trade.Fee.IsZero() {
			t.Errorf("Expected zero fee, got %s", trade.Fee)
		}
		if !trade.Total.Equal(testutil.Dec("30000")) {
			t.Errorf("Expected total 30000, got %s", trade.Total)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Trade

		_, err := svc.CreateTrade(ctx, request.CreateTradeRequest{
			Date:      "2024-03-01",
			Ticker:    "AAPL",
			AssetType: model.AssetTypeStock,
			Side:      model.SideBuy,
			Quantity:  testutil.Dec("0"),
			Price:     testutil.Dec("100"),
		})
		if !errors.Is(err, apperrors.ErrInvalidTrade) {
			t.Fatalf("Expected ErrInvalidTrade, got %v", err)
		}
		testutil.AssertRowCount(t, db, "trade", 0)
	})
}

func TestTradeService_GetTrades(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, nil).Trade

	testutil.NewTrade("AAPL").WithDate(testutil.Date(2024, 1, 10)).Build(t, db)
	testutil.NewTrade("MSFT").WithDate(testutil.Date(2024, 2, 10)).Build(t, db)
	testutil.NewTrade("AAPL").WithDate(testutil.Date(2024, 3, 10)).Build(t, db)

	t.Run("returns all trades in date order", func(t *testing.T) {
		trades, err := svc.GetTrades(ctx, request.LedgerFilters{})
		if err != nil {
			t.Fatalf("GetTrades() returned unexpected error: %v", err)
		}
		if len(trades) != 3 {
			t.Fatalf("Expected 3 trades, got %d", len(trades))
		}
		if trades[1].Ticker != "MSFT" {
			t.Errorf("Expected MSFT second, got %s", trades[1].Ticker)
		}
	})

	t.Run("filters by ticker and date range", func(t *testing.T) {
		filters, err := request.ParseLedgerFilters("aapl", "", "2024-02-01", "2024-12-31")
		if err != nil {
			t.Fatalf("ParseLedgerFilters() returned unexpected error: %v", err)
		}

		trades, err := svc.GetTrades(ctx, *filters)
		if err != nil {
			t.Fatalf("GetTrades() returned unexpected error: %v", err)
		}
		if len(trades) != 1 {
			t.Fatalf("Expected 1 trade, got %d", len(trades))
		}
		if !trades[0].Date.Equal(testutil.Date(2024, 3, 10)) {
			t.Errorf("Expected the March trade, got %s", trades[0].Date)
		}
	})
}

func TestTradeService_UpdateTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes total after a partial update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Trade
		existing := testutil.NewTrade("AAPL").WithFee("1").Build(t, db)

		side := model.SideSell
		updated, err := svc.UpdateTrade(ctx, existing.ID, request.UpdateTradeRequest{
			Side:  &side,
			Price: testutil.DecPtr("150"),
			Notes: strPtr("closed out"),
		})
		if err != nil {
			t.Fatalf("UpdateTrade() returned unexpected error: %v", err)
		}
		if !updated.Total.Equal(testutil.Dec("1499")) {
			t.Errorf("Expected total 1499, got %s", updated.Total)
		}

		stored, err := svc.GetTrade(ctx, existing.ID)
		if err != nil {
			t.Fatalf("GetTrade() returned unexpected error: %v", err)
		}
		if stored.Side != model.SideSell || stored.Notes == nil || *stored.Notes != "closed out" {
			t.Errorf("Update not persisted: %+v", stored)
		}
	})

	t.Run("returns not found for unknown trade", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil).Trade

		_, err := svc.UpdateTrade(ctx, testutil.MakeID(), request.UpdateTradeRequest{})
		if !errors.Is(err, apperrors.ErrTradeNotFound) {
			t.Errorf("Expected ErrTradeNotFound, got %v", err)
		}
	})
}

// TestTradeService_DeleteTrade checks that deleting a trade keeps its linked
// fee flows and clears their link.
func TestTradeService_DeleteTrade(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	services := testutil.NewTestServices(t, db, nil)

	trade := testutil.NewTrade("AAPL").WithFee("1").Build(t, db)
	fee := testutil.NewCashFlow(model.CashFlowFee, "1").
		WithFeeType(model.FeeTypeTrading).
		LinkedTo(trade.ID).
		Build(t, db)

	if err := services.Trade.DeleteTrade(ctx, trade.ID); err != nil {
		t.Fatalf("DeleteTrade() returned unexpected error: %v", err)
	}
	testutil.AssertRowCount(t, db, "trade", 0)

	cf, err := services.CashFlow.GetCashFlow(ctx, fee.ID)
	if err != nil {
		t.Fatalf("GetCashFlow() returned unexpected error: %v", err)
	}
	if cf.RelatedTradeID != nil {
		t.Errorf("Expected link to be cleared, got %s", *cf.RelatedTradeID)
	}

	if err := services.Trade.DeleteTrade(ctx, trade.ID); !errors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("Expected ErrTradeNotFound on second delete, got %v", err)
	}
}
