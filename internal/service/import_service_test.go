package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/ibkr"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/testutil"
)

type fakeFlexClient struct {
	data  []byte
	err   error
	token string
	query int
}

func (f *fakeFlexClient) FetchStatement(_ context.Context, token string, queryID int) ([]byte, error) {
	f.token, f.query = token, queryID
	return f.data, f.err
}

func TestImportService_ImportStatement(t *testing.T) {
	ctx := context.Background()

	t.Run("imports trades, linked commissions, cash and rates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil)

		result, err := svc.Import.ImportStatement(ctx, []byte(testutil.SampleFlexStatement))
		if err != nil {
			t.Fatalf("ImportStatement() returned unexpected error: %v", err)
		}

		if result.TradesImported != 2 || result.CashFlowsImported != 4 || result.FxRatesImported != 1 {
			t.Errorf("Expected 2 trades, 4 cash flows, 1 rate; got %+v", result)
		}
		if len(result.Skipped) != 2 {
			t.Errorf("Expected EUR trade and dividend skipped, got %+v", result.Skipped)
		}

		buy, err := svc.Trade.GetTrade(ctx, ibkr.RowID("trade", "1001"))
		if err != nil {
			t.Fatalf("GetTrade() returned unexpected error: %v", err)
		}
		if !buy.Total.Equal(testutil.Dec("1856")) {
			t.Errorf("Expected buy total 1856, got %s", buy.Total)
		}
		sell, err := svc.Trade.GetTrade(ctx, ibkr.RowID("trade", "1002"))
		if err != nil {
			t.Fatalf("GetTrade() returned unexpected error: %v", err)
		}
		if !sell.Total.Equal(testutil.Dec("758.95")) {
			t.Errorf("Expected sell total 758.95, got %s", sell.Total)
		}

		deposit, err := svc.CashFlow.GetCashFlow(ctx, ibkr.RowID("cash", "2001"))
		if err != nil {
			t.Fatalf("GetCashFlow() returned unexpected error: %v", err)
		}
		if !deposit.UsdAmount.Equal(testutil.Dec("2000")) {
			t.Errorf("Expected 8,000,000 COP at 4000 to be 2000 USD, got %s", deposit.UsdAmount)
		}
	})

	// Consecutive syncs return overlapping statements.
	t.Run("re-import only reports duplicates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil)

		if _, err := svc.Import.ImportStatement(ctx, []byte(testutil.SampleFlexStatement)); err != nil {
			t.Fatalf("first import failed: %v", err)
		}
		result, err := svc.Import.ImportStatement(ctx, []byte(testutil.SampleFlexStatement))
		if err != nil {
			t.Fatalf("second import failed: %v", err)
		}

		if result.TradesImported+result.CashFlowsImported+result.FxRatesImported != 0 {
			t.Errorf("Expected nothing new, got %+v", result)
		}
		if result.Duplicates != 7 {
			t.Errorf("Expected 7 duplicates, got %d", result.Duplicates)
		}
		testutil.AssertRowCount(t, db, "trade", 2)
		testutil.AssertRowCount(t, db, "cash_flow", 4)
	})

	t.Run("imported commissions reconcile with their trades", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil)

		if _, err := svc.Import.ImportStatement(ctx, []byte(testutil.SampleFlexStatement)); err != nil {
			t.Fatalf("ImportStatement() returned unexpected error: %v", err)
		}

		report, err := svc.Analytics.GetReconciliation(ctx)
		if err != nil {
			t.Fatalf("GetReconciliation() returned unexpected error: %v", err)
		}
		if !report.IsReconciled {
			t.Errorf("Expected imported ledger to reconcile, got %+v", report)
		}

		holdings, err := svc.Portfolio.GetHoldings(ctx)
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 || !holdings[0].Quantity.Equal(testutil.Dec("6")) {
			t.Errorf("Expected 6 AAPL held, got %+v", holdings)
		}
	})

	t.Run("rejects a document that is not a statement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, nil)

		_, err := svc.Import.ImportStatement(ctx, []byte(`{"not": "xml"}`))
		if !errors.Is(err, apperrors.ErrInvalidStatement) {
			t.Errorf("Expected ErrInvalidStatement, got %v", err)
		}
	})
}

func TestImportService_SyncIBKR(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	newService := func(client ibkr.Client) *service.ImportService {
		return service.NewImportService(
			repository.NewTradeRepository(db),
			repository.NewCashFlowRepository(db),
			repository.NewFxRateRepository(db),
			testutil.NewTestEngine(),
			client,
			zerolog.Nop(),
		)
	}

	t.Run("downloads with the configured query", func(t *testing.T) {
		client := &fakeFlexClient{data: []byte(testutil.SampleFlexStatement)}
		svc := newService(client).WithFlexQuery("secret", 42)

		result, err := svc.SyncIBKR(ctx)
		if err != nil {
			t.Fatalf("SyncIBKR() returned unexpected error: %v", err)
		}
		if client.token != "secret" || client.query != 42 {
			t.Errorf("Expected configured credentials, got %q/%d", client.token, client.query)
		}
		if result.TradesImported != 2 {
			t.Errorf("Expected 2 trades, got %d", result.TradesImported)
		}
	})

	t.Run("fetch errors are returned", func(t *testing.T) {
		svc := newService(&fakeFlexClient{err: errors.New("ibkr error 1012: Token has expired.")})

		if _, err := svc.SyncIBKR(ctx); err == nil {
			t.Error("Expected error from failed download")
		}
	})

	t.Run("no client means not configured", func(t *testing.T) {
		if _, err := newService(nil).SyncIBKR(ctx); !errors.Is(err, ibkr.ErrMissingCredentials) {
			t.Errorf("Expected ErrMissingCredentials, got %v", err)
		}
	})
}
