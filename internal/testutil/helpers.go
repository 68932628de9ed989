package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/numeric"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
)

// Services bundles every service wired against one test database.
type Services struct {
	Trade       *service.TradeService
	CashFlow    *service.CashFlowService
	FxRate      *service.FxRateService
	MarketPrice *service.MarketPriceService
	Portfolio   *service.PortfolioService
	Analytics   *service.AnalyticsService
	System      *service.SystemService
	Import      *service.ImportService
}

// NewTestEngine returns an engine with the default decimal context.
func NewTestEngine() portfolio.Engine {
	return portfolio.NewEngine(numeric.DefaultContext())
}

// NewTestLedgerLoader wires a LedgerLoader to db.
func NewTestLedgerLoader(t *testing.T, db *sql.DB) *service.LedgerLoader {
	t.Helper()

	return service.NewLedgerLoader(
		repository.NewTradeRepository(db),
		repository.NewCashFlowRepository(db),
		repository.NewFxRateRepository(db),
		repository.NewMarketPriceRepository(db),
	)
}

// NewTestServices wires every service to db with a silent logger. quotes may
// be nil when the test does not refresh prices.
func NewTestServices(t *testing.T, db *sql.DB, quotes service.QuoteClient) *Services {
	t.Helper()

	engine := NewTestEngine()
	log := zerolog.Nop()

	tradeRepo := repository.NewTradeRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	fxRateRepo := repository.NewFxRateRepository(db)
	marketPriceRepo := repository.NewMarketPriceRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	loader := service.NewLedgerLoader(tradeRepo, cashFlowRepo, fxRateRepo, marketPriceRepo)

	if quotes == nil {
		quotes = NewMockYahooClient()
	}

	return &Services{
		Trade:       service.NewTradeService(tradeRepo, engine),
		CashFlow:    service.NewCashFlowService(cashFlowRepo, tradeRepo, engine),
		FxRate:      service.NewFxRateService(fxRateRepo),
		MarketPrice: service.NewMarketPriceService(marketPriceRepo, tradeRepo, engine, quotes, log),
		Portfolio:   service.NewPortfolioService(loader, snapshotRepo, engine, log),
		Analytics:   service.NewAnalyticsService(loader, snapshotRepo, engine, log),
		System:      service.NewSystemService(db),
		Import:      service.NewImportService(tradeRepo, cashFlowRepo, fxRateRepo, engine, nil, log),
	}
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
