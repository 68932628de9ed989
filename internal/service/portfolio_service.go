package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
)

// PortfolioService computes the derived portfolio views. Nothing here is
// cached: every call loads the ledger and runs the engine, so the answer always
// reflects the current trades, cash flows, rates and prices.
type PortfolioService struct {
	loader       *LedgerLoader
	snapshotRepo *repository.SnapshotRepository
	engine       portfolio.Engine
	log          zerolog.Logger
	now          func() time.Time
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(
	loader *LedgerLoader,
	snapshotRepo *repository.SnapshotRepository,
	engine portfolio.Engine,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		loader:       loader,
		snapshotRepo: snapshotRepo,
		engine:       engine,
		log:          log.With().Str("service", "portfolio").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the valuation clock. Tests use it to pin XIRR's as-of date.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// report loads the ledger and runs the full engine pipeline as of now.
func (s *PortfolioService) report(ctx context.Context) (portfolio.Report, portfolio.Ledger, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return portfolio.Report{}, portfolio.Ledger{}, err
	}

	r, err := s.engine.Analyze(ledger, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("Portfolio computation rejected the ledger")
		return portfolio.Report{}, ledger, err
	}

	if r.XIRRErr != nil {
		s.log.Warn().
			Err(r.XIRRErr).
			Int("iterations", r.XIRR.Iterations).
			Msg("XIRR did not converge, reporting 0")
	}
	if unpriced := portfolio.UnpricedTickers(r.Holdings); len(unpriced) > 0 {
		s.log.Debug().Strs("tickers", unpriced).Msg("Holdings without a market price")
	}

	return r, ledger, nil
}

// GetHoldings returns every open position marked to market, sorted by ticker.
func (s *PortfolioService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	r, _, err := s.report(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.SortedHoldings(r.Holdings), nil
}

// GetSummary returns the holdings with their aggregate cost, value and P/L.
func (s *PortfolioService) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	r, _, err := s.report(ctx)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	num := s.engine.Numeric()
	holdings := portfolio.SortedHoldings(r.Holdings)

	invested := decimal.Zero
	for _, h := range holdings {
		invested = num.Add(invested, h.TotalInvested)
	}
	value := s.engine.HoldingsValue(r.Holdings)
	pl := s.engine.MarketGains(r.Holdings)

	unpriced := portfolio.UnpricedTickers(r.Holdings)
	if unpriced == nil {
		unpriced = []string{}
	}

	return model.PortfolioSummary{
		AsOf:                r.AsOf,
		Holdings:            holdings,
		HoldingsCount:       len(holdings),
		TotalInvested:       invested,
		TotalValue:          value,
		UnrealizedPL:        pl,
		UnrealizedPLPercent: num.Percent(pl, invested),
		CashBalance:         r.CashBalance,
		NetWorth:            r.NetWorth.NetWorth,
		XIRR:                r.NetWorth.XIRR,
		XIRRConverged:       r.XIRR.Converged,
		UnpricedTickers:     unpriced,
	}, nil
}

// GetPerformance returns value, return and XIRR metrics as of the service clock.
func (s *PortfolioService) GetPerformance(ctx context.Context) (model.PerformanceMetrics, error) {
	r, _, err := s.report(ctx)
	if err != nil {
		return model.PerformanceMetrics{}, err
	}
	return r.Performance, nil
}

// GetNetWorth returns holdings plus cash, broken down by asset type and ticker.
func (s *PortfolioService) GetNetWorth(ctx context.Context) (model.NetWorthSummary, error) {
	r, _, err := s.report(ctx)
	if err != nil {
		return model.NetWorthSummary{}, err
	}
	return r.NetWorth, nil
}

// GetCashFlowSummary aggregates the cash flow ledger without touching trades or prices.
func (s *PortfolioService) GetCashFlowSummary(ctx context.Context) (model.CashFlowSummary, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return model.CashFlowSummary{}, err
	}
	return s.engine.SummarizeCashFlows(ledger.CashFlows)
}

// GetReturnAttribution returns the attribution figures and their waterfall.
func (s *PortfolioService) GetReturnAttribution(ctx context.Context) (model.ReturnAttributionReport, error) {
	r, _, err := s.report(ctx)
	if err != nil {
		return model.ReturnAttributionReport{}, err
	}
	return model.ReturnAttributionReport{
		ReturnAttribution: r.Attribution,
		Waterfall:         s.engine.Waterfall(r.Attribution),
	}, nil
}

// CreateSnapshot stores today's snapshot, replacing one already taken today.
func (s *PortfolioService) CreateSnapshot(ctx context.Context) (model.PortfolioSnapshot, error) {
	r, _, err := s.report(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	snap := r.Snapshot()
	snap.ID = uuid.New().String()
	snap.CreatedAt = s.now()

	if err := s.snapshotRepo.UpsertSnapshot(ctx, &snap); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.log.Info().
		Str("date", snap.SnapshotDate.Format("2006-01-02")).
		Int("holdings", len(snap.Holdings)).
		Msg("Portfolio snapshot stored")
	return snap, nil
}
