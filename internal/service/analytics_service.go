package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
)

// AnalyticsService answers the fee, FX and timeline questions that only need
// the raw ledger rather than a full valuation.
type AnalyticsService struct {
	loader       *LedgerLoader
	snapshotRepo *repository.SnapshotRepository
	engine       portfolio.Engine
	log          zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	loader *LedgerLoader,
	snapshotRepo *repository.SnapshotRepository,
	engine portfolio.Engine,
	log zerolog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		loader:       loader,
		snapshotRepo: snapshotRepo,
		engine:       engine,
		log:          log.With().Str("service", "analytics").Logger(),
	}
}

// GetFeeBreakdown totals fee cash flows by category and month.
func (s *AnalyticsService) GetFeeBreakdown(ctx context.Context) (model.FeeBreakdown, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return model.FeeBreakdown{}, err
	}
	return s.engine.FeeBreakdown(ledger.CashFlows)
}

// GetTradeFeeAttribution lists each trade's fee load, newest first. The filter
// narrows by ticker and trade date.
func (s *AnalyticsService) GetTradeFeeAttribution(ctx context.Context, filters request.LedgerFilters) ([]model.FeeAttribution, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	trades := ledger.Trades
	if filters.Ticker != "" {
		trades = make([]model.Trade, 0, len(ledger.Trades))
		for _, t := range ledger.Trades {
			if t.Ticker == filters.Ticker {
				trades = append(trades, t)
			}
		}
	}

	return s.engine.TradeFeeAttribution(trades, ledger.CashFlows, portfolio.DateRange{
		Start: filters.StartDate,
		End:   filters.EndDate,
	}), nil
}

// GetFeeEfficiency reports fees as a share of traded value per ticker.
func (s *AnalyticsService) GetFeeEfficiency(ctx context.Context) ([]model.TickerFeeEfficiency, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.FeeEfficiencyByTicker(ledger.Trades), nil
}

// GetFXImpact compares the rates COP deposits were made at with the latest rate.
func (s *AnalyticsService) GetFXImpact(ctx context.Context) (model.FXImpactReport, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return model.FXImpactReport{}, err
	}
	return s.engine.FXImpactReport(ledger.CashFlows, ledger.FxRates)
}

// GetReconciliation checks trade fees against their linked fee cash flows.
func (s *AnalyticsService) GetReconciliation(ctx context.Context) (model.ReconciliationReport, error) {
	ledger, err := s.loader.Load(ctx)
	if err != nil {
		return model.ReconciliationReport{}, err
	}

	report := s.engine.ReconcileFees(ledger.Trades, ledger.CashFlows)
	if !report.IsReconciled {
		s.log.Info().
			Int("missing_links", len(report.MissingLinks)).
			Int("orphaned", len(report.OrphanedCashFlows)).
			Int("discrepancies", len(report.Discrepancies)).
			Str("difference", report.Difference.String()).
			Msg("Fee ledger is not reconciled")
	}
	return report, nil
}

// GetTimeline returns the performance series bucketed by interval (day, week,
// month or year). Stored snapshots are used when any exist.
func (s *AnalyticsService) GetTimeline(ctx context.Context, interval string) ([]model.PerformancePoint, error) {
	snapshots, err := s.snapshotRepo.GetSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	var ledger portfolio.Ledger
	if len(snapshots) == 0 {
		if ledger, err = s.loader.Load(ctx); err != nil {
			return nil, err
		}
	}

	return s.engine.Timeline(snapshots, ledger.CashFlows, ledger.Trades, portfolio.NormalizeInterval(interval)), nil
}
