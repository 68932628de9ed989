package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

const jobTimeout = 2 * time.Minute

// PriceRefresher fetches fresh market prices for every held ticker.
type PriceRefresher interface {
	RefreshPrices(ctx context.Context) (model.PriceRefreshResult, error)
}

// Snapshotter stores a snapshot of the current portfolio.
type Snapshotter interface {
	CreateSnapshot(ctx context.Context) (model.PortfolioSnapshot, error)
}

// StatementSyncer pulls the broker statement into the ledger.
type StatementSyncer interface {
	SyncIBKR(ctx context.Context) (model.ImportResult, error)
}

// PriceRefreshJob keeps the market price cache warm.
type PriceRefreshJob struct {
	log       zerolog.Logger
	refresher PriceRefresher
}

// NewPriceRefreshJob creates a new price refresh job.
func NewPriceRefreshJob(log zerolog.Logger, refresher PriceRefresher) *PriceRefreshJob {
	return &PriceRefreshJob{
		log:       log.With().Str("job", "price_refresh").Logger(),
		refresher: refresher,
	}
}

// Name returns the job name.
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Run refreshes prices. Per-ticker failures are logged and do not fail the job.
func (j *PriceRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := j.refresher.RefreshPrices(ctx)
	if err != nil {
		return fmt.Errorf("price refresh: %w", err)
	}

	for ticker, reason := range result.Failed {
		j.log.Warn().Str("ticker", ticker).Str("reason", reason).Msg("Price refresh failed for ticker")
	}
	j.log.Info().
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Msg("Market prices refreshed")
	return nil
}

// SnapshotJob stores the daily portfolio snapshot used by the performance timeline.
type SnapshotJob struct {
	log         zerolog.Logger
	snapshotter Snapshotter
}

// NewSnapshotJob creates a new snapshot job.
func NewSnapshotJob(log zerolog.Logger, snapshotter Snapshotter) *SnapshotJob {
	return &SnapshotJob{
		log:         log.With().Str("job", "portfolio_snapshot").Logger(),
		snapshotter: snapshotter,
	}
}

// Name returns the job name.
func (j *SnapshotJob) Name() string {
	return "portfolio_snapshot"
}

// Run stores today's snapshot.
func (j *SnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	snap, err := j.snapshotter.CreateSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("portfolio snapshot: %w", err)
	}

	j.log.Info().
		Str("date", snap.SnapshotDate.Format("2006-01-02")).
		Str("total_value_usd", snap.TotalValueUSD.String()).
		Msg("Portfolio snapshot stored")
	return nil
}

// IBKRSyncJob imports the latest Flex statement.
type IBKRSyncJob struct {
	log    zerolog.Logger
	syncer StatementSyncer
}

// NewIBKRSyncJob creates a new IBKR sync job.
func NewIBKRSyncJob(log zerolog.Logger, syncer StatementSyncer) *IBKRSyncJob {
	return &IBKRSyncJob{
		log:    log.With().Str("job", "ibkr_sync").Logger(),
		syncer: syncer,
	}
}

// Name returns the job name.
func (j *IBKRSyncJob) Name() string {
	return "ibkr_sync"
}

// Run imports the statement. IBKR can take minutes to generate one, so the
// job gets a longer timeout than the others.
func (j *IBKRSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*jobTimeout)
	defer cancel()

	result, err := j.syncer.SyncIBKR(ctx)
	if err != nil {
		return fmt.Errorf("ibkr sync: %w", err)
	}

	for _, row := range result.Skipped {
		j.log.Debug().Str("kind", row.Kind).Str("source_id", row.SourceID).Str("reason", row.Reason).Msg("Statement row skipped")
	}
	j.log.Info().
		Int("trades", result.TradesImported).
		Int("cash_flows", result.CashFlowsImported).
		Int("duplicates", result.Duplicates).
		Msg("IBKR statement synced")
	return nil
}
