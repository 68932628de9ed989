package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// GetSnapshots retrieves all snapshots ordered by snapshot date.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context) ([]model.PortfolioSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, snapshot_date, total_value_usd, total_invested_usd, total_cash_usd,
			total_fees_usd, total_fx_impact_usd, holdings, created_at
		FROM portfolio_snapshot
		ORDER BY snapshot_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}
	for rows.Next() {
		var s model.PortfolioSnapshot
		var dateStr, createdAtStr, holdingsJSON string

		err := rows.Scan(
			&s.ID,
			&dateStr,
			&s.TotalValueUSD,
			&s.TotalInvestedUSD,
			&s.TotalCashUSD,
			&s.TotalFeesUSD,
			&s.TotalFXImpactUSD,
			&holdingsJSON,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshot table results: %w", err)
		}

		if s.SnapshotDate, err = parseRequiredTime(dateStr, "snapshot_date"); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseRequiredTime(createdAtStr, "created_at"); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(holdingsJSON), &s.Holdings); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot holdings: %w", err)
		}

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return snapshots, nil
}

// UpsertSnapshot stores a snapshot, replacing any existing snapshot for the same date.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, s *model.PortfolioSnapshot) error {
	holdings := s.Holdings
	if holdings == nil {
		holdings = []model.Holding{}
	}
	holdingsJSON, err := json.Marshal(holdings)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot holdings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO portfolio_snapshot (id, snapshot_date, total_value_usd, total_invested_usd,
			total_cash_usd, total_fees_usd, total_fx_impact_usd, holdings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			id = excluded.id,
			total_value_usd = excluded.total_value_usd,
			total_invested_usd = excluded.total_invested_usd,
			total_cash_usd = excluded.total_cash_usd,
			total_fees_usd = excluded.total_fees_usd,
			total_fx_impact_usd = excluded.total_fx_impact_usd,
			holdings = excluded.holdings,
			created_at = excluded.created_at
	`,
		s.ID,
		s.SnapshotDate.UTC().Format("2006-01-02"),
		s.TotalValueUSD,
		s.TotalInvestedUSD,
		s.TotalCashUSD,
		s.TotalFeesUSD,
		s.TotalFXImpactUSD,
		string(holdingsJSON),
		FormatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio snapshot: %w", err)
	}
	return nil
}
