package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// TradeFilter narrows a trade listing. Zero values match everything.
type TradeFilter struct {
	Ticker    string
	StartDate *time.Time
	EndDate   *time.Time
}

// TradeRepository provides data access methods for the trade table.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeColumns = `id, date, ticker, asset_type, side, quantity, price, fee, total, notes, created_at, updated_at`

func scanTrade(s rowScanner) (model.Trade, error) {
	var t model.Trade
	var dateStr, createdAtStr, updatedAtStr string
	var notes sql.NullString

	err := s.Scan(
		&t.ID,
		&dateStr,
		&t.Ticker,
		&t.AssetType,
		&t.Side,
		&t.Quantity,
		&t.Price,
		&t.Fee,
		&t.Total,
		&notes,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.Trade{}, err
	}

	if t.Date, err = parseRequiredTime(dateStr, "date"); err != nil {
		return model.Trade{}, err
	}
	if t.CreatedAt, err = parseRequiredTime(createdAtStr, "created_at"); err != nil {
		return model.Trade{}, err
	}
	if t.UpdatedAt, err = parseRequiredTime(updatedAtStr, "updated_at"); err != nil {
		return model.Trade{}, err
	}
	t.Notes = stringPtr(notes)

	return t, nil
}

// GetTrades retrieves trades matching the filter, sorted by date and then by
// insertion order so same-day trades keep the order they were recorded in.
func (r *TradeRepository) GetTrades(ctx context.Context, filter TradeFilter) ([]model.Trade, error) {
	var where []string
	var args []any

	if filter.Ticker != "" {
		where = append(where, "ticker = ?")
		args = append(args, strings.ToUpper(filter.Ticker))
	}
	if filter.StartDate != nil {
		where = append(where, "date >= ?")
		args = append(args, FormatTime(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "date <= ?")
		args = append(args, FormatTime(*filter.EndDate))
	}

	query := `SELECT ` + tradeColumns + ` FROM trade`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date ASC, created_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade table results: %w", err)
		}
		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

// GetTrade retrieves a single trade by ID.
// Returns apperrors.ErrTradeNotFound if no row matches.
func (r *TradeRepository) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trade WHERE id = ?`, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Trade{}, apperrors.ErrTradeNotFound
		}
		return model.Trade{}, fmt.Errorf("failed to get trade: %w", err)
	}
	return t, nil
}

// GetTickers returns the distinct tickers that appear in the trade ledger.
func (r *TradeRepository) GetTickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT ticker FROM trade ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}
	return tickers, nil
}

// InsertTrade stores a new trade.
func (r *TradeRepository) InsertTrade(ctx context.Context, t *model.Trade) error {
	query := `
		INSERT INTO trade (` + tradeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		FormatTime(t.Date),
		t.Ticker,
		t.AssetType,
		t.Side,
		t.Quantity,
		t.Price,
		t.Fee,
		t.Total,
		nullString(t.Notes),
		FormatTime(t.CreatedAt),
		FormatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// UpdateTrade overwrites every mutable column of an existing trade.
// Returns apperrors.ErrTradeNotFound if the trade does not exist.
func (r *TradeRepository) UpdateTrade(ctx context.Context, t *model.Trade) error {
	query := `
		UPDATE trade
		SET date = ?, ticker = ?, asset_type = ?, side = ?, quantity = ?, price = ?,
			fee = ?, total = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		FormatTime(t.Date),
		t.Ticker,
		t.AssetType,
		t.Side,
		t.Quantity,
		t.Price,
		t.Fee,
		t.Total,
		nullString(t.Notes),
		FormatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	return rowsAffected(res, apperrors.ErrTradeNotFound)
}

// DeleteTrade removes a trade. Linked fee cash flows keep existing with their
// link cleared by the foreign key.
func (r *TradeRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trade WHERE id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return rowsAffected(res, apperrors.ErrTradeNotFound)
}
