package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// CashFlowFilter narrows a cash flow listing. Zero values match everything.
type CashFlowFilter struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// CashFlowRepository provides data access methods for the cash_flow table.
type CashFlowRepository struct {
	db *sql.DB
}

// NewCashFlowRepository creates a new CashFlowRepository with the provided database connection.
func NewCashFlowRepository(db *sql.DB) *CashFlowRepository {
	return &CashFlowRepository{db: db}
}

const cashFlowColumns = `id, date, type, currency, amount, fx_rate, usd_amount, notes, fee_type, related_trade_id, created_at, updated_at`

func scanCashFlow(s rowScanner) (model.CashFlow, error) {
	var cf model.CashFlow
	var dateStr, createdAtStr, updatedAtStr string
	var fxRate decimal.NullDecimal
	var notes, feeType, relatedTradeID sql.NullString

	err := s.Scan(
		&cf.ID,
		&dateStr,
		&cf.Type,
		&cf.Currency,
		&cf.Amount,
		&fxRate,
		&cf.UsdAmount,
		&notes,
		&feeType,
		&relatedTradeID,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.CashFlow{}, err
	}

	if cf.Date, err = parseRequiredTime(dateStr, "date"); err != nil {
		return model.CashFlow{}, err
	}
	if cf.CreatedAt, err = parseRequiredTime(createdAtStr, "created_at"); err != nil {
		return model.CashFlow{}, err
	}
	if cf.UpdatedAt, err = parseRequiredTime(updatedAtStr, "updated_at"); err != nil {
		return model.CashFlow{}, err
	}
	if fxRate.Valid {
		rate := fxRate.Decimal
		cf.FxRate = &rate
	}
	cf.Notes = stringPtr(notes)
	cf.FeeType = stringPtr(feeType)
	cf.RelatedTradeID = stringPtr(relatedTradeID)

	return cf, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// GetCashFlows retrieves cash flows matching the filter, oldest first.
func (r *CashFlowRepository) GetCashFlows(ctx context.Context, filter CashFlowFilter) ([]model.CashFlow, error) {
	var where []string
	var args []any

	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.StartDate != nil {
		where = append(where, "date >= ?")
		args = append(args, FormatTime(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "date <= ?")
		args = append(args, FormatTime(*filter.EndDate))
	}

	query := `SELECT ` + cashFlowColumns + ` FROM cash_flow`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date ASC, created_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_flow table: %w", err)
	}
	defer rows.Close()

	flows := []model.CashFlow{}
	for rows.Next() {
		cf, err := scanCashFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_flow table results: %w", err)
		}
		flows = append(flows, cf)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_flow table: %w", err)
	}

	return flows, nil
}

// GetCashFlow retrieves a single cash flow by ID.
// Returns apperrors.ErrCashFlowNotFound if no row matches.
func (r *CashFlowRepository) GetCashFlow(ctx context.Context, cashFlowID string) (model.CashFlow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cashFlowColumns+` FROM cash_flow WHERE id = ?`, cashFlowID)

	cf, err := scanCashFlow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CashFlow{}, apperrors.ErrCashFlowNotFound
		}
		return model.CashFlow{}, fmt.Errorf("failed to get cash flow: %w", err)
	}
	return cf, nil
}

// InsertCashFlow stores a new cash flow.
func (r *CashFlowRepository) InsertCashFlow(ctx context.Context, cf *model.CashFlow) error {
	query := `
		INSERT INTO cash_flow (` + cashFlowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		cf.ID,
		FormatTime(cf.Date),
		cf.Type,
		cf.Currency,
		cf.Amount,
		nullDecimal(cf.FxRate),
		cf.UsdAmount,
		nullString(cf.Notes),
		nullString(cf.FeeType),
		nullString(cf.RelatedTradeID),
		FormatTime(cf.CreatedAt),
		FormatTime(cf.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash flow: %w", err)
	}
	return nil
}

// UpdateCashFlow overwrites every mutable column of an existing cash flow.
// Returns apperrors.ErrCashFlowNotFound if the cash flow does not exist.
func (r *CashFlowRepository) UpdateCashFlow(ctx context.Context, cf *model.CashFlow) error {
	query := `
		UPDATE cash_flow
		SET date = ?, type = ?, currency = ?, amount = ?, fx_rate = ?, usd_amount = ?,
			notes = ?, fee_type = ?, related_trade_id = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		FormatTime(cf.Date),
		cf.Type,
		cf.Currency,
		cf.Amount,
		nullDecimal(cf.FxRate),
		cf.UsdAmount,
		nullString(cf.Notes),
		nullString(cf.FeeType),
		nullString(cf.RelatedTradeID),
		FormatTime(cf.UpdatedAt),
		cf.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash flow: %w", err)
	}
	return rowsAffected(res, apperrors.ErrCashFlowNotFound)
}

// DeleteCashFlow removes a cash flow.
func (r *CashFlowRepository) DeleteCashFlow(ctx context.Context, cashFlowID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cash_flow WHERE id = ?`, cashFlowID)
	if err != nil {
		return fmt.Errorf("failed to delete cash flow: %w", err)
	}
	return rowsAffected(res, apperrors.ErrCashFlowNotFound)
}
