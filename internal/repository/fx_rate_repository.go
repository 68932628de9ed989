package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// FxRateRepository provides data access methods for the fx_rate table.
type FxRateRepository struct {
	db *sql.DB
}

// NewFxRateRepository creates a new FxRateRepository with the provided database connection.
func NewFxRateRepository(db *sql.DB) *FxRateRepository {
	return &FxRateRepository{db: db}
}

func scanFxRate(s rowScanner) (model.FxRate, error) {
	var fx model.FxRate
	var dateStr, createdAtStr string

	if err := s.Scan(&fx.ID, &dateStr, &fx.Rate, &fx.Source, &createdAtStr); err != nil {
		return model.FxRate{}, err
	}

	var err error
	if fx.Date, err = parseRequiredTime(dateStr, "date"); err != nil {
		return model.FxRate{}, err
	}
	if fx.CreatedAt, err = parseRequiredTime(createdAtStr, "created_at"); err != nil {
		return model.FxRate{}, err
	}
	return fx, nil
}

// GetFxRates retrieves all FX rates, newest first.
func (r *FxRateRepository) GetFxRates(ctx context.Context) ([]model.FxRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, rate, source, created_at
		FROM fx_rate
		ORDER BY date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx_rate table: %w", err)
	}
	defer rows.Close()

	rates := []model.FxRate{}
	for rows.Next() {
		fx, err := scanFxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fx_rate table results: %w", err)
		}
		rates = append(rates, fx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fx_rate table: %w", err)
	}

	return rates, nil
}

// GetFxRate retrieves a single FX rate by ID.
func (r *FxRateRepository) GetFxRate(ctx context.Context, id string) (model.FxRate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, date, rate, source, created_at FROM fx_rate WHERE id = ?`, id)
	fx, err := scanFxRate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FxRate{}, apperrors.ErrFxRateNotFound
		}
		return model.FxRate{}, fmt.Errorf("failed to get fx rate: %w", err)
	}
	return fx, nil
}

// GetLatestFxRate retrieves the most recent FX rate.
// Returns apperrors.ErrFxRateNotFound when no rate has been recorded.
func (r *FxRateRepository) GetLatestFxRate(ctx context.Context) (model.FxRate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, rate, source, created_at
		FROM fx_rate
		ORDER BY date DESC, created_at DESC
		LIMIT 1
	`)
	fx, err := scanFxRate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FxRate{}, apperrors.ErrFxRateNotFound
		}
		return model.FxRate{}, fmt.Errorf("failed to get latest fx rate: %w", err)
	}
	return fx, nil
}

// InsertFxRate stores a new FX rate.
func (r *FxRateRepository) InsertFxRate(ctx context.Context, fx *model.FxRate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fx_rate (id, date, rate, source, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, fx.ID, FormatTime(fx.Date), fx.Rate, fx.Source, FormatTime(fx.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert fx rate: %w", err)
	}
	return nil
}

// UpdateFxRate overwrites the date, rate and source of an existing FX rate.
func (r *FxRateRepository) UpdateFxRate(ctx context.Context, fx *model.FxRate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE fx_rate SET date = ?, rate = ?, source = ? WHERE id = ?
	`, FormatTime(fx.Date), fx.Rate, fx.Source, fx.ID)
	if err != nil {
		return fmt.Errorf("failed to update fx rate: %w", err)
	}
	return rowsAffected(res, apperrors.ErrFxRateNotFound)
}

// DeleteFxRate removes an FX rate.
func (r *FxRateRepository) DeleteFxRate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fx_rate WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fx rate: %w", err)
	}
	return rowsAffected(res, apperrors.ErrFxRateNotFound)
}
