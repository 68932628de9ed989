package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// MarketPriceRepository provides data access methods for the market_price cache.
type MarketPriceRepository struct {
	db *sql.DB
}

// NewMarketPriceRepository creates a new MarketPriceRepository with the provided database connection.
func NewMarketPriceRepository(db *sql.DB) *MarketPriceRepository {
	return &MarketPriceRepository{db: db}
}

func scanMarketPrice(s rowScanner) (model.MarketPrice, error) {
	var mp model.MarketPrice
	var updatedAtStr string

	if err := s.Scan(&mp.Ticker, &mp.Price, &mp.Currency, &updatedAtStr); err != nil {
		return model.MarketPrice{}, err
	}

	var err error
	if mp.UpdatedAt, err = parseRequiredTime(updatedAtStr, "updated_at"); err != nil {
		return model.MarketPrice{}, err
	}
	return mp, nil
}

// GetMarketPrices retrieves every cached price, ordered by ticker.
func (r *MarketPriceRepository) GetMarketPrices(ctx context.Context) ([]model.MarketPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ticker, price, currency, updated_at
		FROM market_price
		ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query market_price table: %w", err)
	}
	defer rows.Close()

	prices := []model.MarketPrice{}
	for rows.Next() {
		mp, err := scanMarketPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market_price table results: %w", err)
		}
		prices = append(prices, mp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market_price table: %w", err)
	}

	return prices, nil
}

// GetMarketPrice retrieves the cached price for a ticker.
// Returns apperrors.ErrMarketPriceNotFound when the ticker has no price.
func (r *MarketPriceRepository) GetMarketPrice(ctx context.Context, ticker string) (model.MarketPrice, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT ticker, price, currency, updated_at
		FROM market_price
		WHERE ticker = ?
	`, ticker)

	mp, err := scanMarketPrice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MarketPrice{}, apperrors.ErrMarketPriceNotFound
		}
		return model.MarketPrice{}, fmt.Errorf("failed to get market price: %w", err)
	}
	return mp, nil
}

// UpsertMarketPrice inserts or replaces the cached price for a ticker.
func (r *MarketPriceRepository) UpsertMarketPrice(ctx context.Context, mp *model.MarketPrice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO market_price (ticker, price, currency, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (ticker) DO UPDATE SET
			price = excluded.price,
			currency = excluded.currency,
			updated_at = excluded.updated_at
	`, mp.Ticker, mp.Price, mp.Currency, FormatTime(mp.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert market price: %w", err)
	}
	return nil
}
