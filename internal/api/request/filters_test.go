package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
)

func TestParseLedgerFilters(t *testing.T) {
	t.Run("no parameters", func(t *testing.T) {
		filters, err := ParseLedgerFilters("", "", "", "")
		require.NoError(t, err)
		assert.Empty(t, filters.Ticker)
		assert.Empty(t, filters.Type)
		assert.Nil(t, filters.StartDate)
		assert.Nil(t, filters.EndDate)
	})

	t.Run("ticker is upper cased", func(t *testing.T) {
		filters, err := ParseLedgerFilters(" aapl ", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", filters.Ticker)
	})

	t.Run("valid type", func(t *testing.T) {
		filters, err := ParseLedgerFilters("", "Deposit", "", "")
		require.NoError(t, err)
		assert.Equal(t, "deposit", filters.Type)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := ParseLedgerFilters("", "dividend", "", "")
		assert.ErrorContains(t, err, "invalid type")
	})

	t.Run("bare end date is inclusive", func(t *testing.T) {
		filters, err := ParseLedgerFilters("", "", "2024-01-01", "2024-01-31")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filters.StartDate)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), *filters.EndDate)
	})

	t.Run("RFC3339 end date is kept as given", func(t *testing.T) {
		filters, err := ParseLedgerFilters("", "", "", "2024-01-31T12:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), *filters.EndDate)
	})

	t.Run("invalid start date", func(t *testing.T) {
		_, err := ParseLedgerFilters("", "", "01/02/2024", "")
		assert.ErrorContains(t, err, "invalid start_date format")
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := ParseLedgerFilters("", "", "2024-02-01", "2024-01-01")
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})
}
