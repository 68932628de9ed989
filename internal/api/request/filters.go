package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// LedgerFilters holds the optional query parameters shared by the ledger and
// analytics listings.
type LedgerFilters struct {
	Ticker    string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

var validCashFlowTypes = map[string]bool{
	model.CashFlowDeposit:    true,
	model.CashFlowWithdrawal: true,
	model.CashFlowFee:        true,
}

// ParseLedgerFilters validates the ticker, type, start_date and end_date query
// parameters. All are optional. end_date is inclusive: a bare date is moved to
// the last instant of that day.
func ParseLedgerFilters(tickerParam, typeParam, startDateParam, endDateParam string) (*LedgerFilters, error) {
	filters := &LedgerFilters{
		Ticker: strings.ToUpper(strings.TrimSpace(tickerParam)),
	}

	if typeParam != "" {
		t := strings.ToLower(strings.TrimSpace(typeParam))
		if !validCashFlowTypes[t] {
			return nil, fmt.Errorf("invalid type: %s", typeParam)
		}
		filters.Type = t
	}

	if startDateParam != "" {
		startTime, err := parseFilterTime(startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date format: %w", err)
		}
		filters.StartDate = &startTime
	}

	if endDateParam != "" {
		endTime, err := parseFilterTime(endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date format: %w", err)
		}
		if len(endDateParam) == len("2006-01-02") {
			endTime = endTime.Add(24*time.Hour - time.Second)
		}
		filters.EndDate = &endTime
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("%w: start_date must not be after end_date", apperrors.ErrInvalidDateRange)
	}

	return filters, nil
}

// parseFilterTime accepts YYYY-MM-DD, RFC3339, and RFC3339 with milliseconds.
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
