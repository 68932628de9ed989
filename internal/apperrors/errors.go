package apperrors

import "errors"

// Domain entity errors represent missing ledger entities.
var (
	// ErrTradeNotFound indicates that a trade with the given ID does not exist.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrCashFlowNotFound indicates that a cash flow with the given ID does not exist.
	ErrCashFlowNotFound = errors.New("cash flow not found")

	// ErrFxRateNotFound indicates that no FX rate matches the request.
	ErrFxRateNotFound = errors.New("fx rate not found")

	// ErrMarketPriceNotFound indicates that no market price is cached for a ticker.
	ErrMarketPriceNotFound = errors.New("market price not found")

	// ErrRelatedTradeNotFound indicates that a cash flow links to a trade that does not exist.
	ErrRelatedTradeNotFound = errors.New("related trade not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Input errors are raised by the accounting engine when a ledger row is malformed.
// The engine fails fast and names the offending record; the caller decides
// whether to skip it or surface it.
var (
	// ErrInvalidTrade indicates a trade with non-positive quantity, negative price
	// or fee, unknown side, or missing date.
	ErrInvalidTrade = errors.New("invalid trade")

	// ErrInvalidCashFlow indicates a cash flow with an unknown type or currency,
	// a non-positive amount, or a COP entry without a usable FX rate.
	ErrInvalidCashFlow = errors.New("invalid cash flow")

	// ErrInvalidFxRate indicates a non-positive FX rate.
	ErrInvalidFxRate = errors.New("invalid fx rate")
)

// Computation errors.
var (
	// ErrNonConvergence indicates that XIRR did not converge within its bounds.
	// The reported rate is zero in that case.
	ErrNonConvergence = errors.New("xirr did not converge")
)

// Business logic errors represent validation failures.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidStatement indicates a broker statement that could not be parsed.
	ErrInvalidStatement = errors.New("invalid broker statement")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrMissingAPIKey and ErrInvalidAPIKey are returned by the API key middleware.
	ErrMissingAPIKey = errors.New("Missing API key")
	ErrInvalidAPIKey = errors.New("Invalid API key")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data.
var (
	ErrFailedToRetrieveTrades      = errors.New("failed to retrieve trades")
	ErrFailedToRetrieveTrade       = errors.New("failed to retrieve trade")
	ErrFailedToRetrieveCashFlows   = errors.New("failed to retrieve cash flows")
	ErrFailedToRetrieveCashFlow    = errors.New("failed to retrieve cash flow")
	ErrFailedToRetrieveFxRates     = errors.New("failed to retrieve fx rates")
	ErrFailedToRetrieveMarketPrice = errors.New("failed to retrieve market price")
	ErrFailedToRefreshPrices       = errors.New("failed to refresh market prices")
	ErrFailedToLoadLedger          = errors.New("failed to load ledger")
	ErrFailedToComputePortfolio    = errors.New("failed to compute portfolio")
	ErrFailedToRetrieveSnapshots   = errors.New("failed to retrieve snapshots")
	ErrFailedToSaveTrade           = errors.New("failed to save trade")
	ErrFailedToSaveCashFlow        = errors.New("failed to save cash flow")
	ErrFailedToSaveFxRate          = errors.New("failed to save fx rate")
	ErrFailedToSaveMarketPrice     = errors.New("failed to save market price")
	ErrFailedToCreateSnapshot      = errors.New("failed to create snapshot")
	ErrFailedToImport              = errors.New("failed to import statement")
)
