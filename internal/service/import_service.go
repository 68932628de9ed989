package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/ibkr"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
)

// ImportService loads IBKR Flex statements into the ledger. Row IDs are
// derived from the broker's transaction IDs, so re-importing a statement only
// adds what is new.
type ImportService struct {
	tradeRepo    *repository.TradeRepository
	cashFlowRepo *repository.CashFlowRepository
	fxRateRepo   *repository.FxRateRepository
	engine       portfolio.Engine
	client       ibkr.Client
	token        string
	queryID      int
	log          zerolog.Logger
}

// NewImportService creates a new ImportService. client may be nil when only
// uploaded statements are imported.
func NewImportService(
	tradeRepo *repository.TradeRepository,
	cashFlowRepo *repository.CashFlowRepository,
	fxRateRepo *repository.FxRateRepository,
	engine portfolio.Engine,
	client ibkr.Client,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		tradeRepo:    tradeRepo,
		cashFlowRepo: cashFlowRepo,
		fxRateRepo:   fxRateRepo,
		engine:       engine,
		client:       client,
		log:          log.With().Str("service", "import").Logger(),
	}
}

// WithFlexQuery sets the Flex Web Service credentials used by SyncIBKR.
func (s *ImportService) WithFlexQuery(token string, queryID int) *ImportService {
	s.token = token
	s.queryID = queryID
	return s
}

// SyncIBKR downloads the configured Flex statement and imports it.
func (s *ImportService) SyncIBKR(ctx context.Context) (model.ImportResult, error) {
	if s.client == nil {
		return model.ImportResult{}, ibkr.ErrMissingCredentials
	}
	data, err := s.client.FetchStatement(ctx, s.token, s.queryID)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("fetch flex statement: %w", err)
	}
	return s.ImportStatement(ctx, data)
}

// ImportStatement parses a Flex statement and inserts the rows that are not
// in the ledger yet. Trades go in before fee flows that link to them.
func (s *ImportService) ImportStatement(ctx context.Context, data []byte) (model.ImportResult, error) {
	stmt, err := ibkr.ParseStatement(data)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidStatement, err)
	}
	batch := ibkr.ToLedger(stmt)

	result := model.ImportResult{Skipped: batch.Skipped}
	if result.Skipped == nil {
		result.Skipped = []model.SkippedRow{}
	}
	now := time.Now().UTC()

	for _, fx := range batch.FxRates {
		_, err := s.fxRateRepo.GetFxRate(ctx, fx.ID)
		switch {
		case err == nil:
			result.Duplicates++
			continue
		case !errors.Is(err, apperrors.ErrFxRateNotFound):
			return result, err
		}
		fx.CreatedAt = now
		if err := s.fxRateRepo.InsertFxRate(ctx, &fx); err != nil {
			return result, err
		}
		result.FxRatesImported++
	}

	for _, t := range batch.Trades {
		_, err := s.tradeRepo.GetTrade(ctx, t.ID)
		switch {
		case err == nil:
			result.Duplicates++
			continue
		case !errors.Is(err, apperrors.ErrTradeNotFound):
			return result, err
		}

		t.Total = s.engine.TradeTotal(t.Side, t.Quantity, t.Price, t.Fee)
		t.CreatedAt, t.UpdatedAt = now, now
		if err := portfolio.ValidateTrade(t); err != nil {
			result.Skipped = append(result.Skipped, model.SkippedRow{Kind: "trade", SourceID: t.ID, Reason: err.Error()})
			continue
		}
		if err := s.tradeRepo.InsertTrade(ctx, &t); err != nil {
			return result, err
		}
		result.TradesImported++
	}

	for _, cf := range batch.CashFlows {
		_, err := s.cashFlowRepo.GetCashFlow(ctx, cf.ID)
		switch {
		case err == nil:
			result.Duplicates++
			continue
		case !errors.Is(err, apperrors.ErrCashFlowNotFound):
			return result, err
		}

		if cf.LinkedToTrade() {
			if _, err := s.tradeRepo.GetTrade(ctx, *cf.RelatedTradeID); err != nil {
				result.Skipped = append(result.Skipped, model.SkippedRow{Kind: "cash_flow", SourceID: cf.ID, Reason: "related trade was not imported"})
				continue
			}
		}

		usd, err := s.engine.UsdAmount(cf.Currency, cf.Amount, cf.FxRate)
		if err != nil {
			result.Skipped = append(result.Skipped, model.SkippedRow{Kind: "cash_flow", SourceID: cf.ID, Reason: err.Error()})
			continue
		}
		cf.UsdAmount = usd
		cf.CreatedAt, cf.UpdatedAt = now, now
		if err := s.cashFlowRepo.InsertCashFlow(ctx, &cf); err != nil {
			return result, err
		}
		result.CashFlowsImported++
	}

	s.log.Info().
		Int("trades", result.TradesImported).
		Int("cash_flows", result.CashFlowsImported).
		Int("fx_rates", result.FxRatesImported).
		Int("duplicates", result.Duplicates).
		Int("skipped", len(result.Skipped)).
		Msg("Flex statement imported")

	return result, nil
}
