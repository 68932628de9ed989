package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
)

// CashFlowService handles deposit, withdrawal and fee entries. The USD amount
// is fixed at write time from the flow's own FX rate.
type CashFlowService struct {
	cashFlowRepo *repository.CashFlowRepository
	tradeRepo    *repository.TradeRepository
	engine       portfolio.Engine
}

// NewCashFlowService creates a new CashFlowService.
func NewCashFlowService(
	cashFlowRepo *repository.CashFlowRepository,
	tradeRepo *repository.TradeRepository,
	engine portfolio.Engine,
) *CashFlowService {
	return &CashFlowService{
		cashFlowRepo: cashFlowRepo,
		tradeRepo:    tradeRepo,
		engine:       engine,
	}
}

func (s *CashFlowService) GetCashFlows(ctx context.Context, filters request.LedgerFilters) ([]model.CashFlow, error) {
	return s.cashFlowRepo.GetCashFlows(ctx, repository.CashFlowFilter{
		Type:      filters.Type,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	})
}

func (s *CashFlowService) GetCashFlow(ctx context.Context, cashFlowID string) (model.CashFlow, error) {
	return s.cashFlowRepo.GetCashFlow(ctx, cashFlowID)
}

// CreateCashFlow stores a new cash flow. A related trade, when given, must exist.
func (s *CashFlowService) CreateCashFlow(ctx context.Context, req request.CreateCashFlowRequest) (*model.CashFlow, error) {
	flowDate, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cf := &model.CashFlow{
		ID:             uuid.New().String(),
		Date:           flowDate,
		Type:           req.Type,
		Currency:       req.Currency,
		Amount:         req.Amount,
		FxRate:         req.FxRate,
		Notes:          req.Notes,
		FeeType:        emptyToNil(req.FeeType),
		RelatedTradeID: emptyToNil(req.RelatedTradeID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.finalize(ctx, cf); err != nil {
		return nil, err
	}

	if err := s.cashFlowRepo.InsertCashFlow(ctx, cf); err != nil {
		return nil, fmt.Errorf("failed to create cash flow: %w", err)
	}
	return cf, nil
}

// UpdateCashFlow applies the provided fields and recomputes the USD amount.
func (s *CashFlowService) UpdateCashFlow(ctx context.Context, cashFlowID string, req request.UpdateCashFlowRequest) (*model.CashFlow, error) {
	cf, err := s.cashFlowRepo.GetCashFlow(ctx, cashFlowID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		d, err := validation.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		cf.Date = d
	}
	if req.Type != nil {
		cf.Type = *req.Type
	}
	if req.Currency != nil {
		cf.Currency = *req.Currency
	}
	if req.Amount != nil {
		cf.Amount = *req.Amount
	}
	if req.FxRate != nil {
		cf.FxRate = req.FxRate
	}
	if cf.Currency == model.CurrencyUSD {
		cf.FxRate = nil
	}
	if req.Notes != nil {
		cf.Notes = req.Notes
	}
	if req.FeeType != nil {
		cf.FeeType = emptyToNil(req.FeeType)
	}
	if req.RelatedTradeID != nil {
		cf.RelatedTradeID = emptyToNil(req.RelatedTradeID)
	}
	cf.UpdatedAt = time.Now().UTC()

	if err := validation.ValidateMergedCashFlow(cf); err != nil {
		return nil, err
	}
	if err := s.finalize(ctx, &cf); err != nil {
		return nil, err
	}

	if err := s.cashFlowRepo.UpdateCashFlow(ctx, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

func (s *CashFlowService) DeleteCashFlow(ctx context.Context, cashFlowID string) error {
	return s.cashFlowRepo.DeleteCashFlow(ctx, cashFlowID)
}

// finalize derives the USD amount, checks the linked trade and runs the
// engine's own row validation.
func (s *CashFlowService) finalize(ctx context.Context, cf *model.CashFlow) error {
	usd, err := s.engine.UsdAmount(cf.Currency, cf.Amount, cf.FxRate)
	if err != nil {
		return err
	}
	cf.UsdAmount = usd

	if cf.LinkedToTrade() {
		if _, err := s.tradeRepo.GetTrade(ctx, *cf.RelatedTradeID); err != nil {
			if errors.Is(err, apperrors.ErrTradeNotFound) {
				return fmt.Errorf("%w: %s", apperrors.ErrRelatedTradeNotFound, *cf.RelatedTradeID)
			}
			return err
		}
	}

	return portfolio.ValidateCashFlow(*cf)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
