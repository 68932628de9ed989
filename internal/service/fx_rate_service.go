package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
)

// DefaultFxRateSource is recorded when a rate is entered without a source.
const DefaultFxRateSource = "manual"

// FxRateService manages COP per USD rate observations.
type FxRateService struct {
	fxRateRepo *repository.FxRateRepository
}

// NewFxRateService creates a new FxRateService.
func NewFxRateService(fxRateRepo *repository.FxRateRepository) *FxRateService {
	return &FxRateService{fxRateRepo: fxRateRepo}
}

func (s *FxRateService) GetFxRates(ctx context.Context) ([]model.FxRate, error) {
	return s.fxRateRepo.GetFxRates(ctx)
}

// GetLatestFxRate returns the newest rate, or apperrors.ErrFxRateNotFound.
func (s *FxRateService) GetLatestFxRate(ctx context.Context) (model.FxRate, error) {
	return s.fxRateRepo.GetLatestFxRate(ctx)
}

func (s *FxRateService) CreateFxRate(ctx context.Context, req request.CreateFxRateRequest) (*model.FxRate, error) {
	rateDate, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	fx := &model.FxRate{
		ID:        uuid.New().String(),
		Date:      rateDate,
		Rate:      req.Rate,
		Source:    sourceOrDefault(req.Source),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.fxRateRepo.InsertFxRate(ctx, fx); err != nil {
		return nil, fmt.Errorf("failed to create fx rate: %w", err)
	}
	return fx, nil
}

func (s *FxRateService) UpdateFxRate(ctx context.Context, id string, req request.UpdateFxRateRequest) (*model.FxRate, error) {
	fx, err := s.fxRateRepo.GetFxRate(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		d, err := validation.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		fx.Date = d
	}
	if req.Rate != nil {
		fx.Rate = *req.Rate
	}
	if req.Source != nil {
		fx.Source = sourceOrDefault(*req.Source)
	}

	if err := s.fxRateRepo.UpdateFxRate(ctx, &fx); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (s *FxRateService) DeleteFxRate(ctx context.Context, id string) error {
	return s.fxRateRepo.DeleteFxRate(ctx, id)
}

func sourceOrDefault(source string) string {
	if strings.TrimSpace(source) == "" {
		return DefaultFxRateSource
	}
	return strings.TrimSpace(source)
}
