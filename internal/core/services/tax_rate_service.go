package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

// taxRateService manages per-address tax rates. Percent edits never rewrite
// history: line entries snapshot the percent at creation.
type taxRateService struct {
	taxRepo   portsrepo.TaxRateRepositoryFacade
	directory portsclients.DirectoryClient
}

// NewTaxRateService creates the tax rate service.
func NewTaxRateService(taxRepo portsrepo.TaxRateRepositoryFacade, directory portsclients.DirectoryClient) portssvc.TaxRateSvcFacade {
	return &taxRateService{taxRepo: taxRepo, directory: directory}
}

var _ portssvc.TaxRateSvcFacade = (*taxRateService)(nil)

func validatePercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: tax percent must be between 0 and 100", apperrors.ErrValidation)
	}
	return nil
}

// CreateTaxRate implements portssvc.TaxRateSvcFacade.
func (s *taxRateService) CreateTaxRate(ctx context.Context, addressID string, req dto.CreateTaxRateRequest, userID string) (*domain.TaxRate, error) {
	if _, err := s.directory.ResolveAddress(ctx, addressID); err != nil {
		return nil, err
	}
	if err := validatePercent(req.Percent); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rate := domain.TaxRate{
		TaxRateID:   uuid.NewString(),
		AddressID:   addressID,
		Description: req.Description,
		Percent:     req.Percent,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.taxRepo.SaveTaxRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save tax rate: %w", err)
	}
	return &rate, nil
}

// ListTaxRates implements portssvc.TaxRateSvcFacade.
func (s *taxRateService) ListTaxRates(ctx context.Context, addressID string) ([]domain.TaxRate, error) {
	ratesMap, err := s.taxRepo.FindTaxRatesByAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	rates := make([]domain.TaxRate, 0, len(ratesMap))
	for _, r := range ratesMap {
		rates = append(rates, r)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Description < rates[j].Description })
	return rates, nil
}

func (s *taxRateService) findOwnedRate(ctx context.Context, addressID, taxRateID string) (*domain.TaxRate, error) {
	rate, err := s.taxRepo.FindTaxRateByID(ctx, taxRateID)
	if err != nil {
		return nil, err
	}
	if rate.AddressID != addressID {
		return nil, apperrors.ErrNotFound
	}
	return rate, nil
}

// UpdateTaxRate implements portssvc.TaxRateSvcFacade.
func (s *taxRateService) UpdateTaxRate(ctx context.Context, addressID, taxRateID string, req dto.UpdateTaxRateRequest, userID string) (*domain.TaxRate, error) {
	rate, err := s.findOwnedRate(ctx, addressID, taxRateID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Description != nil {
		rate.Description = *req.Description
		updated = true
	}
	if req.Percent != nil {
		if err := validatePercent(*req.Percent); err != nil {
			return nil, err
		}
		rate.Percent = *req.Percent
		updated = true
	}
	if !updated {
		return rate, nil
	}

	rate.LastUpdatedAt = time.Now().UTC()
	rate.LastUpdatedBy = userID
	if err := s.taxRepo.UpdateTaxRate(ctx, *rate); err != nil {
		return nil, fmt.Errorf("failed to update tax rate: %w", err)
	}
	return rate, nil
}

// DeactivateTaxRate implements portssvc.TaxRateSvcFacade.
func (s *taxRateService) DeactivateTaxRate(ctx context.Context, addressID, taxRateID, userID string) error {
	if _, err := s.findOwnedRate(ctx, addressID, taxRateID); err != nil {
		return err
	}
	return s.taxRepo.DeactivateTaxRate(ctx, taxRateID, userID)
}
