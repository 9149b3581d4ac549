package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

var ErrReservedAccountNumber = errors.New("account number is reserved for a control account")

// accountService manages global accounts and their per-address bindings.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	directory   portsclients.DirectoryClient
	controls    domain.ControlAccounts
}

// NewAccountService creates the account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, directory portsclients.DirectoryClient) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		directory:   directory,
		controls:    domain.DefaultControlAccounts(),
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateGlobalAccount implements portssvc.AccountSvcFacade.
func (s *accountService) CreateGlobalAccount(ctx context.Context, organizationID string, req dto.CreateGlobalAccountRequest, userID string) (*domain.GlobalAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.controls.IsControlNumber(req.AccountNumber) {
		return nil, fmt.Errorf("%w: %w: %d", apperrors.ErrValidation, ErrReservedAccountNumber, req.AccountNumber)
	}
	if req.AccountNumber <= 0 {
		return nil, fmt.Errorf("%w: account number must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.GlobalAccount{
		AccountNumber:         req.AccountNumber,
		OrganizationID:        organizationID,
		Description:           req.Description,
		ValidSalesAccount:     req.ValidSalesAccount,
		ValidPurchasesAccount: req.ValidPurchasesAccount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveGlobalAccount(ctx, account); err != nil {
		logger.Error("Failed to save global account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save global account: %w", err)
	}
	return &account, nil
}

// CreateAddressAccount implements portssvc.AccountSvcFacade.
func (s *accountService) CreateAddressAccount(ctx context.Context, addressID string, req dto.CreateAddressAccountRequest, userID string) (*domain.AddressAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	address, err := s.directory.ResolveAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}

	ok, err := s.directory.ResolveCurrency(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: currency %s does not exist", apperrors.ErrValidation, req.CurrencyCode)
	}

	global, err := s.accountRepo.FindGlobalAccount(ctx, address.OrganizationID, req.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: global account %d: %w", apperrors.ErrValidation, req.AccountNumber, err)
	}

	now := time.Now().UTC()
	account := domain.AddressAccount{
		AddressAccountID: uuid.NewString(),
		AddressID:        addressID,
		AccountNumber:    req.AccountNumber,
		CurrencyCode:     req.CurrencyCode,
		Description:      req.Description,
		IsActive:         true,
		Global:           global,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAddressAccount(ctx, account); err != nil {
		logger.Error("Failed to save address account", slog.String("error", err.Error()), slog.String("address_id", addressID))
		return nil, fmt.Errorf("failed to save address account: %w", err)
	}
	return &account, nil
}

// ListAddressAccounts implements portssvc.AccountSvcFacade.
func (s *accountService) ListAddressAccounts(ctx context.Context, addressID string) ([]domain.AddressAccount, error) {
	accountsMap, err := s.accountRepo.FindAddressAccounts(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to list address accounts: %w", err)
	}
	accounts := make([]domain.AddressAccount, 0, len(accountsMap))
	for _, a := range accountsMap {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountNumber < accounts[j].AccountNumber })
	return accounts, nil
}

func (s *accountService) findOwnedAccount(ctx context.Context, addressID, addressAccountID string) (*domain.AddressAccount, error) {
	accountsMap, err := s.accountRepo.FindAddressAccounts(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address accounts: %w", err)
	}
	for _, a := range accountsMap {
		if a.AddressAccountID == addressAccountID {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// UpdateAddressAccount implements portssvc.AccountSvcFacade.
func (s *accountService) UpdateAddressAccount(ctx context.Context, addressID, addressAccountID string, req dto.UpdateAddressAccountRequest, userID string) (*domain.AddressAccount, error) {
	account, err := s.findOwnedAccount(ctx, addressID, addressAccountID)
	if err != nil {
		return nil, err
	}
	if req.Description == nil {
		return account, nil
	}

	account.Description = *req.Description
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAddressAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update address account: %w", err)
	}
	return account, nil
}

// DeactivateAddressAccount implements portssvc.AccountSvcFacade. Control
// accounts cannot be deactivated; every transaction needs them.
func (s *accountService) DeactivateAddressAccount(ctx context.Context, addressID, addressAccountID, userID string) error {
	account, err := s.findOwnedAccount(ctx, addressID, addressAccountID)
	if err != nil {
		return err
	}
	if s.controls.IsControlNumber(account.AccountNumber) {
		return fmt.Errorf("%w: %w: %d", apperrors.ErrBusinessRule, ErrReservedAccountNumber, account.AccountNumber)
	}
	return s.accountRepo.DeactivateAddressAccount(ctx, addressAccountID, userID)
}
