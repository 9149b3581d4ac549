package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
	"github.com/openbooks/bookkeeping_backend/internal/utils/accounting"
)

var (
	ErrPeriodClosed      = errors.New("transaction date falls on or before the latest checkpoint")
	ErrAlreadyContraed   = errors.New("source transaction already has a contra")
	ErrNotCounterparty   = errors.New("caller is not the counterparty of the source transaction")
	ErrTypeNotContraable = errors.New("transaction type cannot be mirrored")
	ErrTransactionLocked = errors.New("transaction is locked by a contra or checkpoint")
)

// transactionService funnels every transaction type through the same
// pipeline: price and tax the lines, balance them against the type's control
// account, persist atomically, then notify the counterparty.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
	taxRepo     portsrepo.TaxRateReader
	directory   portsclients.DirectoryClient
	reporting   portsclients.ReportingClient
	notifier    portsclients.Notifier
	controls    domain.ControlAccounts
}

// NewTransactionService creates the transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	taxRepo portsrepo.TaxRateReader,
	directory portsclients.DirectoryClient,
	reporting portsclients.ReportingClient,
	notifier portsclients.Notifier,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		taxRepo:     taxRepo,
		directory:   directory,
		reporting:   reporting,
		notifier:    notifier,
		controls:    domain.DefaultControlAccounts(),
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// guardCheckpoint rejects writes dated on or before the address's latest
// checkpoint. The repository re-verifies this inside its own transaction;
// this early check exists to fail fast with a clean error.
func (s *transactionService) guardCheckpoint(ctx context.Context, addressID string, date time.Time) error {
	latest, err := s.txnRepo.LatestCheckpointDate(ctx, addressID)
	if err != nil {
		return fmt.Errorf("failed to read latest checkpoint: %w", err)
	}
	if latest != nil && !date.After(*latest) {
		return fmt.Errorf("%w: %s is on or before checkpoint %s: %w",
			apperrors.ErrBusinessRule, date.Format("2006-01-02"), latest.Format("2006-01-02"), ErrPeriodClosed)
	}
	return nil
}

func (s *transactionService) validateReferences(ctx context.Context, addressID string, txnType domain.TxnType, otherAddressID, reportTemplateID *string) error {
	if _, err := s.directory.ResolveAddress(ctx, addressID); err != nil {
		return err
	}
	if otherAddressID != nil {
		if _, err := s.directory.ResolveAddress(ctx, *otherAddressID); err != nil {
			return err
		}
	}
	if reportTemplateID != nil {
		if err := s.reporting.ValidateTemplate(ctx, *reportTemplateID, txnType); err != nil {
			return err
		}
	}
	return nil
}

// CreateTransaction implements portssvc.TransactionSvcFacade.
func (s *transactionService) CreateTransaction(ctx context.Context, addressID string, txnType domain.TxnType, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !txnType.IsValid() || txnType == domain.JournalEntry {
		return nil, fmt.Errorf("%w: unsupported transaction type %q", apperrors.ErrValidation, txnType)
	}

	if err := s.validateReferences(ctx, addressID, txnType, req.OtherAddressID, req.ReportTemplateID); err != nil {
		return nil, err
	}

	if err := s.guardCheckpoint(ctx, addressID, req.Date); err != nil {
		return nil, err
	}

	rates, err := s.taxRepo.FindTaxRatesByAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax rates: %w", err)
	}
	accounts, err := s.accountRepo.FindAddressAccounts(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address accounts: %w", err)
	}

	computed, err := accounting.ComputeLines(txnType, req.ToRawLines(), rates, accounts, s.controls)
	if err != nil {
		return nil, err
	}
	set := accounting.Balance(txnType, computed, s.controls)

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		AddressID:        addressID,
		OtherAddressID:   req.OtherAddressID,
		TxnType:          txnType,
		TransactionDate:  req.Date,
		Narrative:        req.Narrative,
		ReportTemplateID: req.ReportTemplateID,
		Unallocated:      accounting.InitialUnallocated(txnType, set.Total),
		Debits:           set.Debits,
		Credits:          set.Credits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	accounting.StampAudit(txn.Debits, txn.TransactionID, userID, now)
	accounting.StampAudit(txn.Credits, txn.TransactionID, userID, now)

	if !txn.Balanced() {
		// The balancer makes this impossible; reaching here means corruption.
		return nil, fmt.Errorf("%w: debit total %s != credit total %s",
			apperrors.ErrIntegrity, txn.DebitTotal().String(), txn.CreditTotal().String())
	}

	if err := s.txnRepo.SaveTransaction(ctx, &txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("address_id", addressID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("txn_type", string(txnType)),
		slog.Int64("tsn", txn.TSN))

	s.dispatchNotification(ctx, &txn)
	return &txn, nil
}

// CreateContra implements portssvc.TransactionSvcFacade. addressID is the
// counterparty reacting to an already-posted transaction.
func (s *transactionService) CreateContra(ctx context.Context, addressID string, req dto.CreateContraRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.txnRepo.FindTransactionByID(ctx, req.SourceTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find source transaction %s: %w", req.SourceTransactionID, err)
	}
	if source.IsDeleted {
		return nil, fmt.Errorf("%w: source transaction is deleted", apperrors.ErrValidation)
	}
	if source.OtherAddressID == nil || *source.OtherAddressID != addressID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrNotCounterparty)
	}
	if source.HasContra() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrAlreadyContraed)
	}

	contraType, ok := source.TxnType.ContraType()
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", apperrors.ErrBusinessRule, ErrTypeNotContraable, source.TxnType)
	}

	if err := s.validateReferences(ctx, addressID, contraType, &source.AddressID, req.ReportTemplateID); err != nil {
		return nil, err
	}
	if err := s.guardCheckpoint(ctx, addressID, req.Date); err != nil {
		return nil, err
	}

	rates, err := s.taxRepo.FindTaxRatesByAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax rates: %w", err)
	}
	accounts, err := s.accountRepo.FindAddressAccounts(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address accounts: %w", err)
	}

	matched, err := accounting.MatchContraLines(source.GoodsLines(s.controls), req.ToContraLines(), rates)
	if err != nil {
		return nil, err
	}

	// The matched set is re-priced in the caller's context: conversion uses
	// the caller's exchange rates, VAT is recomputed from the caller's tax
	// rates, independent of the source's VAT line.
	computed, err := accounting.ComputeLines(contraType, accounting.ContraRawLines(matched), rates, accounts, s.controls)
	if err != nil {
		return nil, err
	}
	set := accounting.Balance(contraType, computed, s.controls)

	now := time.Now().UTC()
	contra := domain.Transaction{
		TransactionID:    uuid.NewString(),
		AddressID:        addressID,
		OtherAddressID:   &source.AddressID,
		TxnType:          contraType,
		TransactionDate:  req.Date,
		Narrative:        req.Narrative,
		ReportTemplateID: req.ReportTemplateID,
		Unallocated:      accounting.InitialUnallocated(contraType, set.Total),
		Debits:           set.Debits,
		Credits:          set.Credits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	accounting.StampAudit(contra.Debits, contra.TransactionID, userID, now)
	accounting.StampAudit(contra.Credits, contra.TransactionID, userID, now)

	if err := s.txnRepo.SaveContraTransaction(ctx, source.TransactionID, &contra); err != nil {
		logger.Error("Failed to save contra transaction", slog.String("error", err.Error()), slog.String("source_id", source.TransactionID))
		return nil, fmt.Errorf("failed to save contra transaction: %w", err)
	}

	logger.Info("Contra transaction created",
		slog.String("transaction_id", contra.TransactionID),
		slog.String("source_id", source.TransactionID),
		slog.Int64("tsn", contra.TSN))

	s.dispatchNotification(ctx, &contra)
	return &contra, nil
}

// dispatchNotification sends the persisted transaction to the counterparty,
// fire-and-forget. Failures are logged and never affect the financial write.
func (s *transactionService) dispatchNotification(ctx context.Context, txn *domain.Transaction) {
	if s.notifier == nil || txn.OtherAddressID == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	detached := context.WithoutCancel(ctx)
	txnCopy := *txn
	otherID := *txn.OtherAddressID

	go func() {
		counterparty, err := s.directory.ResolveAddress(detached, otherID)
		if err != nil {
			logger.Warn("Counterparty lookup failed for notification", slog.String("error", err.Error()))
			return
		}
		if err := s.notifier.NotifyTransaction(detached, *counterparty, txnCopy); err != nil {
			logger.Warn("Transaction notification failed",
				slog.String("transaction_id", txnCopy.TransactionID),
				slog.String("error", err.Error()))
		}
	}()
}

// GetTransaction implements portssvc.TransactionSvcFacade.
func (s *transactionService) GetTransaction(ctx context.Context, addressID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.AddressID != addressID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// GetTransactionByTSN implements portssvc.TransactionSvcFacade.
func (s *transactionService) GetTransactionByTSN(ctx context.Context, addressID string, txnType domain.TxnType, tsn int64) (*domain.Transaction, error) {
	if !txnType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txnType)
	}
	return s.txnRepo.FindTransactionByTSN(ctx, addressID, txnType, tsn)
}

// ListTransactions implements portssvc.TransactionSvcFacade.
func (s *transactionService) ListTransactions(ctx context.Context, addressID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.TransactionFilter{
		OtherAddressID: params.OtherAddressID,
		DateFrom:       params.DateFrom,
		DateTo:         params.DateTo,
	}
	if params.TxnType != nil {
		t := domain.TxnType(*params.TxnType)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, *params.TxnType)
		}
		filter.TxnType = &t
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, addressID, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ListOutstanding implements portssvc.TransactionSvcFacade.
func (s *transactionService) ListOutstanding(ctx context.Context, addressID, otherAddressID string, sales bool) ([]dto.TransactionResponse, error) {
	txns, err := s.txnRepo.ListOutstanding(ctx, addressID, otherAddressID, sales)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding transactions: %w", err)
	}
	return dto.ToTransactionResponses(txns), nil
}

// UpdateTransaction implements portssvc.TransactionSvcFacade. Only
// non-financial metadata may change, and only while the transaction is
// neither contra'd nor closed by a checkpoint.
func (s *transactionService) UpdateTransaction(ctx context.Context, addressID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, addressID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.HasContra() || txn.Closed() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrTransactionLocked)
	}

	updated := false
	if req.Narrative != nil {
		txn.Narrative = *req.Narrative
		updated = true
	}
	if req.ReportTemplateID != nil {
		if err := s.reporting.ValidateTemplate(ctx, *req.ReportTemplateID, txn.TxnType); err != nil {
			return nil, err
		}
		txn.ReportTemplateID = req.ReportTemplateID
		updated = true
	}
	if !updated {
		return txn, nil
	}

	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionNarrative(ctx, txn.TransactionID, txn.Narrative, txn.ReportTemplateID, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID
	return txn, nil
}

// DeleteTransaction implements portssvc.TransactionSvcFacade. Soft mark only.
func (s *transactionService) DeleteTransaction(ctx context.Context, addressID, transactionID, userID string) error {
	txn, err := s.GetTransaction(ctx, addressID, transactionID)
	if err != nil {
		return err
	}
	if txn.HasContra() || txn.Closed() {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrTransactionLocked)
	}
	if !txn.Unallocated.Equal(accounting.InitialUnallocated(txn.TxnType, txn.DebitTotal())) {
		return fmt.Errorf("%w: transaction has allocations applied", apperrors.ErrConflict)
	}
	return s.txnRepo.MarkTransactionDeleted(ctx, transactionID, userID, time.Now().UTC())
}
