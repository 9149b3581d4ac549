package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsrepo "github.com/openbooks/bookkeeping_backend/internal/core/ports/repositories"
)

// MockTransactionRepository is a mock for portsrepo.TransactionRepositoryFacade.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByTSN(ctx context.Context, addressID string, txnType domain.TxnType, tsn int64) (*domain.Transaction, error) {
	args := m.Called(ctx, addressID, txnType, tsn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, addressID string, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, addressID, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) ListOutstanding(ctx context.Context, addressID, otherAddressID string, sales bool) ([]domain.Transaction, error) {
	args := m.Called(ctx, addressID, otherAddressID, sales)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) LatestCheckpointDate(ctx context.Context, addressID string) (*time.Time, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveContraTransaction(ctx context.Context, sourceTransactionID string, contra *domain.Transaction) error {
	args := m.Called(ctx, sourceTransactionID, contra)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionNarrative(ctx context.Context, transactionID, narrative string, reportTemplateID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, narrative, reportTemplateID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkTransactionDeleted(ctx context.Context, transactionID, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, updatedBy, updatedAt)
	return args.Error(0)
}

// MockAllocationRepository is a mock for portsrepo.AllocationRepositoryFacade.
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.Allocation, error) {
	args := m.Called(ctx, allocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocations(ctx context.Context, addressID string, limit int, nextToken *string) ([]domain.Allocation, *string, error) {
	args := m.Called(ctx, addressID, limit, nextToken)
	var allocs []domain.Allocation
	if args.Get(0) != nil {
		allocs = args.Get(0).([]domain.Allocation)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return allocs, next, args.Error(2)
}

func (m *MockAllocationRepository) SaveAllocation(ctx context.Context, allocation domain.Allocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) DeleteAllocation(ctx context.Context, allocationID string) error {
	args := m.Called(ctx, allocationID)
	return args.Error(0)
}

// MockCheckpointRepository is a mock for portsrepo.CheckpointRepositoryFacade.
type MockCheckpointRepository struct {
	mock.Mock
}

func (m *MockCheckpointRepository) FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error) {
	args := m.Called(ctx, checkpointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkpoint), args.Error(1)
}

func (m *MockCheckpointRepository) FindLatestCheckpoint(ctx context.Context, addressID string) (*domain.Checkpoint, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkpoint), args.Error(1)
}

func (m *MockCheckpointRepository) ListCheckpoints(ctx context.Context, addressID string) ([]domain.Checkpoint, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Checkpoint), args.Error(1)
}

func (m *MockCheckpointRepository) CreateCheckpoint(ctx context.Context, checkpoint *domain.Checkpoint) error {
	args := m.Called(ctx, checkpoint)
	return args.Error(0)
}

func (m *MockCheckpointRepository) DeleteCheckpoint(ctx context.Context, checkpointID string) error {
	args := m.Called(ctx, checkpointID)
	return args.Error(0)
}

// MockAccountRepository is a mock for portsrepo.AccountRepositoryFacade.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAddressAccounts(ctx context.Context, addressID string) (map[int64]domain.AddressAccount, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.AddressAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAddressAccountByNumber(ctx context.Context, addressID string, accountNumber int64) (*domain.AddressAccount, error) {
	args := m.Called(ctx, addressID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AddressAccount), args.Error(1)
}

func (m *MockAccountRepository) FindGlobalAccount(ctx context.Context, organizationID string, accountNumber int64) (*domain.GlobalAccount, error) {
	args := m.Called(ctx, organizationID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalAccount), args.Error(1)
}

func (m *MockAccountRepository) SaveGlobalAccount(ctx context.Context, account domain.GlobalAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAddressAccount(ctx context.Context, account domain.AddressAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAddressAccount(ctx context.Context, account domain.AddressAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAddressAccount(ctx context.Context, addressAccountID, updatedBy string) error {
	args := m.Called(ctx, addressAccountID, updatedBy)
	return args.Error(0)
}

// MockTaxRateRepository is a mock for portsrepo.TaxRateRepositoryFacade.
type MockTaxRateRepository struct {
	mock.Mock
}

func (m *MockTaxRateRepository) FindTaxRatesByAddress(ctx context.Context, addressID string) (map[string]domain.TaxRate, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, taxRateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockTaxRateRepository) UpdateTaxRate(ctx context.Context, rate domain.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockTaxRateRepository) DeactivateTaxRate(ctx context.Context, taxRateID, updatedBy string) error {
	args := m.Called(ctx, taxRateID, updatedBy)
	return args.Error(0)
}

// MockAPITokenRepository is a mock for portsrepo.APITokenRepositoryFacade.
type MockAPITokenRepository struct {
	mock.Mock
}

func (m *MockAPITokenRepository) SaveAPIToken(ctx context.Context, token domain.APIToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAPITokenRepository) FindAPITokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) ListAPITokensByAddress(ctx context.Context, addressID string) ([]domain.APIToken, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) TouchAPIToken(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *MockAPITokenRepository) RevokeAPIToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockDirectoryClient is a mock for portsclients.DirectoryClient.
type MockDirectoryClient struct {
	mock.Mock
}

func (m *MockDirectoryClient) ResolveAddress(ctx context.Context, addressID string) (*domain.Address, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockDirectoryClient) ResolveCurrency(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockReportingClient is a mock for portsclients.ReportingClient.
type MockReportingClient struct {
	mock.Mock
}

func (m *MockReportingClient) ValidateTemplate(ctx context.Context, templateID string, txnType domain.TxnType) error {
	args := m.Called(ctx, templateID, txnType)
	return args.Error(0)
}

// MockNotifier is a mock for portsclients.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyTransaction(ctx context.Context, counterparty domain.Address, txn domain.Transaction) error {
	args := m.Called(ctx, counterparty, txn)
	return args.Error(0)
}
