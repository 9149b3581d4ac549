package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/core/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

const (
	testAddressID = "addr-1"
	testOtherID   = "addr-2"
	testUserID    = "user-1"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

type AllocationServiceTestSuite struct {
	suite.Suite
	allocRepo *MockAllocationRepository
	txnRepo   *MockTransactionRepository
	service   portssvc.AllocationSvcFacade
	ctx       context.Context
}

func (s *AllocationServiceTestSuite) SetupTest() {
	s.allocRepo = new(MockAllocationRepository)
	s.txnRepo = new(MockTransactionRepository)
	s.service = services.NewAllocationService(s.allocRepo, s.txnRepo)
	s.ctx = context.Background()
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}

// outstandingTxn builds a transaction header the way the allocation service
// reads it: only ownership, counterparty, type and balance matter.
func outstandingTxn(id string, txnType domain.TxnType, unallocated decimal.Decimal) *domain.Transaction {
	other := testOtherID
	return &domain.Transaction{
		TransactionID:  id,
		AddressID:      testAddressID,
		OtherAddressID: &other,
		TxnType:        txnType,
		Unallocated:    unallocated,
	}
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_Success() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	receipt1 := outstandingTxn("txn-2", domain.CashReceipt, dec("-80"))
	receipt2 := outstandingTxn("txn-3", domain.CashReceipt, dec("-20"))

	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-2").Return(receipt1, nil)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-3").Return(receipt2, nil)
	s.allocRepo.On("SaveAllocation", s.ctx, mock.AnythingOfType("domain.Allocation")).Return(nil)

	req := dto.CreateAllocationRequest{
		Narrative: "Settle March invoice",
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
			{TransactionID: "txn-2", Amount: dec("30")},
			{TransactionID: "txn-3", Amount: dec("20")},
		},
	}

	alloc, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.NoError(err)
	s.Require().NotNil(alloc)
	s.Equal(testAddressID, alloc.AddressID)
	s.Equal(testOtherID, alloc.OtherAddressID)
	s.Len(alloc.Details, 3)
	s.True(alloc.Total().IsZero())
	s.allocRepo.AssertExpectations(s.T())
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_NonZeroSumFails() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	receipt := outstandingTxn("txn-2", domain.CashReceipt, dec("-80"))

	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-2").Return(receipt, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
			{TransactionID: "txn-2", Amount: dec("49.99")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrAllocationNotZero)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
	s.allocRepo.AssertNotCalled(s.T(), "SaveAllocation", mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_SameSignFails() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("50")},
			{TransactionID: "txn-2", Amount: dec("-50")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrAmountSign)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_FullyAllocatedFails() {
	settled := outstandingTxn("txn-1", domain.SaleInvoice, decimal.Zero)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(settled, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-10")},
			{TransactionID: "txn-2", Amount: dec("10")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrAmountSign)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_ExceedsBalanceFails() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50.01")},
			{TransactionID: "txn-2", Amount: dec("50.01")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrAmountExceedsBalance)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_MixedCounterpartiesFail() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	receipt := outstandingTxn("txn-2", domain.CashReceipt, dec("-80"))
	receipt.OtherAddressID = strPtr("addr-3")

	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-2").Return(receipt, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
			{TransactionID: "txn-2", Amount: dec("50")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrMixedCounterparties)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_MixedDirectionsFail() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	purchase := outstandingTxn("txn-2", domain.PurchaseInvoice, dec("-80"))

	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-2").Return(purchase, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
			{TransactionID: "txn-2", Amount: dec("50")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrMixedDirections)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_TooFewEntriesFails() {
	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.txnRepo.AssertNotCalled(s.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_DuplicateTransactionFails() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-20")},
			{TransactionID: "txn-1", Amount: dec("-30")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_OtherTenantTransactionHidden() {
	foreign := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	foreign.AddressID = "addr-9"
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(foreign, nil)

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
			{TransactionID: "txn-2", Amount: dec("50")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_RepoConflictSurfaces() {
	invoice := outstandingTxn("txn-1", domain.SaleInvoice, dec("50"))
	receipt := outstandingTxn("txn-2", domain.CashReceipt, dec("-50"))

	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-1").Return(invoice, nil)
	s.txnRepo.On("FindTransactionByID", s.ctx, "txn-2").Return(receipt, nil)
	s.allocRepo.On("SaveAllocation", s.ctx, mock.AnythingOfType("domain.Allocation")).
		Return(fmt.Errorf("%w: balance consumed concurrently", apperrors.ErrConflict))

	req := dto.CreateAllocationRequest{
		Entries: []dto.AllocationEntryRequest{
			{TransactionID: "txn-1", Amount: dec("-50")},
			{TransactionID: "txn-2", Amount: dec("50")},
		},
	}

	_, err := s.service.CreateAllocation(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *AllocationServiceTestSuite) TestGetAllocation_WrongAddressHidden() {
	alloc := &domain.Allocation{AllocationID: "alloc-1", AddressID: "addr-9"}
	s.allocRepo.On("FindAllocationByID", s.ctx, "alloc-1").Return(alloc, nil)

	_, err := s.service.GetAllocation(s.ctx, testAddressID, "alloc-1")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AllocationServiceTestSuite) TestDeleteAllocation_Success() {
	alloc := &domain.Allocation{AllocationID: "alloc-1", AddressID: testAddressID}
	s.allocRepo.On("FindAllocationByID", s.ctx, "alloc-1").Return(alloc, nil)
	s.allocRepo.On("DeleteAllocation", s.ctx, "alloc-1").Return(nil)

	err := s.service.DeleteAllocation(s.ctx, testAddressID, "alloc-1", testUserID)

	s.NoError(err)
	s.allocRepo.AssertExpectations(s.T())
}

func TestAllocationTotalsZeroAfterBuild(t *testing.T) {
	alloc := domain.Allocation{
		Details: []domain.AllocationDetail{
			{Amount: dec("-50")},
			{Amount: dec("30")},
			{Amount: dec("20")},
		},
	}
	assert.True(t, alloc.Total().IsZero())
}
