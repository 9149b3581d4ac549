package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/core/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	directory   *MockDirectoryClient
	service     portssvc.AccountSvcFacade
	ctx         context.Context
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.accountRepo = new(MockAccountRepository)
	s.directory = new(MockDirectoryClient)
	s.service = services.NewAccountService(s.accountRepo, s.directory)
	s.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestCreateGlobalAccount_Success() {
	s.accountRepo.On("SaveGlobalAccount", s.ctx, mock.AnythingOfType("domain.GlobalAccount")).Return(nil)

	req := dto.CreateGlobalAccountRequest{
		AccountNumber:     4000,
		Description:       "Sales revenue",
		ValidSalesAccount: true,
	}
	account, err := s.service.CreateGlobalAccount(s.ctx, "org-1", req, testUserID)

	s.NoError(err)
	s.Require().NotNil(account)
	s.Equal(int64(4000), account.AccountNumber)
	s.Equal("org-1", account.OrganizationID)
	s.True(account.ValidSalesAccount)
	s.accountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateGlobalAccount_ReservedNumberRejected() {
	req := dto.CreateGlobalAccountRequest{
		AccountNumber: domain.SuspenseAccountNumber,
		Description:   "Suspense lookalike",
	}
	_, err := s.service.CreateGlobalAccount(s.ctx, "org-1", req, testUserID)

	s.ErrorIs(err, services.ErrReservedAccountNumber)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.accountRepo.AssertNotCalled(s.T(), "SaveGlobalAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateGlobalAccount_DuplicateSurfaces() {
	s.accountRepo.On("SaveGlobalAccount", s.ctx, mock.AnythingOfType("domain.GlobalAccount")).
		Return(apperrors.ErrDuplicate)

	req := dto.CreateGlobalAccountRequest{AccountNumber: 4000, Description: "Sales revenue"}
	_, err := s.service.CreateGlobalAccount(s.ctx, "org-1", req, testUserID)

	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestCreateAddressAccount_Success() {
	address := &domain.Address{AddressID: testAddressID, OrganizationID: "org-1", CurrencyCode: "EUR", IsActive: true}
	global := &domain.GlobalAccount{AccountNumber: 4000, OrganizationID: "org-1", ValidSalesAccount: true}

	s.directory.On("ResolveAddress", s.ctx, testAddressID).Return(address, nil)
	s.directory.On("ResolveCurrency", s.ctx, "EUR").Return(true, nil)
	s.accountRepo.On("FindGlobalAccount", s.ctx, "org-1", int64(4000)).Return(global, nil)
	s.accountRepo.On("SaveAddressAccount", s.ctx, mock.AnythingOfType("domain.AddressAccount")).Return(nil)

	req := dto.CreateAddressAccountRequest{AccountNumber: 4000, CurrencyCode: "EUR"}
	account, err := s.service.CreateAddressAccount(s.ctx, testAddressID, req, testUserID)

	s.NoError(err)
	s.Require().NotNil(account)
	s.Equal(testAddressID, account.AddressID)
	s.True(account.IsActive)
	s.Require().NotNil(account.Global)
	s.True(account.Global.ValidSalesAccount)
	s.accountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAddressAccount_UnknownCurrencyRejected() {
	address := &domain.Address{AddressID: testAddressID, OrganizationID: "org-1", IsActive: true}
	s.directory.On("ResolveAddress", s.ctx, testAddressID).Return(address, nil)
	s.directory.On("ResolveCurrency", s.ctx, "XXX").Return(false, nil)

	req := dto.CreateAddressAccountRequest{AccountNumber: 4000, CurrencyCode: "XXX"}
	_, err := s.service.CreateAddressAccount(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestCreateAddressAccount_UnknownGlobalRejected() {
	address := &domain.Address{AddressID: testAddressID, OrganizationID: "org-1", IsActive: true}
	s.directory.On("ResolveAddress", s.ctx, testAddressID).Return(address, nil)
	s.directory.On("ResolveCurrency", s.ctx, "EUR").Return(true, nil)
	s.accountRepo.On("FindGlobalAccount", s.ctx, "org-1", int64(4100)).Return(nil, apperrors.ErrNotFound)

	req := dto.CreateAddressAccountRequest{AccountNumber: 4100, CurrencyCode: "EUR"}
	_, err := s.service.CreateAddressAccount(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestListAddressAccounts_SortedByNumber() {
	accounts := fixtureAccounts(testAddressID)
	s.accountRepo.On("FindAddressAccounts", s.ctx, testAddressID).Return(accounts, nil)

	list, err := s.service.ListAddressAccounts(s.ctx, testAddressID)

	s.NoError(err)
	s.Require().Len(list, len(accounts))
	for i := 1; i < len(list); i++ {
		s.Less(list[i-1].AccountNumber, list[i].AccountNumber)
	}
}

func (s *AccountServiceTestSuite) TestDeactivateAddressAccount_ControlAccountRejected() {
	accounts := fixtureAccounts(testAddressID)
	vat := accounts[domain.VATControlAccountNumber]
	vat.AddressAccountID = "aa-vat"
	accounts[domain.VATControlAccountNumber] = vat
	s.accountRepo.On("FindAddressAccounts", s.ctx, testAddressID).Return(accounts, nil)

	err := s.service.DeactivateAddressAccount(s.ctx, testAddressID, "aa-vat", testUserID)

	s.ErrorIs(err, services.ErrReservedAccountNumber)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
	s.accountRepo.AssertNotCalled(s.T(), "DeactivateAddressAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAddressAccount_Success() {
	accounts := fixtureAccounts(testAddressID)
	sales := accounts[salesAccount]
	sales.AddressAccountID = "aa-sales"
	accounts[salesAccount] = sales
	s.accountRepo.On("FindAddressAccounts", s.ctx, testAddressID).Return(accounts, nil)
	s.accountRepo.On("DeactivateAddressAccount", s.ctx, "aa-sales", testUserID).Return(nil)

	err := s.service.DeactivateAddressAccount(s.ctx, testAddressID, "aa-sales", testUserID)

	s.NoError(err)
	s.accountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestUpdateAddressAccount_UnknownIDHidden() {
	s.accountRepo.On("FindAddressAccounts", s.ctx, testAddressID).
		Return(map[int64]domain.AddressAccount{}, nil)

	desc := "renamed"
	_, err := s.service.UpdateAddressAccount(s.ctx, testAddressID, "aa-missing", dto.UpdateAddressAccountRequest{Description: &desc}, testUserID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}
