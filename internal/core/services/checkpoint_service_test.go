package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/core/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
)

type CheckpointServiceTestSuite struct {
	suite.Suite
	checkpointRepo *MockCheckpointRepository
	directory      *MockDirectoryClient
	service        portssvc.CheckpointSvcFacade
	ctx            context.Context
}

func (s *CheckpointServiceTestSuite) SetupTest() {
	s.checkpointRepo = new(MockCheckpointRepository)
	s.directory = new(MockDirectoryClient)
	s.service = services.NewCheckpointService(s.checkpointRepo, s.directory)
	s.ctx = context.Background()

	s.directory.On("ResolveAddress", s.ctx, testAddressID).
		Return(&domain.Address{AddressID: testAddressID, IsActive: true}, nil).Maybe()
}

func TestCheckpointServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckpointServiceTestSuite))
}

func (s *CheckpointServiceTestSuite) TestCreateCheckpoint_Success() {
	date := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(nil, nil)
	s.checkpointRepo.On("CreateCheckpoint", s.ctx, mock.AnythingOfType("*domain.Checkpoint")).
		Run(func(args mock.Arguments) {
			cp := args.Get(1).(*domain.Checkpoint)
			cp.ClosingBalance = dec("1520.40")
		}).
		Return(nil)

	cp, err := s.service.CreateCheckpoint(s.ctx, testAddressID, dto.CreateCheckpointRequest{Date: date}, testUserID)

	s.NoError(err)
	s.Require().NotNil(cp)
	s.Equal(testAddressID, cp.AddressID)
	s.True(cp.Date.Equal(date))
	s.False(cp.IsYearEnd)
	s.True(cp.ClosingBalance.Equal(dec("1520.40")))
	s.checkpointRepo.AssertExpectations(s.T())
}

func (s *CheckpointServiceTestSuite) TestCreateCheckpoint_FutureDateFails() {
	date := time.Now().UTC().Add(48 * time.Hour)

	_, err := s.service.CreateCheckpoint(s.ctx, testAddressID, dto.CreateCheckpointRequest{Date: date}, testUserID)

	s.ErrorIs(err, services.ErrFutureCheckpoint)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.checkpointRepo.AssertNotCalled(s.T(), "CreateCheckpoint", mock.Anything, mock.Anything)
}

func (s *CheckpointServiceTestSuite) TestCreateCheckpoint_NotAfterLatestFails() {
	existing := &domain.Checkpoint{
		CheckpointID: "cp-1",
		AddressID:    testAddressID,
		Date:         time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(existing, nil)

	req := dto.CreateCheckpointRequest{Date: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)}
	_, err := s.service.CreateCheckpoint(s.ctx, testAddressID, req, testUserID)

	s.ErrorIs(err, services.ErrCheckpointNotOrdered)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *CheckpointServiceTestSuite) TestCreateCheckpoint_SameDateAsLatestFails() {
	date := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	existing := &domain.Checkpoint{CheckpointID: "cp-1", AddressID: testAddressID, Date: date}
	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(existing, nil)

	_, err := s.service.CreateCheckpoint(s.ctx, testAddressID, dto.CreateCheckpointRequest{Date: date}, testUserID)

	s.ErrorIs(err, services.ErrCheckpointNotOrdered)
}

func (s *CheckpointServiceTestSuite) TestCreateCheckpoint_IntegritySurfacesUnwrapped() {
	date := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(nil, nil)
	s.checkpointRepo.On("CreateCheckpoint", s.ctx, mock.AnythingOfType("*domain.Checkpoint")).
		Return(fmt.Errorf("%w: window debit total 100.00 does not equal credit total 99.00", apperrors.ErrIntegrity))

	_, err := s.service.CreateCheckpoint(s.ctx, testAddressID, dto.CreateCheckpointRequest{Date: date}, testUserID)

	s.ErrorIs(err, apperrors.ErrIntegrity)
}

func (s *CheckpointServiceTestSuite) TestCreateCheckpoint_YearEndFlagCarried() {
	date := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(nil, nil)
	s.checkpointRepo.On("CreateCheckpoint", s.ctx, mock.MatchedBy(func(cp *domain.Checkpoint) bool {
		return cp.IsYearEnd
	})).Return(nil)

	cp, err := s.service.CreateCheckpoint(s.ctx, testAddressID, dto.CreateCheckpointRequest{Date: date, IsYearEnd: true}, testUserID)

	s.NoError(err)
	s.True(cp.IsYearEnd)
}

func (s *CheckpointServiceTestSuite) TestDeleteCheckpoint_Success() {
	cp := &domain.Checkpoint{CheckpointID: "cp-2", AddressID: testAddressID}
	s.checkpointRepo.On("FindCheckpointByID", s.ctx, "cp-2").Return(cp, nil)
	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(cp, nil)
	s.checkpointRepo.On("DeleteCheckpoint", s.ctx, "cp-2").Return(nil)

	err := s.service.DeleteCheckpoint(s.ctx, testAddressID, "cp-2", testUserID)

	s.NoError(err)
	s.checkpointRepo.AssertExpectations(s.T())
}

func (s *CheckpointServiceTestSuite) TestDeleteCheckpoint_NotLatestFails() {
	older := &domain.Checkpoint{CheckpointID: "cp-1", AddressID: testAddressID}
	latest := &domain.Checkpoint{CheckpointID: "cp-2", AddressID: testAddressID}
	s.checkpointRepo.On("FindCheckpointByID", s.ctx, "cp-1").Return(older, nil)
	s.checkpointRepo.On("FindLatestCheckpoint", s.ctx, testAddressID).Return(latest, nil)

	err := s.service.DeleteCheckpoint(s.ctx, testAddressID, "cp-1", testUserID)

	s.ErrorIs(err, services.ErrNotLatestCheckpoint)
	s.checkpointRepo.AssertNotCalled(s.T(), "DeleteCheckpoint", mock.Anything, mock.Anything)
}

func (s *CheckpointServiceTestSuite) TestDeleteCheckpoint_WrongAddressHidden() {
	cp := &domain.Checkpoint{CheckpointID: "cp-1", AddressID: "addr-9"}
	s.checkpointRepo.On("FindCheckpointByID", s.ctx, "cp-1").Return(cp, nil)

	err := s.service.DeleteCheckpoint(s.ctx, testAddressID, "cp-1", testUserID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}
