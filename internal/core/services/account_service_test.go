package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/core/services"
	"github.com/munna98/cashdesk/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByLinkedEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Account, error) {
	args := m.Called(ctx, kind, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByWellKnown(ctx context.Context, key domain.WellKnownAccount) (*domain.Account, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// MockOpeningBalancePoster records opening balance postings.
type MockOpeningBalancePoster struct {
	mock.Mock
}

func (m *MockOpeningBalancePoster) PostOpeningBalance(ctx context.Context, account domain.Account, delta decimal.Decimal, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, account, delta, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.OpeningBalancePoster = (*MockOpeningBalancePoster)(nil)

// passthroughTxManager runs fn directly.
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Test Suite ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	mockPoster *MockOpeningBalancePoster
	service    portssvc.AccountSvcFacade
	ctx        context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockPoster = new(MockOpeningBalancePoster)
	suite.service = services.NewAccountService(suite.mockRepo,
		services.WithAccountTransactionManager(passthroughTxManager{}),
		services.WithOpeningBalancePoster(suite.mockPoster),
	)
	suite.ctx = context.Background()
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestEnsureDefaultAccounts_CreatesMissing() {
	suite.mockRepo.On("FindAccountByWellKnown", suite.ctx, domain.WellKnownCash).
		Return(&domain.Account{AccountID: "cash-1", WellKnown: domain.WellKnownCash}, nil).Once()
	suite.mockRepo.On("FindAccountByWellKnown", suite.ctx, domain.WellKnownCommission).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.WellKnown == domain.WellKnownCommission &&
			a.AccountType == domain.Income &&
			a.Name == domain.CommissionAccountName &&
			a.AccountID != ""
	})).Return(nil).Once()

	err := suite.service.EnsureDefaultAccounts(suite.ctx)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestEnsureOpeningBalanceAccount_LosesRace() {
	winner := &domain.Account{AccountID: "ob-1", WellKnown: domain.WellKnownOpeningBalance, AccountType: domain.Equity}
	suite.mockRepo.On("FindAccountByWellKnown", suite.ctx, domain.WellKnownOpeningBalance).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).
		Return(fmt.Errorf("%w: well-known key taken", apperrors.ErrDuplicate)).Once()
	suite.mockRepo.On("FindAccountByWellKnown", suite.ctx, domain.WellKnownOpeningBalance).
		Return(winner, nil).Once()

	acc, err := suite.service.EnsureOpeningBalanceAccount(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal("ob-1", acc.AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestResolveWellKnown_MissingIsConflict() {
	suite.mockRepo.On("FindAccountByWellKnown", suite.ctx, domain.WellKnownCommission).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveWellKnown(suite.ctx, domain.WellKnownCommission)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_PostsOpeningBalance() {
	req := dto.CreateAccountRequest{Name: "  Rent  ", AccountType: domain.Expense, OpeningBalance: decimal.NewFromInt(250)}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Rent" && a.AccountType == domain.Expense
	})).Return(nil).Once()
	suite.mockPoster.On("PostOpeningBalance", suite.ctx, mock.AnythingOfType("domain.Account"),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(250)) }), "user-1").
		Return(&domain.Transaction{TransactionNumber: "JNL-2024-00001"}, nil).Once()

	acc, err := suite.service.CreateAccount(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("Rent", acc.Name)
	suite.Equal("user-1", acc.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPoster.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalanceFailureIsReturned() {
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockPoster.On("PostOpeningBalance", suite.ctx, mock.Anything, mock.Anything, "user-1").
		Return(nil, apperrors.NewConflictError("Opening Balance account does not exist")).Once()

	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Capital", AccountType: domain.Equity, OpeningBalance: decimal.NewFromInt(10),
	}, "user-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Rejections() {
	tests := []struct {
		name    string
		req     dto.CreateAccountRequest
		wantErr error
	}{
		{
			name:    "linked types are created through their entity",
			req:     dto.CreateAccountRequest{Name: "Agent X", AccountType: domain.AgentAcc},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "second commission income account",
			req:     dto.CreateAccountRequest{Name: "commission", AccountType: domain.Income},
			wantErr: apperrors.ErrDuplicate,
		},
		{
			name:    "opening balance singleton must be equity",
			req:     dto.CreateAccountRequest{Name: "OB", AccountType: domain.Expense, WellKnown: domain.WellKnownOpeningBalance},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "blank name",
			req:     dto.CreateAccountRequest{Name: "   ", AccountType: domain.Expense},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateAccount(suite.ctx, tt.req, "user-1")
			suite.ErrorIs(err, tt.wantErr)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_LinkedAccountIsRejected() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "agent-acc").Return(&domain.Account{
		AccountID:        "agent-acc",
		Name:             "Salim",
		AccountType:      domain.AgentAcc,
		LinkedEntityType: domain.KindAgent,
		LinkedEntityID:   "agent-1",
	}, nil).Once()

	name := "Renamed"
	_, err := suite.service.UpdateAccount(suite.ctx, "agent-acc", dto.UpdateAccountRequest{Name: &name}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CashCannotBeRenamed() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "cash-1").Return(&domain.Account{
		AccountID:   "cash-1",
		Name:        domain.CashAccountName,
		AccountType: domain.Cash,
		WellKnown:   domain.WellKnownCash,
	}, nil).Once()

	name := "Petty Cash"
	_, err := suite.service.UpdateAccount(suite.ctx, "cash-1", dto.UpdateAccountRequest{Name: &name}, "user-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "rent-1").Return(&domain.Account{
		AccountID:   "rent-1",
		Name:        "Rent",
		AccountType: domain.Expense,
	}, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Office Rent" && a.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	name := " Office Rent "
	acc, err := suite.service.UpdateAccount(suite.ctx, "rent-1", dto.UpdateAccountRequest{Name: &name}, "user-2")

	suite.Require().NoError(err)
	suite.Equal("Office Rent", acc.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_FiltersByTypeAndPages() {
	all := []domain.Account{
		{AccountID: "a", Name: "A", AccountType: domain.Expense},
		{AccountID: "b", Name: "B", AccountType: domain.Expense},
		{AccountID: "c", Name: "C", AccountType: domain.Expense},
	}
	suite.mockRepo.On("FindAccountsByType", suite.ctx, domain.Expense).Return(all, nil).Once()

	page, err := suite.service.ListAccounts(suite.ctx, dto.ListAccountsParams{Limit: 2, Offset: 1, Type: domain.Expense})

	suite.Require().NoError(err)
	suite.Require().Len(page, 2)
	suite.Equal("b", page[0].AccountID)
	suite.Equal("c", page[1].AccountID)
}
