package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/core/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/handlers"
	"github.com/munna98/cashdesk/internal/middleware"
	"github.com/munna98/cashdesk/internal/platform/config"
	"github.com/munna98/cashdesk/internal/repositories/memory"
	"github.com/munna98/cashdesk/internal/utils"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "cashdesk-test"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     testSecret,
		JWTIssuer:     testIssuer,
		IsProduction:  true, // keeps swagger out of the test router
		StorageDriver: config.StorageDriverMemory,
	}
}

// generateTestToken creates a signed JWT for the given subject.
func generateTestToken(t *testing.T, userID string) string {
	t.Helper()
	signed, err := utils.IssueOperatorToken(userID, testSecret, testIssuer, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}

func newRouter(t *testing.T, container *portssvc.ServiceContainer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := handlers.RegisterRoutes(r, testConfig(), container); err != nil {
		t.Fatalf("register routes: %v", err)
	}
	return r
}

// --- End-to-end suite over the in-memory store ---

type CashDeskAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	token  string
}

func TestCashDeskAPI(t *testing.T) {
	suite.Run(t, new(CashDeskAPITestSuite))
}

func (s *CashDeskAPITestSuite) SetupTest() {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	s.router = newRouter(s.T(), services.NewServiceContainer(testConfig(), repos))
	s.token = generateTestToken(s.T(), "cashier-1")
}

func (s *CashDeskAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CashDeskAPITestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// bootstrap creates the singletons and returns them keyed by well-known name.
func (s *CashDeskAPITestSuite) bootstrap() map[domain.WellKnownAccount]dto.AccountResponse {
	w := s.do(http.MethodPost, "/api/v1/setup/bootstrap?withOpeningBalance=true", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var res dto.ListAccountsResponse
	s.decode(w, &res)
	byKey := make(map[domain.WellKnownAccount]dto.AccountResponse, len(res.Accounts))
	for _, acc := range res.Accounts {
		byKey[acc.WellKnown] = acc
	}
	return byKey
}

func (s *CashDeskAPITestSuite) createAgent(name string, opening int64) dto.CreateEntityResponse {
	w := s.do(http.MethodPost, "/api/v1/agents", dto.CreateEntityRequest{
		Name:           name,
		CommPercent:    decimal.NewFromInt(5),
		OpeningBalance: decimal.NewFromInt(opening),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.CreateEntityResponse
	s.decode(w, &created)
	return created
}

func (s *CashDeskAPITestSuite) TestHealthIsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *CashDeskAPITestSuite) TestMissingTokenIsRejected() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *CashDeskAPITestSuite) TestWrongIssuerIsRejected() {
	signed, err := utils.IssueOperatorToken("cashier-1", testSecret, "someone-else", time.Hour, time.Now())
	s.Require().NoError(err)
	s.token = signed

	w := s.do(http.MethodGet, "/api/v1/accounts", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *CashDeskAPITestSuite) TestBootstrapIsIdempotent() {
	first := s.bootstrap()
	second := s.bootstrap()

	s.Len(first, 3)
	for key, acc := range first {
		s.Equal(acc.AccountID, second[key].AccountID, "singleton %s recreated", key)
	}
	s.Equal(domain.Cash, first[domain.WellKnownCash].AccountType)
}

func (s *CashDeskAPITestSuite) TestAgentOpeningBalanceShowsAsCredit() {
	s.bootstrap()
	created := s.createAgent("Salim", 1000)
	s.Equal(domain.KindAgent, created.Entity.Kind)
	s.Equal(created.Account.AccountID, created.Entity.AccountID)

	w := s.do(http.MethodGet, "/api/v1/accounts/"+created.Account.AccountID+"/balance", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var balance dto.BalanceResponse
	s.decode(w, &balance)
	s.True(balance.Amount.Equal(decimal.NewFromInt(-1000)), "got %s", balance.Amount)
	s.Equal(domain.SideCr, balance.Side)
	s.False(balance.Unusual)
	s.Equal("₹1000 Cr", balance.Display)

	w = s.do(http.MethodGet, "/api/v1/transactions?type=journalentry", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListTransactionsResponse
	s.decode(w, &page)
	s.Require().Len(page.Transactions, 1)
	s.Equal(fmt.Sprintf("JNL-%d-00001", time.Now().UTC().Year()), page.Transactions[0].TransactionNumber)
	s.True(page.Transactions[0].IsOpeningBalance)
}

func (s *CashDeskAPITestSuite) TestReceiptWithCommissionAndReconcile() {
	singletons := s.bootstrap()
	agent := s.createAgent("Salim", 1000)
	cashID := singletons[domain.WellKnownCash].AccountID
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	w := s.do(http.MethodPost, "/api/v1/transactions", dto.PostTransactionRequest{
		Type:             domain.Receipt,
		DebitAccountID:   cashID,
		CreditAccountID:  agent.Account.AccountID,
		Amount:           decimal.NewFromInt(2000),
		CommissionAmount: decimal.NewFromInt(100),
		Date:             date,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var receipt dto.TransactionResponse
	s.decode(w, &receipt)
	s.Equal("RCT-2024-00001", receipt.TransactionNumber)
	s.Equal("2024-05-01", receipt.Date)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/balances?ids=%s,%s", agent.Account.AccountID, singletons[domain.WellKnownCommission].AccountID), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var balances dto.ListBalancesResponse
	s.decode(w, &balances)
	s.Require().Len(balances.Balances, 2)
	s.True(balances.Balances[0].Amount.Equal(decimal.NewFromInt(-3000)), "agent got %s", balances.Balances[0].Amount)
	s.True(balances.Balances[1].Amount.Equal(decimal.NewFromInt(100)), "commission got %s", balances.Balances[1].Amount)

	w = s.do(http.MethodGet, "/api/v1/reports/commission?fromDate=2024-05-01&toDate=2024-05-31", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var report dto.CommissionReportResponse
	s.decode(w, &report)
	s.True(report.GrandTotal.Equal(decimal.NewFromInt(100)), "got %s", report.GrandTotal)

	w = s.do(http.MethodGet, "/api/v1/reports/reconcile", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result domain.ReconciliationResult
	s.decode(w, &result)
	s.Empty(result.Issues)
	s.True(result.Net.IsZero())

	// Postings exist, so the agent cannot be removed.
	w = s.do(http.MethodDelete, "/api/v1/agents/"+agent.Entity.EntityID, nil)
	s.Equal(http.StatusConflict, w.Code, w.Body.String())
}

func (s *CashDeskAPITestSuite) TestCancelPaymentTwiceConflicts() {
	singletons := s.bootstrap()
	w := s.do(http.MethodPost, "/api/v1/recipients", dto.CreateEntityRequest{Name: "Fathima"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var recipient dto.CreateEntityResponse
	s.decode(w, &recipient)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	w = s.do(http.MethodPost, "/api/v1/transactions", dto.PostTransactionRequest{
		Type:            domain.Payment,
		DebitAccountID:  recipient.Account.AccountID,
		CreditAccountID: singletons[domain.WellKnownCash].AccountID,
		Amount:          decimal.NewFromInt(300),
		Date:            date,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var payment dto.TransactionResponse
	s.decode(w, &payment)

	w = s.do(http.MethodPost, "/api/v1/transactions/"+payment.TransactionID+"/cancel", dto.CancelPaymentRequest{Date: date})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var cancellation dto.TransactionResponse
	s.decode(w, &cancellation)
	s.True(cancellation.IsCancellation)
	s.Require().NotNil(cancellation.ReversalOf)
	s.Equal(payment.TransactionID, *cancellation.ReversalOf)

	w = s.do(http.MethodPost, "/api/v1/transactions/"+payment.TransactionID+"/cancel", dto.CancelPaymentRequest{Date: date})
	s.Equal(http.StatusConflict, w.Code, w.Body.String())
}

func (s *CashDeskAPITestSuite) TestUnknownAccountIsNotFound() {
	w := s.do(http.MethodGet, "/api/v1/accounts/does-not-exist", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CashDeskAPITestSuite) TestReportRangeIsRequired() {
	w := s.do(http.MethodGet, "/api/v1/reports/register?fromDate=2024-05-01", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

// --- Mock-backed suite for error mapping ---

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockLedgerService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	return m.Called(ctx, transactionID, userID).Error(0)
}

func (m *MockLedgerService) CancelPayment(ctx context.Context, paymentID string, req dto.CancelPaymentRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, paymentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) PostOpeningBalance(ctx context.Context, account domain.Account, delta decimal.Decimal, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, account, delta, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

type TransactionHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockLedger *MockLedgerService
	token      string
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	s.mockLedger = new(MockLedgerService)
	s.router = newRouter(s.T(), &portssvc.ServiceContainer{Ledger: s.mockLedger})
	s.token = generateTestToken(s.T(), "cashier-2")
}

func (s *TransactionHandlerTestSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TransactionHandlerTestSuite) TestServiceErrorsMapToStatus() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.NewNotFoundError("transaction"), http.StatusNotFound},
		{"validation", apperrors.NewValidationError("only payments can be cancelled"), http.StatusBadRequest},
		{"conflict", apperrors.NewConflictError("payment already cancelled"), http.StatusConflict},
		{"internal", fmt.Errorf("disk on fire: %w", apperrors.ErrInternal), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.mockLedger.On("CancelPayment", mock.Anything, "txn-1", mock.AnythingOfType("dto.CancelPaymentRequest"), "cashier-2").
				Return(nil, tt.err).Once()

			w := s.request(http.MethodPost, "/api/v1/transactions/txn-1/cancel", `{"date":"2024-06-03T00:00:00Z"}`)
			s.Equal(tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusInternalServerError {
				s.NotContains(w.Body.String(), "disk on fire")
			}
			s.mockLedger.AssertExpectations(s.T())
		})
	}
}

func (s *TransactionHandlerTestSuite) TestMalformedPostNeverReachesService() {
	w := s.request(http.MethodPost, "/api/v1/transactions", `{"type":"refund","debitAccountID":"a","creditAccountID":"b","date":"2024-06-03T00:00:00Z"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodPost, "/api/v1/transactions", `{"type":"payment","debitAccountID":"a","creditAccountID":"a","date":"2024-06-03T00:00:00Z"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	s.mockLedger.AssertNotCalled(s.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionHandlerTestSuite) TestDeleteReturnsNoContent() {
	s.mockLedger.On("DeleteTransaction", mock.Anything, "txn-9", "cashier-2").Return(nil).Once()

	w := s.request(http.MethodDelete, "/api/v1/transactions/txn-9", "")
	s.Equal(http.StatusNoContent, w.Code)
	s.mockLedger.AssertExpectations(s.T())
}

func (s *TransactionHandlerTestSuite) TestListPassesNextToken() {
	token := "abc"
	s.mockLedger.On("ListTransactions", mock.Anything, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Limit == 5 && p.NextToken != nil && *p.NextToken == token
	})).Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil).Once()

	w := s.request(http.MethodGet, "/api/v1/transactions?limit=5&nextToken="+token, "")
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.mockLedger.AssertExpectations(s.T())
}
