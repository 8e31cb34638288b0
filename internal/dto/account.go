package dto

import (
	"time"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a manual account.
// Agent, recipient and employee accounts are created through their entity.
type CreateAccountRequest struct {
	Name           string                  `json:"name" binding:"required,min=1,max=255"`
	AccountType    domain.AccountType      `json:"accountType" binding:"required,oneof=expense income liability equity"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	WellKnown      domain.WellKnownAccount `json:"wellKnown" binding:"omitempty,oneof=opening_balance"` // marks the Opening Balance singleton
}

// UpdateAccountRequest defines the data allowed for updating a manual account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string                  `json:"accountID"`
	Name             string                  `json:"name"`
	AccountType      domain.AccountType      `json:"accountType"`
	LinkedEntityType domain.EntityKind       `json:"linkedEntityType,omitempty"`
	LinkedEntityID   string                  `json:"linkedEntityID,omitempty"`
	WellKnown        domain.WellKnownAccount `json:"wellKnown,omitempty"`
	OpeningBalance   decimal.Decimal         `json:"openingBalance"`
	Balance          decimal.Decimal         `json:"balance"`
	CreatedAt        time.Time               `json:"createdAt"`
	CreatedBy        string                  `json:"createdBy"`
	LastUpdatedAt    time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy    string                  `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		LinkedEntityType: acc.LinkedEntityType,
		LinkedEntityID:   acc.LinkedEntityID,
		WellKnown:        acc.WellKnown,
		OpeningBalance:   acc.OpeningBalance,
		Balance:          acc.Balance,
		CreatedAt:        acc.CreatedAt,
		CreatedBy:        acc.CreatedBy,
		LastUpdatedAt:    acc.LastUpdatedAt,
		LastUpdatedBy:    acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int                `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int                `form:"offset,default=0" binding:"min=0"`
	Type   domain.AccountType `form:"type" binding:"omitempty,oneof=cash expense income liability equity agent recipient employee"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceResponse is a derived balance with its Dr/Cr display.
type BalanceResponse struct {
	AccountID   string             `json:"accountID"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	AsOf        *time.Time         `json:"asOf,omitempty"`
	Amount      decimal.Decimal    `json:"amount"`
	Magnitude   decimal.Decimal    `json:"magnitude"`
	Side        domain.BalanceSide `json:"side"`
	Unusual     bool               `json:"unusual"`
	Display     string             `json:"display"`
}

// BalanceParams defines query parameters for a single balance lookup.
type BalanceParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// BalancesParams defines query parameters for a batch balance lookup.
type BalancesParams struct {
	IDs  string `form:"ids" binding:"required"` // comma separated account IDs
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ListBalancesResponse wraps a batch of balances.
type ListBalancesResponse struct {
	Balances []BalanceResponse `json:"balances"`
}

// ToBalanceResponse converts a derived balance. display is its formatted Dr/Cr form.
func ToBalanceResponse(b domain.AccountBalance, display string) BalanceResponse {
	return BalanceResponse{
		AccountID:   b.AccountID,
		AccountName: b.AccountName,
		AccountType: b.AccountType,
		AsOf:        b.AsOf,
		Amount:      b.Amount,
		Magnitude:   b.Magnitude,
		Side:        b.Side,
		Unusual:     b.Unusual,
		Display:     display,
	}
}
