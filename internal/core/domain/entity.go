package domain

import (
	"github.com/shopspring/decimal"
)

// EntityKind identifies which business entity an Entity record represents.
type EntityKind string

const (
	KindAgent     EntityKind = "agent"
	KindRecipient EntityKind = "recipient"
	KindEmployee  EntityKind = "employee"
)

// IsValid reports whether k is a known entity kind.
func (k EntityKind) IsValid() bool {
	return k == KindAgent || k == KindRecipient || k == KindEmployee
}

// AccountType returns the type of the account linked to entities of this kind.
func (k EntityKind) AccountType() AccountType {
	switch k {
	case KindAgent:
		return AgentAcc
	case KindRecipient:
		return Recipient
	case KindEmployee:
		return Employee
	}
	return ""
}

// CarriesOpeningBalance reports whether entities of this kind may have an opening balance.
func (k EntityKind) CarriesOpeningBalance() bool {
	return k == KindAgent || k == KindRecipient
}

// Entity is an agent, recipient or employee. Each owns exactly one linked Account.
type Entity struct {
	EntityID       string          `json:"entityID"`
	Kind           EntityKind      `json:"kind"`
	Name           string          `json:"name"`
	Mobile         string          `json:"mobile,omitempty"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address,omitempty"`
	CommPercent    decimal.Decimal `json:"commPercent"`    // agents only, 0-100
	OpeningBalance decimal.Decimal `json:"openingBalance"` // mirror of the linked account's opening balance
	AccountID      string          `json:"accountID"`
	AuditFields
}

// EntityWithAccount is returned when an entity is created together with its account.
type EntityWithAccount struct {
	Entity  Entity  `json:"entity"`
	Account Account `json:"account"`
}
