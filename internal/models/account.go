package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table. There is deliberately no balance column.
type Account struct {
	AccountID        string          `db:"account_id"`
	Name             string          `db:"name"`
	AccountType      string          `db:"account_type"`
	LinkedEntityType *string         `db:"linked_entity_type"` // Nullable
	LinkedEntityID   *string         `db:"linked_entity_id"`   // Nullable
	WellKnown        *string         `db:"well_known"`         // Nullable, unique
	OpeningBalance   decimal.Decimal `db:"opening_balance"`
	AuditFields
}
