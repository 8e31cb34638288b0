package models

import "github.com/shopspring/decimal"

// Entity is a row of the entities table. Kind discriminates agents, recipients and employees.
type Entity struct {
	EntityID       string          `db:"entity_id"`
	Kind           string          `db:"kind"`
	Name           string          `db:"name"`
	Mobile         string          `db:"mobile"`
	Email          string          `db:"email"`
	Address        string          `db:"address"`
	CommPercent    decimal.Decimal `db:"comm_percent"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	AccountID      string          `db:"account_id"`
	AuditFields
}
