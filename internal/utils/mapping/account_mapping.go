package mapping

import (
	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		Name:             d.Name,
		AccountType:      string(d.AccountType),
		LinkedEntityType: nullableString(string(d.LinkedEntityType)),
		LinkedEntityID:   nullableString(d.LinkedEntityID),
		WellKnown:        nullableString(string(d.WellKnown)),
		OpeningBalance:   d.OpeningBalance,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		LinkedEntityType: domain.EntityKind(derefString(m.LinkedEntityType)),
		LinkedEntityID:   derefString(m.LinkedEntityID),
		WellKnown:        domain.WellKnownAccount(derefString(m.WellKnown)),
		OpeningBalance:   m.OpeningBalance,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
