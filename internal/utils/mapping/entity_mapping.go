package mapping

import (
	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/models"
)

// ToModelEntity converts a domain Entity to a model Entity
func ToModelEntity(d domain.Entity) models.Entity {
	return models.Entity{
		EntityID:       d.EntityID,
		Kind:           string(d.Kind),
		Name:           d.Name,
		Mobile:         d.Mobile,
		Email:          d.Email,
		Address:        d.Address,
		CommPercent:    d.CommPercent,
		OpeningBalance: d.OpeningBalance,
		AccountID:      d.AccountID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntity converts a model Entity to a domain Entity
func ToDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		EntityID:       m.EntityID,
		Kind:           domain.EntityKind(m.Kind),
		Name:           m.Name,
		Mobile:         m.Mobile,
		Email:          m.Email,
		Address:        m.Address,
		CommPercent:    m.CommPercent,
		OpeningBalance: m.OpeningBalance,
		AccountID:      m.AccountID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
