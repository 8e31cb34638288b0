package mapping

import (
	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		TransactionNumber: d.TransactionNumber,
		TransactionType:   string(d.Type),
		DebitAccountID:    d.DebitAccountID,
		CreditAccountID:   d.CreditAccountID,
		Amount:            d.Amount,
		CommissionAmount:  d.CommissionAmount,
		TransactionDate:   domain.BusinessDate(d.Date),
		Note:              d.Note,
		IsOpeningBalance:  d.IsOpeningBalance,
		OpeningBalanceFor: d.OpeningBalanceFor,
		IsCancellation:    d.IsCancellation,
		ReversalOf:        d.ReversalOf,
		IsCommission:      d.IsCommission,
		CommissionFor:     d.CommissionFor,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		Type:              domain.TransactionType(m.TransactionType),
		DebitAccountID:    m.DebitAccountID,
		CreditAccountID:   m.CreditAccountID,
		Amount:            m.Amount,
		CommissionAmount:  m.CommissionAmount,
		Date:              domain.BusinessDate(m.TransactionDate),
		Note:              m.Note,
		IsOpeningBalance:  m.IsOpeningBalance,
		OpeningBalanceFor: m.OpeningBalanceFor,
		IsCancellation:    m.IsCancellation,
		ReversalOf:        m.ReversalOf,
		IsCommission:      m.IsCommission,
		CommissionFor:     m.CommissionFor,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
