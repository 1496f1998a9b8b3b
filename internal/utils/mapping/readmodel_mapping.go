package mapping

import (
	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/openledgerhq/bankledger/internal/models"
)

// ToDomainAccountSummary converts a summary row to its domain form.
func ToDomainAccountSummary(m models.AccountSummary) domain.AccountSummary {
	return domain.AccountSummary{
		AccountID: m.AccountID,
		OwnerName: m.OwnerName,
		Balance:   m.Balance,
		Currency:  m.Currency,
		Status:    domain.AccountStatus(m.Status),
		Version:   m.Version,
	}
}

// ToDomainTransactionEntry converts a history row to its domain form.
func ToDomainTransactionEntry(m models.TransactionEntry) domain.TransactionEntry {
	return domain.TransactionEntry{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Description:   m.Description,
		Timestamp:     m.Timestamp,
	}
}

// ToDomainProjectionCursor converts a cursor row to its domain form.
func ToDomainProjectionCursor(m models.ProjectionCursor) domain.ProjectionCursor {
	return domain.ProjectionCursor{
		ProjectionName:                    m.ProjectionName,
		LastProcessedGlobalSequenceNumber: m.LastProcessedGlobalSequenceNumber,
		UpdatedAt:                         m.UpdatedAt,
	}
}
