package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
)

func TestDecodePayload(t *testing.T) {
	t.Run("decodes each event type to its typed payload", func(t *testing.T) {
		original := domain.MoneyDepositedPayload{
			Amount:        decimal.RequireFromString("12.34"),
			Description:   "salary",
			TransactionID: "txn-1",
		}
		data, err := domain.EncodePayload(original)
		require.NoError(t, err)

		decoded, err := domain.DecodePayload(domain.EventTypeMoneyDeposited, data)
		require.NoError(t, err)

		deposited, ok := decoded.(domain.MoneyDepositedPayload)
		require.True(t, ok, "expected a value-typed MoneyDepositedPayload, got %T", decoded)
		assert.True(t, deposited.Amount.Equal(original.Amount))
		assert.Equal(t, original.TransactionID, deposited.TransactionID)
	})

	t.Run("decoded payloads are usable by Apply", func(t *testing.T) {
		data, err := domain.EncodePayload(domain.AccountCreatedPayload{
			AccountID:      "acc-1",
			OwnerName:      "Alice",
			InitialBalance: decimal.RequireFromString("100"),
			Currency:       "EUR",
		})
		require.NoError(t, err)

		decoded, err := domain.DecodePayload(domain.EventTypeAccountCreated, data)
		require.NoError(t, err)

		account := domain.NewBankAccount()
		require.NoError(t, account.Apply(decoded))
		assert.Equal(t, domain.StatusOpen, account.Status)
	})

	t.Run("unknown event type fails loudly", func(t *testing.T) {
		_, err := domain.DecodePayload("SomethingElse", []byte(`{}`))
		assert.ErrorIs(t, err, apperrors.ErrUnknownEventType)
	})

	t.Run("malformed json fails", func(t *testing.T) {
		_, err := domain.DecodePayload(domain.EventTypeAccountClosed, []byte(`{`))
		assert.Error(t, err)
	})
}

func TestNewPendingEvent(t *testing.T) {
	pending := domain.NewPendingEvent(domain.AccountClosedPayload{Reason: "done"})
	assert.Equal(t, domain.EventTypeAccountClosed, pending.EventType)
	assert.Equal(t, domain.SchemaVersion, pending.SchemaVersion)
}
