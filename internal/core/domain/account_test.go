package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
)

// unknownPayload is an event type outside the closed set.
type unknownPayload struct{}

func (unknownPayload) EventType() domain.EventType { return "SomethingElse" }

func openAccount(t *testing.T, initialBalance string) *domain.BankAccount {
	t.Helper()
	account := domain.NewBankAccount()
	pending, err := account.CreateAccount("acc-1", "Alice", decimal.RequireFromString(initialBalance), "EUR")
	require.NoError(t, err)
	require.NoError(t, account.ApplyAll(pending))
	return account
}

func TestCreateAccount(t *testing.T) {
	t.Run("opens a NEW account", func(t *testing.T) {
		account := domain.NewBankAccount()
		pending, err := account.CreateAccount("acc-1", "Alice", decimal.RequireFromString("100"), "EUR")
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, domain.EventTypeAccountCreated, pending[0].EventType)

		require.NoError(t, account.ApplyAll(pending))
		assert.Equal(t, domain.StatusOpen, account.Status)
		assert.Equal(t, "Alice", account.OwnerName)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")))
		assert.Equal(t, int64(1), account.SequenceNumber)
	})

	t.Run("retry with same id on open account is a no-op", func(t *testing.T) {
		account := openAccount(t, "100")
		pending, err := account.CreateAccount("acc-1", "Alice", decimal.RequireFromString("100"), "EUR")
		assert.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("re-create with different id conflicts", func(t *testing.T) {
		account := openAccount(t, "100")
		_, err := account.CreateAccount("acc-2", "Alice", decimal.Zero, "EUR")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	})

	t.Run("re-create on closed account conflicts", func(t *testing.T) {
		account := openAccount(t, "0")
		pending, err := account.Close("done")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))

		_, err = account.CreateAccount("acc-1", "Alice", decimal.Zero, "EUR")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	})

	t.Run("negative initial balance is rejected", func(t *testing.T) {
		account := domain.NewBankAccount()
		_, err := account.CreateAccount("acc-1", "Alice", decimal.RequireFromString("-1"), "EUR")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("missing owner name is rejected", func(t *testing.T) {
		account := domain.NewBankAccount()
		_, err := account.CreateAccount("acc-1", "", decimal.Zero, "EUR")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestDeposit(t *testing.T) {
	t.Run("credits the balance", func(t *testing.T) {
		account := openAccount(t, "100")
		pending, err := account.Deposit(decimal.RequireFromString("25.50"), "salary", "txn-1")
		require.NoError(t, err)
		require.Len(t, pending, 1)

		require.NoError(t, account.ApplyAll(pending))
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("125.50")))
		assert.Equal(t, int64(2), account.SequenceNumber)
	})

	t.Run("duplicate transaction id is a no-op", func(t *testing.T) {
		account := openAccount(t, "100")
		pending, err := account.Deposit(decimal.RequireFromString("10"), "", "txn-1")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))

		again, err := account.Deposit(decimal.RequireFromString("10"), "", "txn-1")
		assert.NoError(t, err)
		assert.Empty(t, again)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("110")))
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		account := openAccount(t, "100")
		_, err := account.Deposit(decimal.Zero, "", "txn-1")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = account.Deposit(decimal.RequireFromString("-5"), "", "txn-2")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("rejected when not open", func(t *testing.T) {
		account := domain.NewBankAccount()
		_, err := account.Deposit(decimal.RequireFromString("10"), "", "txn-1")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("debits the balance", func(t *testing.T) {
		account := openAccount(t, "100")
		pending, err := account.Withdraw(decimal.RequireFromString("40"), "rent", "txn-1")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("60")))
	})

	t.Run("withdrawing the exact balance leaves zero", func(t *testing.T) {
		account := openAccount(t, "100")
		pending, err := account.Withdraw(decimal.RequireFromString("100"), "", "txn-1")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))
		assert.True(t, account.Balance.IsZero())
	})

	t.Run("overdraft is rejected", func(t *testing.T) {
		account := openAccount(t, "100")
		_, err := account.Withdraw(decimal.RequireFromString("100.01"), "", "txn-1")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("duplicate transaction id wins over overdraft check", func(t *testing.T) {
		// A replayed withdrawal must stay a no-op even if the balance has
		// since dropped below the requested amount.
		account := openAccount(t, "100")
		pending, err := account.Withdraw(decimal.RequireFromString("80"), "", "txn-1")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))

		again, err := account.Withdraw(decimal.RequireFromString("80"), "", "txn-1")
		assert.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("rejected when not open", func(t *testing.T) {
		account := domain.NewBankAccount()
		_, err := account.Withdraw(decimal.RequireFromString("10"), "", "txn-1")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	})
}

func TestClose(t *testing.T) {
	t.Run("closes an open zero-balance account", func(t *testing.T) {
		account := openAccount(t, "0")
		pending, err := account.Close("customer request")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))
		assert.Equal(t, domain.StatusClosed, account.Status)
	})

	t.Run("non-zero balance cannot close", func(t *testing.T) {
		account := openAccount(t, "1")
		_, err := account.Close("")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	})

	t.Run("closed account stays closed", func(t *testing.T) {
		account := openAccount(t, "0")
		pending, err := account.Close("")
		require.NoError(t, err)
		require.NoError(t, account.ApplyAll(pending))

		_, err = account.Close("")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)

		_, err = account.Deposit(decimal.RequireFromString("10"), "", "txn-1")
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	})
}

func TestApplyUnknownEventType(t *testing.T) {
	account := domain.NewBankAccount()
	err := account.Apply(unknownPayload{})
	assert.ErrorIs(t, err, apperrors.ErrUnknownEventType)
	assert.Equal(t, int64(0), account.SequenceNumber)
}

func TestFromHistory(t *testing.T) {
	payloads := []domain.EventPayload{
		domain.AccountCreatedPayload{AccountID: "acc-1", OwnerName: "Alice", InitialBalance: decimal.RequireFromString("100"), Currency: "EUR"},
		domain.MoneyDepositedPayload{Amount: decimal.RequireFromString("50"), TransactionID: "txn-1"},
		domain.MoneyWithdrawnPayload{Amount: decimal.RequireFromString("30"), TransactionID: "txn-2"},
	}

	events := make([]domain.Event, len(payloads))
	for i, p := range payloads {
		events[i] = domain.Event{
			AggregateID:    "acc-1",
			EventType:      p.EventType(),
			Payload:        p,
			SequenceNumber: int64(i + 1),
			Timestamp:      time.Now().UTC(),
			SchemaVersion:  domain.SchemaVersion,
		}
	}

	t.Run("replays the full stream", func(t *testing.T) {
		account, err := domain.FromHistory(nil, events)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, account.Status)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("120")))
		assert.Equal(t, int64(3), account.SequenceNumber)
	})

	t.Run("snapshot plus tail equals full replay", func(t *testing.T) {
		full, err := domain.FromHistory(nil, events)
		require.NoError(t, err)

		partial, err := domain.FromHistory(nil, events[:2])
		require.NoError(t, err)
		state := partial.State()

		resumed, err := domain.FromHistory(&state, events[2:])
		require.NoError(t, err)

		assert.Equal(t, full.Status, resumed.Status)
		assert.True(t, full.Balance.Equal(resumed.Balance))
		assert.Equal(t, full.SequenceNumber, resumed.SequenceNumber)
		assert.Equal(t, full.ProcessedTransactionIDs, resumed.ProcessedTransactionIDs)
	})

	t.Run("fails on an unknown event type in history", func(t *testing.T) {
		corrupt := append(append([]domain.Event{}, events...), domain.Event{
			AggregateID: "acc-1",
			EventType:   "SomethingElse",
			Payload:     unknownPayload{},
		})
		_, err := domain.FromHistory(nil, corrupt)
		assert.ErrorIs(t, err, apperrors.ErrUnknownEventType)
	})
}
