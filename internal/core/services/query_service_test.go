package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/openledgerhq/bankledger/internal/core/services"
)

func TestListTransactionsLimitClamping(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		requested int
		expected  int
	}{
		{"zero falls back to the default", 0, 10},
		{"negative falls back to the default", -5, 10},
		{"in-range passes through", 25, 25},
		{"oversized is capped", 5000, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockProjectionRepository{}
			var gotLimit int
			repo.ListTransactionsFn = func(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error) {
				gotLimit = limit
				return nil, nil, nil
			}

			svc := services.NewAccountQueryService(repo, &MockEventRepository{})
			_, _, err := svc.ListTransactions(ctx, "acc-1", tc.requested, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, gotLimit)
		})
	}
}

func TestGetBalanceAt(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("folds events up to the timestamp", func(t *testing.T) {
		events := &MockEventRepository{}
		events.GetEventsUntilFn = func(ctx context.Context, aggregateID string, until time.Time) ([]domain.Event, error) {
			assert.Equal(t, at, until)
			return accountHistory("acc-1",
				createdPayload("acc-1", "100"),
				domain.MoneyWithdrawnPayload{Amount: decimal.RequireFromString("30"), TransactionID: "txn-1"},
			), nil
		}

		svc := services.NewAccountQueryService(&MockProjectionRepository{}, events)
		res, err := svc.GetBalanceAt(ctx, "acc-1", at)
		require.NoError(t, err)
		assert.Equal(t, "acc-1", res.AccountID)
		assert.True(t, res.BalanceAt.Equal(decimal.RequireFromString("70")))
		assert.Equal(t, at, res.Timestamp)
	})

	t.Run("account not yet created at the timestamp is not found", func(t *testing.T) {
		events := &MockEventRepository{}
		events.GetEventsUntilFn = func(ctx context.Context, aggregateID string, until time.Time) ([]domain.Event, error) {
			return nil, nil
		}

		svc := services.NewAccountQueryService(&MockProjectionRepository{}, events)
		_, err := svc.GetBalanceAt(ctx, "acc-1", at)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestGetAccountEvents(t *testing.T) {
	ctx := context.Background()

	events := &MockEventRepository{}
	var gotFrom int64 = -1
	events.GetEventsFn = func(ctx context.Context, aggregateID string, fromSequenceNumber int64) ([]domain.Event, error) {
		gotFrom = fromSequenceNumber
		return accountHistory(aggregateID, createdPayload(aggregateID, "100")), nil
	}

	svc := services.NewAccountQueryService(&MockProjectionRepository{}, events)
	stream, err := svc.GetAccountEvents(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotFrom, "the raw stream always starts from the beginning")
	assert.Len(t, stream, 1)
}
