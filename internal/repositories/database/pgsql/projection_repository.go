package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	"github.com/openledgerhq/bankledger/internal/models"
	"github.com/openledgerhq/bankledger/internal/utils/mapping"
	"github.com/openledgerhq/bankledger/internal/utils/pagination"
)

// PgxProjectionRepository maintains the read models and their durable
// cursors.
type PgxProjectionRepository struct {
	BaseRepository
}

// newPgxProjectionRepository creates a new repository for projection data.
func newPgxProjectionRepository(pool *pgxpool.Pool) portsrepo.ProjectionRepository {
	return &PgxProjectionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProjectionRepository implements portsrepo.ProjectionRepository
var _ portsrepo.ProjectionRepository = (*PgxProjectionRepository)(nil)

// EnsureCursor creates the cursor row at 0 if it is missing.
func (r *PgxProjectionRepository) EnsureCursor(ctx context.Context, projectionName string) error {
	query := `
		INSERT INTO projection_cursors (projection_name, last_processed_global_sequence_number)
		VALUES ($1, 0)
		ON CONFLICT (projection_name) DO NOTHING;
	`
	if _, err := r.Pool.Exec(ctx, query, projectionName); err != nil {
		return fmt.Errorf("failed to ensure cursor for projection %s: %w", projectionName, err)
	}
	return nil
}

// GetCursor returns the last processed global sequence number for a
// projection, or 0 when the cursor row does not exist yet.
func (r *PgxProjectionRepository) GetCursor(ctx context.Context, projectionName string) (int64, error) {
	var last int64
	err := r.Pool.QueryRow(ctx,
		`SELECT last_processed_global_sequence_number FROM projection_cursors WHERE projection_name = $1`,
		projectionName,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query cursor for projection %s: %w", projectionName, err)
	}
	return last, nil
}

// ListCursors returns every projection cursor.
func (r *PgxProjectionRepository) ListCursors(ctx context.Context) ([]domain.ProjectionCursor, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT projection_name, last_processed_global_sequence_number, updated_at FROM projection_cursors ORDER BY projection_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projection cursors: %w", err)
	}
	defer rows.Close()

	var cursors []domain.ProjectionCursor
	for rows.Next() {
		var m models.ProjectionCursor
		if err := rows.Scan(&m.ProjectionName, &m.LastProcessedGlobalSequenceNumber, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan projection cursor row: %w", err)
		}
		cursors = append(cursors, mapping.ToDomainProjectionCursor(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projection cursor rows: %w", err)
	}
	return cursors, nil
}

// ProjectEvent applies one event's read-model mutation for the named
// projection and advances its cursor, both in a single transaction committed
// before the caller moves to the next event. A crash mid-replay therefore
// leaves the cursor consistent with the read model at event granularity.
func (r *PgxProjectionRepository) ProjectEvent(ctx context.Context, projectionName string, event domain.Event) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	switch projectionName {
	case domain.ProjectionAccountSummaries:
		err = applyAccountSummaryEvent(ctx, tx, event)
	case domain.ProjectionTransactionHistory:
		err = applyTransactionHistoryEvent(ctx, tx, event)
	default:
		err = fmt.Errorf("unknown projection name: %s", projectionName)
	}
	if err != nil {
		return err
	}

	advanceQuery := `
		UPDATE projection_cursors
		SET last_processed_global_sequence_number = $1, updated_at = NOW()
		WHERE projection_name = $2;
	`
	if _, err := tx.Exec(ctx, advanceQuery, event.GlobalSequenceNumber, projectionName); err != nil {
		return fmt.Errorf("failed to advance cursor for projection %s: %w", projectionName, err)
	}

	return r.Commit(ctx, tx)
}

// applyAccountSummaryEvent folds one event into the account_summaries read
// model. Every handler is idempotent against re-delivery.
func applyAccountSummaryEvent(ctx context.Context, tx pgx.Tx, event domain.Event) error {
	switch p := event.Payload.(type) {
	case domain.AccountCreatedPayload:
		query := `
			INSERT INTO account_summaries (account_id, owner_name, balance, currency, status, version)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (account_id) DO NOTHING;
		`
		_, err := tx.Exec(ctx, query, event.AggregateID, p.OwnerName, p.InitialBalance, p.Currency, string(domain.StatusOpen), event.GlobalSequenceNumber)
		if err != nil {
			return fmt.Errorf("failed to insert account summary for %s: %w", event.AggregateID, err)
		}
	case domain.MoneyDepositedPayload:
		return adjustSummaryBalance(ctx, tx, event.AggregateID, event.GlobalSequenceNumber, `balance + $1`, p.Amount.String())
	case domain.MoneyWithdrawnPayload:
		return adjustSummaryBalance(ctx, tx, event.AggregateID, event.GlobalSequenceNumber, `balance - $1`, p.Amount.String())
	case domain.AccountClosedPayload:
		query := `
			UPDATE account_summaries
			SET status = $1, version = $2
			WHERE account_id = $3 AND version < $2;
		`
		_, err := tx.Exec(ctx, query, string(domain.StatusClosed), event.GlobalSequenceNumber, event.AggregateID)
		if err != nil {
			return fmt.Errorf("failed to close account summary for %s: %w", event.AggregateID, err)
		}
	default:
		return fmt.Errorf("%w: %s in account summaries projection", apperrors.ErrUnknownEventType, event.EventType)
	}
	return nil
}

// adjustSummaryBalance applies a balance delta, guarded by the version so a
// re-delivered event never double-counts.
func adjustSummaryBalance(ctx context.Context, tx pgx.Tx, accountID string, version int64, deltaExpr, amount string) error {
	query := fmt.Sprintf(`
		UPDATE account_summaries
		SET balance = %s, version = $2
		WHERE account_id = $3 AND version < $2;
	`, deltaExpr)
	_, err := tx.Exec(ctx, query, amount, version, accountID)
	if err != nil {
		return fmt.Errorf("failed to adjust account summary balance for %s: %w", accountID, err)
	}
	return nil
}

// applyTransactionHistoryEvent folds one event into the transaction_history
// read model. Inserts are keyed by transaction id, so replays and retried
// writes deduplicate. Lifecycle events carry no history entry but still
// advance the cursor.
func applyTransactionHistoryEvent(ctx context.Context, tx pgx.Tx, event domain.Event) error {
	insertQuery := `
		INSERT INTO transaction_history (transaction_id, account_id, type, amount, description, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transaction_id) DO NOTHING;
	`
	switch p := event.Payload.(type) {
	case domain.MoneyDepositedPayload:
		_, err := tx.Exec(ctx, insertQuery, p.TransactionID, event.AggregateID, string(domain.TransactionTypeDeposit), p.Amount, p.Description, event.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert deposit history row %s: %w", p.TransactionID, err)
		}
	case domain.MoneyWithdrawnPayload:
		_, err := tx.Exec(ctx, insertQuery, p.TransactionID, event.AggregateID, string(domain.TransactionTypeWithdraw), p.Amount, p.Description, event.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert withdrawal history row %s: %w", p.TransactionID, err)
		}
	case domain.AccountCreatedPayload, domain.AccountClosedPayload:
		// No history entry for lifecycle events.
	default:
		return fmt.Errorf("%w: %s in transaction history projection", apperrors.ErrUnknownEventType, event.EventType)
	}
	return nil
}

// ResetAll clears every read-model row and every cursor in one atomic
// transaction. The event log itself is never touched.
func (r *PgxProjectionRepository) ResetAll(ctx context.Context) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	for _, stmt := range []string{
		`DELETE FROM transaction_history`,
		`DELETE FROM account_summaries`,
		`DELETE FROM projection_cursors`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset projections (%s): %w", stmt, err)
		}
	}

	return r.Commit(ctx, tx)
}

// GetAccountSummary returns the summary row for an account.
func (r *PgxProjectionRepository) GetAccountSummary(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	query := `
		SELECT account_id, owner_name, balance, currency, status, version
		FROM account_summaries
		WHERE account_id = $1;
	`
	var m models.AccountSummary
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID,
		&m.OwnerName,
		&m.Balance,
		&m.Currency,
		&m.Status,
		&m.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account summary for %s: %w", accountID, err)
	}

	summary := mapping.ToDomainAccountSummary(m)
	return &summary, nil
}

// ListTransactions retrieves a page of transaction history for an account
// using keyset pagination on (timestamp, transaction_id), ascending.
func (r *PgxProjectionRepository) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error) {
	baseQuery := `
		SELECT transaction_id, account_id, type, amount, description, timestamp
		FROM transaction_history
		WHERE account_id = $1
	`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		afterTimestamp, afterID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		baseQuery += ` AND (timestamp, transaction_id) > ($2, $3)`
		args = append(args, afterTimestamp, afterID)
	}

	// Fetch one extra row to know whether another page exists.
	baseQuery += fmt.Sprintf(` ORDER BY timestamp ASC, transaction_id ASC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, baseQuery, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transaction history for %s: %w", accountID, err)
	}
	defer rows.Close()

	var entries []domain.TransactionEntry
	for rows.Next() {
		var m models.TransactionEntry
		if err := rows.Scan(&m.TransactionID, &m.AccountID, &m.Type, &m.Amount, &m.Description, &m.Timestamp); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction history row: %w", err)
		}
		entries = append(entries, mapping.ToDomainTransactionEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate transaction history rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		encoded := pagination.EncodeToken(last.Timestamp, last.TransactionID)
		token = &encoded
	}
	return entries, token, nil
}
