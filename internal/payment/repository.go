package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTransaction(ctx context.Context, userID int, amountQZHalves int64, exchangeRate float64, paymentReference string) (*Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, status, amount_qz_halves, exchange_rate, payment_reference)
		VALUES ($1, 'pending', $2, $3, $4)
		RETURNING id, user_id, status, amount_qz_halves, exchange_rate, payment_reference, created_at
	`

	var t Transaction
	err := r.db.GetContext(ctx, &t, query, userID, amountQZHalves, exchangeRate, paymentReference)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) ConfirmPayment(ctx context.Context, paymentReference string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := lockPendingTransaction(ctx, tx, paymentReference)
	if err != nil {
		return nil, err
	}

	platformAccountID, err := getOrCreateAccount(ctx, tx, OwnerPlatform, nil)
	if err != nil {
		return nil, err
	}

	userAccountID, err := getOrCreateAccount(ctx, tx, OwnerUser, &t.UserID)
	if err != nil {
		return nil, err
	}

	var ledgerTxID int
	err = tx.GetContext(ctx, &ledgerTxID,
		`INSERT INTO ledger_transactions (status) VALUES ('pending') RETURNING id`)
	if err != nil {
		return nil, err
	}

	// One debit, one credit, equal amounts. The pair is what keeps the
	// ledger balanced for a simple purchase.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (ledger_transaction_id, account_id, direction, amount_qz_halves)
		 VALUES ($1, $2, 'debit', $3), ($1, $4, 'credit', $3)`,
		ledgerTxID, platformAccountID, t.AmountQZHalves, userAccountID,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE ledger_transactions SET status = 'posted' WHERE id = $1`, ledgerTxID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE transactions SET status = 'confirmed' WHERE id = $1`, t.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	t.Status = StatusConfirmed
	return t, nil
}

// lockPendingTransaction acquires an exclusive row lock on the pending
// transaction matching the reference. Already-confirmed, already-failed, and
// unknown references all miss the predicate, which is what makes repeated
// confirmation deliveries inert.
func lockPendingTransaction(ctx context.Context, tx *sqlx.Tx, paymentReference string) (*Transaction, error) {
	var t Transaction
	err := tx.GetContext(ctx, &t,
		`SELECT id, user_id, status, amount_qz_halves, exchange_rate, payment_reference, created_at
		 FROM transactions
		 WHERE payment_reference = $1 AND status = 'pending'
		 FOR UPDATE`,
		paymentReference,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetOrCreateAccount(ctx context.Context, ownerType OwnerType, ownerID *int) (int, error) {
	return getOrCreateAccount(ctx, r.db, ownerType, ownerID)
}

func getOrCreateAccount(ctx context.Context, q sqlx.QueryerContext, ownerType OwnerType, ownerID *int) (int, error) {
	var id int
	err := sqlx.GetContext(ctx, q, &id,
		`INSERT INTO ledger_accounts (owner_type, owner_id)
		 VALUES ($1, $2)
		 ON CONFLICT (owner_type, COALESCE(owner_id, 0)) DO NOTHING
		 RETURNING id`,
		ownerType, ownerID,
	)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Conflict: the account already exists, possibly created by a concurrent
	// caller. Re-read it.
	err = sqlx.GetContext(ctx, q, &id,
		`SELECT id FROM ledger_accounts
		 WHERE owner_type = $1 AND COALESCE(owner_id, 0) = COALESCE($2, 0)`,
		ownerType, ownerID,
	)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) GetTransactionsByUser(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs,
		`SELECT id, user_id, status, amount_qz_halves, exchange_rate, payment_reference, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []Transaction{}
	}
	return txs, nil
}
