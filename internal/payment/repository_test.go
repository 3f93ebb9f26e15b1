package payment

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupPaymentMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var transactionColumns = []string{
	"id", "user_id", "status", "amount_qz_halves", "exchange_rate", "payment_reference", "created_at",
}

func TestCreateTransaction(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions (user_id, status, amount_qz_halves, exchange_rate, payment_reference) VALUES ($1, 'pending', $2, $3, $4)")).
		WithArgs(10, int64(300), 7.8, "EP-ref1").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(1, 10, "pending", 300, 7.8, "EP-ref1", time.Now()))

	tx, err := repo.CreateTransaction(ctx, 10, 300, 7.8, "EP-ref1")
	require.NoError(t, err)
	require.Equal(t, 1, tx.ID)
	require.Equal(t, StatusPending, tx.Status)
	require.Equal(t, int64(300), tx.AmountQZHalves)
}

func TestConfirmPayment_SettlesOnce(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()

	// Lock the pending row
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE payment_reference = $1 AND status = 'pending' FOR UPDATE")).
		WithArgs("EP-123").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(5, 10, "pending", 300, 7.8, "EP-123", time.Now()))

	// Platform account exists already: insert conflicts, reselect resolves
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO ledger_accounts (owner_type, owner_id) VALUES ($1, $2) ON CONFLICT (owner_type, COALESCE(owner_id, 0)) DO NOTHING RETURNING id")).
		WithArgs(OwnerPlatform, nil).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM ledger_accounts WHERE owner_type = $1 AND COALESCE(owner_id, 0) = COALESCE($2, 0)")).
		WithArgs(OwnerPlatform, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	// User account created fresh
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO ledger_accounts (owner_type, owner_id) VALUES ($1, $2) ON CONFLICT (owner_type, COALESCE(owner_id, 0)) DO NOTHING RETURNING id")).
		WithArgs(OwnerUser, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO ledger_transactions (status) VALUES ('pending') RETURNING id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))

	// Balanced debit/credit pair in one statement
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries (ledger_transaction_id, account_id, direction, amount_qz_halves) VALUES ($1, $2, 'debit', $3), ($1, $4, 'credit', $3)")).
		WithArgs(20, 1, int64(300), 2).
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE ledger_transactions SET status = 'posted' WHERE id = $1")).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status = 'confirmed' WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	tx, err := repo.ConfirmPayment(ctx, "EP-123")
	require.NoError(t, err)
	require.Equal(t, 5, tx.ID)
	require.Equal(t, StatusConfirmed, tx.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_NoPendingRow(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE payment_reference = $1 AND status = 'pending' FOR UPDATE")).
		WithArgs("EP-ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConfirmPayment(ctx, "EP-ghost")
	require.ErrorIs(t, err, ErrTransactionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsByUser(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(10, 50, 0).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(1, 10, "confirmed", 300, 7.8, "EP-1", time.Now()).
			AddRow(2, 10, "pending", 40, 7.8, "EP-2", time.Now()))

	txs, err := repo.GetTransactionsByUser(ctx, 10, 0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
}

func TestGetTransactionsByUser_Empty(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE user_id = $1")).
		WithArgs(99, 50, 0).
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	txs, err := repo.GetTransactionsByUser(ctx, 99, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, txs)
	require.Empty(t, txs)
}
