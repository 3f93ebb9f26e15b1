package payment

import "context"

type Repository interface {
	// CreateTransaction inserts a pending purchase intent. No ledger rows are
	// written at this stage.
	CreateTransaction(ctx context.Context, userID int, amountQZHalves int64, exchangeRate float64, paymentReference string) (*Transaction, error)

	// ConfirmPayment settles the pending transaction matching the reference
	// inside one database transaction: it locks the pending row, posts a
	// balanced debit/credit entry pair, and flips the status to confirmed.
	// A reference with no pending row returns ErrTransactionNotFound.
	ConfirmPayment(ctx context.Context, paymentReference string) (*Transaction, error)

	GetTransactionsByUser(ctx context.Context, userID, limit, offset int) ([]Transaction, error)

	// GetOrCreateAccount resolves the ledger account for an owner, creating it
	// lazily on first use. Safe to call concurrently for the same owner.
	GetOrCreateAccount(ctx context.Context, ownerType OwnerType, ownerID *int) (int, error)
}
