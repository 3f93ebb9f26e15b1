package payment

import "time"

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is a purchase intent. Amounts are integer QZ halves so money
// math never touches floating point.
type Transaction struct {
	ID               int               `db:"id" json:"id"`
	UserID           int               `db:"user_id" json:"user_id"`
	Status           TransactionStatus `db:"status" json:"status"`
	AmountQZHalves   int64             `db:"amount_qz_halves" json:"amount_qz_halves"`
	ExchangeRate     float64           `db:"exchange_rate" json:"exchange_rate"`
	PaymentReference string            `db:"payment_reference" json:"payment_reference"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}

type OwnerType string

const (
	OwnerPlatform OwnerType = "platform"
	OwnerUser     OwnerType = "user"
)

type LedgerAccount struct {
	ID        int       `db:"id" json:"id"`
	OwnerType OwnerType `db:"owner_type" json:"owner_type"`
	OwnerID   *int      `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type LedgerTransaction struct {
	ID        int       `db:"id" json:"id"`
	Status    string    `db:"status" json:"status"` // pending, posted
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type EntryDirection string

const (
	DirectionDebit  EntryDirection = "debit"
	DirectionCredit EntryDirection = "credit"
)

type LedgerEntry struct {
	ID                  int            `db:"id" json:"id"`
	LedgerTransactionID int            `db:"ledger_transaction_id" json:"ledger_transaction_id"`
	AccountID           int            `db:"account_id" json:"account_id"`
	Direction           EntryDirection `db:"direction" json:"direction"`
	AmountQZHalves      int64          `db:"amount_qz_halves" json:"amount_qz_halves"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
}
