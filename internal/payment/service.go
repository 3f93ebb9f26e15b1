package payment

import (
	"context"
	"errors"
	"fmt"

	"servimarket/internal/logger"
	"servimarket/internal/metrics"
	"servimarket/internal/notification"
	"servimarket/internal/user"

	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("invalid qz amount")

// Mailer queues a settlement receipt. *email.Service satisfies this.
type Mailer interface {
	SendPaymentReceipt(ctx context.Context, to, name, paymentReference string, amountQZHalves int64) error
}

type PurchaseResult struct {
	TransactionID    int     `json:"transaction_id"`
	QZAmount         int64   `json:"qz_amount"`
	ExchangeRate     float64 `json:"exchange_rate"`
	PaymentReference string  `json:"payment_reference"`
}

type Service interface {
	// CreatePurchase records a purchase intent for qzAmount whole QZ. The
	// ledger is untouched until confirmation.
	CreatePurchase(ctx context.Context, userID int, qzAmount int64) (*PurchaseResult, error)

	// ConfirmPayment settles the referenced transaction exactly once. Any
	// repeat or unknown reference returns ErrTransactionNotFound.
	ConfirmPayment(ctx context.Context, paymentReference string) error

	GetTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo     Repository
	rates    RateProvider
	notifier notification.Dispatcher
	users    user.Repository
	mailer   Mailer
}

func NewService(repo Repository, rates RateProvider, notifier notification.Dispatcher, users user.Repository, mailer Mailer) Service {
	return &service{
		repo:     repo,
		rates:    rates,
		notifier: notifier,
		users:    users,
		mailer:   mailer,
	}
}

func (s *service) CreatePurchase(ctx context.Context, userID int, qzAmount int64) (*PurchaseResult, error) {
	if qzAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	rate, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve exchange rate: %w", err)
	}

	reference := "EP-" + uuid.NewString()
	amountHalves := qzAmount * 2

	t, err := s.repo.CreateTransaction(ctx, userID, amountHalves, rate, reference)
	if err != nil {
		return nil, err
	}
	metrics.RecordPurchase()

	logger.Info("purchase created",
		"transaction_id", t.ID,
		"user_id", userID,
		"amount_qz_halves", amountHalves,
		"payment_reference", reference,
	)

	return &PurchaseResult{
		TransactionID:    t.ID,
		QZAmount:         qzAmount,
		ExchangeRate:     rate,
		PaymentReference: reference,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, paymentReference string) error {
	t, err := s.repo.ConfirmPayment(ctx, paymentReference)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			metrics.RecordSettlement("not_found")
		} else {
			metrics.RecordSettlement("error")
		}
		return err
	}
	metrics.RecordSettlement("confirmed")

	logger.Info("payment confirmed",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"payment_reference", t.PaymentReference,
	)

	// The settlement is committed; notification and receipt are best-effort
	// side effects.
	_, err = s.notifier.CreateNotification(ctx, notification.CreateNotificationInput{
		UserID:    t.UserID,
		Type:      notification.TypePaymentConfirmed,
		Title:     "Pago confirmado",
		Message:   fmt.Sprintf("Tu compra de Q%.2f fue acreditada.", float64(t.AmountQZHalves)/2),
		ActionURL: "/payments/transactions",
	})
	if err != nil {
		logger.Error("failed to store payment notification", "transaction_id", t.ID, "error", err)
	}

	if s.mailer != nil {
		if u, err := s.users.FindByID(ctx, t.UserID); err == nil {
			if err := s.mailer.SendPaymentReceipt(ctx, u.Email, u.Name, t.PaymentReference, t.AmountQZHalves); err != nil {
				logger.Error("failed to queue payment receipt", "transaction_id", t.ID, "error", err)
			}
		}
	}

	return nil
}

func (s *service) GetTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	return s.repo.GetTransactionsByUser(ctx, userID, limit, offset)
}
