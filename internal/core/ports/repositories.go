package ports

import (
	"context"
	"time"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallet aggregates.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic
// locking; Save persists the wallet row and every staged ledger entry
// together, atomic-or-fail.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	Save(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
}

// LedgerRepository defines read-side queries over persisted ledger entries.
// The windowed sums back the limit validator and the availability calculator;
// they must be answered by indexed range queries, never by loading a wallet's
// full history.
type LedgerRepository interface {
	// ReferenceExists reports whether an entry with the given
	// (wallet, reference, type) idempotency triple is already persisted.
	ReferenceExists(ctx context.Context, walletID uuid.UUID, referenceID string, txType domain.TransactionType) (bool, error)
	// SumDebits returns the summed amount of the given debit types created
	// in [from, to).
	SumDebits(ctx context.Context, walletID uuid.UUID, types []domain.TransactionType, from, to time.Time) (domain.Money, error)
	// ListByWallet returns entries for a wallet, newest first.
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// BillRepository is the billing collaborator boundary. CreatePayment and
// CreateRefund are invoked within the same commit as the wallet mutation.
type BillRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	// GetByIDForUpdate fetches a bill inside tx with a row lock, so
	// competing refunds against the same bill serialize.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Bill, error)
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *domain.BillPayment) error
	CreateRefund(ctx context.Context, tx pgx.Tx, refund *domain.BillRefund) error
	// SumRefunds returns the total of completed refunds recorded for a
	// bill, read through the caller's transaction.
	SumRefunds(ctx context.Context, tx pgx.Tx, billID uuid.UUID) (domain.Money, error)
}

// DepositRepository defines persistence for deposit state machines.
type DepositRepository interface {
	Create(ctx context.Context, deposit *domain.Deposit) error
	GetByTrackingCode(ctx context.Context, trackingCode string) (*domain.Deposit, error)
	GetByTrackingCodeForUpdate(ctx context.Context, tx pgx.Tx, trackingCode string) (*domain.Deposit, error)
	Update(ctx context.Context, tx pgx.Tx, deposit *domain.Deposit) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
