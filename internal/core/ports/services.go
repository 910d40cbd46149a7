package ports

import (
	"context"
	"time"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
)

// IdempotencyCache is the Redis-layer duplicate-event check (fast path).
// The authoritative check is the ledger's (wallet, reference, type) triple.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher emits post-commit notifications for downstream consumers.
// Publishing is best-effort; a failed publish never rolls back a commit.
type EventPublisher interface {
	BalanceChanged(ctx context.Context, walletID uuid.UUID, balance domain.Money) error
	TransactionCompleted(ctx context.Context, txn *domain.Transaction) error
	DepositCompleted(ctx context.Context, deposit *domain.Deposit) error
}

// --- Service Ports (Business Logic) ---

// AvailableBalance is the availability calculator's result.
type AvailableBalance struct {
	Balance   domain.Money
	Frozen    domain.Money
	Pending   domain.Money
	Available domain.Money
	Warnings  []string
}

// AvailabilityCalculator derives spendable balance from frozen holds and
// recent not-yet-settled debits.
type AvailabilityCalculator interface {
	CalculateAvailableBalance(ctx context.Context, wallet *domain.Wallet) (*AvailableBalance, error)
	// ValidateSufficientBalance compares amount against available balance
	// (includePending) or the raw balance (otherwise).
	ValidateSufficientBalance(ctx context.Context, wallet *domain.Wallet, amount domain.Money, includePending bool) error
}

// LimitValidator enforces daily and monthly caps per transaction type.
type LimitValidator interface {
	ValidateTransactionLimits(ctx context.Context, wallet *domain.Wallet, amount domain.Money, txType domain.TransactionType) error
}

// TransferRequest holds validated input for a cross-wallet transfer.
type TransferRequest struct {
	SourceWalletID      uuid.UUID
	DestinationWalletID uuid.UUID
	Amount              domain.Money
	ReferenceID         string
	Description         string
	IncludePending      bool // check availability instead of raw balance
}

// TransferResult reports both ledger entries plus the computed fee.
type TransferResult struct {
	SourceTransaction      *domain.Transaction
	DestinationTransaction *domain.Transaction
	Amount                 domain.Money
	Fee                    domain.Money
}

// TransferEngine moves money between two wallets atomically.
type TransferEngine interface {
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// BillPaymentRequest holds validated input for a wallet-funded bill payment.
type BillPaymentRequest struct {
	WalletID    uuid.UUID
	BillID      uuid.UUID
	Amount      domain.Money
	ReferenceID string
	Description string
}

// PaymentDetails is the fee/discount breakdown for a bill payment.
type PaymentDetails struct {
	Amount             domain.Money
	Fee                domain.Money
	EarlyPaymentDisc   domain.Money
	LargeAmountDisc    domain.Money
	VIPDisc            domain.Money
	TotalDiscount      domain.Money
	FinalAmount        domain.Money
}

// BillPaymentResult reports the ledger entry plus the payment breakdown.
type BillPaymentResult struct {
	Transaction *domain.Transaction
	Details     PaymentDetails
}

// PaymentEngine pays bills from wallets, with fee and discount computation.
type PaymentEngine interface {
	PayBill(ctx context.Context, req BillPaymentRequest) (*BillPaymentResult, error)
	// CalculatePaymentDetails is the pure quoting computation, exposed so
	// callers can preview charges without committing anything.
	CalculatePaymentDetails(wallet *domain.Wallet, bill *domain.Bill, amount domain.Money) PaymentDetails
}

// RefundRequest holds validated input for a wallet-side refund credit.
type RefundRequest struct {
	WalletID    uuid.UUID
	BillID      uuid.UUID
	Amount      domain.Money
	Reason      string
	ReferenceID string
}

// RefundResult reports the wallet credit and the bill-side refund record.
type RefundResult struct {
	Transaction *domain.Transaction
	Refund      *domain.BillRefund
}

// RefundEngine credits wallets for bill refunds.
type RefundEngine interface {
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}

// DepositRequest holds input for starting the deposit lifecycle.
type DepositRequest struct {
	WalletID     uuid.UUID
	Amount       domain.Money
	TrackingCode string
}

// DepositEngine drives the deposit state machine from external billing events.
// Handle* methods are idempotent against duplicate delivery: a replayed event
// that already took effect returns the current deposit unchanged.
type DepositEngine interface {
	RequestDeposit(ctx context.Context, req DepositRequest) (*domain.Deposit, error)
	HandleDepositReady(ctx context.Context, trackingCode string) (*domain.Deposit, error)
	HandleBillPaid(ctx context.Context, trackingCode string) (*domain.Deposit, error)
	HandleDepositFailed(ctx context.Context, trackingCode string) (*domain.Deposit, error)
}
