package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypePayment     TransactionType = "PAYMENT"
	TransactionTypeRefund      TransactionType = "REFUND"
)

// IsDebit reports whether the type removes money from the wallet.
func (t TransactionType) IsDebit() bool {
	switch t {
	case TransactionTypeWithdrawal, TransactionTypeTransferOut, TransactionTypePayment:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry: one signed money movement
// against a wallet. Amount is always non-negative; direction comes from Type.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	WalletID       uuid.UUID       `json:"wallet_id"`
	Type           TransactionType `json:"type"`
	Amount         Money           `json:"amount"`
	CounterpartyID *uuid.UUID      `json:"counterparty_id,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"` // external correlation / idempotency key
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Signed returns the amount with its ledger sign applied: negative for
// debit types, positive for credit types.
func (t *Transaction) Signed() Money {
	if t.Type.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}
