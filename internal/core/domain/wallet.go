package domain

import (
	"time"

	"welfare-wallet-engine/pkg/apperror"

	"github.com/google/uuid"
)

// WalletStatus represents the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
	WalletStatusClosed    WalletStatus = "CLOSED"
)

// Metadata keys for ad-hoc wallet flags.
const (
	MetadataKeyVIP = "vip"
)

// Wallet is the ledger aggregate. Its balance is derived from the signed sum
// of its transactions and is never set directly: every mutation appends an
// immutable ledger entry through one of the intention-revealing methods below.
// Appended entries are staged on the aggregate until the repository persists
// them together with the wallet row in one database transaction.
type Wallet struct {
	ID           uuid.UUID         `json:"id"`
	OwnerID      uuid.UUID         `json:"owner_id"`
	Status       WalletStatus      `json:"status"`
	FrozenAmount Money             `json:"frozen_amount"` // administrative hold, excluded from availability
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	balance Money // signed sum of persisted entries, set at rehydration
	staged  []Transaction
}

// NewWallet creates an empty active wallet for an owner.
func NewWallet(ownerID uuid.UUID) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Status:    WalletStatusActive,
		Metadata:  map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RehydrateWallet reconstructs a wallet from storage. balance must be the
// signed sum over the wallet's persisted ledger entries.
func RehydrateWallet(
	id, ownerID uuid.UUID,
	status WalletStatus,
	frozen Money,
	metadata map[string]string,
	balance Money,
	createdAt, updatedAt time.Time,
) *Wallet {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &Wallet{
		ID:           id,
		OwnerID:      ownerID,
		Status:       status,
		FrozenAmount: frozen,
		Metadata:     metadata,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		balance:      balance,
	}
}

// Balance returns the derived balance: persisted sum plus staged entries.
func (w *Wallet) Balance() Money {
	b := w.balance
	for i := range w.staged {
		b = b.Add(w.staged[i].Signed())
	}
	return b
}

// IsActive reports whether the wallet accepts mutations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// HasSufficientBalance reports whether the raw balance covers amount.
func (w *Wallet) HasSufficientBalance(amount Money) bool {
	return !w.Balance().LessThan(amount)
}

// IsVIP reports whether the owner is flagged as VIP in wallet metadata.
func (w *Wallet) IsVIP() bool {
	return w.Metadata[MetadataKeyVIP] == "true"
}

// Staged returns the ledger entries appended during this unit of work,
// in append order. The repository persists them at Save time.
func (w *Wallet) Staged() []Transaction {
	return w.staged
}

// append stages a new ledger entry after the shared active/amount checks.
func (w *Wallet) append(
	txType TransactionType,
	amount Money,
	counterpartyID *uuid.UUID,
	referenceID, description string,
) (*Transaction, error) {
	if !w.IsActive() {
		return nil, apperror.ErrInactiveWallet()
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	entry := Transaction{
		ID:             uuid.New(),
		WalletID:       w.ID,
		Type:           txType,
		Amount:         amount,
		CounterpartyID: counterpartyID,
		ReferenceID:    referenceID,
		Description:    description,
		CreatedAt:      time.Now().UTC(),
	}
	w.staged = append(w.staged, entry)
	w.UpdatedAt = entry.CreatedAt
	return &w.staged[len(w.staged)-1], nil
}

// Credit stages a credit-type entry. Internal primitive shared by the
// intention-revealing methods.
func (w *Wallet) Credit(txType TransactionType, amount Money, counterpartyID *uuid.UUID, referenceID, description string) (*Transaction, error) {
	if txType.IsDebit() {
		return nil, apperror.Validation("credit requires a credit-type transaction")
	}
	return w.append(txType, amount, counterpartyID, referenceID, description)
}

// Debit stages a debit-type entry, failing when the derived balance cannot
// cover it. The balance invariant (never negative) holds by construction.
func (w *Wallet) Debit(txType TransactionType, amount Money, counterpartyID *uuid.UUID, referenceID, description string) (*Transaction, error) {
	if !txType.IsDebit() {
		return nil, apperror.Validation("debit requires a debit-type transaction")
	}
	if !w.IsActive() {
		return nil, apperror.ErrInactiveWallet()
	}
	if amount.IsPositive() && w.Balance().LessThan(amount) {
		return nil, apperror.ErrInsufficientBalance(amount.Int64(), w.Balance().Int64())
	}
	return w.append(txType, amount, counterpartyID, referenceID, description)
}

// TransferOut stages an outgoing transfer to the counterparty wallet.
func (w *Wallet) TransferOut(amount Money, counterpartyID uuid.UUID, referenceID, description string) (*Transaction, error) {
	return w.Debit(TransactionTypeTransferOut, amount, &counterpartyID, referenceID, description)
}

// TransferIn stages an incoming transfer from the counterparty wallet.
func (w *Wallet) TransferIn(amount Money, counterpartyID uuid.UUID, referenceID, description string) (*Transaction, error) {
	return w.Credit(TransactionTypeTransferIn, amount, &counterpartyID, referenceID, description)
}

// PayBill stages a payment debit against a bill.
func (w *Wallet) PayBill(amount Money, billID uuid.UUID, billNumber, referenceID, description string) (*Transaction, error) {
	if description == "" {
		description = "Payment for bill " + billNumber
	}
	if referenceID == "" {
		referenceID = billID.String()
	}
	return w.Debit(TransactionTypePayment, amount, nil, referenceID, description)
}

// ReceiveRefund stages a refund credit for a bill.
func (w *Wallet) ReceiveRefund(amount Money, billID uuid.UUID, billNumber, referenceID, description string) (*Transaction, error) {
	if description == "" {
		description = "Refund for bill " + billNumber
	}
	if referenceID == "" {
		referenceID = billID.String()
	}
	return w.Credit(TransactionTypeRefund, amount, nil, referenceID, description)
}

// RecordDeposit stages a deposit credit for an externally settled funding request.
func (w *Wallet) RecordDeposit(amount Money, referenceID, description string) (*Transaction, error) {
	return w.Credit(TransactionTypeDeposit, amount, nil, referenceID, description)
}

// Withdraw stages a withdrawal debit.
func (w *Wallet) Withdraw(amount Money, referenceID, description string) (*Transaction, error) {
	return w.Debit(TransactionTypeWithdrawal, amount, nil, referenceID, description)
}
