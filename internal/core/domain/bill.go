package domain

import (
	"time"

	"github.com/google/uuid"
)

// BillStatus mirrors the billing collaborator's lifecycle states, as far as
// the ledger engine needs to see them.
type BillStatus string

const (
	BillStatusIssued        BillStatus = "ISSUED"
	BillStatusPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillStatusFullyPaid     BillStatus = "FULLY_PAID"
	BillStatusCancelled     BillStatus = "CANCELLED"
	BillStatusVoided        BillStatus = "VOIDED"
)

// Bill is the billing aggregate's projection inside the ledger engine.
// Its own lifecycle is owned by the billing collaborator.
type Bill struct {
	ID          uuid.UUID  `json:"id"`
	Number      string     `json:"number"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	TotalAmount Money      `json:"total_amount"`
	PaidAmount  Money      `json:"paid_amount"`
	DueDate     time.Time  `json:"due_date"`
	Status      BillStatus `json:"status"`
}

// RemainingAmount returns the unpaid portion.
func (b *Bill) RemainingAmount() Money {
	return b.TotalAmount.Sub(b.PaidAmount)
}

// IsPayable reports whether the bill can still accept a payment.
func (b *Bill) IsPayable() bool {
	switch b.Status {
	case BillStatusCancelled, BillStatusFullyPaid, BillStatusVoided:
		return false
	}
	return true
}

// IsRefundable reports whether a refund may be issued against the bill.
func (b *Bill) IsRefundable() bool {
	return b.Status == BillStatusFullyPaid || b.Status == BillStatusPartiallyPaid
}

// BillPayment records one wallet-funded payment against a bill, created in
// the same commit as the wallet's Payment ledger entry.
type BillPayment struct {
	ID            uuid.UUID `json:"id"`
	BillID        uuid.UUID `json:"bill_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        Money     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// BillRefund records one refund against a bill, paired with the wallet's
// Refund ledger entry.
type BillRefund struct {
	ID            uuid.UUID `json:"id"`
	BillID        uuid.UUID `json:"bill_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        Money     `json:"amount"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}
