package domain

import (
	"time"

	"welfare-wallet-engine/pkg/apperror"

	"github.com/google/uuid"
)

// DepositStatus represents the state of an externally driven funding request.
// Transitions only move forward: REQUESTED -> PENDING -> {COMPLETED, CANCELLED},
// with cancellation also allowed straight from REQUESTED.
type DepositStatus string

const (
	DepositStatusRequested DepositStatus = "REQUESTED"
	DepositStatusPending   DepositStatus = "PENDING"
	DepositStatusCompleted DepositStatus = "COMPLETED"
	DepositStatusCancelled DepositStatus = "CANCELLED"
)

// Deposit tracks one external funding request for a wallet. It is an
// independent lifecycle object: created when funding is requested, terminal
// once completed or cancelled.
type Deposit struct {
	ID           uuid.UUID     `json:"id"`
	WalletID     uuid.UUID     `json:"wallet_id"`
	Amount       Money         `json:"amount"`
	Status       DepositStatus `json:"status"`
	TrackingCode string        `json:"tracking_code"` // external billing correlation id
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// NewDeposit creates a deposit in the REQUESTED state.
func NewDeposit(walletID uuid.UUID, amount Money, trackingCode string) (*Deposit, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if trackingCode == "" {
		return nil, apperror.Validation("tracking code must not be empty")
	}
	now := time.Now().UTC()
	return &Deposit{
		ID:           uuid.New(),
		WalletID:     walletID,
		Amount:       amount,
		Status:       DepositStatusRequested,
		TrackingCode: trackingCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsTerminal reports whether the deposit reached a final state.
func (d *Deposit) IsTerminal() bool {
	return d.Status == DepositStatusCompleted || d.Status == DepositStatusCancelled
}

// MarkPending moves REQUESTED -> PENDING when the billing collaborator
// confirms bill creation for the deposit.
func (d *Deposit) MarkPending() error {
	if d.Status != DepositStatusRequested {
		return apperror.ErrInvalidDepositTransition(string(d.Status), string(DepositStatusPending))
	}
	d.Status = DepositStatusPending
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete moves PENDING -> COMPLETED when the bill-fully-paid event arrives.
func (d *Deposit) Complete() error {
	if d.Status != DepositStatusPending {
		return apperror.ErrInvalidDepositTransition(string(d.Status), string(DepositStatusCompleted))
	}
	now := time.Now().UTC()
	d.Status = DepositStatusCompleted
	d.CompletedAt = &now
	d.UpdatedAt = now
	return nil
}

// Cancel moves REQUESTED or PENDING -> CANCELLED on failure or timeout signals.
func (d *Deposit) Cancel() error {
	if d.IsTerminal() {
		return apperror.ErrInvalidDepositTransition(string(d.Status), string(DepositStatusCancelled))
	}
	d.Status = DepositStatusCancelled
	d.UpdatedAt = time.Now().UTC()
	return nil
}
