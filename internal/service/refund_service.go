package service

import (
	"context"
	"fmt"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"
	"welfare-wallet-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RefundService implements ports.RefundEngine: a wallet-side Refund credit
// paired with a bill-side refund record in one commit.
type RefundService struct {
	walletRepo ports.WalletRepository
	billRepo   ports.BillRepository
	ledger     ports.LedgerRepository
	transactor ports.DBTransactor
	publisher  ports.EventPublisher
	log        zerolog.Logger
}

// NewRefundService creates a new RefundService.
func NewRefundService(
	walletRepo ports.WalletRepository,
	billRepo ports.BillRepository,
	ledger ports.LedgerRepository,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *RefundService {
	return &RefundService{
		walletRepo: walletRepo,
		billRepo:   billRepo,
		ledger:     ledger,
		transactor: transactor,
		publisher:  publisher,
		log:        log,
	}
}

// Refund credits the wallet and records the refund against the bill. The sum
// of completed refunds plus this request may never exceed what was actually
// paid on the bill, regardless of wallet state.
func (s *RefundService) Refund(ctx context.Context, req ports.RefundRequest) (*ports.RefundResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Reason == "" {
		return nil, apperror.ErrEmptyReason()
	}

	// Fast-fail on an already-applied reference before taking any locks.
	// The authoritative check repeats under the wallet lock below.
	refID := req.ReferenceID
	if refID == "" {
		refID = req.BillID.String()
	}
	exists, err := s.ledger.ReferenceExists(ctx, req.WalletID, refID, domain.TransactionTypeRefund)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency check: %w", err))
	}
	if exists {
		return nil, apperror.ErrDuplicateReference()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// The bill row is locked for the duration of the refund so that the
	// cap below is evaluated against a frozen refund total. Concurrent
	// refunds for the same bill serialize here.
	bill, err := s.billRepo.GetByIDForUpdate(ctx, dbTx, req.BillID)
	if err != nil {
		return nil, lockError("lock bill", err)
	}
	if bill == nil {
		return nil, apperror.ErrNotFound("bill")
	}
	if !bill.IsRefundable() {
		return nil, apperror.ErrTerminalBillStatus(string(bill.Status))
	}

	refunded, err := s.billRepo.SumRefunds(ctx, dbTx, req.BillID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum refunds: %w", err))
	}
	if refunded.Add(req.Amount).GreaterThan(bill.PaidAmount) {
		return nil, apperror.ErrRefundExceedsPaid(req.Amount.Int64(), bill.PaidAmount.Sub(refunded).Int64())
	}

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, lockError("lock wallet", err)
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	// Re-check the idempotency triple under the wallet lock. A competing
	// delivery of the same reference can commit between the unlocked check
	// above and the lock acquisition.
	applied, err := s.ledger.ReferenceExists(ctx, wallet.ID, refID, domain.TransactionTypeRefund)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency re-check: %w", err))
	}
	if applied {
		return nil, apperror.ErrConcurrentModification()
	}

	txn, err := wallet.ReceiveRefund(req.Amount, bill.ID, bill.Number, req.ReferenceID, req.Reason)
	if err != nil {
		return nil, err
	}

	refund := &domain.BillRefund{
		ID:            uuid.New(),
		BillID:        bill.ID,
		TransactionID: txn.ID,
		Amount:        req.Amount,
		Reason:        req.Reason,
		CreatedAt:     txn.CreatedAt,
	}
	if err := s.billRepo.CreateRefund(ctx, dbTx, refund); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create bill refund: %w", err))
	}
	if err := s.walletRepo.Save(ctx, dbTx, wallet); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if err := s.publisher.TransactionCompleted(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to publish transaction event")
	}
	if err := s.publisher.BalanceChanged(ctx, wallet.ID, wallet.Balance()); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("failed to publish balance event")
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("bill_id", bill.ID.String()).
		Int64("amount", req.Amount.Int64()).
		Str("reason", req.Reason).
		Msg("refund processed")

	return &ports.RefundResult{Transaction: txn, Refund: refund}, nil
}
