package service

import (
	"context"
	"fmt"
	"time"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"
	"welfare-wallet-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentService implements ports.PaymentEngine: wallet-funded bill payment
// with fee and stacked-discount computation. The wallet's Payment entry and
// the bill collaborator's payment record commit together or not at all.
type PaymentService struct {
	walletRepo ports.WalletRepository
	billRepo   ports.BillRepository
	ledger     ports.LedgerRepository
	avail      ports.AvailabilityCalculator
	limits     ports.LimitValidator
	transactor ports.DBTransactor
	publisher  ports.EventPublisher
	log        zerolog.Logger
	now        func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	walletRepo ports.WalletRepository,
	billRepo ports.BillRepository,
	ledger ports.LedgerRepository,
	avail ports.AvailabilityCalculator,
	limits ports.LimitValidator,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		walletRepo: walletRepo,
		billRepo:   billRepo,
		ledger:     ledger,
		avail:      avail,
		limits:     limits,
		transactor: transactor,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

// CalculatePaymentDetails computes the fee and stacked discounts for paying
// amount against the bill. Discounts stack additively: early payment (more
// than seven days before the due date), large amount, and VIP owner. The
// final charge is clamped at zero when discounts undercut the fee.
func (s *PaymentService) CalculatePaymentDetails(wallet *domain.Wallet, bill *domain.Bill, amount domain.Money) ports.PaymentDetails {
	d := ports.PaymentDetails{
		Amount: amount,
		Fee:    amount.BasisPoints(paymentFeeBP).Clamp(paymentFeeMin, paymentFeeMax),
	}

	if bill.DueDate.Sub(s.now().UTC()) > earlyPaymentLead {
		d.EarlyPaymentDisc = amount.BasisPoints(earlyPaymentDiscountBP)
	}
	if amount.GreaterThan(largeAmountThreshold) {
		d.LargeAmountDisc = amount.BasisPoints(largeAmountDiscountBP)
	}
	if wallet.IsVIP() {
		d.VIPDisc = amount.BasisPoints(vipDiscountBP)
	}

	d.TotalDiscount = d.EarlyPaymentDisc.Add(d.LargeAmountDisc).Add(d.VIPDisc)
	d.FinalAmount = domain.MaxMoney(0, amount.Add(d.Fee).Sub(d.TotalDiscount))
	return d
}

// PayBill debits the wallet by the computed final amount and records the
// payment against the bill within a single commit boundary.
func (s *PaymentService) PayBill(ctx context.Context, req ports.BillPaymentRequest) (*ports.BillPaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	bill, err := s.billRepo.GetByID(ctx, req.BillID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get bill: %w", err))
	}
	if bill == nil {
		return nil, apperror.ErrNotFound("bill")
	}
	if !bill.IsPayable() {
		return nil, apperror.ErrTerminalBillStatus(string(bill.Status))
	}
	if req.Amount.GreaterThan(bill.RemainingAmount()) {
		return nil, apperror.ErrAmountExceedsRemaining(req.Amount.Int64(), bill.RemainingAmount().Int64())
	}

	// Fast-fail on an already-applied reference before taking any locks;
	// the authoritative check repeats under the wallet lock. The reference
	// defaults to the bill id, matching the entry the aggregate will stage.
	refID := req.ReferenceID
	if refID == "" {
		refID = req.BillID.String()
	}
	exists, err := s.ledger.ReferenceExists(ctx, req.WalletID, refID, domain.TransactionTypePayment)
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

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, lockError("lock wallet", err)
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsActive() {
		return nil, apperror.ErrInactiveWallet()
	}
	if wallet.OwnerID != bill.OwnerID {
		return nil, apperror.ErrWrongOwner()
	}

	// Re-check the idempotency triple under the wallet lock. A competing
	// delivery of the same reference can commit between the unlocked check
	// above and the lock acquisition.
	applied, err := s.ledger.ReferenceExists(ctx, wallet.ID, refID, domain.TransactionTypePayment)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency re-check: %w", err))
	}
	if applied {
		return nil, apperror.ErrConcurrentModification()
	}

	details := s.CalculatePaymentDetails(wallet, bill, req.Amount)

	if err := s.limits.ValidateTransactionLimits(ctx, wallet, details.FinalAmount, domain.TransactionTypePayment); err != nil {
		return nil, err
	}
	if err := s.avail.ValidateSufficientBalance(ctx, wallet, details.FinalAmount, true); err != nil {
		return nil, err
	}

	txn, err := wallet.PayBill(details.FinalAmount, bill.ID, bill.Number, req.ReferenceID, req.Description)
	if err != nil {
		return nil, err
	}

	payment := &domain.BillPayment{
		ID:            uuid.New(),
		BillID:        bill.ID,
		TransactionID: txn.ID,
		Amount:        req.Amount,
		CreatedAt:     txn.CreatedAt,
	}
	if err := s.billRepo.CreatePayment(ctx, dbTx, payment); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create bill payment: %w", err))
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
		Int64("fee", details.Fee.Int64()).
		Int64("discount", details.TotalDiscount.Int64()).
		Int64("final_amount", details.FinalAmount.Int64()).
		Msg("bill payment processed")

	return &ports.BillPaymentResult{Transaction: txn, Details: details}, nil
}
