package service

import (
	"context"
	"fmt"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"
	"welfare-wallet-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransferService implements ports.TransferEngine. Both wallet rows are
// locked for the duration of the operation, always in ascending wallet-id
// order so two opposing transfers over the same pair cannot deadlock.
type TransferService struct {
	walletRepo ports.WalletRepository
	ledger     ports.LedgerRepository
	avail      ports.AvailabilityCalculator
	limits     ports.LimitValidator
	transactor ports.DBTransactor
	publisher  ports.EventPublisher
	log        zerolog.Logger
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	walletRepo ports.WalletRepository,
	ledger ports.LedgerRepository,
	avail ports.AvailabilityCalculator,
	limits ports.LimitValidator,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *TransferService {
	return &TransferService{
		walletRepo: walletRepo,
		ledger:     ledger,
		avail:      avail,
		limits:     limits,
		transactor: transactor,
		publisher:  publisher,
		log:        log,
	}
}

// transferFee computes the fee retained on a transfer. Transfers at or below
// the free threshold are free; otherwise the rate is 0.1% between wallets of
// the same owner and 0.2% across owners, clamped into the fee band.
func transferFee(amount domain.Money, sameOwner bool) domain.Money {
	if !amount.GreaterThan(transferFreeThreshold) {
		return 0
	}
	bp := int64(transferCrossOwnerBP)
	if sameOwner {
		bp = transferSameOwnerBP
	}
	return amount.BasisPoints(bp).Clamp(transferFeeMin, transferFeeMax)
}

// Transfer moves amount from source to destination, debiting amount+fee from
// the source and crediting amount to the destination. The fee is retained.
// No ledger entry is committed unless both sides succeed.
func (s *TransferService) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.SourceWalletID == req.DestinationWalletID {
		return nil, apperror.ErrSameWalletTransfer()
	}

	// Fast-fail on an already-applied reference before taking any locks.
	// The authoritative check repeats under the row lock below.
	if req.ReferenceID != "" {
		exists, err := s.ledger.ReferenceExists(ctx, req.SourceWalletID, req.ReferenceID, domain.TransactionTypeTransferOut)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency check: %w", err))
		}
		if exists {
			return nil, apperror.ErrDuplicateReference()
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Fixed global lock order: ascending wallet id.
	firstID, secondID := req.SourceWalletID, req.DestinationWalletID
	if secondID.String() < firstID.String() {
		firstID, secondID = secondID, firstID
	}
	first, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, firstID)
	if err != nil {
		return nil, lockError("lock wallet", err)
	}
	second, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, secondID)
	if err != nil {
		return nil, lockError("lock wallet", err)
	}

	source, destination := first, second
	if firstID != req.SourceWalletID {
		source, destination = second, first
	}
	if source == nil || destination == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !source.IsActive() || !destination.IsActive() {
		return nil, apperror.ErrInactiveWallet()
	}

	// Re-check the idempotency triple now that the source row is locked.
	// A competing delivery of the same reference can commit between the
	// unlocked check above and the lock acquisition.
	if req.ReferenceID != "" {
		applied, err := s.ledger.ReferenceExists(ctx, source.ID, req.ReferenceID, domain.TransactionTypeTransferOut)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency re-check: %w", err))
		}
		if applied {
			return nil, apperror.ErrConcurrentModification()
		}
	}

	fee := transferFee(req.Amount, source.OwnerID == destination.OwnerID)
	totalDebit := req.Amount.Add(fee)

	if err := s.limits.ValidateTransactionLimits(ctx, source, totalDebit, domain.TransactionTypeTransferOut); err != nil {
		return nil, err
	}
	if err := s.avail.ValidateSufficientBalance(ctx, source, totalDebit, req.IncludePending); err != nil {
		return nil, err
	}

	srcTxn, err := source.TransferOut(totalDebit, destination.ID, req.ReferenceID, req.Description)
	if err != nil {
		return nil, err
	}
	destTxn, err := destination.TransferIn(req.Amount, source.ID, req.ReferenceID, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.Save(ctx, dbTx, source); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save source wallet: %w", err))
	}
	if err := s.walletRepo.Save(ctx, dbTx, destination); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save destination wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publishTransferEvents(ctx, source, destination, srcTxn, destTxn)

	s.log.Info().
		Str("source_wallet", source.ID.String()).
		Str("destination_wallet", destination.ID.String()).
		Int64("amount", req.Amount.Int64()).
		Int64("fee", fee.Int64()).
		Msg("transfer completed")

	return &ports.TransferResult{
		SourceTransaction:      srcTxn,
		DestinationTransaction: destTxn,
		Amount:                 req.Amount,
		Fee:                    fee,
	}, nil
}

// publishTransferEvents emits post-commit notifications, best-effort.
func (s *TransferService) publishTransferEvents(ctx context.Context, source, destination *domain.Wallet, srcTxn, destTxn *domain.Transaction) {
	for _, txn := range []*domain.Transaction{srcTxn, destTxn} {
		if err := s.publisher.TransactionCompleted(ctx, txn); err != nil {
			s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to publish transaction event")
		}
	}
	for _, w := range []*domain.Wallet{source, destination} {
		if err := s.publisher.BalanceChanged(ctx, w.ID, w.Balance()); err != nil {
			s.log.Warn().Err(err).Str("wallet_id", w.ID.String()).Msg("failed to publish balance event")
		}
	}
}
