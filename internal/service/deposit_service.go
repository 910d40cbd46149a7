package service

import (
	"context"
	"encoding/json"
	"fmt"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"
	"welfare-wallet-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// DepositService implements ports.DepositEngine. The lifecycle is externally
// driven: billing events move a deposit forward through
// REQUESTED -> PENDING -> {COMPLETED, CANCELLED}, and completion credits the
// wallet exactly once no matter how many times the settlement event arrives.
type DepositService struct {
	walletRepo  ports.WalletRepository
	depositRepo ports.DepositRepository
	ledger      ports.LedgerRepository
	idempCache  ports.IdempotencyCache
	transactor  ports.DBTransactor
	publisher   ports.EventPublisher
	log         zerolog.Logger
}

// NewDepositService creates a new DepositService.
func NewDepositService(
	walletRepo ports.WalletRepository,
	depositRepo ports.DepositRepository,
	ledger ports.LedgerRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *DepositService {
	return &DepositService{
		walletRepo:  walletRepo,
		depositRepo: depositRepo,
		ledger:      ledger,
		idempCache:  idempCache,
		transactor:  transactor,
		publisher:   publisher,
		log:         log,
	}
}

func depositCacheKey(trackingCode string) string {
	return "deposit:completed:" + trackingCode
}

// RequestDeposit opens the funding lifecycle for an active wallet.
func (s *DepositService) RequestDeposit(ctx context.Context, req ports.DepositRequest) (*domain.Deposit, error) {
	wallet, err := s.walletRepo.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.IsActive() {
		return nil, apperror.ErrInactiveWallet()
	}

	deposit, err := domain.NewDeposit(req.WalletID, req.Amount, req.TrackingCode)
	if err != nil {
		return nil, err
	}
	if err := s.depositRepo.Create(ctx, deposit); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create deposit: %w", err))
	}

	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("wallet_id", req.WalletID.String()).
		Int64("amount", req.Amount.Int64()).
		Str("tracking_code", req.TrackingCode).
		Msg("deposit requested")

	return deposit, nil
}

// HandleDepositReady reacts to the billing collaborator confirming bill
// creation: REQUESTED -> PENDING. Replays are no-ops.
func (s *DepositService) HandleDepositReady(ctx context.Context, trackingCode string) (*domain.Deposit, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	deposit, err := s.depositRepo.GetByTrackingCodeForUpdate(ctx, dbTx, trackingCode)
	if err != nil {
		return nil, lockError("lock deposit", err)
	}
	if deposit == nil {
		return nil, apperror.ErrNotFound("deposit")
	}
	if deposit.Status != domain.DepositStatusRequested {
		// Duplicate delivery, the transition already happened.
		return deposit, nil
	}

	if err := deposit.MarkPending(); err != nil {
		return nil, err
	}
	if err := s.depositRepo.Update(ctx, dbTx, deposit); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update deposit: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("tracking_code", trackingCode).
		Msg("deposit pending")

	return deposit, nil
}

// HandleBillPaid reacts to the external "bill fully paid" settlement event:
// PENDING -> COMPLETED, then credits the wallet with a Deposit-type entry.
// The tracking code is the idempotency key; the credit is guarded both by the
// deposit state re-check and by the ledger's (wallet, reference, type) triple,
// so duplicate delivery produces exactly one credit.
func (s *DepositService) HandleBillPaid(ctx context.Context, trackingCode string) (*domain.Deposit, error) {
	// Fast path: a completed result cached from an earlier delivery.
	if cached, err := s.idempCache.Get(ctx, depositCacheKey(trackingCode)); err != nil {
		s.log.Warn().Err(err).Str("tracking_code", trackingCode).Msg("idempotency cache check failed, falling through to DB")
	} else if cached != nil {
		deposit := &domain.Deposit{}
		if err := json.Unmarshal(cached, deposit); err == nil {
			return deposit, nil
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	deposit, err := s.depositRepo.GetByTrackingCodeForUpdate(ctx, dbTx, trackingCode)
	if err != nil {
		return nil, lockError("lock deposit", err)
	}
	if deposit == nil {
		return nil, apperror.ErrNotFound("deposit")
	}
	if deposit.Status != domain.DepositStatusPending {
		// Duplicate or out-of-order delivery. Completed and cancelled
		// deposits are terminal, so this is a no-op.
		return deposit, nil
	}

	if err := deposit.Complete(); err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, deposit.WalletID)
	if err != nil {
		return nil, lockError("lock wallet", err)
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	credited, err := s.ledger.ReferenceExists(ctx, wallet.ID, trackingCode, domain.TransactionTypeDeposit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency check: %w", err))
	}
	var txn *domain.Transaction
	if !credited {
		txn, err = wallet.RecordDeposit(deposit.Amount, trackingCode, "Deposit "+trackingCode)
		if err != nil {
			return nil, err
		}
	}

	if err := s.depositRepo.Update(ctx, dbTx, deposit); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update deposit: %w", err))
	}
	if err := s.walletRepo.Save(ctx, dbTx, wallet); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if data, err := json.Marshal(deposit); err == nil {
		if err := s.idempCache.Set(ctx, depositCacheKey(trackingCode), data, idempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("tracking_code", trackingCode).Msg("failed to cache completed deposit")
		}
	}

	if err := s.publisher.DepositCompleted(ctx, deposit); err != nil {
		s.log.Warn().Err(err).Str("deposit_id", deposit.ID.String()).Msg("failed to publish deposit event")
	}
	if txn != nil {
		if err := s.publisher.TransactionCompleted(ctx, txn); err != nil {
			s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to publish transaction event")
		}
		if err := s.publisher.BalanceChanged(ctx, wallet.ID, wallet.Balance()); err != nil {
			s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("failed to publish balance event")
		}
	}

	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("tracking_code", trackingCode).
		Int64("amount", deposit.Amount.Int64()).
		Msg("deposit completed")

	return deposit, nil
}

// HandleDepositFailed reacts to explicit failure or timeout signals:
// REQUESTED or PENDING -> CANCELLED. Terminal deposits are left untouched.
func (s *DepositService) HandleDepositFailed(ctx context.Context, trackingCode string) (*domain.Deposit, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	deposit, err := s.depositRepo.GetByTrackingCodeForUpdate(ctx, dbTx, trackingCode)
	if err != nil {
		return nil, lockError("lock deposit", err)
	}
	if deposit == nil {
		return nil, apperror.ErrNotFound("deposit")
	}
	if deposit.IsTerminal() {
		return deposit, nil
	}

	if err := deposit.Cancel(); err != nil {
		return nil, err
	}
	if err := s.depositRepo.Update(ctx, dbTx, deposit); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update deposit: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("tracking_code", trackingCode).
		Msg("deposit cancelled")

	return deposit, nil
}
