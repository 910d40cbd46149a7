package service

import (
	"context"
	"fmt"
	"time"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"
	"welfare-wallet-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// AvailabilityService implements ports.AvailabilityCalculator.
// Pending debits are resolved with a bounded time-window ledger query, so the
// cost stays flat no matter how long a wallet's history is.
type AvailabilityService struct {
	ledger ports.LedgerRepository
	log    zerolog.Logger
	now    func() time.Time
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(ledger ports.LedgerRepository, log zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		ledger: ledger,
		log:    log,
		now:    time.Now,
	}
}

// pendingDebitTypes are externally-in-flight debits that may not have settled.
var pendingDebitTypes = []domain.TransactionType{
	domain.TransactionTypePayment,
	domain.TransactionTypeTransferOut,
}

// CalculateAvailableBalance derives the spendable balance:
// available = max(0, balance - frozen - pending), where pending is the sum of
// Payment/TransferOut entries created today within the settlement window.
func (s *AvailabilityService) CalculateAvailableBalance(ctx context.Context, wallet *domain.Wallet) (*ports.AvailableBalance, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	from := now.Add(-pendingSettlementWindow)
	if from.Before(startOfDay) {
		from = startOfDay
	}

	pending, err := s.ledger.SumDebits(ctx, wallet.ID, pendingDebitTypes, from, now)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum pending debits: %w", err))
	}

	balance := wallet.Balance()
	available := domain.MaxMoney(0, balance.Sub(wallet.FrozenAmount).Sub(pending))

	result := &ports.AvailableBalance{
		Balance:   balance,
		Frozen:    wallet.FrozenAmount,
		Pending:   pending,
		Available: available,
	}
	if wallet.FrozenAmount.IsPositive() {
		result.Warnings = append(result.Warnings, WarningFundsFrozen)
	}
	if available.LessThan(lowBalanceThreshold) {
		result.Warnings = append(result.Warnings, WarningLowBalance)
	}

	if len(result.Warnings) > 0 {
		s.log.Debug().
			Str("wallet_id", wallet.ID.String()).
			Int64("available", available.Int64()).
			Strs("warnings", result.Warnings).
			Msg("availability warnings")
	}

	return result, nil
}

// ValidateSufficientBalance checks amount against the available balance when
// includePending is set, otherwise against the raw derived balance.
func (s *AvailabilityService) ValidateSufficientBalance(ctx context.Context, wallet *domain.Wallet, amount domain.Money, includePending bool) error {
	if !includePending {
		if wallet.Balance().LessThan(amount) {
			return apperror.ErrInsufficientBalance(amount.Int64(), wallet.Balance().Int64())
		}
		return nil
	}

	avail, err := s.CalculateAvailableBalance(ctx, wallet)
	if err != nil {
		return err
	}
	if avail.Available.LessThan(amount) {
		return apperror.ErrInsufficientBalance(amount.Int64(), avail.Available.Int64())
	}
	return nil
}
