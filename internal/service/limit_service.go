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

// LimitService implements ports.LimitValidator with per-type daily caps and a
// flat monthly cap over all debit-type entries.
type LimitService struct {
	ledger ports.LedgerRepository
	log    zerolog.Logger
	now    func() time.Time
}

// NewLimitService creates a new LimitService.
func NewLimitService(ledger ports.LedgerRepository, log zerolog.Logger) *LimitService {
	return &LimitService{
		ledger: ledger,
		log:    log,
		now:    time.Now,
	}
}

var limitDebitTypes = []domain.TransactionType{
	domain.TransactionTypeWithdrawal,
	domain.TransactionTypeTransferOut,
	domain.TransactionTypePayment,
}

// ValidateTransactionLimits rejects amounts that would breach the daily cap
// for txType or the monthly cap, whichever is hit first.
func (s *LimitService) ValidateTransactionLimits(ctx context.Context, wallet *domain.Wallet, amount domain.Money, txType domain.TransactionType) error {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	dailyLimit, ok := dailyLimits[txType]
	if !ok {
		dailyLimit = defaultDailyLimit
	}

	usedToday, err := s.ledger.SumDebits(ctx, wallet.ID, limitDebitTypes, startOfDay, now)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("sum daily debits: %w", err))
	}
	if usedToday.Add(amount).GreaterThan(dailyLimit) {
		s.log.Info().
			Str("wallet_id", wallet.ID.String()).
			Str("type", string(txType)).
			Int64("used_today", usedToday.Int64()).
			Int64("limit", dailyLimit.Int64()).
			Msg("daily transaction limit breached")
		return apperror.ErrDailyLimitExceeded(usedToday.Int64(), dailyLimit.Int64())
	}

	usedThisMonth, err := s.ledger.SumDebits(ctx, wallet.ID, limitDebitTypes, startOfMonth, now)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("sum monthly debits: %w", err))
	}
	if usedThisMonth.Add(amount).GreaterThan(monthlyLimit) {
		s.log.Info().
			Str("wallet_id", wallet.ID.String()).
			Str("type", string(txType)).
			Int64("used_month", usedThisMonth.Int64()).
			Int64("limit", monthlyLimit.Int64()).
			Msg("monthly transaction limit breached")
		return apperror.ErrMonthlyLimitExceeded(usedThisMonth.Int64(), monthlyLimit.Int64())
	}

	return nil
}
