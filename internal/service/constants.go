package service

import (
	"time"

	"welfare-wallet-engine/internal/core/domain"
)

// Transfer fee schedule. Transfers at or below the free threshold carry no
// fee; above it the rate depends on whether both wallets share an owner,
// clamped into [transferFeeMin, transferFeeMax].
const (
	transferFreeThreshold = domain.Money(10_000)
	transferSameOwnerBP   = 10 // 0.1%
	transferCrossOwnerBP  = 20 // 0.2%
	transferFeeMin        = domain.Money(1_000)
	transferFeeMax        = domain.Money(100_000)
)

// Bill payment fee and discount schedule. Discounts stack additively.
const (
	paymentFeeBP  = 50 // 0.5%
	paymentFeeMin = domain.Money(500)
	paymentFeeMax = domain.Money(50_000)

	earlyPaymentDiscountBP = 200 // 2%, paying >7 days before due date
	largeAmountDiscountBP  = 100 // 1%, amounts above the large threshold
	vipDiscountBP          = 50  // 0.5%, VIP-flagged owners

	largeAmountThreshold = domain.Money(10_000_000)
	earlyPaymentLead     = 7 * 24 * time.Hour
)

// Availability calculation.
const (
	pendingSettlementWindow = 30 * time.Minute
	lowBalanceThreshold     = domain.Money(10_000)
)

// Advisory warnings emitted by the availability calculator.
const (
	WarningFundsFrozen = "funds frozen"
	WarningLowBalance  = "low available balance"
)

// Transaction limit caps, in minor units.
const (
	defaultDailyLimit = domain.Money(50_000_000)
	monthlyLimit      = domain.Money(500_000_000)
)

var dailyLimits = map[domain.TransactionType]domain.Money{
	domain.TransactionTypeTransferOut: 100_000_000,
	domain.TransactionTypePayment:     200_000_000,
	domain.TransactionTypeWithdrawal:  20_000_000,
}

const idempotencyTTL = 24 * time.Hour
