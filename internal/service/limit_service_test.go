package service

import (
	"context"
	"testing"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupLimits(t *testing.T) (*LimitService, *mocks.MockLedgerRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerRepository(ctrl)
	svc := NewLimitService(ledger, zerolog.Nop())
	return svc, ledger, ctrl
}

func TestLimits_WithinBothCaps(t *testing.T) {
	svc, ledger, ctrl := setupLimits(t)
	defer ctrl.Finish()

	w := testWallet(0, 0)
	gomock.InOrder(
		ledger.EXPECT().
			SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
			Return(domain.Money(10_000_000), nil),
		ledger.EXPECT().
			SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
			Return(domain.Money(40_000_000), nil),
	)

	err := svc.ValidateTransactionLimits(context.Background(), w, 2_000_000, domain.TransactionTypeTransferOut)
	require.NoError(t, err)
}

func TestLimits_DailyCapBreached(t *testing.T) {
	svc, ledger, ctrl := setupLimits(t)
	defer ctrl.Finish()

	w := testWallet(0, 0)
	// TransferOut daily cap is 100,000,000; 99M used + 2M requested breaches it.
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
		Return(domain.Money(99_000_000), nil)

	err := svc.ValidateTransactionLimits(context.Background(), w, 2_000_000, domain.TransactionTypeTransferOut)
	assertAppError(t, err, "POL_003")
	assert.Contains(t, err.Error(), "remaining 1000000")
}

func TestLimits_DailyCapExactFit(t *testing.T) {
	svc, ledger, ctrl := setupLimits(t)
	defer ctrl.Finish()

	w := testWallet(0, 0)
	gomock.InOrder(
		ledger.EXPECT().
			SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
			Return(domain.Money(99_000_000), nil),
		ledger.EXPECT().
			SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
			Return(domain.Money(99_000_000), nil),
	)

	// exactly at the cap is allowed
	err := svc.ValidateTransactionLimits(context.Background(), w, 1_000_000, domain.TransactionTypeTransferOut)
	require.NoError(t, err)
}

func TestLimits_PerTypeDailyCaps(t *testing.T) {
	cases := []struct {
		txType domain.TransactionType
		used   domain.Money
		amount domain.Money
	}{
		{domain.TransactionTypePayment, 199_000_000, 2_000_000},    // cap 200M
		{domain.TransactionTypeWithdrawal, 19_500_000, 1_000_000},  // cap 20M
		{domain.TransactionTypeTransferIn, 49_000_000, 2_000_000},  // default cap 50M
	}

	for _, tc := range cases {
		t.Run(string(tc.txType), func(t *testing.T) {
			svc, ledger, ctrl := setupLimits(t)
			defer ctrl.Finish()

			w := testWallet(0, 0)
			ledger.EXPECT().
				SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
				Return(tc.used, nil)

			err := svc.ValidateTransactionLimits(context.Background(), w, tc.amount, tc.txType)
			assertAppError(t, err, "POL_003")
		})
	}
}

func TestLimits_MonthlyCapBreached(t *testing.T) {
	svc, ledger, ctrl := setupLimits(t)
	defer ctrl.Finish()

	w := testWallet(0, 0)
	gomock.InOrder(
		ledger.EXPECT().
			SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
			Return(domain.Money(50_000_000), nil),
		ledger.EXPECT().
			SumDebits(gomock.Any(), w.ID, limitDebitTypes, gomock.Any(), gomock.Any()).
			Return(domain.Money(499_000_000), nil),
	)

	err := svc.ValidateTransactionLimits(context.Background(), w, 2_000_000, domain.TransactionTypeTransferOut)
	assertAppError(t, err, "POL_004")
}
