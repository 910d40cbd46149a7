package service

import (
	"context"
	"testing"
	"time"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports/mocks"
	"welfare-wallet-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func testWallet(balance, frozen domain.Money) *domain.Wallet {
	now := time.Now().UTC()
	return domain.RehydrateWallet(uuid.New(), uuid.New(), domain.WalletStatusActive, frozen, nil, balance, now, now)
}

func setupAvailability(t *testing.T) (*AvailabilityService, *mocks.MockLedgerRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerRepository(ctrl)
	svc := NewAvailabilityService(ledger, zerolog.Nop())
	return svc, ledger, ctrl
}

func TestAvailability_FrozenReducesAvailable(t *testing.T) {
	svc, ledger, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	w := testWallet(50_000, 20_000)
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, pendingDebitTypes, gomock.Any(), gomock.Any()).
		Return(domain.Money(0), nil)

	result, err := svc.CalculateAvailableBalance(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(30_000), result.Available)
	assert.Contains(t, result.Warnings, WarningFundsFrozen)
	assert.NotContains(t, result.Warnings, WarningLowBalance)
}

func TestAvailability_LowBalanceWarning(t *testing.T) {
	svc, ledger, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	w := testWallet(5_000, 0)
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, pendingDebitTypes, gomock.Any(), gomock.Any()).
		Return(domain.Money(0), nil)

	result, err := svc.CalculateAvailableBalance(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(5_000), result.Available)
	assert.Contains(t, result.Warnings, WarningLowBalance)
	assert.NotContains(t, result.Warnings, WarningFundsFrozen)
}

func TestAvailability_PendingDebitsSubtracted(t *testing.T) {
	svc, ledger, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	w := testWallet(100_000, 10_000)
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, pendingDebitTypes, gomock.Any(), gomock.Any()).
		Return(domain.Money(25_000), nil)

	result, err := svc.CalculateAvailableBalance(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(65_000), result.Available)
	assert.Equal(t, domain.Money(25_000), result.Pending)
}

func TestAvailability_NeverNegative(t *testing.T) {
	svc, ledger, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	w := testWallet(10_000, 50_000)
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, pendingDebitTypes, gomock.Any(), gomock.Any()).
		Return(domain.Money(0), nil)

	result, err := svc.CalculateAvailableBalance(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(0), result.Available)
}

func TestAvailability_WindowBoundedToCurrentDay(t *testing.T) {
	svc, ledger, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	// Ten minutes past midnight: the window must start at midnight, not
	// thirty minutes back into yesterday.
	fixed := time.Date(2025, 3, 14, 0, 10, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	w := testWallet(50_000, 0)
	midnight := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, pendingDebitTypes, midnight, fixed).
		Return(domain.Money(0), nil)

	_, err := svc.CalculateAvailableBalance(context.Background(), w)
	require.NoError(t, err)
}

func TestValidateSufficientBalance_RawMode(t *testing.T) {
	svc, _, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	w := testWallet(1_000, 900) // frozen irrelevant in raw mode
	require.NoError(t, svc.ValidateSufficientBalance(context.Background(), w, 1_000, false))

	err := svc.ValidateSufficientBalance(context.Background(), w, 1_001, false)
	assertAppError(t, err, "POL_001")
}

func TestValidateSufficientBalance_PendingAware(t *testing.T) {
	svc, ledger, ctrl := setupAvailability(t)
	defer ctrl.Finish()

	w := testWallet(10_000, 4_000)
	ledger.EXPECT().
		SumDebits(gomock.Any(), w.ID, pendingDebitTypes, gomock.Any(), gomock.Any()).
		Return(domain.Money(1_000), nil).
		Times(2)

	// available = 10,000 - 4,000 - 1,000 = 5,000
	require.NoError(t, svc.ValidateSufficientBalance(context.Background(), w, 5_000, true))
	err := svc.ValidateSufficientBalance(context.Background(), w, 5_001, true)
	assertAppError(t, err, "POL_001")
}
