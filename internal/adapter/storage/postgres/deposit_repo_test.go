package postgres

import (
	"context"
	"testing"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositColumns() []string {
	return []string{"id", "wallet_id", "amount", "status", "tracking_code", "created_at", "updated_at", "completed_at"}
}

func depositRow(d *domain.Deposit) *pgxmock.Rows {
	return pgxmock.NewRows(depositColumns()).AddRow(
		d.ID, d.WalletID, d.Amount.Int64(), d.Status,
		d.TrackingCode, d.CreatedAt, d.UpdatedAt, d.CompletedAt,
	)
}

func TestDepositRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d, err := domain.NewDeposit(uuid.New(), 50_000, "TRK-1")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO deposits").
		WithArgs(d.ID, d.WalletID, int64(50_000), d.Status,
			d.TrackingCode, d.CreatedAt, d.UpdatedAt, d.CompletedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByTrackingCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d, err := domain.NewDeposit(uuid.New(), 50_000, "TRK-2")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM deposits WHERE tracking_code").
		WithArgs("TRK-2").
		WillReturnRows(depositRow(d))

	result, err := repo.GetByTrackingCode(context.Background(), "TRK-2")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, d.ID, result.ID)
	assert.Equal(t, domain.Money(50_000), result.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByTrackingCode_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM deposits WHERE tracking_code").
		WithArgs("TRK-MISSING").
		WillReturnRows(pgxmock.NewRows(depositColumns()))

	result, err := repo.GetByTrackingCode(context.Background(), "TRK-MISSING")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByTrackingCodeForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d, err := domain.NewDeposit(uuid.New(), 50_000, "TRK-3")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM deposits WHERE tracking_code .+ FOR UPDATE").
		WithArgs("TRK-3").
		WillReturnRows(depositRow(d))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByTrackingCodeForUpdate(context.Background(), tx, "TRK-3")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, d.TrackingCode, result.TrackingCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d, err := domain.NewDeposit(uuid.New(), 50_000, "TRK-4")
	require.NoError(t, err)
	require.NoError(t, d.MarkPending())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE deposits SET status").
		WithArgs(d.Status, d.UpdatedAt, d.CompletedAt, d.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d, err := domain.NewDeposit(uuid.New(), 50_000, "TRK-5")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE deposits SET status").
		WithArgs(d.Status, d.UpdatedAt, d.CompletedAt, d.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, d)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "deposit not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
