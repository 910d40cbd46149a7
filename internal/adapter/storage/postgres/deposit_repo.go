package postgres

import (
	"context"
	"errors"
	"fmt"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// DepositRepo implements ports.DepositRepository.
type DepositRepo struct {
	pool Pool
}

// NewDepositRepo creates a new DepositRepo.
func NewDepositRepo(pool Pool) *DepositRepo {
	return &DepositRepo{pool: pool}
}

// Create inserts a new deposit.
func (r *DepositRepo) Create(ctx context.Context, d *domain.Deposit) error {
	query := `INSERT INTO deposits (id, wallet_id, amount, status, tracking_code, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.WalletID, d.Amount.Int64(), d.Status,
		d.TrackingCode, d.CreatedAt, d.UpdatedAt, d.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// GetByTrackingCode fetches a deposit by tracking code (without locking).
func (r *DepositRepo) GetByTrackingCode(ctx context.Context, trackingCode string) (*domain.Deposit, error) {
	query := `SELECT id, wallet_id, amount, status, tracking_code, created_at, updated_at, completed_at
		FROM deposits WHERE tracking_code = $1`
	return scanDeposit(r.pool.QueryRow(ctx, query, trackingCode))
}

// GetByTrackingCodeForUpdate fetches a deposit by tracking code with
// pessimistic locking. This MUST be called within a transaction.
func (r *DepositRepo) GetByTrackingCodeForUpdate(ctx context.Context, tx pgx.Tx, trackingCode string) (*domain.Deposit, error) {
	query := `SELECT id, wallet_id, amount, status, tracking_code, created_at, updated_at, completed_at
		FROM deposits WHERE tracking_code = $1 FOR UPDATE`
	return scanDeposit(tx.QueryRow(ctx, query, trackingCode))
}

// Update persists a deposit's state within a database transaction.
func (r *DepositRepo) Update(ctx context.Context, tx pgx.Tx, d *domain.Deposit) error {
	query := `UPDATE deposits SET status = $1, updated_at = $2, completed_at = $3 WHERE id = $4`

	tag, err := tx.Exec(ctx, query, d.Status, d.UpdatedAt, d.CompletedAt, d.ID)
	if err != nil {
		return fmt.Errorf("update deposit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit not found: %s", d.ID)
	}
	return nil
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	d := &domain.Deposit{}
	var amount int64
	err := row.Scan(
		&d.ID, &d.WalletID, &amount, &d.Status,
		&d.TrackingCode, &d.CreatedAt, &d.UpdatedAt, &d.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan deposit: %w", err)
	}
	d.Amount = domain.Money(amount)
	return d, nil
}
