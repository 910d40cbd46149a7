package postgres

import (
	"context"
	"errors"
	"fmt"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BillRepo implements ports.BillRepository.
type BillRepo struct {
	pool Pool
}

// NewBillRepo creates a new BillRepo.
func NewBillRepo(pool Pool) *BillRepo {
	return &BillRepo{pool: pool}
}

const billColumns = `id, number, owner_id, total_amount, paid_amount, due_date, status`

func (r *BillRepo) fetch(ctx context.Context, q rowQuerier, query string, id uuid.UUID) (*domain.Bill, error) {
	b := &domain.Bill{}
	var total, paid int64
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Number, &b.OwnerID, &total, &paid, &b.DueDate, &b.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	b.TotalAmount = domain.Money(total)
	b.PaidAmount = domain.Money(paid)
	return b, nil
}

// GetByID fetches a bill by UUID.
func (r *BillRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	b, err := r.fetch(ctx, r.pool, query, id)
	if err != nil {
		return nil, fmt.Errorf("get bill by id: %w", err)
	}
	return b, nil
}

// GetByIDForUpdate fetches a bill inside tx with a FOR UPDATE row lock.
// Refund cap checks read the refund total while this lock is held.
func (r *BillRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 FOR UPDATE`

	b, err := r.fetch(ctx, tx, query, id)
	if err != nil {
		return nil, fmt.Errorf("lock bill by id: %w", err)
	}
	return b, nil
}

// CreatePayment records a bill payment within a database transaction,
// alongside the ledger entry that funds it.
func (r *BillRepo) CreatePayment(ctx context.Context, tx pgx.Tx, p *domain.BillPayment) error {
	query := `INSERT INTO bill_payments (id, bill_id, transaction_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, p.ID, p.BillID, p.TransactionID, p.Amount.Int64(), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bill payment: %w", err)
	}
	return nil
}

// CreateRefund records a bill refund within a database transaction.
func (r *BillRepo) CreateRefund(ctx context.Context, tx pgx.Tx, rf *domain.BillRefund) error {
	query := `INSERT INTO bill_refunds (id, bill_id, transaction_id, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query, rf.ID, rf.BillID, rf.TransactionID, rf.Amount.Int64(), rf.Reason, rf.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bill refund: %w", err)
	}
	return nil
}

// SumRefunds returns the total refunded against a bill, read through the
// caller's transaction so it is consistent with the bill row lock.
func (r *BillRepo) SumRefunds(ctx context.Context, tx pgx.Tx, billID uuid.UUID) (domain.Money, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM bill_refunds WHERE bill_id = $1`

	var sum int64
	if err := tx.QueryRow(ctx, query, billID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum bill refunds: %w", err)
	}
	return domain.Money(sum), nil
}
