package postgres

import (
	"context"
	"fmt"
	"time"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
)

// LedgerRepo implements ports.LedgerRepository over the ledger_entries table.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// ReferenceExists checks the (wallet, reference, type) idempotency triple.
func (r *LedgerRepo) ReferenceExists(ctx context.Context, walletID uuid.UUID, referenceID string, txType domain.TransactionType) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE wallet_id = $1 AND reference_id = $2 AND type = $3)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, walletID, referenceID, txType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reference exists: %w", err)
	}
	return exists, nil
}

// SumDebits returns the summed amount of the given types in [from, to).
// Backed by the (wallet_id, type, created_at) index, it answers the limit and
// availability windows without scanning a wallet's full history.
func (r *LedgerRepo) SumDebits(ctx context.Context, walletID uuid.UUID, types []domain.TransactionType, from, to time.Time) (domain.Money, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		WHERE wallet_id = $1 AND type = ANY($2) AND created_at >= $3 AND created_at < $4`

	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	var sum int64
	err := r.pool.QueryRow(ctx, query, walletID, typeNames, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum debits: %w", err)
	}
	return domain.Money(sum), nil
}

// ListByWallet returns a wallet's ledger entries, newest first.
func (r *LedgerRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	query := `SELECT id, wallet_id, type, amount, counterparty_id, reference_id, description, created_at
		FROM ledger_entries WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		var (
			e      domain.Transaction
			amount int64
		)
		err := rows.Scan(
			&e.ID, &e.WalletID, &e.Type, &amount,
			&e.CounterpartyID, &e.ReferenceID, &e.Description, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Amount = domain.Money(amount)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
