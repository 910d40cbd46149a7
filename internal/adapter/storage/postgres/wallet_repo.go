package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// signedSumExpr converts a ledger row into its signed contribution to the
// wallet balance. Debit types subtract, everything else adds. It must stay in
// lockstep with domain.TransactionType.IsDebit.
const signedSumExpr = `COALESCE(SUM(CASE WHEN type IN ('WITHDRAWAL', 'TRANSFER_OUT', 'PAYMENT') THEN -amount ELSE amount END), 0)`

// WalletRepo implements ports.WalletRepository. The balance column does not
// exist: the wallet row carries identity and status, and the balance is the
// signed sum over ledger_entries, computed at rehydration time.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	metadata, err := json.Marshal(w.Metadata)
	if err != nil {
		return fmt.Errorf("marshal wallet metadata: %w", err)
	}

	query := `INSERT INTO wallets (id, owner_id, status, frozen_amount, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.pool.Exec(ctx, query,
		w.ID, w.OwnerID, w.Status, w.FrozenAmount.Int64(),
		metadata, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking) and rehydrates the
// derived balance from the ledger.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, owner_id, status, frozen_amount, metadata, created_at, updated_at
		FROM wallets WHERE id = $1`
	return r.fetch(ctx, r.pool, query, id)
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, owner_id, status, frozen_amount, metadata, created_at, updated_at
		FROM wallets WHERE id = $1 FOR UPDATE`
	return r.fetch(ctx, tx, query, id)
}

// Save persists the aggregate inside a transaction: each staged ledger entry
// is inserted, then the wallet row is updated. Balance is never written.
func (r *WalletRepo) Save(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	insertEntry := `INSERT INTO ledger_entries (id, wallet_id, type, amount, counterparty_id, reference_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i := range w.Staged() {
		e := &w.Staged()[i]
		_, err := tx.Exec(ctx, insertEntry,
			e.ID, e.WalletID, e.Type, e.Amount.Int64(),
			e.CounterpartyID, e.ReferenceID, e.Description, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}

	metadata, err := json.Marshal(w.Metadata)
	if err != nil {
		return fmt.Errorf("marshal wallet metadata: %w", err)
	}

	updateWallet := `UPDATE wallets SET status = $1, frozen_amount = $2, metadata = $3, updated_at = $4 WHERE id = $5`
	tag, err := tx.Exec(ctx, updateWallet,
		w.Status, w.FrozenAmount.Int64(), metadata, time.Now().UTC(), w.ID,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	return nil
}

func (r *WalletRepo) fetch(ctx context.Context, q rowQuerier, query string, id uuid.UUID) (*domain.Wallet, error) {
	var (
		walletID  uuid.UUID
		ownerID   uuid.UUID
		status    domain.WalletStatus
		frozen    int64
		metaRaw   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&walletID, &ownerID, &status, &frozen, &metaRaw, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}

	var metadata map[string]string
	if len(metaRaw) > 0 {
		if err := json.Unmarshal(metaRaw, &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal wallet metadata: %w", err)
		}
	}

	var balance int64
	balanceQuery := `SELECT ` + signedSumExpr + ` FROM ledger_entries WHERE wallet_id = $1`
	if err := q.QueryRow(ctx, balanceQuery, walletID).Scan(&balance); err != nil {
		return nil, fmt.Errorf("sum wallet balance: %w", err)
	}

	return domain.RehydrateWallet(
		walletID, ownerID, status,
		domain.Money(frozen), metadata, domain.Money(balance),
		createdAt, updatedAt,
	), nil
}
