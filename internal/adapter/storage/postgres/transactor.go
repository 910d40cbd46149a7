package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor over the wallet engine's
// connection pool. Every ledger mutation runs through one transaction it
// hands out: the wallet row lock, the staged entries and any bill-side
// record commit together or roll back together.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps pool as the engine's transaction source.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens the commit boundary for one ledger operation.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
