package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner       = (*TxRunner)(nil)
	_ usecase.RegistryTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout > 0 limita la espera por el lock
// de fila (SET LOCAL lock_timeout); al vencer, Postgres devuelve 55P03 y el ledger lo reintenta.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	return r.inTx(ctx, r.lockTimeout, func(tx pgx.Tx) error {
		return fn(ctx, NewItemRepository(tx), NewTransactionRepository(tx))
	})
}

// RunRegistry agrupa el alta de un artículo y sus medidas en una sola transacción.
func (r *TxRunner) RunRegistry(ctx context.Context, fn func(
	ctx context.Context,
	items repository.ItemRepository,
	tools repository.ToolAttributeRepository,
) error) error {
	return r.inTx(ctx, 0, func(tx pgx.Tx) error {
		return fn(ctx, NewItemRepository(tx), NewToolAttributeRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, lockTimeout time.Duration, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return dbError("set lock_timeout", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		// El resultado de un COMMIT fallido no se reintenta.
		return &domain.PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}
