package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad stock + ledger.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
