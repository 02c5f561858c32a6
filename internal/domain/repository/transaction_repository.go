package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// TransactionFilter filtros para el listado del ledger. Todos opcionales; se combinan con AND.
type TransactionFilter struct {
	Action string
	From   *time.Time // inclusivo
	To     *time.Time // inclusivo
	Search string     // subcadena en código o nombre del artículo
	ItemID int64
	Limit  int
	Offset int
}

// TransactionTotals agregado del ledger para un filtro, sin límite ni desplazamiento.
type TransactionTotals struct {
	Count     int
	Added     int
	Withdrawn int // valor absoluto
}

// TransactionRepository puerto del ledger. Solo inserción y lectura: no hay Update ni Delete.
type TransactionRepository interface {
	// Create inserta el movimiento y completa ID y Timestamp desde la base de datos.
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByRequestKey(ctx context.Context, requestKey string) (*entity.Transaction, error)
	// List ordena por timestamp DESC, id DESC.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	// Totals agrega todo lo que coincide con el filtro; Limit y Offset se ignoran.
	Totals(ctx context.Context, filter TransactionFilter) (TransactionTotals, error)
	SumByItem(ctx context.Context, itemID int64) (int, error)
}
