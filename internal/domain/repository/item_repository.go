package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ItemFilter criterios de búsqueda para listados de artículos.
type ItemFilter struct {
	Search     string // subcadena en código o nombre
	CategoryID int64  // 0 = todas
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// UpdateStock solo debe usarse desde el servicio de ledger, dentro de TxRunner.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Item, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	ListBelowReorderLevel(ctx context.Context) ([]*entity.Item, error)
	Delete(ctx context.Context, id int64) error
}
