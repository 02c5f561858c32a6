package inventory

import (
	"math"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// MaxStock es el mayor stock representable (columna INTEGER).
const MaxStock = math.MaxInt32

// ApplyMovement calcula el nuevo stock y el cambio firmado para un movimiento (servicio de dominio).
// Add suma, Withdraw resta y exige StockActual >= Cantidad; nunca se recorta la cantidad.
// Un Add que dejaría el stock por encima de MaxStock se rechaza con ErrInvalidQuantity.
func ApplyMovement(current int, action string, quantity int) (newStock, change int, err error) {
	if !entity.ValidAction(action) {
		return current, 0, domain.ErrInvalidAction
	}
	if quantity <= 0 || quantity > MaxStock {
		return current, 0, domain.ErrInvalidQuantity
	}
	if action == entity.ActionWithdraw {
		if current < quantity {
			return current, 0, domain.ErrInsufficientStock
		}
		return current - quantity, -quantity, nil
	}
	if quantity > MaxStock-current {
		return current, 0, domain.ErrInvalidQuantity
	}
	return current + quantity, quantity, nil
}

// IdealStock nivel objetivo de reposición: ReorderLevel * 1.5 redondeado hacia arriba.
func IdealStock(reorderLevel int) int {
	if reorderLevel <= 0 {
		return 0
	}
	return (reorderLevel*3 + 1) / 2
}
