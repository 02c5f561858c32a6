package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: artículos en o bajo su nivel de reorden.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// GenerateReplenishmentList devuelve los artículos con CurrentStock <= ReorderLevel con la
// cantidad sugerida de pedido, ordenados por mayor déficit relativo primero.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.itemRepo.ListBelowReorderLevel(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, it := range items {
		if !it.BelowReorderLevel() {
			continue
		}
		ideal := inventory.IdealStock(it.ReorderLevel)
		suggested := ideal - it.CurrentStock
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:       it.ID,
			Code:         it.Code,
			Name:         it.Name,
			Unit:         it.Unit,
			CurrentStock: it.CurrentStock,
			ReorderLevel: it.ReorderLevel,
			IdealStock:   ideal,
			SuggestedQty: suggested,
		})
	}

	// Déficit relativo (ReorderLevel-Stock)/ReorderLevel comparado con producto cruzado.
	// Empate: ID menor primero.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		da := (a.ReorderLevel - a.CurrentStock) * b.ReorderLevel
		db := (b.ReorderLevel - b.CurrentStock) * a.ReorderLevel
		if da != db {
			return da > db
		}
		return a.ItemID < b.ItemID
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
