package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ApplyStockChangeFromRequest adapta el request HTTP al caso de uso ApplyStockChange(ctx, StockChangeInput).
// userID viene del token (middleware de auth), nunca del body.
func (uc *LedgerUseCase) ApplyStockChangeFromRequest(ctx context.Context, userID int64, in dto.StockMovementRequest) (*dto.TransactionResponse, error) {
	t, err := uc.ApplyStockChange(ctx, StockChangeInput{
		ItemID:     in.ItemID,
		UserID:     userID,
		Action:     in.Action,
		Quantity:   in.Quantity,
		RequestKey: in.RequestKey,
		Notes:      in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(t), nil
}

// ToTransactionResponse convierte la entidad del ledger a su DTO.
func ToTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:             t.ID,
		ItemID:         t.ItemID,
		ItemCode:       t.ItemCode,
		ItemName:       t.ItemName,
		UserID:         t.UserID,
		Username:       t.Username,
		Action:         t.Action,
		QuantityChange: t.QuantityChange,
		Timestamp:      t.Timestamp,
		RequestKey:     t.RequestKey,
		Notes:          t.Notes,
	}
}
