package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ToolAttributeRepository puerto para las medidas de herramienta (1:1 con Item).
type ToolAttributeRepository interface {
	Upsert(ctx context.Context, attr *entity.ToolAttribute) error
	GetByItemID(ctx context.Context, itemID int64) (*entity.ToolAttribute, error)
}
