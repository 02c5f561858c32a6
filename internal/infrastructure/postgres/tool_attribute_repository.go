package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ToolAttributeRepository = (*ToolAttributeRepo)(nil)

// ToolAttributeRepo medidas de herramienta (NUMERIC <-> decimal.Decimal vía pgx-shopspring-decimal).
type ToolAttributeRepo struct {
	q Querier
}

// NewToolAttributeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewToolAttributeRepository(q Querier) *ToolAttributeRepo {
	return &ToolAttributeRepo{q: q}
}

// Upsert inserta o reemplaza las medidas del artículo.
func (r *ToolAttributeRepo) Upsert(ctx context.Context, a *entity.ToolAttribute) error {
	query := `
		INSERT INTO tool_attributes (item_id, diameter, radius, length, hardness, pitch, material_type, origin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (item_id)
		DO UPDATE SET diameter = EXCLUDED.diameter, radius = EXCLUDED.radius, length = EXCLUDED.length,
			hardness = EXCLUDED.hardness, pitch = EXCLUDED.pitch,
			material_type = EXCLUDED.material_type, origin = EXCLUDED.origin`
	_, err := r.q.Exec(ctx, query,
		a.ItemID, a.Diameter, a.Radius, a.Length, a.Hardness, a.Pitch, a.MaterialType, a.Origin,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrItemNotFound
		case isCheckViolation(err), isOutOfRange(err):
			return domain.ErrInvalidInput
		}
		return dbError("upsert tool attributes", err)
	}
	return nil
}

// GetByItemID devuelve nil, nil si el artículo no tiene medidas.
func (r *ToolAttributeRepo) GetByItemID(ctx context.Context, itemID int64) (*entity.ToolAttribute, error) {
	query := `
		SELECT item_id, diameter, radius, length, hardness, pitch, material_type, origin
		FROM tool_attributes WHERE item_id = $1`
	var a entity.ToolAttribute
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&a.ItemID, &a.Diameter, &a.Radius, &a.Length, &a.Hardness, &a.Pitch, &a.MaterialType, &a.Origin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get tool attributes", err)
	}
	return &a, nil
}
