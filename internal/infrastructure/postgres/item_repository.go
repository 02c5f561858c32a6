package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, secondary_barcode, name, description, category_id, unit,
	reorder_level, opening_stock, current_stock, created_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.SecondaryBarcode, &it.Name, &it.Description, &it.CategoryID, &it.Unit,
		&it.ReorderLevel, &it.OpeningStock, &it.CurrentStock, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un artículo; el stock inicial es OpeningStock.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (code, secondary_barcode, name, description, category_id, unit, reorder_level, opening_stock, current_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, current_stock, created_at`
	err := r.q.QueryRow(ctx, query,
		item.Code, item.SecondaryBarcode, item.Name, item.Description, item.CategoryID, item.Unit,
		item.ReorderLevel, item.OpeningStock,
	).Scan(&item.ID, &item.CurrentStock, &item.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrCategoryNotFound
		case isCheckViolation(err), isOutOfRange(err):
			return domain.ErrInvalidInput
		}
		return dbError("insert item", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get item", err)
	}
	return it, nil
}

// GetByCode obtiene un artículo por su código de barras principal.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get item by code", err)
	}
	return it, nil
}

// GetForUpdate obtiene el artículo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("lock item", err)
	}
	return it, nil
}

// UpdateStock escribe el nuevo stock. El CHECK current_stock >= 0 es la última barrera.
func (r *ItemRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE items SET current_stock = $2 WHERE id = $1`, id, stock)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return dbError("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// Update actualiza los datos descriptivos del artículo. No toca stock.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET code = $2, secondary_barcode = $3, name = $4, description = $5,
			category_id = $6, unit = $7, reorder_level = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.SecondaryBarcode, item.Name, item.Description,
		item.CategoryID, item.Unit, item.ReorderLevel,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrCategoryNotFound
		case isCheckViolation(err), isOutOfRange(err):
			return domain.ErrInvalidInput
		}
		return dbError("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List lista artículos por código, filtrando por búsqueda y categoría.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any
	pos := 1
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (code ILIKE $%d OR name ILIKE $%d)", pos, pos)
		args = append(args, likePattern(filter.Search))
		pos++
	}
	if filter.CategoryID > 0 {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY code LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)
	return r.list(ctx, "list items", query, args...)
}

// ListBelowReorderLevel lista los artículos con current_stock <= reorder_level.
func (r *ItemRepo) ListBelowReorderLevel(ctx context.Context) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE reorder_level > 0 AND current_stock <= reorder_level
		ORDER BY id`
	return r.list(ctx, "list low stock", query)
}

func (r *ItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, dbError("scan item", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return list, nil
}

// Delete elimina un artículo. Sus medidas se borran en cascada; si tiene ledger, ErrConflict.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return dbError("delete item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
