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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionSelect = `
	SELECT t.id, t.item_id, t.user_id, t.action, t.quantity_change, t.occurred_at,
		COALESCE(t.request_key::text, ''), t.notes, i.code, i.name, u.username
	FROM transactions t
	JOIN items i ON i.id = t.item_id
	JOIN users u ON u.id = t.user_id`

// TransactionRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(
		&t.ID, &t.ItemID, &t.UserID, &t.Action, &t.QuantityChange, &t.Timestamp,
		&t.RequestKey, &t.Notes, &t.ItemCode, &t.ItemName, &t.Username,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta el movimiento; ID y Timestamp (clock_timestamp) vienen de la base de datos.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (item_id, user_id, action, quantity_change, request_key, notes)
		VALUES ($1, $2, $3, $4, $5::text::uuid, $6)
		RETURNING id, occurred_at`
	var requestKey *string
	if t.RequestKey != "" {
		requestKey = &t.RequestKey
	}
	err := r.q.QueryRow(ctx, query,
		t.ItemID, t.UserID, t.Action, t.QuantityChange, requestKey, t.Notes,
	).Scan(&t.ID, &t.Timestamp)
	if err != nil {
		switch {
		case isForeignKeyViolation(err) && constraintName(err) == "transactions_user_id_fkey":
			return domain.ErrUserNotFound
		case isForeignKeyViolation(err):
			return domain.ErrItemNotFound
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isCheckViolation(err):
			return domain.ErrInvalidQuantity
		}
		return dbError("insert transaction", err)
	}
	return nil
}

// GetByRequestKey busca un movimiento previo por su clave de reintento.
func (r *TransactionRepo) GetByRequestKey(ctx context.Context, requestKey string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, transactionSelect+` WHERE t.request_key = $1::text::uuid`, requestKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get transaction by request key", err)
	}
	return t, nil
}

// transactionWhere arma el WHERE compartido por List y Totals. Devuelve la siguiente posición libre.
func transactionWhere(filter repository.TransactionFilter) (string, []any, int) {
	where := ` WHERE 1=1`
	var args []any
	pos := 1
	if filter.Action != "" {
		where += fmt.Sprintf(" AND t.action = $%d", pos)
		args = append(args, filter.Action)
		pos++
	}
	if filter.ItemID > 0 {
		where += fmt.Sprintf(" AND t.item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND t.occurred_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND t.occurred_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (i.code ILIKE $%d OR i.name ILIKE $%d)", pos, pos)
		args = append(args, likePattern(filter.Search))
		pos++
	}
	return where, args, pos
}

// List lista el ledger con filtros opcionales combinados con AND, del más reciente al más antiguo.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	where, args, pos := transactionWhere(filter)
	query := transactionSelect + where +
		fmt.Sprintf(" ORDER BY t.occurred_at DESC, t.id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list transactions", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, dbError("scan transaction", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list transactions", err)
	}
	return list, nil
}

// Totals cuenta y suma entradas y salidas de todo el filtro.
func (r *TransactionRepo) Totals(ctx context.Context, filter repository.TransactionFilter) (repository.TransactionTotals, error) {
	where, args, _ := transactionWhere(filter)
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(t.quantity_change) FILTER (WHERE t.quantity_change > 0), 0),
			COALESCE(-SUM(t.quantity_change) FILTER (WHERE t.quantity_change < 0), 0)
		FROM transactions t
		JOIN items i ON i.id = t.item_id` + where
	var out repository.TransactionTotals
	if err := r.q.QueryRow(ctx, query, args...).Scan(&out.Count, &out.Added, &out.Withdrawn); err != nil {
		return repository.TransactionTotals{}, dbError("total transactions", err)
	}
	return out, nil
}

// SumByItem suma QuantityChange del ledger de un artículo (0 si no tiene movimientos).
func (r *TransactionRepo) SumByItem(ctx context.Context, itemID int64) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_change), 0) FROM transactions WHERE item_id = $1`, itemID,
	).Scan(&sum)
	if err != nil {
		return 0, dbError("sum transactions", err)
	}
	return sum, nil
}
