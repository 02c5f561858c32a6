package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// Límites de paginación del ledger.
const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 500
)

// LedgerConfig límites operativos del servicio de ledger.
type LedgerConfig struct {
	Timeout    time.Duration // 0 = sin límite adicional al del contexto
	MaxRetries int           // reintentos ante fallos transitorios (lock timeout, deadlock)
}

// LedgerUseCase es la única autoridad para cambiar el stock de un artículo:
// bloquea la fila (SELECT FOR UPDATE), valida, actualiza stock y agrega la transacción en un solo Commit.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	txRepo   repository.TransactionRepository
	cfg      LedgerConfig
	log      zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso. itemRepo y txRepo se usan solo para lecturas fuera de tx.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
	cfg LedgerConfig,
	log zerolog.Logger,
) *LedgerUseCase {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		txRepo:   txRepo,
		cfg:      cfg,
		log:      log.With().Str("component", "ledger").Logger(),
	}
}

// StockChangeInput entrada de ApplyStockChange. UserID lo resuelve la capa de autenticación.
type StockChangeInput struct {
	ItemID     int64
	UserID     int64
	Action     string
	Quantity   int
	RequestKey string // UUID opcional; si ya existe se devuelve la transacción original
	Notes      string
}

// LedgerCheck resultado de la conciliación stock vs. ledger de un artículo.
type LedgerCheck struct {
	ItemID       int64
	OpeningStock int
	CurrentStock int
	LedgerSum    int
	Consistent   bool
}

// ApplyStockChange aplica un movimiento Add/Withdraw y registra exactamente una transacción.
// Errores de validación y de negocio se devuelven tal cual; fallos de almacenamiento como
// *domain.PersistenceError. En cualquier error no queda nada escrito.
func (uc *LedgerUseCase) ApplyStockChange(ctx context.Context, in StockChangeInput) (*entity.Transaction, error) {
	if err := validateStockChange(&in); err != nil {
		return nil, err
	}
	if uc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Timeout)
		defer cancel()
	}

	log := uc.log.With().
		Int64("item_id", in.ItemID).
		Int64("user_id", in.UserID).
		Str("action", in.Action).
		Int("quantity", in.Quantity).
		Logger()

	attempts := uc.cfg.MaxRetries + 1
	for attempt := 1; ; attempt++ {
		out, err := uc.applyOnce(ctx, in)
		if err == nil {
			log.Info().Int64("transaction_id", out.ID).Msg("movimiento registrado")
			return out, nil
		}
		err = asPersistence(ctx, err)
		if !domain.IsTransient(err) || attempt >= attempts || ctx.Err() != nil {
			if errors.Is(err, domain.ErrPersistence) {
				log.Error().Err(err).Int("attempt", attempt).Msg("movimiento no aplicado")
			} else {
				log.Info().Err(err).Msg("movimiento rechazado")
			}
			return nil, err
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("fallo transitorio, reintentando movimiento")
	}
}

func (uc *LedgerUseCase) applyOnce(ctx context.Context, in StockChangeInput) (*entity.Transaction, error) {
	var result *entity.Transaction
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
	) error {
		// Bloquea la fila del artículo: serializa movimientos concurrentes sobre el mismo artículo
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}

		if in.RequestKey != "" {
			prev, err := txRepo.GetByRequestKey(ctx, in.RequestKey)
			if err != nil {
				return err
			}
			if prev != nil {
				// Misma clave con otro contenido: no es un reintento
				if prev.ItemID != in.ItemID || prev.Action != in.Action || abs(prev.QuantityChange) != in.Quantity {
					return domain.ErrDuplicate
				}
				result = prev
				return nil
			}
		}

		newStock, change, err := inventory.ApplyMovement(item.CurrentStock, in.Action, in.Quantity)
		if err != nil {
			return err
		}
		if err := itemRepo.UpdateStock(ctx, item.ID, newStock); err != nil {
			return err
		}
		t := &entity.Transaction{
			ItemID:         item.ID,
			UserID:         in.UserID,
			Action:         in.Action,
			QuantityChange: change,
			RequestKey:     in.RequestKey,
			Notes:          in.Notes,
		}
		if err := txRepo.Create(ctx, t); err != nil {
			return err
		}
		t.ItemCode = item.Code
		t.ItemName = item.Name
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func normalizeFilter(filter *repository.TransactionFilter) error {
	if filter.Action != "" && !entity.ValidAction(filter.Action) {
		return domain.ErrInvalidAction
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return domain.ErrInvalidInput
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return nil
}

// ListTransactions lista el ledger filtrado, del más reciente al más antiguo (empate: ID mayor primero).
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if err := normalizeFilter(&filter); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultTransactionLimit
	}
	if filter.Limit > MaxTransactionLimit {
		filter.Limit = MaxTransactionLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, asPersistence(ctx, err)
	}
	if list == nil {
		list = []*entity.Transaction{}
	}
	return list, nil
}

// TransactionTotals cuenta los movimientos del filtro y suma entradas y salidas, sin paginar.
func (uc *LedgerUseCase) TransactionTotals(ctx context.Context, filter repository.TransactionFilter) (repository.TransactionTotals, error) {
	if err := normalizeFilter(&filter); err != nil {
		return repository.TransactionTotals{}, err
	}
	totals, err := uc.txRepo.Totals(ctx, filter)
	if err != nil {
		return repository.TransactionTotals{}, asPersistence(ctx, err)
	}
	return totals, nil
}

// ReconcileItem verifica CurrentStock == OpeningStock + suma(QuantityChange) para un artículo.
func (uc *LedgerUseCase) ReconcileItem(ctx context.Context, itemID int64) (*LedgerCheck, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, asPersistence(ctx, err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	sum, err := uc.txRepo.SumByItem(ctx, itemID)
	if err != nil {
		return nil, asPersistence(ctx, err)
	}
	check := &LedgerCheck{
		ItemID:       item.ID,
		OpeningStock: item.OpeningStock,
		CurrentStock: item.CurrentStock,
		LedgerSum:    sum,
		Consistent:   item.CurrentStock == item.OpeningStock+sum,
	}
	if !check.Consistent {
		uc.log.Error().
			Int64("item_id", item.ID).
			Int("current_stock", item.CurrentStock).
			Int("expected", item.OpeningStock+sum).
			Msg("stock inconsistente con el ledger")
	}
	return check, nil
}

func validateStockChange(in *StockChangeInput) error {
	if !entity.ValidAction(in.Action) {
		return domain.ErrInvalidAction
	}
	if in.Quantity <= 0 || in.Quantity > inventory.MaxStock {
		return domain.ErrInvalidQuantity
	}
	if in.ItemID <= 0 {
		return domain.ErrItemNotFound
	}
	if in.UserID <= 0 {
		return domain.ErrInvalidInput
	}
	in.Notes = strings.TrimSpace(in.Notes)
	if in.RequestKey != "" {
		key, err := uuid.Parse(in.RequestKey)
		if err != nil {
			return domain.ErrInvalidInput
		}
		in.RequestKey = key.String()
	}
	return nil
}

// asPersistence reporta cancelación o timeout del contexto como fallo de persistencia (no aplicado).
func asPersistence(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, domain.ErrPersistence) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.PersistenceError{Op: "ledger", Err: err}
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !isDomainError(err) {
		return &domain.PersistenceError{Op: "ledger", Err: err}
	}
	return err
}

func isDomainError(err error) bool {
	return domain.IsValidation(err) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrDuplicate) ||
		errors.Is(err, domain.ErrConflict)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
