package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

type ledgerService interface {
	ApplyStockChangeFromRequest(ctx context.Context, userID int64, in dto.StockMovementRequest) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error)
	ReconcileItem(ctx context.Context, itemID int64) (*inventory.LedgerCheck, error)
}

type replenishmentService interface {
	GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error)
}

type ledgerReportService interface {
	TransactionsPDF(ctx context.Context, filter repository.TransactionFilter) ([]byte, string, error)
}

// InventoryHandler movimientos de stock, consulta del ledger y reposición (protegido).
type InventoryHandler struct {
	ledger        ledgerService
	replenishment replenishmentService
	reports       ledgerReportService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger ledgerService, replenishment replenishmentService, reports ledgerReportService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment, reports: reports}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Add suma y Withdraw resta la cantidad. El usuario se toma del token.
// @Description  request_key (UUID) hace el registro idempotente ante reintentos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "item_id, action, quantity"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.ApplyStockChangeFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Consultar el ledger
// @Description  Ordenado del más reciente al más antiguo. from/to aceptan RFC3339 o AAAA-MM-DD (inclusivos).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        action   query  string  false  "Add | Withdraw"
// @Param        from     query  string  false  "Desde"
// @Param        to       query  string  false  "Hasta"
// @Param        search   query  string  false  "Código o nombre del artículo"
// @Param        item_id  query  int     false  "Artículo"
// @Param        limit    query  int     false  "Límite"  default(50)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.ledger.ListTransactions(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *inventory.ToTransactionResponse(t))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = inventory.DefaultTransactionLimit
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: min(limit, inventory.MaxTransactionLimit), Offset: max(filter.Offset, 0)},
	})
}

// TransactionsReport godoc
// @Summary      Reporte PDF del ledger
// @Description  Mismos filtros que el listado; incluye totales de entradas, salidas y neto.
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        action  query  string  false  "Add | Withdraw"
// @Param        from    query  string  false  "Desde"
// @Param        to      query  string  false  "Hasta"
// @Param        search  query  string  false  "Código o nombre del artículo"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions/report.pdf [get]
func (h *InventoryHandler) TransactionsReport(c *fiber.Ctx) error {
	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	data, filename, err := h.reports.TransactionsPDF(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, data, filename)
}

// GetLowStock godoc
// @Summary      Artículos en o bajo su nivel de reorden
// @Description  Incluye la cantidad sugerida de pedido; ordenado por urgencia.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// Reconcile godoc
// @Summary      Conciliar stock con el ledger
// @Description  Verifica current_stock = opening_stock + suma de movimientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	check, err := h.ledger.ReconcileItem(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LedgerCheckResponse{
		ItemID:       check.ItemID,
		OpeningStock: check.OpeningStock,
		CurrentStock: check.CurrentStock,
		LedgerSum:    check.LedgerSum,
		Consistent:   check.Consistent,
	})
}

// transactionFilterFromQuery arma el filtro del ledger desde la query string.
// Una fecha sin hora en "to" cubre el día completo.
func transactionFilterFromQuery(c *fiber.Ctx) (repository.TransactionFilter, error) {
	f := repository.TransactionFilter{
		Action: strings.TrimSpace(c.Query("action")),
		Search: c.Query("search"),
		ItemID: int64(c.QueryInt("item_id", 0)),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	from, err := parseQueryTime(c.Query("from"), false)
	if err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "from inválido: use RFC3339 o AAAA-MM-DD")
	}
	to, err := parseQueryTime(c.Query("to"), true)
	if err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "to inválido: use RFC3339 o AAAA-MM-DD")
	}
	f.From, f.To = from, to
	return f, nil
}

func parseQueryTime(v string, endOfDay bool) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
