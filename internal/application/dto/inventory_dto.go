package dto

import "time"

// StockMovementRequest body para POST /api/inventory/movements.
// Action: Add | Withdraw; Quantity > 0; RequestKey UUID opcional para reintentos seguros.
// La validación la hace el servicio de ledger para devolver errores tipados.
type StockMovementRequest struct {
	ItemID     int64  `json:"item_id"`
	Action     string `json:"action"`
	Quantity   int    `json:"quantity"`
	RequestKey string `json:"request_key,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// TransactionResponse salida de una entrada del ledger.
type TransactionResponse struct {
	ID             int64     `json:"id"`
	ItemID         int64     `json:"item_id"`
	ItemCode       string    `json:"item_code,omitempty"`
	ItemName       string    `json:"item_name,omitempty"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username,omitempty"`
	Action         string    `json:"action"`
	QuantityChange int       `json:"quantity_change"`
	Timestamp      time.Time `json:"timestamp"`
	RequestKey     string    `json:"request_key,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// TransactionListResponse lista paginada del ledger.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// LedgerCheckResponse resultado de la conciliación de un artículo.
type LedgerCheckResponse struct {
	ItemID       int64 `json:"item_id"`
	OpeningStock int   `json:"opening_stock"`
	CurrentStock int   `json:"current_stock"`
	LedgerSum    int   `json:"ledger_sum"`
	Consistent   bool  `json:"consistent"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un artículo en o bajo su nivel de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID       int64  `json:"item_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
	IdealStock   int    `json:"ideal_stock"`   // ReorderLevel * 1.5
	SuggestedQty int    `json:"suggested_qty"` // IdealStock - CurrentStock
	Priority     int    `json:"priority"`      // 1 = más urgente
}
