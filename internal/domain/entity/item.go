package entity

import "time"

// Item representa un artículo o herramienta del almacén.
// CurrentStock solo lo modifica el servicio de ledger (o la creación, con OpeningStock).
type Item struct {
	ID               int64
	Code             string // código de barras principal, único
	SecondaryBarcode string // código alterno opcional
	Name             string
	Description      string
	CategoryID       int64
	Unit             string
	ReorderLevel     int
	OpeningStock     int // saldo inicial, no es un movimiento
	CurrentStock     int
	CreatedAt        time.Time

	// Relaciones (se llenan solo en lecturas de detalle).
	Category      *Category
	ToolAttribute *ToolAttribute
}

// BelowReorderLevel indica si el stock actual llegó al punto de reorden.
func (i *Item) BelowReorderLevel() bool {
	return i.ReorderLevel > 0 && i.CurrentStock <= i.ReorderLevel
}
