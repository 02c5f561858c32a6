package entity

import "github.com/shopspring/decimal"

// Origen de la herramienta.
const (
	OriginLocal    = "L"
	OriginImported = "I"
)

// ToolAttribute extensión uno-a-uno de Item con medidas de herramienta.
// Se elimina en cascada con su Item (FK ON DELETE CASCADE).
type ToolAttribute struct {
	ItemID       int64
	Diameter     *decimal.Decimal // Φ
	Radius       *decimal.Decimal // R
	Length       *decimal.Decimal // L
	Hardness     *decimal.Decimal // H
	Pitch        *decimal.Decimal // P (rosca)
	MaterialType string
	Origin       string // L, I o vacío
}
