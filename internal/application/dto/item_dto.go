package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ToolAttributesRequest medidas de herramienta. Todas opcionales; las medidas no pueden ser negativas.
type ToolAttributesRequest struct {
	Diameter     *decimal.Decimal `json:"diameter"`
	Radius       *decimal.Decimal `json:"radius"`
	Length       *decimal.Decimal `json:"length"`
	Hardness     *decimal.Decimal `json:"hardness"`
	Pitch        *decimal.Decimal `json:"pitch"`
	MaterialType string           `json:"material_type" validate:"max=100"`
	Origin       string           `json:"origin" validate:"omitempty,oneof=L I"`
}

// CreateItemRequest entrada para crear un artículo. OpeningStock es el saldo inicial (no genera transacción).
type CreateItemRequest struct {
	Code             string                 `json:"code" validate:"required,max=64"`
	SecondaryBarcode string                 `json:"secondary_barcode" validate:"max=64"`
	Name             string                 `json:"name" validate:"required,max=200"`
	Description      string                 `json:"description"`
	CategoryID       int64                  `json:"category_id" validate:"required,gt=0"`
	Unit             string                 `json:"unit" validate:"max=20"`
	ReorderLevel     int                    `json:"reorder_level" validate:"min=0,max=2147483647"`
	OpeningStock     int                    `json:"opening_stock" validate:"min=0,max=2147483647"`
	ToolAttributes   *ToolAttributesRequest `json:"tool_attributes"`
}

// UpdateItemRequest entrada para actualizar un artículo. El stock no se modifica aquí.
type UpdateItemRequest struct {
	Code             *string `json:"code" validate:"omitempty,min=1,max=64"`
	SecondaryBarcode *string `json:"secondary_barcode" validate:"omitempty,max=64"`
	Name             *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description"`
	CategoryID       *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Unit             *string `json:"unit" validate:"omitempty,max=20"`
	ReorderLevel     *int    `json:"reorder_level" validate:"omitempty,min=0,max=2147483647"`
}

// ToolAttributesResponse medidas de herramienta en la salida.
type ToolAttributesResponse struct {
	Diameter     *decimal.Decimal `json:"diameter,omitempty"`
	Radius       *decimal.Decimal `json:"radius,omitempty"`
	Length       *decimal.Decimal `json:"length,omitempty"`
	Hardness     *decimal.Decimal `json:"hardness,omitempty"`
	Pitch        *decimal.Decimal `json:"pitch,omitempty"`
	MaterialType string           `json:"material_type,omitempty"`
	Origin       string           `json:"origin,omitempty"`
}

// ItemResponse salida de un artículo. Category y ToolAttributes solo en el detalle.
type ItemResponse struct {
	ID                int64                   `json:"id"`
	Code              string                  `json:"code"`
	SecondaryBarcode  string                  `json:"secondary_barcode,omitempty"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description,omitempty"`
	CategoryID        int64                   `json:"category_id"`
	Unit              string                  `json:"unit,omitempty"`
	ReorderLevel      int                     `json:"reorder_level"`
	OpeningStock      int                     `json:"opening_stock"`
	CurrentStock      int                     `json:"current_stock"`
	BelowReorderLevel bool                    `json:"below_reorder_level"`
	CreatedAt         time.Time               `json:"created_at"`
	Category          *CategoryResponse       `json:"category,omitempty"`
	ToolAttributes    *ToolAttributesResponse `json:"tool_attributes,omitempty"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
