package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
)

// Columnas reconocidas en el encabezado (sin distinguir mayúsculas).
const (
	colCode         = "code"
	colName         = "name"
	colDescription  = "description"
	colCategory     = "category"
	colUnit         = "unit"
	colReorderLevel = "reorder_level"
	colOpeningStock = "opening_stock"
	colBarcode      = "barcode"
	colDiameter     = "diameter"
	colRadius       = "radius"
	colLength       = "length"
	colHardness     = "hardness"
	colPitch        = "pitch"
	colMaterialType = "material_type"
	colOrigin       = "origin"
)

var requiredColumns = []string{colCode, colName, colCategory}

// ItemRow fila tipada del archivo de importación.
type ItemRow struct {
	Code         string           `json:"code" validate:"required,max=64"`
	Name         string           `json:"name" validate:"required,max=200"`
	Description  string           `json:"description"`
	Category     string           `json:"category" validate:"required,max=100"`
	Unit         string           `json:"unit" validate:"max=20"`
	ReorderLevel int              `json:"reorder_level" validate:"min=0,max=2147483647"`
	OpeningStock int              `json:"opening_stock" validate:"min=0,max=2147483647"`
	Barcode      string           `json:"barcode" validate:"max=64"`
	Diameter     *decimal.Decimal `json:"diameter"`
	Radius       *decimal.Decimal `json:"radius"`
	Length       *decimal.Decimal `json:"length"`
	Hardness     *decimal.Decimal `json:"hardness"`
	Pitch        *decimal.Decimal `json:"pitch"`
	MaterialType string           `json:"material_type" validate:"max=100"`
	Origin       string           `json:"origin" validate:"omitempty,oneof=L I"`
}

// header índice de cada columna reconocida.
type header map[string]int

func parseHeader(row []string) (header, error) {
	h := header{}
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		name = strings.ReplaceAll(name, " ", "_")
		if name == "" {
			continue
		}
		if _, dup := h[name]; dup {
			return nil, fmt.Errorf("columna repetida: %s", name)
		}
		h[name] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("faltan columnas: %s", strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) cell(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Topes de las columnas INTEGER y NUMERIC(12,4).
var (
	maxInt4    = decimal.NewFromInt(math.MaxInt32)
	maxMeasure = decimal.New(1, 8)
)

// parseRow convierte la fila en ItemRow. Los errores de formato se devuelven por campo.
func (h header) parseRow(rowNum int, row []string) (ItemRow, []dto.RowError) {
	var errs []dto.RowError
	fail := func(field, msg string) {
		errs = append(errs, dto.RowError{Row: rowNum, Field: field, Message: msg})
	}

	out := ItemRow{
		Code:         h.cell(row, colCode),
		Name:         h.cell(row, colName),
		Description:  h.cell(row, colDescription),
		Category:     h.cell(row, colCategory),
		Unit:         h.cell(row, colUnit),
		Barcode:      h.cell(row, colBarcode),
		MaterialType: h.cell(row, colMaterialType),
		Origin:       strings.ToUpper(h.cell(row, colOrigin)),
	}

	ints := []struct {
		col string
		dst *int
	}{
		{colReorderLevel, &out.ReorderLevel},
		{colOpeningStock, &out.OpeningStock},
	}
	for _, f := range ints {
		raw := h.cell(row, f.col)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil || !d.IsInteger() {
			fail(f.col, "debe ser un número entero")
			continue
		}
		if d.Abs().GreaterThan(maxInt4) {
			fail(f.col, "fuera de rango")
			continue
		}
		*f.dst = int(d.IntPart())
	}

	decimals := []struct {
		col string
		dst **decimal.Decimal
	}{
		{colDiameter, &out.Diameter},
		{colRadius, &out.Radius},
		{colLength, &out.Length},
		{colHardness, &out.Hardness},
		{colPitch, &out.Pitch},
	}
	for _, f := range decimals {
		raw := h.cell(row, f.col)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			fail(f.col, "debe ser un número")
			continue
		}
		if d.IsNegative() {
			fail(f.col, "no puede ser negativo")
			continue
		}
		if d.GreaterThanOrEqual(maxMeasure) {
			fail(f.col, "fuera de rango")
			continue
		}
		*f.dst = &d
	}
	return out, errs
}

func (r ItemRow) hasToolAttributes() bool {
	return r.Diameter != nil || r.Radius != nil || r.Length != nil || r.Hardness != nil ||
		r.Pitch != nil || r.MaterialType != "" || r.Origin != ""
}

func (r ItemRow) toCreateRequest(categoryID int64) dto.CreateItemRequest {
	req := dto.CreateItemRequest{
		Code:             r.Code,
		SecondaryBarcode: r.Barcode,
		Name:             r.Name,
		Description:      r.Description,
		CategoryID:       categoryID,
		Unit:             r.Unit,
		ReorderLevel:     r.ReorderLevel,
		OpeningStock:     r.OpeningStock,
	}
	if r.hasToolAttributes() {
		req.ToolAttributes = &dto.ToolAttributesRequest{
			Diameter:     r.Diameter,
			Radius:       r.Radius,
			Length:       r.Length,
			Hardness:     r.Hardness,
			Pitch:        r.Pitch,
			MaterialType: r.MaterialType,
			Origin:       r.Origin,
		}
	}
	return req
}
