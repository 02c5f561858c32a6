package importer

import (
	"context"
	"io"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// Formatos de archivo aceptados.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Codificaciones aceptadas para CSV (XLSX siempre es UTF-8).
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1256 = "windows-1256"
	EncodingISO88591    = "iso-8859-1"
)

// RowReader convierte un archivo en filas de texto; la primera fila es el encabezado.
type RowReader interface {
	ReadRows(r io.Reader, format, encoding string) ([][]string, error)
}

// ItemCreator crea un artículo (implementado por usecase.ItemUseCase).
type ItemCreator interface {
	Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error)
}

// CategoryResolver busca o crea categorías por nombre (implementado por usecase.CategoryUseCase).
type CategoryResolver interface {
	FindByName(ctx context.Context, name string) (*entity.Category, error)
	EnsureByName(ctx context.Context, name string) (*entity.Category, error)
}
