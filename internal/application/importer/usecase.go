package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// DefaultMaxRows límite de filas de datos si no se configura otro.
const DefaultMaxRows = 5000

// ImportRequest archivo a importar y sus opciones.
type ImportRequest struct {
	Source                  io.Reader
	Format                  string // csv | xlsx
	Encoding                string // utf-8 (por defecto) | windows-1256 | iso-8859-1
	CreateMissingCategories bool
}

// ImportUseCase importación masiva de artículos desde CSV/XLSX.
// Cada artículo se crea por separado: una fila con error no revierte las demás.
type ImportUseCase struct {
	reader  RowReader
	items   ItemCreator
	cats    CategoryResolver
	maxRows int
	log     zerolog.Logger
}

// NewImportUseCase construye el caso de uso. maxRows <= 0 usa DefaultMaxRows.
func NewImportUseCase(reader RowReader, items ItemCreator, cats CategoryResolver, maxRows int, log zerolog.Logger) *ImportUseCase {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &ImportUseCase{
		reader:  reader,
		items:   items,
		cats:    cats,
		maxRows: maxRows,
		log:     log.With().Str("component", "importer").Logger(),
	}
}

// ImportItems lee el archivo, valida cada fila y crea los artículos nuevos.
// Códigos existentes cuentan como Skipped. Un fallo de persistencia corta la importación
// y se devuelve junto con el resultado parcial.
func (uc *ImportUseCase) ImportItems(ctx context.Context, userID int64, req ImportRequest) (*dto.ImportResult, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("%w: formato no soportado %q", domain.ErrInvalidInput, req.Format)
	}
	encoding := strings.ToLower(strings.TrimSpace(req.Encoding))
	if encoding == "" {
		encoding = EncodingUTF8
	}
	switch encoding {
	case EncodingUTF8, EncodingWindows1256, EncodingISO88591:
	default:
		return nil, fmt.Errorf("%w: codificación no soportada %q", domain.ErrInvalidInput, req.Encoding)
	}

	rows, err := uc.reader.ReadRows(req.Source, format, encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if len(rows)-1 > uc.maxRows {
		return nil, fmt.Errorf("%w: el archivo supera %d filas", domain.ErrInvalidInput, uc.maxRows)
	}

	log := uc.log.With().Int64("user_id", userID).Str("format", format).Logger()
	result := &dto.ImportResult{Errors: []dto.RowError{}}
	for i, raw := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return result, &domain.PersistenceError{Op: "import items", Err: err}
		}
		if isBlank(raw) {
			continue
		}
		rowNum := i + 2
		if err := uc.importRow(ctx, h, rowNum, raw, req.CreateMissingCategories, result); err != nil {
			log.Error().Err(err).Int("row", rowNum).Msg("importación interrumpida")
			return result, err
		}
	}
	log.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("importación terminada")
	return result, nil
}

// importRow registra en result el desenlace de la fila. Solo devuelve error si hay que abortar.
func (uc *ImportUseCase) importRow(ctx context.Context, h header, rowNum int, raw []string, createCats bool, result *dto.ImportResult) error {
	row, rowErrs := h.parseRow(rowNum, raw)
	if err := dto.Validate(row); err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				rowErrs = append(rowErrs, dto.RowError{Row: rowNum, Field: f.Field, Message: "regla " + f.Rule})
			}
		} else {
			rowErrs = append(rowErrs, dto.RowError{Row: rowNum, Message: err.Error()})
		}
	}
	if len(rowErrs) > 0 {
		result.Errors = append(result.Errors, rowErrs...)
		return nil
	}

	cat, err := uc.cats.FindByName(ctx, row.Category)
	if err != nil {
		return err
	}
	if cat == nil {
		if !createCats {
			result.Errors = append(result.Errors, dto.RowError{
				Row: rowNum, Field: colCategory, Message: domain.ErrCategoryNotFound.Error() + ": " + row.Category,
			})
			return nil
		}
		if cat, err = uc.cats.EnsureByName(ctx, row.Category); err != nil {
			if errors.Is(err, domain.ErrPersistence) {
				return err
			}
			result.Errors = append(result.Errors, dto.RowError{Row: rowNum, Field: colCategory, Message: err.Error()})
			return nil
		}
	}

	_, err = uc.items.Create(ctx, row.toCreateRequest(cat.ID))
	switch {
	case err == nil:
		result.Created++
	case errors.Is(err, domain.ErrDuplicate):
		result.Skipped++
	case errors.Is(err, domain.ErrPersistence):
		return err
	default:
		result.Errors = append(result.Errors, dto.RowError{Row: rowNum, Message: err.Error()})
	}
	return nil
}
