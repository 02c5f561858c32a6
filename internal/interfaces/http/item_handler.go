package http

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/importer"
)

type itemService interface {
	Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error)
	List(ctx context.Context, search string, categoryID int64, page dto.PageRequest) (*dto.ItemListResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id int64) error
	SetToolAttributes(ctx context.Context, itemID int64, in dto.ToolAttributesRequest) (*dto.ToolAttributesResponse, error)
}

type labelService interface {
	ItemLabelPDF(ctx context.Context, itemID int64) ([]byte, string, error)
}

type importService interface {
	ImportItems(ctx context.Context, userID int64, req importer.ImportRequest) (*dto.ImportResult, error)
}

// ItemHandler registro de artículos, medidas de herramienta, etiquetas e importación.
type ItemHandler struct {
	uc             itemService
	labels         labelService
	importer       importService
	maxUploadBytes int64
}

// NewItemHandler construye el handler. maxUploadBytes limita el archivo de importación.
func NewItemHandler(uc itemService, labels labelService, imp importService, maxUploadBytes int64) *ItemHandler {
	return &ItemHandler{uc: uc, labels: labels, importer: imp, maxUploadBytes: maxUploadBytes}
}

// Create godoc
// @Summary      Crear artículo
// @Description  opening_stock es el saldo inicial; no genera movimiento en el ledger.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo con categoría y medidas
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Código o nombre (subcadena)"
// @Param        category_id  query  int     false  "Filtrar por categoría"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	categoryID := int64(c.QueryInt("category_id", 0))
	if categoryID < 0 {
		categoryID = 0
	}
	out, err := h.uc.List(c.UserContext(), c.Query("search"), categoryID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  Solo campos descriptivos; el stock cambia únicamente con movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Description  Falla con 409 si el artículo tiene movimientos en el ledger.
// @Tags         items
// @Security     Bearer
// @Param        id   path  int  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetToolAttributes godoc
// @Summary      Registrar medidas de herramienta
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del artículo"
// @Param        body  body  dto.ToolAttributesRequest  true  "Φ, R, L, H, P, material, origen"
// @Success      200   {object}  dto.ToolAttributesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/tool-attributes [put]
func (h *ItemHandler) SetToolAttributes(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	var in dto.ToolAttributesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetToolAttributes(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Label godoc
// @Summary      Etiqueta PDF con código de barras
// @Tags         items
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/label.pdf [get]
func (h *ItemHandler) Label(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	data, filename, err := h.labels.ItemLabelPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, data, filename)
}

// Import godoc
// @Summary      Importar artículos desde CSV o XLSX
// @Description  Primera fila = encabezado (code, name, category, ...). Los códigos existentes se omiten.
// @Tags         items
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file                       formData  file    true   "Archivo .csv o .xlsx"
// @Param        format                     formData  string  false  "csv | xlsx (por defecto según extensión)"
// @Param        encoding                   formData  string  false  "utf-8 | windows-1256 | iso-8859-1"
// @Param        create_missing_categories  formData  bool    false  "Crear categorías inexistentes"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/items/import [post]
func (h *ItemHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo 'file' requerido"})
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo supera el tamaño permitido"})
	}
	format := strings.ToLower(strings.TrimSpace(c.FormValue("format")))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	result, err := h.importer.ImportItems(c.UserContext(), GetUserID(c), importer.ImportRequest{
		Source:                  f,
		Format:                  format,
		Encoding:                c.FormValue("encoding"),
		CreateMissingCategories: formBool(c, "create_missing_categories"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func formBool(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(key))) {
	case "1", "true", "yes", "si", "sí", "on":
		return true
	}
	return false
}

func sendPDF(c *fiber.Ctx, data []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	filename = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filename)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}
