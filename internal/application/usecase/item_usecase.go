package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// maxMeasure es el primer valor que no cabe en NUMERIC(12,4).
var maxMeasure = decimal.New(1, 8)

// RegistryTxRunner ejecuta fn con repos de artículos y medidas atados a una misma transacción.
// Si fn devuelve error no queda nada escrito.
type RegistryTxRunner interface {
	RunRegistry(ctx context.Context, fn func(
		ctx context.Context,
		items repository.ItemRepository,
		tools repository.ToolAttributeRepository,
	) error) error
}

// ItemUseCase CRUD de artículos y sus medidas. El stock solo cambia vía el ledger.
type ItemUseCase struct {
	repo     repository.ItemRepository
	catRepo  repository.CategoryRepository
	toolRepo repository.ToolAttributeRepository
	tx       RegistryTxRunner
}

// NewItemUseCase construye el caso de uso. tx se usa para crear artículo y medidas juntos.
func NewItemUseCase(
	repo repository.ItemRepository,
	catRepo repository.CategoryRepository,
	toolRepo repository.ToolAttributeRepository,
	tx RegistryTxRunner,
) *ItemUseCase {
	return &ItemUseCase{repo: repo, catRepo: catRepo, toolRepo: toolRepo, tx: tx}
}

// Create crea un artículo. OpeningStock pasa a ser el CurrentStock inicial.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.SecondaryBarcode = strings.TrimSpace(in.SecondaryBarcode)
	if in.ToolAttributes != nil {
		// copia: el puntero pertenece al llamador
		ta := normalizeToolAttributes(*in.ToolAttributes)
		in.ToolAttributes = &ta
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var attr *entity.ToolAttribute
	if in.ToolAttributes != nil {
		a, err := toToolAttribute(0, *in.ToolAttributes)
		if err != nil {
			return nil, err
		}
		attr = a
	}
	cat, err := uc.catRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrCategoryNotFound
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	item := &entity.Item{
		Code:             in.Code,
		SecondaryBarcode: in.SecondaryBarcode,
		Name:             in.Name,
		Description:      strings.TrimSpace(in.Description),
		CategoryID:       in.CategoryID,
		Unit:             strings.TrimSpace(in.Unit),
		ReorderLevel:     in.ReorderLevel,
		OpeningStock:     in.OpeningStock,
		CurrentStock:     in.OpeningStock,
	}
	err = uc.tx.RunRegistry(ctx, func(ctx context.Context, items repository.ItemRepository, tools repository.ToolAttributeRepository) error {
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		if attr == nil {
			return nil
		}
		attr.ItemID = item.ID
		return tools.Upsert(ctx, attr)
	})
	if err != nil {
		return nil, err
	}
	item.Category = cat
	item.ToolAttribute = attr
	return ToItemResponse(item), nil
}

// GetByID devuelve el detalle del artículo con su categoría y medidas.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Detail carga la entidad con sus relaciones (usado también por las etiquetas).
func (uc *ItemUseCase) Detail(ctx context.Context, id int64) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if item.Category, err = uc.catRepo.GetByID(ctx, item.CategoryID); err != nil {
		return nil, err
	}
	if item.ToolAttribute, err = uc.toolRepo.GetByItemID(ctx, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// List lista artículos filtrando por texto (código o nombre) y categoría.
func (uc *ItemUseCase) List(ctx context.Context, search string, categoryID int64, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:     strings.TrimSpace(search),
		CategoryID: categoryID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza datos descriptivos. No permite modificar stock (se maneja vía movimientos).
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.ErrInvalidInput
		}
		if code != item.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		item.Code = code
	}
	if in.SecondaryBarcode != nil {
		item.SecondaryBarcode = strings.TrimSpace(*in.SecondaryBarcode)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil && *in.CategoryID != item.CategoryID {
		cat, err := uc.catRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrCategoryNotFound
		}
		item.CategoryID = cat.ID
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Delete elimina el artículo; las medidas se borran en cascada. Con historial en el ledger: ErrConflict.
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// SetToolAttributes crea o reemplaza las medidas de un artículo existente.
func (uc *ItemUseCase) SetToolAttributes(ctx context.Context, itemID int64, in dto.ToolAttributesRequest) (*dto.ToolAttributesResponse, error) {
	attr, err := toToolAttribute(itemID, in)
	if err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if err := uc.toolRepo.Upsert(ctx, attr); err != nil {
		return nil, err
	}
	return toToolAttributesResponse(attr), nil
}

func normalizeToolAttributes(in dto.ToolAttributesRequest) dto.ToolAttributesRequest {
	in.MaterialType = strings.TrimSpace(in.MaterialType)
	in.Origin = strings.ToUpper(strings.TrimSpace(in.Origin))
	return in
}

func toToolAttribute(itemID int64, in dto.ToolAttributesRequest) (*entity.ToolAttribute, error) {
	in = normalizeToolAttributes(in)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	for _, m := range []*decimal.Decimal{in.Diameter, in.Radius, in.Length, in.Hardness, in.Pitch} {
		if m != nil && (m.IsNegative() || m.GreaterThanOrEqual(maxMeasure)) {
			return nil, domain.ErrInvalidInput
		}
	}
	return &entity.ToolAttribute{
		ItemID:       itemID,
		Diameter:     in.Diameter,
		Radius:       in.Radius,
		Length:       in.Length,
		Hardness:     in.Hardness,
		Pitch:        in.Pitch,
		MaterialType: in.MaterialType,
		Origin:       in.Origin,
	}, nil
}

func toToolAttributesResponse(a *entity.ToolAttribute) *dto.ToolAttributesResponse {
	if a == nil {
		return nil
	}
	return &dto.ToolAttributesResponse{
		Diameter:     a.Diameter,
		Radius:       a.Radius,
		Length:       a.Length,
		Hardness:     a.Hardness,
		Pitch:        a.Pitch,
		MaterialType: a.MaterialType,
		Origin:       a.Origin,
	}
}

// ToItemResponse convierte la entidad a su DTO, con relaciones si están cargadas.
func ToItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                it.ID,
		Code:              it.Code,
		SecondaryBarcode:  it.SecondaryBarcode,
		Name:              it.Name,
		Description:       it.Description,
		CategoryID:        it.CategoryID,
		Unit:              it.Unit,
		ReorderLevel:      it.ReorderLevel,
		OpeningStock:      it.OpeningStock,
		CurrentStock:      it.CurrentStock,
		BelowReorderLevel: it.BelowReorderLevel(),
		CreatedAt:         it.CreatedAt,
		Category:          ToCategoryResponse(it.Category),
		ToolAttributes:    toToolAttributesResponse(it.ToolAttribute),
	}
}
