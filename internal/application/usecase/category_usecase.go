package usecase

import (
	"context"
	"strings"

	"github.com/gosimple/slug"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías. El slug se deriva del nombre.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría con nombre único (sin distinguir mayúsculas).
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.newCategory(ctx, 0, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToCategoryResponse(c), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return ToCategoryResponse(c), nil
}

// GetBySlug obtiene una categoría por slug.
func (uc *CategoryUseCase) GetBySlug(ctx context.Context, s string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetBySlug(ctx, slug.Make(s))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return ToCategoryResponse(c), nil
}

// List lista todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *ToCategoryResponse(c))
	}
	return out, nil
}

// Rename cambia el nombre (y el slug) de una categoría.
func (uc *CategoryUseCase) Rename(ctx context.Context, id int64, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrCategoryNotFound
	}
	c, err := uc.newCategory(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = current.CreatedAt
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return ToCategoryResponse(c), nil
}

// Delete elimina una categoría; si tiene artículos devuelve ErrConflict.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// FindByName busca por nombre sin distinguir mayúsculas; nil si no existe.
func (uc *CategoryUseCase) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return uc.repo.GetByName(ctx, strings.TrimSpace(name))
}

// EnsureByName devuelve la categoría con ese nombre, creándola si no existe (usado por la importación).
func (uc *CategoryUseCase) EnsureByName(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil || existing != nil {
		return existing, err
	}
	c, err := uc.newCategory(ctx, 0, dto.CategoryRequest{Name: name})
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// newCategory valida el nombre y comprueba unicidad de nombre y slug (excluyendo id).
func (uc *CategoryUseCase) newCategory(ctx context.Context, id int64, in dto.CategoryRequest) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s := slug.Make(in.Name)
	if s == "" {
		return nil, domain.ErrInvalidInput
	}
	byName, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if byName != nil && byName.ID != id {
		return nil, domain.ErrDuplicate
	}
	bySlug, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if bySlug != nil && bySlug.ID != id {
		return nil, domain.ErrDuplicate
	}
	return &entity.Category{ID: id, Name: in.Name, Slug: s}, nil
}

// ToCategoryResponse convierte la entidad a su DTO.
func ToCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, CreatedAt: c.CreatedAt}
}
