package usecase_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeCategoryRepo struct {
	byID   map[int64]*entity.Category
	nextID int64
	inUse  map[int64]bool // categorías con artículos
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[int64]*entity.Category{}, nextID: 1, inUse: map[int64]bool{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	c.ID = r.nextID
	c.CreatedAt = fixedNow
	r.nextID++
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCategoryRepo) find(match func(*entity.Category) bool) *entity.Category {
	for _, c := range r.byID {
		if match(c) {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	return r.find(func(c *entity.Category) bool { return strings.EqualFold(c.Name, name) }), nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	return r.find(func(c *entity.Category) bool { return c.Slug == slug }), nil
}

func (r *fakeCategoryRepo) List(context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.inUse[id] {
		return domain.ErrConflict
	}
	delete(r.byID, id)
	return nil
}

type fakeItemRepo struct {
	byID       map[int64]*entity.Item
	nextID     int64
	withLedger map[int64]bool // artículos con transacciones
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{byID: map[int64]*entity.Item{}, nextID: 1, withLedger: map[int64]bool{}}
}

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) Create(_ context.Context, it *entity.Item) error {
	for _, other := range r.byID {
		if other.Code == it.Code {
			return domain.ErrDuplicate
		}
	}
	it.ID = r.nextID
	it.CreatedAt = fixedNow
	it.CurrentStock = it.OpeningStock
	r.nextID++
	cp := *it
	cp.Category, cp.ToolAttribute = nil, nil
	r.byID[it.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	if it, ok := r.byID[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, it := range r.byID {
		if it.Code == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeItemRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	r.byID[id].CurrentStock = stock
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, it *entity.Item) error {
	prev, ok := r.byID[it.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	cp := *it
	cp.CurrentStock = prev.CurrentStock
	cp.OpeningStock = prev.OpeningStock
	r.byID[it.ID] = &cp
	return nil
}

func (r *fakeItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.byID {
		if f.CategoryID > 0 && it.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Code+" "+it.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeItemRepo) ListBelowReorderLevel(context.Context) ([]*entity.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrItemNotFound
	}
	if r.withLedger[id] {
		return domain.ErrConflict
	}
	delete(r.byID, id)
	return nil
}

type fakeToolRepo struct {
	byItem  map[int64]*entity.ToolAttribute
	failErr error // si no es nil, Upsert falla con este error
}

func newFakeToolRepo() *fakeToolRepo {
	return &fakeToolRepo{byItem: map[int64]*entity.ToolAttribute{}}
}

func (r *fakeToolRepo) Upsert(_ context.Context, a *entity.ToolAttribute) error {
	if r.failErr != nil {
		return r.failErr
	}
	cp := *a
	r.byItem[a.ItemID] = &cp
	return nil
}

func (r *fakeToolRepo) GetByItemID(_ context.Context, itemID int64) (*entity.ToolAttribute, error) {
	if a, ok := r.byItem[itemID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

// fakeRegistryTx emula la transacción del registro: si fn falla restaura artículos y medidas.
type fakeRegistryTx struct {
	items *fakeItemRepo
	tools *fakeToolRepo
}

func (f *fakeRegistryTx) RunRegistry(ctx context.Context, fn func(
	ctx context.Context,
	items repository.ItemRepository,
	tools repository.ToolAttributeRepository,
) error) error {
	items := make(map[int64]*entity.Item, len(f.items.byID))
	for id, it := range f.items.byID {
		items[id] = it
	}
	tools := make(map[int64]*entity.ToolAttribute, len(f.tools.byItem))
	for id, a := range f.tools.byItem {
		tools[id] = a
	}
	nextID := f.items.nextID
	if err := fn(ctx, f.items, f.tools); err != nil {
		f.items.byID, f.items.nextID, f.tools.byItem = items, nextID, tools
		return err
	}
	return nil
}

type fakeUserRepo struct {
	byID   map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*entity.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = r.nextID
	u.CreatedAt = fixedNow
	r.nextID++
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
