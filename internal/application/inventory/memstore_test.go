package inventory_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// memState copia de trabajo de la "base de datos" en memoria.
type memState struct {
	items    map[int64]*entity.Item
	txs      []*entity.Transaction
	nextTxID int64
}

func (s *memState) clone() *memState {
	c := &memState{
		items:    make(map[int64]*entity.Item, len(s.items)),
		txs:      append([]*entity.Transaction(nil), s.txs...),
		nextTxID: s.nextTxID,
	}
	for id, it := range s.items {
		cp := *it
		c.items[id] = &cp
	}
	return c
}

// memStore implementa inventory.TxRunner: serializa las transacciones con un mutex,
// trabaja sobre una copia y solo la publica si fn no devuelve error (Commit/Rollback).
type memStore struct {
	mu         sync.Mutex
	state      *memState
	users      map[int64]string
	createErrs []error // errores a devolver, en orden, por txRepo.Create
	now        time.Time
	step       time.Duration // separación entre timestamps; 0 = todos iguales
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{items: map[int64]*entity.Item{}, nextTxID: 1},
		users: map[int64]string{1: "admin", 2: "bodega"},
		now:   time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
		step:  time.Second,
	}
}

func (s *memStore) addItem(id int64, code string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.items[id] = &entity.Item{
		ID: id, Code: code, Name: "Item " + code, CategoryID: 1,
		OpeningStock: stock, CurrentStock: stock,
	}
}

func (s *memStore) stock(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.items[id].CurrentStock
}

func (s *memStore) ledger(itemID int64) []*entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range s.state.txs {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	return out
}

func (s *memStore) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return &domain.PersistenceError{Op: "begin transaction", Err: err}
	}
	work := s.state.clone()
	if err := fn(ctx, &memItemRepo{store: s, st: work}, &memTxRepo{store: s, st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.PersistenceError{Op: "commit transaction", Err: err}
	}
	s.state = work
	return nil
}

func (s *memStore) itemRepo() *memItemRepo { return &memItemRepo{store: s} }
func (s *memStore) txRepo() *memTxRepo     { return &memTxRepo{store: s} }

// view ejecuta fn sobre el estado de la tx o, fuera de tx, sobre el estado publicado.
func view(store *memStore, st *memState, fn func(*memState)) {
	if st != nil {
		fn(st)
		return
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	fn(store.state)
}

type memItemRepo struct {
	store *memStore
	st    *memState
}

var _ repository.ItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	view(r.store, r.st, func(s *memState) { s.items[item.ID] = item })
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	var out *entity.Item
	view(r.store, r.st, func(s *memState) {
		if it, ok := s.items[id]; ok {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

func (r *memItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	view(r.store, r.st, func(s *memState) {
		for _, it := range s.items {
			if it.Code == code {
				cp := *it
				out = &cp
			}
		}
	})
	return out, nil
}

func (r *memItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *memItemRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	view(r.store, r.st, func(s *memState) { s.items[id].CurrentStock = stock })
	return nil
}

func (r *memItemRepo) Update(context.Context, *entity.Item) error { return nil }

func (r *memItemRepo) List(context.Context, repository.ItemFilter) ([]*entity.Item, error) {
	return nil, nil
}

func (r *memItemRepo) ListBelowReorderLevel(context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	view(r.store, r.st, func(s *memState) {
		for _, it := range s.items {
			if it.BelowReorderLevel() {
				cp := *it
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r *memItemRepo) Delete(context.Context, int64) error { return nil }

type memTxRepo struct {
	store *memStore
	st    *memState
}

var _ repository.TransactionRepository = (*memTxRepo)(nil)

func (r *memTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	if len(r.store.createErrs) > 0 {
		err := r.store.createErrs[0]
		r.store.createErrs = r.store.createErrs[1:]
		return err
	}
	if _, ok := r.store.users[t.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	view(r.store, r.st, func(s *memState) {
		t.ID = s.nextTxID
		t.Timestamp = r.store.now.Add(time.Duration(s.nextTxID) * r.store.step)
		s.nextTxID++
		cp := *t
		s.txs = append(s.txs, &cp)
	})
	return nil
}

func (r *memTxRepo) GetByRequestKey(_ context.Context, key string) (*entity.Transaction, error) {
	var out *entity.Transaction
	view(r.store, r.st, func(s *memState) {
		for _, t := range s.txs {
			if t.RequestKey == key {
				cp := *t
				out = &cp
			}
		}
	})
	return out, nil
}

func matchesFilter(s *memState, t *entity.Transaction, f repository.TransactionFilter) bool {
	if f.Action != "" && t.Action != f.Action {
		return false
	}
	if f.ItemID != 0 && t.ItemID != f.ItemID {
		return false
	}
	if f.From != nil && t.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && t.Timestamp.After(*f.To) {
		return false
	}
	it := s.items[t.ItemID]
	return f.Search == "" || strings.Contains(strings.ToLower(it.Code+" "+it.Name), strings.ToLower(f.Search))
}

func (r *memTxRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	view(r.store, r.st, func(s *memState) {
		for _, t := range s.txs {
			if !matchesFilter(s, t, f) {
				continue
			}
			cp := *t
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memTxRepo) Totals(_ context.Context, f repository.TransactionFilter) (repository.TransactionTotals, error) {
	var out repository.TransactionTotals
	view(r.store, r.st, func(s *memState) {
		for _, t := range s.txs {
			if !matchesFilter(s, t, f) {
				continue
			}
			out.Count++
			if t.QuantityChange > 0 {
				out.Added += t.QuantityChange
			} else {
				out.Withdrawn -= t.QuantityChange
			}
		}
	})
	return out, nil
}

func (r *memTxRepo) SumByItem(_ context.Context, itemID int64) (int, error) {
	sum := 0
	view(r.store, r.st, func(s *memState) {
		for _, t := range s.txs {
			if t.ItemID == itemID {
				sum += t.QuantityChange
			}
		}
	})
	return sum, nil
}
