package service

import (
	"context"
	"errors"
	"sync"

	"garage-service/internal/model"
	"garage-service/internal/store"
)

// fakeStore is an in-memory TxStore. Transactions serialize on txMu,
// mirroring the row-lock behavior of the real adapter, and roll back by
// restoring a snapshot taken at transaction start.
type fakeStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	products    map[uint]*model.Product
	categories  map[uint]*model.Category
	inventories map[uint]*model.Inventory
	nextID      uint

	failInventoryCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:    make(map[uint]*model.Product),
		categories:  make(map[uint]*model.Category),
		inventories: make(map[uint]*model.Inventory),
	}
}

func (f *fakeStore) addCategory(id uint, name string) {
	f.categories[id] = &model.Category{ID: id, Name: name}
}

func (f *fakeStore) snapshot() (map[uint]*model.Product, map[uint]*model.Inventory) {
	products := make(map[uint]*model.Product, len(f.products))
	for id, p := range f.products {
		cp := *p
		products[id] = &cp
	}
	inventories := make(map[uint]*model.Inventory, len(f.inventories))
	for id, inv := range f.inventories {
		cp := *inv
		inventories[id] = &cp
	}
	return products, inventories
}

func (f *fakeStore) InTx(_ context.Context, fn func(store.Store) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	products, inventories := f.snapshot()
	nextID := f.nextID
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.products = products
		f.inventories = inventories
		f.nextID = nextID
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetProduct(_ context.Context, productID uint) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ProductExistsByName(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ProductNameInUse(_ context.Context, name string, excludeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CategoryExists(_ context.Context, categoryID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.categories[categoryID]
	return ok, nil
}

func (f *fakeStore) ListProducts(_ context.Context, categoryID *uint, offset, limit int) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Product
	for _, p := range f.products {
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.products {
		if existing.Name == p.Name {
			return store.ErrDuplicate
		}
	}
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) SaveProduct(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, productID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[productID]; !ok {
		return 0, nil
	}
	delete(f.products, productID)
	return 1, nil
}

func (f *fakeStore) GetInventory(_ context.Context, productID uint) (*model.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.inventories[productID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) GetInventoryForUpdate(ctx context.Context, productID uint) (*model.Inventory, error) {
	return f.GetInventory(ctx, productID)
}

func (f *fakeStore) CreateInventory(_ context.Context, inv *model.Inventory) error {
	if f.failInventoryCreate != nil {
		return f.failInventoryCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.inventories[inv.ProductID]; ok {
		return store.ErrDuplicate
	}
	cp := *inv
	f.inventories[inv.ProductID] = &cp
	return nil
}

func (f *fakeStore) SaveInventory(_ context.Context, inv *model.Inventory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.inventories[inv.ProductID]; !ok {
		return store.ErrNotFound
	}
	cp := *inv
	f.inventories[inv.ProductID] = &cp
	return nil
}

func (f *fakeStore) DeleteInventory(_ context.Context, productID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.inventories[productID]; !ok {
		return 0, nil
	}
	delete(f.inventories, productID)
	return 1, nil
}

func (f *fakeStore) ListInventoriesBelowReorderPoint(_ context.Context) ([]model.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Inventory
	for _, inv := range f.inventories {
		if inv.NeedsReorder() {
			out = append(out, *inv)
		}
	}
	return out, nil
}

// fakeNotifier records reorder alerts and can simulate delivery failures.
type fakeNotifier struct {
	mu     sync.Mutex
	alerts []uint
	err    error
}

func (n *fakeNotifier) NotifyReorder(_ context.Context, inv *model.Inventory) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, inv.ProductID)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

var errBoom = errors.New("boom")
