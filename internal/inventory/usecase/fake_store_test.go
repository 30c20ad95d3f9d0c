package usecase_test

import (
	"context"
	"sync"

	"stocktrack/internal/inventory/domain/model"
)

// fakeStore is an in-memory ItemStore keeping per-owner items in
// insertion order.
type fakeStore struct {
	mu    sync.Mutex
	items map[string][]model.InventoryItem

	listErr   error
	getErr    error
	upsertErr error
	deleteErr error

	listCalls   int
	upsertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string][]model.InventoryItem)}
}

func (s *fakeStore) seed(ownerID string, items ...model.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[ownerID] = append(s.items[ownerID], items...)
}

func (s *fakeStore) ListAll(ctx context.Context, ownerID string) ([]model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.InventoryItem, len(s.items[ownerID]))
	copy(out, s.items[ownerID])
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, ownerID, name string) (*model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, item := range s.items[ownerID] {
		if item.Name == name {
			copied := item
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Upsert(ctx context.Context, ownerID, name string, fields model.ItemFields, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertCalls++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	next := model.InventoryItem{
		Name:     name,
		Price:    fields.Price,
		Quantity: fields.Quantity,
		Category: fields.Category,
		Unit:     fields.Unit,
		ImageURL: fields.ImageURL,
	}
	for i, item := range s.items[ownerID] {
		if item.Name == name {
			s.items[ownerID][i] = next
			return nil
		}
	}
	s.items[ownerID] = append(s.items[ownerID], next)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, ownerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, item := range s.items[ownerID] {
		if item.Name == name {
			s.items[ownerID] = append(s.items[ownerID][:i], s.items[ownerID][i+1:]...)
			return nil
		}
	}
	return nil
}
