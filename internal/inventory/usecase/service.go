package usecase

import (
	"context"

	"stocktrack/internal/inventory/domain/model"
	"stocktrack/internal/inventory/domain/repository"
	"stocktrack/internal/shared/eventbus"
	"stocktrack/internal/shared/logger"
)

// Service executes inventory mutations. Every mutation is a direct
// write through the store adapter followed by an authoritative full
// reload of the owner's view; mutations are never queued or coalesced
// and a failed call is terminal for that invocation.
type Service struct {
	store repository.ItemStore
	views *ViewRegistry
	bus   eventbus.EventBusInterface
	log   logger.Logger
}

// NewService creates the inventory service. The event bus is optional;
// without it change events are not published.
func NewService(store repository.ItemStore, views *ViewRegistry, bus eventbus.EventBusInterface, log logger.Logger) *Service {
	return &Service{
		store: store,
		views: views,
		bus:   bus,
		log:   log.WithComponent("inventory"),
	}
}

// Views exposes the per-session view registry.
func (s *Service) Views() *ViewRegistry {
	return s.views
}

// Load reloads the owner's view with the given search predicate and
// returns the fresh snapshot. This is the initial-load path.
func (s *Service) Load(ctx context.Context, ownerID, search string) (Snapshot, error) {
	view := s.views.Acquire(ownerID)
	view.SetSearch(search)
	if err := view.Reload(ctx); err != nil {
		s.log.WithContext(ctx).Errorf("Error fetching inventory: %v", err)
		return Snapshot{}, err
	}
	return view.Snapshot(), nil
}

// Search re-derives the filtered list from the in-memory items without
// a fetch and returns the snapshot.
func (s *Service) Search(ownerID, search string) Snapshot {
	view := s.views.Acquire(ownerID)
	view.SetSearch(search)
	return view.Snapshot()
}

// GetItem returns the item keyed by name, or nil when absent.
func (s *Service) GetItem(ctx context.Context, ownerID, name string) (*model.InventoryItem, error) {
	return s.store.Get(ctx, ownerID, name)
}

// Add writes a new item, or merges into an existing one: a duplicate
// name accumulates quantity while price, category, unit and image are
// overwritten with the submitted values.
func (s *Service) Add(ctx context.Context, ownerID, name string, fields model.ItemFields) (Snapshot, error) {
	existing, err := s.store.Get(ctx, ownerID, name)
	if err != nil {
		return Snapshot{}, err
	}

	if existing != nil {
		fields.Quantity += existing.Quantity
		err = s.store.Upsert(ctx, ownerID, name, fields, true)
	} else {
		err = s.store.Upsert(ctx, ownerID, name, fields, false)
	}
	if err != nil {
		return Snapshot{}, err
	}

	s.publish(ctx, ownerID, OpAdded, name)
	return s.reload(ctx, ownerID)
}

// Edit overwrites the fields of the item keyed by name. The name is
// the immutable document key; quantity is replaced, not added to.
func (s *Service) Edit(ctx context.Context, ownerID, name string, fields model.ItemFields) (Snapshot, error) {
	if err := s.store.Upsert(ctx, ownerID, name, fields, true); err != nil {
		return Snapshot{}, err
	}

	s.publish(ctx, ownerID, OpEdited, name)
	return s.reload(ctx, ownerID)
}

// Increment raises the item's quantity by one. A missing item is left
// untouched.
func (s *Service) Increment(ctx context.Context, ownerID, name string) (Snapshot, error) {
	item, err := s.store.Get(ctx, ownerID, name)
	if err != nil {
		return Snapshot{}, err
	}
	if item == nil {
		return s.reload(ctx, ownerID)
	}

	fields := fieldsOf(item)
	fields.Quantity = item.Quantity + 1
	if err := s.store.Upsert(ctx, ownerID, name, fields, true); err != nil {
		return Snapshot{}, err
	}

	s.publish(ctx, ownerID, OpIncremented, name)
	return s.reload(ctx, ownerID)
}

// Decrement lowers the item's quantity by one, flooring at 1: at
// quantity 1 the call is a no-op and the quantity never reaches 0.
func (s *Service) Decrement(ctx context.Context, ownerID, name string) (Snapshot, error) {
	item, err := s.store.Get(ctx, ownerID, name)
	if err != nil {
		return Snapshot{}, err
	}
	if item == nil || item.Quantity <= 1 {
		return s.reload(ctx, ownerID)
	}

	fields := fieldsOf(item)
	fields.Quantity = item.Quantity - 1
	if err := s.store.Upsert(ctx, ownerID, name, fields, true); err != nil {
		return Snapshot{}, err
	}

	s.publish(ctx, ownerID, OpDecremented, name)
	return s.reload(ctx, ownerID)
}

// Remove deletes the item. Removing a missing name is not an error and
// leaves the collection unchanged.
func (s *Service) Remove(ctx context.Context, ownerID, name string) (Snapshot, error) {
	if err := s.store.Delete(ctx, ownerID, name); err != nil {
		return Snapshot{}, err
	}

	s.publish(ctx, ownerID, OpRemoved, name)
	return s.reload(ctx, ownerID)
}

// ReleaseView drops the owner's session view at logout.
func (s *Service) ReleaseView(ownerID string) {
	s.views.Release(ownerID)
}

func (s *Service) reload(ctx context.Context, ownerID string) (Snapshot, error) {
	view := s.views.Acquire(ownerID)
	if err := view.Reload(ctx); err != nil {
		s.log.WithContext(ctx).Errorf("Error updating inventory: %v", err)
		return Snapshot{}, err
	}
	return view.Snapshot(), nil
}

func (s *Service) publish(ctx context.Context, ownerID, op, name string) {
	if s.bus == nil {
		return
	}
	s.bus.PublishAndForget(context.WithoutCancel(ctx), NewChangeEvent(ownerID, op, name))
}

func fieldsOf(item *model.InventoryItem) model.ItemFields {
	return model.ItemFields{
		Price:    item.Price,
		Quantity: item.Quantity,
		Category: item.Category,
		Unit:     item.Unit,
		ImageURL: item.ImageURL,
	}
}
