package usecase

import (
	"context"
	"strings"
	"sync"

	"stocktrack/internal/inventory/domain/model"
	"stocktrack/internal/inventory/domain/repository"
)

// Snapshot is the derived view over a user's collection: the full item
// list, the search-filtered subsequence and the wholesale-recomputed
// totals. It is ephemeral and never persisted.
type Snapshot struct {
	Items         []model.InventoryItem `json:"items"`
	FilteredItems []model.InventoryItem `json:"filteredItems"`
	TotalValue    float64               `json:"totalValue"`
	CategoryCount int                   `json:"categoryCount"`
	Search        string                `json:"search,omitempty"`
}

// View reconciles one user's in-memory aggregation with the remote
// collection. Every mutation is followed by Reload: an authoritative
// full re-fetch instead of incremental patching, so the only staleness
// window is one reload round-trip.
type View struct {
	mu      sync.RWMutex
	ownerID string
	store   repository.ItemStore

	search        string
	items         []model.InventoryItem
	filtered      []model.InventoryItem
	totalValue    float64
	categoryCount int
}

// NewView creates a view bound to one owner's collection.
func NewView(ownerID string, store repository.ItemStore) *View {
	return &View{
		ownerID:  ownerID,
		store:    store,
		items:    []model.InventoryItem{},
		filtered: []model.InventoryItem{},
	}
}

// Reload re-fetches the full collection and recomputes every derived
// field. On failure the previous view state is left untouched and the
// error propagates so the caller can finish its loading sequence
// without a populated view.
func (v *View) Reload(ctx context.Context) error {
	items, err := v.store.ListAll(ctx, v.ownerID)
	if err != nil {
		return err
	}

	var totalValue float64
	categories := make(map[string]struct{})
	for _, item := range items {
		totalValue += item.Value()
		categories[item.Category] = struct{}{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = items
	v.totalValue = totalValue
	v.categoryCount = len(categories)
	v.filtered = filterItems(items, v.search)
	return nil
}

// SetSearch updates the search predicate and re-derives the filtered
// list from the items already in memory, without a fetch.
func (v *View) SetSearch(search string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = search
	v.filtered = filterItems(v.items, v.search)
}

// Snapshot copies out the current derived state.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	items := make([]model.InventoryItem, len(v.items))
	copy(items, v.items)
	filtered := make([]model.InventoryItem, len(v.filtered))
	copy(filtered, v.filtered)

	return Snapshot{
		Items:         items,
		FilteredItems: filtered,
		TotalValue:    v.totalValue,
		CategoryCount: v.categoryCount,
		Search:        v.search,
	}
}

// filterItems returns the subsequence of items whose name contains the
// search substring, case-insensitively. An empty search matches all.
func filterItems(items []model.InventoryItem, search string) []model.InventoryItem {
	needle := strings.ToLower(search)
	filtered := make([]model.InventoryItem, 0, len(items))
	for _, item := range items {
		if needle == "" || strings.Contains(strings.ToLower(item.Name), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// ViewRegistry tracks one View per authenticated user session. Views
// are acquired at session start and released at logout.
type ViewRegistry struct {
	mu    sync.Mutex
	views map[string]*View
	store repository.ItemStore
}

// NewViewRegistry creates an empty registry over the given store.
func NewViewRegistry(store repository.ItemStore) *ViewRegistry {
	return &ViewRegistry{
		views: make(map[string]*View),
		store: store,
	}
}

// Acquire returns the owner's view, creating it on first use.
func (r *ViewRegistry) Acquire(ownerID string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	view, ok := r.views[ownerID]
	if !ok {
		view = NewView(ownerID, r.store)
		r.views[ownerID] = view
	}
	return view
}

// Release drops the owner's view.
func (r *ViewRegistry) Release(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, ownerID)
}
