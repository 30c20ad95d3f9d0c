package usecase_test

import (
	"context"
	"errors"
	"testing"

	"stocktrack/internal/inventory/domain/model"
	"stocktrack/internal/inventory/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Reload_RecomputesTotals(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1",
		model.InventoryItem{Name: "Apple", Price: 2.5, Quantity: 4, Category: "Fruits", Unit: "Kilogram (kg)"},
		model.InventoryItem{Name: "Milk", Price: 1.2, Quantity: 10, Category: "Dairy Products", Unit: "Each"},
		model.InventoryItem{Name: "Banana", Price: 1.0, Quantity: 6, Category: "Fruits", Unit: "Kilogram (kg)"},
	)

	view := usecase.NewView("user-1", store)
	require.NoError(t, view.Reload(context.Background()))

	snap := view.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.InDelta(t, 2.5*4+1.2*10+1.0*6, snap.TotalValue, 1e-9)
	assert.Equal(t, 2, snap.CategoryCount)
	assert.Equal(t, snap.Items, snap.FilteredItems)
}

func TestView_Reload_EmptyCollection(t *testing.T) {
	view := usecase.NewView("user-1", newFakeStore())
	require.NoError(t, view.Reload(context.Background()))

	snap := view.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalValue)
	assert.Zero(t, snap.CategoryCount)
}

func TestView_Reload_FailureLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1",
		model.InventoryItem{Name: "Apple", Price: 2.0, Quantity: 3, Category: "Fruits", Unit: "Kilogram (kg)"},
	)

	view := usecase.NewView("user-1", store)
	require.NoError(t, view.Reload(context.Background()))

	store.listErr = errors.New("connection reset")
	err := view.Reload(context.Background())
	require.Error(t, err)

	snap := view.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.InDelta(t, 6.0, snap.TotalValue, 1e-9)
	assert.Equal(t, 1, snap.CategoryCount)
}

func TestView_SetSearch_CaseInsensitiveSubstring(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1",
		model.InventoryItem{Name: "Apple", Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "ApRICOT", Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "Banana", Category: "Fruits", Unit: "Each"},
	)

	view := usecase.NewView("user-1", store)
	require.NoError(t, view.Reload(context.Background()))

	view.SetSearch("aP")
	snap := view.Snapshot()
	require.Len(t, snap.FilteredItems, 2)
	assert.Equal(t, "Apple", snap.FilteredItems[0].Name)
	assert.Equal(t, "ApRICOT", snap.FilteredItems[1].Name)
	// The full item list is not affected by the filter.
	assert.Len(t, snap.Items, 3)
}

func TestView_SetSearch_EmptyMatchesAll(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1",
		model.InventoryItem{Name: "Apple", Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "Banana", Category: "Fruits", Unit: "Each"},
	)

	view := usecase.NewView("user-1", store)
	require.NoError(t, view.Reload(context.Background()))

	view.SetSearch("app")
	require.Len(t, view.Snapshot().FilteredItems, 1)

	view.SetSearch("")
	assert.Len(t, view.Snapshot().FilteredItems, 2)
}

func TestView_SetSearch_NoFetch(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1",
		model.InventoryItem{Name: "Apple", Category: "Fruits", Unit: "Each"},
	)

	view := usecase.NewView("user-1", store)
	require.NoError(t, view.Reload(context.Background()))
	calls := store.listCalls

	view.SetSearch("app")
	view.SetSearch("")
	assert.Equal(t, calls, store.listCalls)
}

func TestView_SearchSurvivesReload(t *testing.T) {
	store := newFakeStore()
	store.seed("user-1",
		model.InventoryItem{Name: "Apple", Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "Banana", Category: "Fruits", Unit: "Each"},
	)

	view := usecase.NewView("user-1", store)
	view.SetSearch("ban")
	require.NoError(t, view.Reload(context.Background()))

	snap := view.Snapshot()
	require.Len(t, snap.FilteredItems, 1)
	assert.Equal(t, "Banana", snap.FilteredItems[0].Name)
	assert.Equal(t, "ban", snap.Search)
}

func TestViewRegistry_AcquireAndRelease(t *testing.T) {
	registry := usecase.NewViewRegistry(newFakeStore())

	first := registry.Acquire("user-1")
	assert.Same(t, first, registry.Acquire("user-1"))
	assert.NotSame(t, first, registry.Acquire("user-2"))

	registry.Release("user-1")
	assert.NotSame(t, first, registry.Acquire("user-1"))
}
