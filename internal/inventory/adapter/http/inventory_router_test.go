package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	invhttp "stocktrack/internal/inventory/adapter/http"
	"stocktrack/internal/inventory/domain/model"
	"stocktrack/internal/inventory/usecase"
	apperrors "stocktrack/internal/shared/errors"
	"stocktrack/internal/shared/logger"
	"stocktrack/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// memStore is an in-memory ItemStore for handler tests.
type memStore struct {
	items   map[string][]model.InventoryItem
	listErr error
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string][]model.InventoryItem)}
}

func (s *memStore) ListAll(ctx context.Context, ownerID string) ([]model.InventoryItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.InventoryItem, len(s.items[ownerID]))
	copy(out, s.items[ownerID])
	return out, nil
}

func (s *memStore) Get(ctx context.Context, ownerID, name string) (*model.InventoryItem, error) {
	for _, item := range s.items[ownerID] {
		if item.Name == name {
			copied := item
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) Upsert(ctx context.Context, ownerID, name string, fields model.ItemFields, merge bool) error {
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

func (s *memStore) Delete(ctx context.Context, ownerID, name string) error {
	for i, item := range s.items[ownerID] {
		if item.Name == name {
			s.items[ownerID] = append(s.items[ownerID][:i], s.items[ownerID][i+1:]...)
			return nil
		}
	}
	return nil
}

// stubGate injects a fixed identity, standing in for the session gate.
func stubGate(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(utils.WithUserContext(c.UserContext(), userID, "test@example.com"))
		return c.Next()
	}
}

type InventoryRouterTestSuite struct {
	suite.Suite
	app   *fiber.App
	store *memStore
}

func (suite *InventoryRouterTestSuite) SetupTest() {
	suite.store = newMemStore()
	views := usecase.NewViewRegistry(suite.store)
	service := usecase.NewService(suite.store, views, nil, logger.NewLogger())

	suite.app = fiber.New()
	handler := invhttp.NewInventoryHTTPHandler(service, logger.NewLogger())
	handler.SetupRoutes(suite.app, stubGate("user-1"))
}

func (suite *InventoryRouterTestSuite) seed(items ...model.InventoryItem) {
	suite.store.items["user-1"] = append(suite.store.items["user-1"], items...)
}

func (suite *InventoryRouterTestSuite) do(method, path string, payload interface{}) *http.Response {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(suite.T(), err)
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)
	return resp
}

func (suite *InventoryRouterTestSuite) decodeSnapshot(resp *http.Response) usecase.Snapshot {
	var snap usecase.Snapshot
	require.NoError(suite.T(), json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func (suite *InventoryRouterTestSuite) TestGetInventory() {
	suite.seed(
		model.InventoryItem{Name: "Apple", Price: 2.5, Quantity: 4, Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "Milk", Price: 1.2, Quantity: 10, Category: "Dairy Products", Unit: "Each"},
	)

	resp := suite.do("GET", "/inventory/", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	snap := suite.decodeSnapshot(resp)
	assert.Len(suite.T(), snap.Items, 2)
	assert.InDelta(suite.T(), 22.0, snap.TotalValue, 1e-9)
	assert.Equal(suite.T(), 2, snap.CategoryCount)
}

func (suite *InventoryRouterTestSuite) TestGetInventory_WithSearchQuery() {
	suite.seed(
		model.InventoryItem{Name: "Apple", Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "Banana", Category: "Fruits", Unit: "Each"},
	)

	resp := suite.do("GET", "/inventory/?search=app", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	snap := suite.decodeSnapshot(resp)
	assert.Len(suite.T(), snap.Items, 2)
	require.Len(suite.T(), snap.FilteredItems, 1)
	assert.Equal(suite.T(), "Apple", snap.FilteredItems[0].Name)
}

func (suite *InventoryRouterTestSuite) TestGetInventory_StorageUnavailable() {
	suite.store.listErr = fmt.Errorf("%w: connection reset", apperrors.ErrStorageUnavailable)

	resp := suite.do("GET", "/inventory/", nil)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, resp.StatusCode)
}

func (suite *InventoryRouterTestSuite) TestAddItem() {
	resp := suite.do("POST", "/inventory/items", map[string]string{
		"name":     "Rice",
		"price":    "3.0",
		"quantity": "10",
		"category": "Bakery Products",
		"unit":     "Kilogram (kg)",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	snap := suite.decodeSnapshot(resp)
	require.Len(suite.T(), snap.Items, 1)
	assert.EqualValues(suite.T(), 10, snap.Items[0].Quantity)
}

func (suite *InventoryRouterTestSuite) TestAddItem_ValidationRejected() {
	resp := suite.do("POST", "/inventory/items", map[string]string{
		"name":     "Rice",
		"price":    "not-a-number",
		"quantity": "10",
		"category": "Bakery Products",
		"unit":     "Kilogram (kg)",
	})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)
}

func (suite *InventoryRouterTestSuite) TestAddItem_DuplicateMerges() {
	suite.seed(model.InventoryItem{
		Name: "Rice", Price: 2.0, Quantity: 10, Category: "Bakery Products", Unit: "Kilogram (kg)",
	})

	resp := suite.do("POST", "/inventory/items", map[string]string{
		"name":     "Rice",
		"price":    "3.0",
		"quantity": "5",
		"category": "Bakery Products",
		"unit":     "Kilogram (kg)",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	snap := suite.decodeSnapshot(resp)
	require.Len(suite.T(), snap.Items, 1)
	assert.EqualValues(suite.T(), 15, snap.Items[0].Quantity)
	assert.InDelta(suite.T(), 3.0, snap.Items[0].Price, 1e-9)
}

func (suite *InventoryRouterTestSuite) TestEditItem() {
	suite.seed(model.InventoryItem{
		Name: "Milk", Price: 1.2, Quantity: 10, Category: "Dairy Products", Unit: "Each",
	})

	resp := suite.do("PUT", "/inventory/items/Milk", map[string]string{
		"price":    "1.5",
		"quantity": "3",
		"category": "Dairy Products",
		"unit":     "Each",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	snap := suite.decodeSnapshot(resp)
	require.Len(suite.T(), snap.Items, 1)
	assert.Equal(suite.T(), "Milk", snap.Items[0].Name)
	assert.EqualValues(suite.T(), 3, snap.Items[0].Quantity)
}

func (suite *InventoryRouterTestSuite) TestEditItem_NotFound() {
	resp := suite.do("PUT", "/inventory/items/Ghost", map[string]string{
		"price":    "1.5",
		"quantity": "3",
	})
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

func (suite *InventoryRouterTestSuite) TestIncrementAndDecrement() {
	suite.seed(model.InventoryItem{
		Name: "Eggs", Price: 0.5, Quantity: 1, Category: "Dairy Products", Unit: "Each",
	})

	resp := suite.do("POST", "/inventory/items/Eggs/increment", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	snap := suite.decodeSnapshot(resp)
	assert.EqualValues(suite.T(), 2, snap.Items[0].Quantity)

	resp = suite.do("POST", "/inventory/items/Eggs/decrement", nil)
	snap = suite.decodeSnapshot(resp)
	assert.EqualValues(suite.T(), 1, snap.Items[0].Quantity)

	// Quantity floors at 1.
	resp = suite.do("POST", "/inventory/items/Eggs/decrement", nil)
	snap = suite.decodeSnapshot(resp)
	assert.EqualValues(suite.T(), 1, snap.Items[0].Quantity)
}

func (suite *InventoryRouterTestSuite) TestRemoveItem() {
	suite.seed(model.InventoryItem{
		Name: "Apple", Price: 2.0, Quantity: 3, Category: "Fruits", Unit: "Each",
	})

	resp := suite.do("DELETE", "/inventory/items/Apple", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Empty(suite.T(), suite.decodeSnapshot(resp).Items)
}

func (suite *InventoryRouterTestSuite) TestRemoveItem_MissingIsFine() {
	resp := suite.do("DELETE", "/inventory/items/Ghost", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *InventoryRouterTestSuite) TestItemNameWithSpaces() {
	suite.seed(model.InventoryItem{
		Name: "Olive Oil", Price: 8.0, Quantity: 2, Category: "Household Items", Unit: "Each",
	})

	resp := suite.do("POST", "/inventory/items/Olive%20Oil/increment", nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	snap := suite.decodeSnapshot(resp)
	assert.EqualValues(suite.T(), 3, snap.Items[0].Quantity)
}

func (suite *InventoryRouterTestSuite) TestSearchEndpoint_NoFetch() {
	suite.seed(
		model.InventoryItem{Name: "Apple", Category: "Fruits", Unit: "Each"},
		model.InventoryItem{Name: "Banana", Category: "Fruits", Unit: "Each"},
	)

	resp := suite.do("GET", "/inventory/", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	suite.store.listErr = errors.New("down")

	resp = suite.do("POST", "/inventory/search", map[string]string{"search": "ban"})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	snap := suite.decodeSnapshot(resp)
	require.Len(suite.T(), snap.FilteredItems, 1)
	assert.Equal(suite.T(), "Banana", snap.FilteredItems[0].Name)
}

func TestInventoryRouterTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRouterTestSuite))
}
