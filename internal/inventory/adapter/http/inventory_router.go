package http

import (
	"context"
	"errors"
	"net/url"

	"stocktrack/internal/inventory/usecase"
	apperrors "stocktrack/internal/shared/errors"
	"stocktrack/internal/shared/logger"
	"stocktrack/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// InventoryHTTPHandler handles HTTP requests for the inventory view and
// its mutations. Every route sits behind the session gate; every
// mutation response carries the freshly reloaded snapshot.
type InventoryHTTPHandler struct {
	service *usecase.Service
	log     logger.Logger
}

// NewInventoryHTTPHandler creates a new inventory HTTP handler
func NewInventoryHTTPHandler(service *usecase.Service, log logger.Logger) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{
		service: service,
		log:     log.WithComponent("inventory-http"),
	}
}

// SetupRoutes registers the inventory routes behind the session gate.
func (h *InventoryHTTPHandler) SetupRoutes(router fiber.Router, gate fiber.Handler) {
	inv := router.Group("/inventory", gate)
	inv.Get("/", h.GetInventory)
	inv.Post("/search", h.Search)
	inv.Post("/items", h.AddItem)
	inv.Put("/items/:name", h.EditItem)
	inv.Post("/items/:name/increment", h.IncrementItem)
	inv.Post("/items/:name/decrement", h.DecrementItem)
	inv.Delete("/items/:name", h.RemoveItem)
}

// itemRequest carries raw form input. Fields arrive as strings because
// numeric parsing belongs to form validation.
type itemRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	ImageURL string `json:"imageUrl"`
}

// GetInventory reloads the caller's view and returns the snapshot.
func (h *InventoryHTTPHandler) GetInventory(c *fiber.Ctx) error {
	ownerID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return h.unauthenticated(c)
	}

	snap, err := h.service.Load(c.Context(), ownerID, c.Query("search"))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(snap)
}

// Search updates the search predicate and re-derives the filtered view
// from memory, without a storage round-trip.
func (h *InventoryHTTPHandler) Search(c *fiber.Ctx) error {
	ownerID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return h.unauthenticated(c)
	}

	var req struct {
		Search string `json:"search"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	return c.JSON(h.service.Search(ownerID, req.Search))
}

// AddItem runs the form controller's create flow.
func (h *InventoryHTTPHandler) AddItem(c *fiber.Ctx) error {
	ownerID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return h.unauthenticated(c)
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	form := usecase.NewItemForm()
	form.OpenCreate()
	form.Name = req.Name
	form.Price = req.Price
	form.Quantity = req.Quantity
	form.Category = req.Category
	form.Unit = req.Unit
	form.ImageURL = req.ImageURL

	snap, err := form.Submit(c.Context(), h.service, ownerID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(snap)
}

// EditItem runs the form controller's edit flow against an existing
// item. The name in the path is the immutable document key.
func (h *InventoryHTTPHandler) EditItem(c *fiber.Ctx) error {
	ownerID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return h.unauthenticated(c)
	}

	name := h.itemName(c)

	item, err := h.service.GetItem(c.Context(), ownerID, name)
	if err != nil {
		return h.respondError(c, err)
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	form := usecase.NewItemForm()
	form.OpenEdit(*item)
	form.Price = req.Price
	form.Quantity = req.Quantity
	form.Category = req.Category
	form.Unit = req.Unit
	form.ImageURL = req.ImageURL

	snap, err := form.Submit(c.Context(), h.service, ownerID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(snap)
}

// IncrementItem raises the item's quantity by one.
func (h *InventoryHTTPHandler) IncrementItem(c *fiber.Ctx) error {
	return h.mutateByName(c, h.service.Increment)
}

// DecrementItem lowers the item's quantity by one, flooring at 1.
func (h *InventoryHTTPHandler) DecrementItem(c *fiber.Ctx) error {
	return h.mutateByName(c, h.service.Decrement)
}

// RemoveItem deletes the item; a missing name completes without error.
func (h *InventoryHTTPHandler) RemoveItem(c *fiber.Ctx) error {
	return h.mutateByName(c, h.service.Remove)
}

func (h *InventoryHTTPHandler) mutateByName(
	c *fiber.Ctx,
	op func(ctx context.Context, ownerID, name string) (usecase.Snapshot, error),
) error {
	ownerID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return h.unauthenticated(c)
	}

	snap, err := op(c.Context(), ownerID, h.itemName(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(snap)
}

// itemName reads the :name path parameter, unescaping it so names with
// spaces survive the round-trip.
func (h *InventoryHTTPHandler) itemName(c *fiber.Ctx) string {
	raw := c.Params("name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func (h *InventoryHTTPHandler) unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Authentication required",
	})
}

// respondError maps usecase errors onto HTTP responses: validation
// rejections to 422, storage transport failures to 503.
func (h *InventoryHTTPHandler) respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"error": appErr.Message,
			"type":  appErr.Type,
		})
	}
	if errors.Is(err, apperrors.ErrStorageUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Inventory storage unavailable",
		})
	}

	h.log.Errorf("Unhandled inventory error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal Server Error",
	})
}
