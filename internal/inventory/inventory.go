package inventory

import (
	"context"
	"fmt"

	invhttp "stocktrack/internal/inventory/adapter/http"
	"stocktrack/internal/inventory/adapter/persistence"
	invmongo "stocktrack/internal/inventory/adapter/persistence/mongodb"
	"stocktrack/internal/inventory/config"
	"stocktrack/internal/inventory/usecase"
	"stocktrack/internal/shared/eventbus"
	"stocktrack/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// InventoryModule represents the complete inventory module.
type InventoryModule struct {
	store     *invmongo.MongoItemStore
	service   *usecase.Service
	handler   *invhttp.InventoryHTTPHandler
	hub       *invhttp.WSHub
	bus       eventbus.EventBusInterface
	publisher *persistence.RedisChangePublisher
	config    *config.Config
}

// NewInventoryModule wires the inventory store, reconciler and
// change-event pipeline together.
func NewInventoryModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config, log logger.Logger) (*InventoryModule, error) {
	store, err := invmongo.NewMongoItemStore(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create item store: %w", err)
	}

	views := usecase.NewViewRegistry(store)
	bus := eventbus.NewEventBus(log)
	service := usecase.NewService(store, views, bus, log)

	module := &InventoryModule{
		store:   store,
		service: service,
		handler: invhttp.NewInventoryHTTPHandler(service, log),
		hub:     invhttp.NewWSHub(bus, log),
		bus:     bus,
		config:  cfg,
	}

	if cfg.EventsEnabled && redisClient != nil {
		module.publisher = persistence.NewRedisChangePublisher(redisClient, cfg.StreamMaxLength, log)
		bus.Subscribe(usecase.ChangeEventType, func(ctx context.Context, event eventbus.Event) error {
			payload, ok := event.Data().(usecase.ChangePayload)
			if !ok {
				return nil
			}
			return module.publisher.PublishChange(ctx, payload.OwnerID, payload.Op, payload.Name)
		})
	} else {
		log.Warn("Inventory change streams disabled")
	}

	return module, nil
}

// RegisterRoutes registers inventory routes behind the session gate.
func (im *InventoryModule) RegisterRoutes(router fiber.Router, gate fiber.Handler) {
	im.handler.SetupRoutes(router, gate)
}

// RegisterRealtimeRoutes registers the websocket endpoint. It takes its
// own router so the socket can live outside the versioned API prefix.
func (im *InventoryModule) RegisterRealtimeRoutes(router fiber.Router, gate fiber.Handler) {
	im.hub.SetupRoutes(router, gate)
}

// GetService returns the inventory service for external access.
func (im *InventoryModule) GetService() *usecase.Service {
	return im.service
}

// HealthCheck verifies the module's backing services.
func (im *InventoryModule) HealthCheck(ctx context.Context) error {
	if im.publisher != nil {
		return im.publisher.HealthCheck(ctx)
	}
	return nil
}

// Stop performs cleanup when the module is shut down.
func (im *InventoryModule) Stop() error {
	im.bus.Unsubscribe(usecase.ChangeEventType)
	return nil
}
