package di

import (
	"context"
	"fmt"
	"sync"

	"stocktrack/internal/auth"
	authconfig "stocktrack/internal/auth/config"
	"stocktrack/internal/inventory"
	invconfig "stocktrack/internal/inventory/config"
	"stocktrack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container wires the application modules together and owns their
// lifecycle.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule      *auth.AuthModule
	InventoryModule *inventory.InventoryModule

	// Backing connections
	MongoDB     *mongo.Database
	RedisClient *redis.Client

	// Configuration
	AuthConfig      *authconfig.Config
	InventoryConfig *invconfig.Config

	// Logger
	Logger logger.Logger
}

// NewContainer creates an empty DI container.
func NewContainer(log logger.Logger) *Container {
	return &Container{Logger: log}
}

// InitializeAuth initializes the authentication module.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, authConfig *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.AuthConfig = authConfig

	authModule, err := auth.NewAuthModule(mongoDB, authConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeInventory initializes the inventory module. The auth module
// must be initialized first since inventory routes sit behind its
// session gate.
func (c *Container) InitializeInventory(redisClient *redis.Client, invConfig *invconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before inventory module")
	}
	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before inventory module")
	}

	c.RedisClient = redisClient
	c.InventoryConfig = invConfig

	invModule, err := inventory.NewInventoryModule(c.MongoDB, redisClient, invConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create inventory module: %w", err)
	}

	c.InventoryModule = invModule
	return nil
}

// GetAuthModule returns the auth module instance.
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetInventoryModule returns the inventory module instance.
func (c *Container) GetInventoryModule() *inventory.InventoryModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.InventoryModule
}

// HealthCheck verifies all backing services.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.InventoryModule != nil {
		if err := c.InventoryModule.HealthCheck(ctx); err != nil {
			return fmt.Errorf("inventory health check failed: %w", err)
		}
	}

	return nil
}

// Close releases module resources and backing connections.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error

	if c.InventoryModule != nil {
		if err := c.InventoryModule.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
