package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const catalogKey = "catalog:products"

// Client caches the most recent successful catalog fetch so a fresh process
// (or a session whose remote is down) can fall back to the last known
// product set instead of an empty catalog.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetCatalog stores the product set with the configured TTL.
func (c *Client) SetCatalog(ctx context.Context, products []models.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.rdb.Set(ctx, catalogKey, payload, c.ttl).Err()
}

// GetCatalog retrieves the cached product set. The second return is false
// when no cached catalog exists.
func (c *Client) GetCatalog(ctx context.Context) ([]models.Product, bool, error) {
	payload, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []models.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return products, true, nil
}
