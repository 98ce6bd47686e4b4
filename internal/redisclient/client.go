package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	stockHashKey   = "pos:stock"
	revenueKey     = "pos:dashboard:revenue"
	salesCountKey  = "pos:dashboard:sales_count"
	topProductsKey = "pos:dashboard:top_products"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
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

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetStock writes one product's cached stock level
func (c *Client) SetStock(ctx context.Context, productID int64, stock int) error {
	return c.rdb.HSet(ctx, stockHashKey, strconv.FormatInt(productID, 10), stock).Err()
}

// SetStockBulk replaces cached stock levels for many products at once
func (c *Client) SetStockBulk(ctx context.Context, levels map[int64]int) error {
	if len(levels) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for id, stock := range levels {
		pipe.HSet(ctx, stockHashKey, strconv.FormatInt(id, 10), stock)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveStock drops a soft-deleted product from the stock cache
func (c *Client) RemoveStock(ctx context.Context, productID int64) error {
	return c.rdb.HDel(ctx, stockHashKey, strconv.FormatInt(productID, 10)).Err()
}

// GetAllStock retrieves the cached id -> stock snapshot. An empty map with
// no error means the cache is cold and the caller should fall back to the
// database.
func (c *Client) GetAllStock(ctx context.Context) (map[int64]int, error) {
	raw, err := c.rdb.HGetAll(ctx, stockHashKey).Result()
	if err != nil {
		return nil, err
	}

	levels := make(map[int64]int, len(raw))
	for field, val := range raw {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		stock, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		levels[id] = stock
	}
	return levels, nil
}

// AddSale folds one committed sale line into the dashboard counters
func (c *Client) AddSale(ctx context.Context, productName string, qty int, total float64) error {
	pipe := c.rdb.Pipeline()
	pipe.IncrByFloat(ctx, revenueKey, total)
	pipe.Incr(ctx, salesCountKey)
	pipe.ZIncrBy(ctx, topProductsKey, float64(qty), productName)
	_, err := pipe.Exec(ctx)
	return err
}

// SubtractVoidedSale reverses a sale's contribution to the dashboard counters
func (c *Client) SubtractVoidedSale(ctx context.Context, productName string, qty int, total float64) error {
	pipe := c.rdb.Pipeline()
	pipe.IncrByFloat(ctx, revenueKey, -total)
	pipe.Decr(ctx, salesCountKey)
	pipe.ZIncrBy(ctx, topProductsKey, -float64(qty), productName)
	_, err := pipe.Exec(ctx)
	return err
}
