package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/workflow"

	"github.com/go-redis/redis/v8"
)

const statusCacheTTL = 24 * time.Hour

type Client struct {
	rdb *redis.Client
}

// CachedStatus is the read-model snapshot kept per order. It is a cache of
// the derived workflow status, refreshed on every task-stage change and
// never trusted over a fresh derivation.
type CachedStatus struct {
	Status   workflow.Status `json:"status"`
	Progress int             `json:"progress"`
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

func statusKey(orderID int64) string {
	return fmt.Sprintf("order:%d:status", orderID)
}

// SetOrderStatus caches the freshly derived status for an order
func (c *Client) SetOrderStatus(ctx context.Context, orderID int64, status CachedStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return c.rdb.Set(ctx, statusKey(orderID), data, statusCacheTTL).Err()
}

// GetOrderStatus retrieves the cached status for an order. Returns nil when
// there is no cached value.
func (c *Client) GetOrderStatus(ctx context.Context, orderID int64) (*CachedStatus, error) {
	data, err := c.rdb.Get(ctx, statusKey(orderID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status CachedStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached status: %w", err)
	}
	return &status, nil
}

// InvalidateOrderStatus drops the cached status; the next read re-derives
func (c *Client) InvalidateOrderStatus(ctx context.Context, orderID int64) error {
	return c.rdb.Del(ctx, statusKey(orderID)).Err()
}

// SetIdempotencyKey stores an idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Err()
}

// CheckIdempotencyKey checks if an idempotency key exists
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// AcquireTaskLock acquires a short lock on a task while a transition is
// being applied, so two board writers don't race each other.
func (c *Client) AcquireTaskLock(ctx context.Context, taskID int64, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:task:%d", taskID), "1", ttl).Result()
}

// ReleaseTaskLock releases the task lock
func (c *Client) ReleaseTaskLock(ctx context.Context, taskID int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:task:%d", taskID)).Err()
}
