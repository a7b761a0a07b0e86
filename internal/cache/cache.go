package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrDisabled = errors.New("cache is disabled")

func NewRedisClient(address, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// Client is the data cache shared by every handler of one application.
// A Client without a redis connection behaves as an always-empty cache.
type Client struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Enabled() bool {
	return c.rdb != nil
}

// GetJSON decodes the value stored at key into dst and reports whether the
// key was present.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}

	return true, nil
}

// SetJSON stores v at key. A zero ttl keeps the key until it is overwritten.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, data, ttl).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return ErrDisabled
	}
	return c.rdb.Ping(ctx).Err()
}

// Shutdown closes the redis connection pool when the process stops.
func (c *Client) Shutdown() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
