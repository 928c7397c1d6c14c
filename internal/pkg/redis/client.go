package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis universal client; it talks to a single node or a
// cluster depending on how many addresses are configured.
type Client struct {
	rdb redis.UniversalClient
}

// NewClient connects and pings. addrs format: "host1:port1,host2:port2".
func NewClient(addrs string) (*Client, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: strings.Split(addrs, ","),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{rdb: rdb}, nil
}

// GetClient exposes the underlying client for pipelines and scripts.
func (c *Client) GetClient() redis.UniversalClient {
	return c.rdb
}

func (c *Client) GetInt(ctx context.Context, key string) (int, error) {
	return c.rdb.Get(ctx, key).Int()
}

// IsNil reports whether err is the redis cache-miss sentinel.
func IsNil(err error) bool {
	return err == redis.Nil
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
