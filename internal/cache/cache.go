package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the local cache adapter: a plain key/value surface used to hold
// the last-known profile roster, the active session and per-owner job lists.
// Implementations must treat their own failures as cache misses; callers rely
// on the store never being the reason an operation fails.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Keys used by the services. Entries are kept without expiry so the cached
// copy can stand in for the remote backend across restarts.
const (
	KeySession  = "paintpro:session"
	KeyProfiles = "paintpro:profiles"

	jobsKeyPrefix = "paintpro:jobs:"
	fileKeyPrefix = "paintpro:file:"
)

// JobsKey returns the cache key holding the job list of one owner.
func JobsKey(ownerID int64) string {
	return jobsKeyPrefix + strconv.FormatInt(ownerID, 10)
}

// FileKey returns the cache key holding fallback metadata of one upload.
func FileKey(fileID string) string {
	return fileKeyPrefix + fileID
}

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
type Client struct {
	client *redis.Client
}

var _ Store = (*Client)(nil)

// New creates a new Redis-backed store.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL (0 means no expiry), ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return nil
	}
	return nil
}
