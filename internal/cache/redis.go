// Package cache provides the Redis read-through cache for carts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/cart"
)

// CartCache caches carts in Redis keyed by user. TTLs are jittered so a
// burst of writes does not expire as one thundering herd.
type CartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

var _ cart.Cache = (*CartCache)(nil)

func NewCartCache(client *redis.Client) *CartCache {
	return &CartCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (c *CartCache) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var cached cart.Cart
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart")
	}
	return &cached, nil
}

func (c *CartCache) Set(ctx context.Context, userID string, cr *cart.Cart) error {
	data, err := json.Marshal(cr)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := c.client.Set(ctx, cartKey(userID), data, c.baseTTL+jitter).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (c *CartCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return errors.Wrap(err, "redis delete")
	}
	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
