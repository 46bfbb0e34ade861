package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool)
	SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error
	GetMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, bool)
	SetMenu(ctx context.Context, restaurantName string, items []domain.MenuItem) error
}

const (
	restaurantsKey = "catalog:restaurants"
	menuKeyPrefix  = "catalog:menu:"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool) {
	data, err := c.client.Get(ctx, restaurantsKey).Bytes()
	if err != nil {
		return nil, false
	}

	var restaurants []domain.Restaurant
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, false
	}

	return restaurants, len(restaurants) > 0
}

func (c *RedisCache) SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	data, err := json.Marshal(restaurants)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, restaurantsKey, data, c.ttl).Err()
}

func (c *RedisCache) GetMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, bool) {
	data, err := c.client.Get(ctx, menuKeyPrefix+restaurantName).Bytes()
	if err != nil {
		return nil, false
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}

	return items, len(items) > 0
}

func (c *RedisCache) SetMenu(ctx context.Context, restaurantName string, items []domain.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, menuKeyPrefix+restaurantName, data, c.ttl).Err()
}
