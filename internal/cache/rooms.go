// Package cache provides a Redis-backed read cache for the room catalog.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xdf2508/e-family/internal/domain"
)

const roomsKey = "homestay:rooms:all"

// RoomCache caches the full room list in Redis. The catalog is small and
// changes rarely, so a single key with a TTL is enough.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomCache creates a room cache with the given TTL.
func NewRoomCache(client *redis.Client, ttl time.Duration) *RoomCache {
	return &RoomCache{client: client, ttl: ttl}
}

// GetRooms returns the cached room list, or (nil, nil) on a cache miss.
func (c *RoomCache) GetRooms(ctx context.Context) ([]domain.Room, error) {
	data, err := c.client.Get(ctx, roomsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached rooms: %w", err)
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("decode cached rooms: %w", err)
	}
	return rooms, nil
}

// SetRooms stores the room list with the configured TTL.
func (c *RoomCache) SetRooms(ctx context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encode rooms for cache: %w", err)
	}
	return c.client.Set(ctx, roomsKey, payload, c.ttl).Err()
}
