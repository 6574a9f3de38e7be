package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdf2508/e-family/internal/domain"
)

func setupTestCache(t *testing.T) (*RoomCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRoomCache(client, 5*time.Minute), mr
}

func sampleRooms() []domain.Room {
	return []domain.Room{
		{
			ID:           1,
			Name:         "海景大床房",
			Price:        468,
			Tags:         []string{"海景", "大床"},
			Rating:       4.9,
			Facilities:   []string{"WiFi", "空调"},
			CheckInTime:  "14:00",
			CheckOutTime: "12:00",
		},
		{
			ID:    2,
			Name:  "庭院双床房",
			Price: 328,
			Tags:  []string{"庭院", "双床"},
		},
	}
}

func TestRoomCache_SetThenGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetRooms(ctx, sampleRooms()))

	got, err := cache.GetRooms(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "海景大床房", got[0].Name)
	assert.Equal(t, 468.0, got[0].Price)
	assert.Equal(t, []string{"海景", "大床"}, got[0].Tags)
	assert.Equal(t, "14:00", got[0].CheckInTime)
	assert.Equal(t, 2, got[1].ID)
}

func TestRoomCache_Miss(t *testing.T) {
	cache, _ := setupTestCache(t)

	rooms, err := cache.GetRooms(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rooms)
}

func TestRoomCache_SetAppliesTTL(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetRooms(ctx, sampleRooms()))
	assert.Equal(t, 5*time.Minute, mr.TTL(roomsKey))

	mr.FastForward(6 * time.Minute)

	rooms, err := cache.GetRooms(ctx)
	require.NoError(t, err)
	assert.Nil(t, rooms)
}

func TestRoomCache_CorruptEntry(t *testing.T) {
	cache, mr := setupTestCache(t)

	require.NoError(t, mr.Set(roomsKey, "not json"))

	rooms, err := cache.GetRooms(context.Background())
	require.Error(t, err)
	assert.Nil(t, rooms)
}
