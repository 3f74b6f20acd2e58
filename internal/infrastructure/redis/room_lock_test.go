package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/config"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		t.Skipf("Redis接続エラー: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRoomLockManager_AcquireRoom(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	manager := NewRoomLockManager(client, 5*time.Second, 0, 10*time.Millisecond, nil)

	t.Run("部屋ロックを取得できる", func(t *testing.T) {
		lease, err := manager.AcquireRoom(ctx, "room-lock-1")
		require.NoError(t, err)
		require.NotNil(t, lease)
		defer lease.Release(ctx)
	})

	t.Run("同じ部屋のロックはErrRoomBusy", func(t *testing.T) {
		lease1, err := manager.AcquireRoom(ctx, "room-lock-2")
		require.NoError(t, err)
		defer lease1.Release(ctx)

		lease2, err := manager.AcquireRoom(ctx, "room-lock-2")
		assert.ErrorIs(t, err, booking.ErrRoomBusy)
		assert.Nil(t, lease2)
	})

	t.Run("別の部屋のロックは並行して取得できる", func(t *testing.T) {
		lease1, err := manager.AcquireRoom(ctx, "room-lock-3a")
		require.NoError(t, err)
		defer lease1.Release(ctx)

		lease2, err := manager.AcquireRoom(ctx, "room-lock-3b")
		require.NoError(t, err)
		defer lease2.Release(ctx)
	})

	t.Run("解放後は再取得できる", func(t *testing.T) {
		lease1, err := manager.AcquireRoom(ctx, "room-lock-4")
		require.NoError(t, err)

		require.NoError(t, lease1.Release(ctx))

		lease2, err := manager.AcquireRoom(ctx, "room-lock-4")
		require.NoError(t, err)
		defer lease2.Release(ctx)
	})

	t.Run("リトライで取得できる", func(t *testing.T) {
		retrying := NewRoomLockManager(client, 5*time.Second, 5, 100*time.Millisecond, nil)

		lease1, err := retrying.AcquireRoom(ctx, "room-lock-5")
		require.NoError(t, err)

		go func() {
			time.Sleep(200 * time.Millisecond)
			lease1.Release(ctx)
		}()

		lease2, err := retrying.AcquireRoom(ctx, "room-lock-5")
		require.NoError(t, err)
		defer lease2.Release(ctx)
	})

	t.Run("二重解放はErrLockNotOwned", func(t *testing.T) {
		lease, err := manager.AcquireRoom(ctx, "room-lock-6")
		require.NoError(t, err)

		require.NoError(t, lease.Release(ctx))
		assert.ErrorIs(t, lease.Release(ctx), ErrLockNotOwned)
	})
}

func TestRoomLock_Extend(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	manager := NewRoomLockManager(client, 1*time.Second, 0, 10*time.Millisecond, nil)

	t.Run("延長後もロックを保持している", func(t *testing.T) {
		lease, err := manager.AcquireRoom(ctx, "room-extend-1")
		require.NoError(t, err)
		defer lease.Release(ctx)

		lock, ok := lease.(*RoomLock)
		require.True(t, ok)
		require.NoError(t, lock.Extend(ctx, 5*time.Second))

		_, err = manager.AcquireRoom(ctx, "room-extend-1")
		assert.ErrorIs(t, err, booking.ErrRoomBusy)
	})

	t.Run("解放後は延長できない", func(t *testing.T) {
		lease, err := manager.AcquireRoom(ctx, "room-extend-2")
		require.NoError(t, err)

		lock, ok := lease.(*RoomLock)
		require.True(t, ok)
		require.NoError(t, lock.Release(ctx))

		assert.ErrorIs(t, lock.Extend(ctx, 5*time.Second), ErrLockNotOwned)
	})

	t.Run("TTL経過後は他者が取得できる", func(t *testing.T) {
		short := NewRoomLockManager(client, 300*time.Millisecond, 0, 10*time.Millisecond, nil)

		_, err := short.AcquireRoom(ctx, "room-extend-3")
		require.NoError(t, err)

		time.Sleep(400 * time.Millisecond)

		lease2, err := manager.AcquireRoom(ctx, "room-extend-3")
		require.NoError(t, err)
		defer lease2.Release(ctx)
	})
}
