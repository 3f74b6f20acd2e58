package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// AvailabilityCache はホテルごとの利用可能部屋数のキャッシュを管理する
// 表示用途のみで、重複判定には決して使わない
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount はホテルの利用可能部屋数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, hotelID string) (int, error) {
	val, err := c.client.Get(ctx, c.availableCountKey(hotelID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount はホテルの利用可能部屋数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, hotelID string, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.availableCountKey(hotelID), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はホテルのキャッシュを無効化する（チェックイン・チェックアウト時に呼ぶ）
func (c *AvailabilityCache) Invalidate(ctx context.Context, hotelID string) error {
	if err := c.client.Del(ctx, c.availableCountKey(hotelID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) availableCountKey(hotelID string) string {
	return fmt.Sprintf("rooms:available:%s", hotelID)
}
