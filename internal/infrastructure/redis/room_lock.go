package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/metrics"
)

var (
	ErrLockNotAcquired = errors.New("部屋ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("部屋ロックの所有者ではありません")
)

// RoomLock は取得済みの部屋ロック
type RoomLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// RoomLockManager は部屋単位の分散ロックを管理する
// 同一部屋に対する check-then-write を直列化する整合性ゲートの実装
type RoomLockManager struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
	retryDelay time.Duration
	metrics    *metrics.Metrics
}

// NewRoomLockManager は新しいRoomLockManagerを作成する
// m は nil 可（メトリクス無効）
func NewRoomLockManager(client *redis.Client, ttl time.Duration, maxRetries int, retryDelay time.Duration, m *metrics.Metrics) *RoomLockManager {
	return &RoomLockManager{
		client:     client,
		ttl:        ttl,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		metrics:    m,
	}
}

// AcquireRoom はリトライ付きで部屋ロックを取得する
// リトライを使い切った場合は booking.ErrRoomBusy を返す（無限に待たない）
func (m *RoomLockManager) AcquireRoom(ctx context.Context, roomID string) (booking.RoomLease, error) {
	start := time.Now()
	var lastErr error
	for i := 0; i <= m.maxRetries; i++ {
		lock, err := m.acquire(ctx, roomID)
		if err == nil {
			m.observe("acquire", "success", start)
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			m.observe("acquire", "failed", start)
			return nil, err
		}
		select {
		case <-ctx.Done():
			m.observe("acquire", "failed", start)
			return nil, ctx.Err()
		case <-time.After(m.retryDelay):
		}
	}
	m.observe("acquire", "failed", start)
	if errors.Is(lastErr, ErrLockNotAcquired) {
		return nil, booking.ErrRoomBusy
	}
	return nil, lastErr
}

func (m *RoomLockManager) acquire(ctx context.Context, roomID string) (*RoomLock, error) {
	lockKey := fmt.Sprintf("lock:room:%s", roomID)
	lockValue := uuid.New().String()

	// SetNX を使用してロックを取得（キーが存在しない場合のみ設定）
	ok, err := m.client.SetNX(ctx, lockKey, lockValue, m.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &RoomLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
		ttl:    m.ttl,
	}, nil
}

func (m *RoomLockManager) observe(operation, status string, start time.Time) {
	if m.metrics == nil {
		return
	}
	m.metrics.RoomLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// Release はロックを解放する
// Lua スクリプトで所有者確認と削除をアトミックに実行する
func (l *RoomLock) Release(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend はロックの有効期限を延長する（スイープが長引く場合用）
func (l *RoomLock) Extend(ctx context.Context, ttl time.Duration) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}

var _ booking.RoomGate = (*RoomLockManager)(nil)
