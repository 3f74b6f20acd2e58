package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/logger"
)

// HoldExpirer は期限切れホールドを遷移させるインターフェース
type HoldExpirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// HoldSweeper は期限切れホールドを定期的にEXPIREDへ遷移させるワーカー
// 予約リクエストと並行して動いても安全（部屋ごとのゲートを通る）
type HoldSweeper struct {
	holdService HoldExpirer
	interval    time.Duration
	clk         clock.Clock
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewHoldSweeper は新しいスイーパーを作成する
func NewHoldSweeper(hs HoldExpirer, interval time.Duration, clk clock.Clock) *HoldSweeper {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &HoldSweeper{
		holdService: hs,
		interval:    interval,
		clk:         clk,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start はスイーパーを開始する
// 起動直後に一度スイープし、プロセス停止中に期限切れになったホールドを追いつく
func (s *HoldSweeper) Start(ctx context.Context) {
	logger.Info("ホールドスイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("ホールドスイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("ホールドスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止し、完了を待つ
func (s *HoldSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

// Sweep は即時に一度スイープする（オンデマンド実行用）
func (s *HoldSweeper) Sweep(ctx context.Context) (int, error) {
	return s.holdService.ExpireDue(ctx, s.clk.Now())
}

func (s *HoldSweeper) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れホールドのスイープ開始")

	count, err := s.holdService.ExpireDue(ctx, s.clk.Now())
	if err != nil {
		log.Error("期限切れホールドのスイープ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("ホールドを期限切れに遷移", zap.Int("count", count))
	} else {
		log.Debug("期限切れホールドなし")
	}
}
