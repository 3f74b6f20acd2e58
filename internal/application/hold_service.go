package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/event"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hotel"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/user"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/metrics"
)

// HoldService はホールドのライフサイクルを管理する
type HoldService struct {
	txManager     transaction.Manager
	holdRepo      hold.Repository
	roomRepo      room.Repository
	hotelResolver hotel.Resolver
	userResolver  user.Resolver
	gate          booking.RoomGate
	publisher     event.Publisher
	clk           clock.Clock
	metrics       *metrics.Metrics
}

// NewHoldService は新しいHoldServiceを作成する
// publisher と m は nil 可（イベント配信・メトリクス無効）
func NewHoldService(
	txm transaction.Manager,
	hr hold.Repository,
	rr room.Repository,
	hres hotel.Resolver,
	ures user.Resolver,
	gate booking.RoomGate,
	publisher event.Publisher,
	clk clock.Clock,
	m *metrics.Metrics,
) *HoldService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &HoldService{
		txManager:     txm,
		holdRepo:      hr,
		roomRepo:      rr,
		hotelResolver: hres,
		userResolver:  ures,
		gate:          gate,
		publisher:     publisher,
		clk:           clk,
		metrics:       m,
	}
}

// CreateHoldInput はホールド作成の入力
type CreateHoldInput struct {
	HotelID   string
	RoomID    string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	ExpiresAt time.Time
}

// CreateHold は部屋の仮押さえを作成する
// 同一部屋の check-then-write はゲートで直列化される
func (s *HoldService) CreateHold(ctx context.Context, input CreateHoldInput) (*hold.Hold, error) {
	now := s.clk.Now()

	// ロック取得前にできるバリデーションは先に済ませる（競合最小化）
	stay, err := booking.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if !input.ExpiresAt.After(now) {
		return nil, hold.ErrExpiresAtInPast
	}
	if err := s.resolveReferences(ctx, input.HotelID, input.RoomID, input.UserID); err != nil {
		return nil, err
	}

	lease, err := s.gate.AcquireRoom(ctx, input.RoomID)
	if err != nil {
		s.countHold("lock_failed")
		return nil, err
	}
	defer lease.Release(ctx)

	overlaps, err := s.holdRepo.Overlaps(ctx, input.RoomID, stay, "")
	if err != nil {
		s.countHold("error")
		return nil, err
	}
	if overlaps {
		s.countHold("conflict")
		return nil, hold.ErrHoldRangeConflict
	}

	h, err := hold.NewHold(input.HotelID, input.RoomID, input.UserID, stay, input.ExpiresAt, now)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.holdRepo.Create(ctx, tx, h); err != nil {
		s.countHold("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countHold("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countHold("success")
	if s.metrics != nil {
		s.metrics.ActiveHolds.Inc()
	}
	s.publish(ctx, event.HoldCreated, h)
	return h, nil
}

// GetHold はIDからホールドを取得する
func (s *HoldService) GetHold(ctx context.Context, id string) (*hold.Hold, error) {
	return s.holdRepo.GetByID(ctx, id)
}

// SearchHolds はフィルタ条件でホールドを検索する
func (s *HoldService) SearchHolds(ctx context.Context, filter hold.SearchFilter) ([]*hold.Hold, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.holdRepo.Search(ctx, filter)
}

// GetUserHolds はユーザーのホールド一覧を取得する
func (s *HoldService) GetUserHolds(ctx context.Context, userID string, limit, offset int) ([]*hold.Hold, error) {
	return s.SearchHolds(ctx, hold.SearchFilter{UserID: userID, Limit: limit, Offset: offset})
}

// GetRoomHolds は部屋のホールド一覧を取得する
func (s *HoldService) GetRoomHolds(ctx context.Context, roomID string, limit, offset int) ([]*hold.Hold, error) {
	return s.SearchHolds(ctx, hold.SearchFilter{RoomID: roomID, Limit: limit, Offset: offset})
}

// UpdateHoldInput はホールド更新の入力
type UpdateHoldInput struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	ExpiresAt time.Time
}

// UpdateHold はホールドの期間・有効期限を差し替える
// 重複チェックは自分自身を除外した上でゲート内で再実行される
func (s *HoldService) UpdateHold(ctx context.Context, input UpdateHoldInput) (*hold.Hold, error) {
	now := s.clk.Now()

	stay, err := booking.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if !input.ExpiresAt.After(now) {
		return nil, hold.ErrExpiresAtInPast
	}

	h, err := s.holdRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	lease, err := s.gate.AcquireRoom(ctx, h.RoomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	// ゲート取得後に再取得して最新状態で判定する
	h, err = s.holdRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	overlaps, err := s.holdRepo.Overlaps(ctx, h.RoomID, stay, h.ID)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, hold.ErrHoldRangeConflict
	}

	if err := h.ChangeStay(stay, input.ExpiresAt, now); err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		return s.holdRepo.Update(ctx, tx, h)
	}); err != nil {
		return nil, err
	}
	return h, nil
}

// CancelHold はホールドを明示的にキャンセルする
func (s *HoldService) CancelHold(ctx context.Context, id string) (*hold.Hold, error) {
	h, err := s.holdRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lease, err := s.gate.AcquireRoom(ctx, h.RoomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	h, err = s.holdRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.Cancel(s.clk.Now()); err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		return s.holdRepo.Update(ctx, tx, h)
	}); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ActiveHolds.Dec()
	}
	s.publish(ctx, event.HoldCancelled, h)
	return h, nil
}

// DeleteHold はホールドを物理削除する
// ACTIVEなホールドは削除できない（先にキャンセルが必要）
func (s *HoldService) DeleteHold(ctx context.Context, id string) error {
	h, err := s.holdRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if h.IsActive() {
		return hold.ErrHoldActiveDelete
	}
	return s.inTx(ctx, func(tx transaction.Tx) error {
		return s.holdRepo.Delete(ctx, tx, id)
	})
}

// ExpireDue は期限切れACTIVEホールドをEXPIREDに遷移させ、遷移件数を返す
// 部屋ごとにゲートを通るため、ホールド昇格中の部屋を横から期限切れにすることはない
// 条件付きUPDATEのため同じ now で再実行しても重複遷移しない（冪等）
func (s *HoldService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	roomIDs, err := s.holdRepo.ListDueRoomIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, roomID := range roomIDs {
		expired, err := s.expireRoom(ctx, roomID, now)
		if err != nil {
			// ロック競合中の部屋は次回スイープで拾う
			logger.Warn("部屋の期限切れ処理をスキップ",
				zap.String("room_id", roomID), zap.Error(err))
			continue
		}
		total += len(expired)
		for _, h := range expired {
			if s.metrics != nil {
				s.metrics.ActiveHolds.Dec()
				s.metrics.SweepExpiredTotal.Inc()
			}
			s.publish(ctx, event.HoldExpired, h)
		}
	}
	return total, nil
}

func (s *HoldService) expireRoom(ctx context.Context, roomID string, now time.Time) ([]*hold.Hold, error) {
	lease, err := s.gate.AcquireRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	expired, err := s.holdRepo.ExpireDueForRoom(ctx, tx, roomID, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return expired, nil
}

func (s *HoldService) resolveReferences(ctx context.Context, hotelID, roomID, userID string) error {
	if _, err := s.hotelResolver.GetByID(ctx, hotelID); err != nil {
		return err
	}
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return err
	}
	if _, err := s.userResolver.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *HoldService) inTx(ctx context.Context, fn func(tx transaction.Tx) error) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

func (s *HoldService) countHold(status string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues("hold", status).Inc()
	}
}

// publish はコミット後のベストエフォート発行（失敗はログのみ）
func (s *HoldService) publish(ctx context.Context, t event.Type, h *hold.Hold) {
	ev := event.Event{
		Type:       t,
		OccurredAt: s.clk.Now(),
		HotelID:    h.HotelID,
		RoomID:     h.RoomID,
		UserID:     h.UserID,
		SubjectID:  h.ID,
		StartDate:  h.Stay.Start.Format("2006-01-02"),
		EndDate:    h.Stay.End.Format("2006-01-02"),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Error("ドメインイベント発行に失敗",
			zap.String("type", string(t)), zap.String("subject_id", h.ID), zap.Error(err))
	}
}
