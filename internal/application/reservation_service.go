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
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/user"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/pkg/metrics"
)

// AvailabilityCache は利用可能部屋数キャッシュのインターフェース（表示用）
type AvailabilityCache interface {
	GetAvailableCount(ctx context.Context, hotelID string) (int, error)
	SetAvailableCount(ctx context.Context, hotelID string, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, hotelID string) error
}

const availabilityCacheTTL = 30 * time.Second

// ReservationService は予約のライフサイクルを管理する
type ReservationService struct {
	txManager        transaction.Manager
	reservationRepo  reservation.Repository
	holdRepo         hold.Repository
	roomRepo         room.Repository
	roomTypeRepo     room.TypeRepository
	hotelResolver    hotel.Resolver
	userResolver     user.Resolver
	gate             booking.RoomGate
	publisher        event.Publisher
	cache            AvailabilityCache
	clk              clock.Clock
	metrics          *metrics.Metrics
	holdsBlockCreate bool
}

// NewReservationService は新しいReservationServiceを作成する
// publisher / cache / m は nil 可
// holdsBlockCreate が true の場合、他ユーザーのACTIVEホールドも予約作成をブロックする
func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	hr hold.Repository,
	roomRepo room.Repository,
	rtRepo room.TypeRepository,
	hres hotel.Resolver,
	ures user.Resolver,
	gate booking.RoomGate,
	publisher event.Publisher,
	cache AvailabilityCache,
	clk clock.Clock,
	m *metrics.Metrics,
	holdsBlockCreate bool,
) *ReservationService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ReservationService{
		txManager:        txm,
		reservationRepo:  rr,
		holdRepo:         hr,
		roomRepo:         roomRepo,
		roomTypeRepo:     rtRepo,
		hotelResolver:    hres,
		userResolver:     ures,
		gate:             gate,
		publisher:        publisher,
		cache:            cache,
		clk:              clk,
		metrics:          m,
		holdsBlockCreate: holdsBlockCreate,
	}
}

// CreateReservationInput は予約作成の入力
type CreateReservationInput struct {
	HotelID         string
	UserID          string
	RoomID          string
	StartDate       time.Time
	EndDate         time.Time
	GuestCount      int
	Status          string // 空ならPENDING。指定できるのは pending / confirmed のみ
	TotalAmount     int64
	Currency        string
	SpecialRequests string
	HoldID          string // 指定するとそのホールドを昇格する
}

// CreateReservation は予約を作成する（直接、またはホールドの昇格で）
// 重複判定は有効な予約のみを対象とする（ホールドは予約導線への助言であり、
// 確定済み宿泊をブロックしない。holdsBlockCreate で方針を切り替え可能）
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	now := s.clk.Now()
	today := clock.Today(s.clk)

	stay, err := booking.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if stay.Start.Before(today) {
		return nil, reservation.ErrPastStartDate
	}

	status := reservation.Status(input.Status)
	if input.Status == "" {
		status = reservation.StatusPending
	}
	if status != reservation.StatusPending && status != reservation.StatusConfirmed {
		return nil, reservation.ErrInvalidStatus
	}

	if _, err := s.hotelResolver.GetByID(ctx, input.HotelID); err != nil {
		return nil, err
	}
	if _, err := s.userResolver.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	rm, err := s.roomRepo.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	rt, err := s.roomTypeRepo.GetByID(ctx, rm.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if input.GuestCount > rt.MaxGuests {
		return nil, reservation.ErrGuestCountExceeded
	}

	lease, err := s.gate.AcquireRoom(ctx, input.RoomID)
	if err != nil {
		s.countReservation("lock_failed")
		return nil, err
	}
	defer lease.Release(ctx)

	overlaps, err := s.reservationRepo.Overlaps(ctx, input.RoomID, stay, "")
	if err != nil {
		s.countReservation("error")
		return nil, err
	}
	if overlaps {
		s.countReservation("conflict")
		return nil, reservation.ErrRangeConflict
	}

	if s.holdsBlockCreate {
		blocked, err := s.holdRepo.Overlaps(ctx, input.RoomID, stay, input.HoldID)
		if err != nil {
			s.countReservation("error")
			return nil, err
		}
		if blocked {
			s.countReservation("conflict")
			return nil, reservation.ErrHoldBlocking
		}
	}

	// ホールド昇格の場合は、昇格元のホールドを同一トランザクションで解放する
	var promoted *hold.Hold
	if input.HoldID != "" {
		promoted, err = s.holdRepo.GetByID(ctx, input.HoldID)
		if err != nil {
			return nil, err
		}
		if !promoted.IsActive() || promoted.RoomID != input.RoomID || promoted.UserID != input.UserID {
			return nil, hold.ErrHoldMismatch
		}
	}

	res, err := reservation.NewReservation(
		input.HotelID, input.UserID, input.RoomID, rm.RoomTypeID,
		stay, input.GuestCount, status,
		input.TotalAmount, input.Currency, input.SpecialRequests, now)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		s.countReservation("error")
		return nil, err
	}
	if promoted != nil {
		if err := promoted.Cancel(now); err != nil {
			return nil, err
		}
		if err := s.holdRepo.Update(ctx, tx, promoted); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		s.countReservation("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countReservation("success")
	s.publish(ctx, event.ReservationCreated, res)
	return res, nil
}

// GetReservation はIDから予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

// SearchReservations はフィルタ条件で予約を検索する
func (s *ReservationService) SearchReservations(ctx context.Context, filter reservation.SearchFilter) ([]*reservation.Reservation, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.reservationRepo.Search(ctx, filter)
}

// GetUserReservations はユーザーの予約一覧を取得する
func (s *ReservationService) GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	return s.SearchReservations(ctx, reservation.SearchFilter{UserID: userID, Limit: limit, Offset: offset})
}

// GetHotelReservations はホテルの予約一覧を取得する
func (s *ReservationService) GetHotelReservations(ctx context.Context, hotelID string, limit, offset int) ([]*reservation.Reservation, error) {
	return s.SearchReservations(ctx, reservation.SearchFilter{HotelID: hotelID, Limit: limit, Offset: offset})
}

// GetRoomReservations は部屋の予約一覧を取得する
func (s *ReservationService) GetRoomReservations(ctx context.Context, roomID string, limit, offset int) ([]*reservation.Reservation, error) {
	return s.SearchReservations(ctx, reservation.SearchFilter{RoomID: roomID, Limit: limit, Offset: offset})
}

// UpdateReservationInput は予約更新の入力
type UpdateReservationInput struct {
	ID              string
	StartDate       time.Time
	EndDate         time.Time
	GuestCount      int
	SpecialRequests *string
}

// UpdateReservation は予約の期間・ゲスト数を差し替える
// 終端状態（CANCELLED / CHECKED_OUT）の予約は変更できない
func (s *ReservationService) UpdateReservation(ctx context.Context, input UpdateReservationInput) (*reservation.Reservation, error) {
	now := s.clk.Now()
	today := clock.Today(s.clk)

	stay, err := booking.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if stay.Start.Before(today) {
		return nil, reservation.ErrPastStartDate
	}

	res, err := s.reservationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	rm, err := s.roomRepo.GetByID(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	rt, err := s.roomTypeRepo.GetByID(ctx, rm.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if input.GuestCount > rt.MaxGuests {
		return nil, reservation.ErrGuestCountExceeded
	}

	lease, err := s.gate.AcquireRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	// ゲート取得後に再取得して最新状態で判定する
	res, err = s.reservationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	overlaps, err := s.reservationRepo.Overlaps(ctx, res.RoomID, stay, res.ID)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, reservation.ErrRangeConflict
	}

	if err := res.ChangeStay(stay, input.GuestCount, now); err != nil {
		return nil, err
	}
	if input.SpecialRequests != nil {
		res.SpecialRequests = *input.SpecialRequests
	}

	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		return s.reservationRepo.Update(ctx, tx, res)
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// ConfirmReservation は確定待ちの予約を確定する（決済・承認の外部イベントから呼ばれる）
func (s *ReservationService) ConfirmReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.Confirm(s.clk.Now()); err != nil {
		return nil, err
	}
	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		return s.reservationRepo.Update(ctx, tx, res)
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, event.ReservationConfirmed, res)
	return res, nil
}

// CancelReservation は予約をキャンセルし、理由・時刻・実行者を記録する
func (s *ReservationService) CancelReservation(ctx context.Context, id, reason, cancelledBy string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lease, err := s.gate.AcquireRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	res, err = s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCheckedIn := res.Status == reservation.StatusCheckedIn
	if err := res.Cancel(reason, cancelledBy, s.clk.Now()); err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
			return err
		}
		// 滞在中キャンセルの場合は部屋を解放する
		if wasCheckedIn {
			return s.roomRepo.UpdateStatus(ctx, tx, res.RoomID, room.StatusAvailable)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if wasCheckedIn {
		s.invalidateAvailability(ctx, res.HotelID)
	}
	s.publish(ctx, event.ReservationCancelled, res)
	return res, nil
}

// CheckIn はチェックイン処理を行う
// 予約状態と部屋の運用状態を同一トランザクションで更新する
func (s *ReservationService) CheckIn(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lease, err := s.gate.AcquireRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	res, err = s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rm, err := s.roomRepo.GetByID(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	if err := rm.CanCheckIn(); err != nil {
		return nil, err
	}
	if err := res.CheckIn(clock.Today(s.clk), s.clk.Now()); err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
			return err
		}
		return s.roomRepo.UpdateStatus(ctx, tx, res.RoomID, room.StatusOccupied)
	}); err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, res.HotelID)
	s.publish(ctx, event.ReservationCheckedIn, res)
	return res, nil
}

// CheckOut はチェックアウト処理を行い、部屋を利用可能に戻す
func (s *ReservationService) CheckOut(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lease, err := s.gate.AcquireRoom(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	defer lease.Release(ctx)

	res, err = s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.CheckOut(s.clk.Now()); err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(tx transaction.Tx) error {
		if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
			return err
		}
		return s.roomRepo.UpdateStatus(ctx, tx, res.RoomID, room.StatusAvailable)
	}); err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, res.HotelID)
	s.publish(ctx, event.ReservationCheckedOut, res)
	return res, nil
}

// DeleteReservation は予約を物理削除する
// 有効な予約（PENDING / CONFIRMED / CHECKED_IN）は削除できない
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status.IsLive() {
		return reservation.ErrReservationLiveDelete
	}
	return s.inTx(ctx, func(tx transaction.Tx) error {
		return s.reservationRepo.Delete(ctx, tx, id)
	})
}

// CountAvailableRooms はホテルの利用可能部屋数を返す（キャッシュ付き、表示用）
func (s *ReservationService) CountAvailableRooms(ctx context.Context, hotelID string) (int, error) {
	if _, err := s.hotelResolver.GetByID(ctx, hotelID); err != nil {
		return 0, err
	}
	if s.cache != nil {
		if count, err := s.cache.GetAvailableCount(ctx, hotelID); err == nil {
			return count, nil
		}
	}
	count, err := s.roomRepo.CountAvailable(ctx, hotelID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, hotelID, count, availabilityCacheTTL); err != nil {
			logger.Warn("キャッシュ保存に失敗", zap.String("hotel_id", hotelID), zap.Error(err))
		}
	}
	return count, nil
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, hotelID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, hotelID); err != nil {
		logger.Warn("キャッシュ無効化に失敗", zap.String("hotel_id", hotelID), zap.Error(err))
	}
}

func (s *ReservationService) inTx(ctx context.Context, fn func(tx transaction.Tx) error) error {
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

func (s *ReservationService) countReservation(status string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues("reservation", status).Inc()
	}
}

// publish はコミット後のベストエフォート発行（失敗はログのみ）
func (s *ReservationService) publish(ctx context.Context, t event.Type, res *reservation.Reservation) {
	ev := event.Event{
		Type:       t,
		OccurredAt: s.clk.Now(),
		HotelID:    res.HotelID,
		RoomID:     res.RoomID,
		UserID:     res.UserID,
		SubjectID:  res.ID,
		StartDate:  res.Stay.Start.Format("2006-01-02"),
		EndDate:    res.Stay.End.Format("2006-01-02"),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Error("ドメインイベント発行に失敗",
			zap.String("type", string(t)), zap.String("subject_id", res.ID), zap.Error(err))
	}
}
