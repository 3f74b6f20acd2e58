package reservation

import (
	"time"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCancelled  Status = "cancelled"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// allowedTransitions は予約の状態遷移表
// CANCELLED は CHECKED_OUT 以外の全状態から到達できる
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut, StatusCancelled},
	StatusCancelled:  {},
	StatusCheckedOut: {},
}

// CanTransitionTo は状態遷移が許可されているかを返す
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal は終端状態かを返す
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// IsLive は区間インデックス上で期間をブロックする状態かを返す
func (s Status) IsLive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// LiveStatuses は重複判定の対象となる状態の一覧を返す
func LiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCheckedIn}
}

// IsValid は既知の状態値かを返す
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Reservation は確定済み（または確定待ち）の宿泊割当を表す
type Reservation struct {
	ID                 string
	HotelID            string
	UserID             string
	RoomID             string
	RoomTypeID         string
	Stay               booking.DateRange
	GuestCount         int
	Status             Status
	TotalAmount        int64 // 最小通貨単位
	Currency           string
	SpecialRequests    string
	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewReservation は新しい予約を作成する
// status を指定しない場合（空文字列）は PENDING で作成される
func NewReservation(hotelID, userID, roomID, roomTypeID string, stay booking.DateRange, guestCount int, status Status, totalAmount int64, currency, specialRequests string, now time.Time) (*Reservation, error) {
	if status == "" {
		status = StatusPending
	}
	r := &Reservation{
		HotelID:         hotelID,
		UserID:          userID,
		RoomID:          roomID,
		RoomTypeID:      roomTypeID,
		Stay:            stay,
		GuestCount:      guestCount,
		Status:          status,
		TotalAmount:     totalAmount,
		Currency:        currency,
		SpecialRequests: specialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reservation) validate() error {
	if r.HotelID == "" {
		return ErrHotelIDRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.RoomID == "" {
		return ErrRoomIDRequired
	}
	if r.GuestCount <= 0 {
		return ErrInvalidGuestCount
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Confirm は予約を確定する（決済・承認の外部イベントから呼ばれる）
func (r *Reservation) Confirm(now time.Time) error {
	if !r.Status.CanTransitionTo(StatusConfirmed) {
		return ErrReservationNotPending
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now
	return nil
}

// Cancel は予約をキャンセルし、理由・時刻・実行者を記録する
func (r *Reservation) Cancel(reason, cancelledBy string, now time.Time) error {
	if r.Status == StatusCancelled {
		return ErrReservationAlreadyCancelled
	}
	if !r.Status.CanTransitionTo(StatusCancelled) {
		return ErrReservationCheckedOut
	}
	r.Status = StatusCancelled
	if reason != "" {
		r.CancellationReason = &reason
	}
	if cancelledBy != "" {
		r.CancelledBy = &cancelledBy
	}
	r.CancelledAt = &now
	r.UpdatedAt = now
	return nil
}

// CheckIn はチェックイン処理を行う
// CONFIRMED かつ開始日当日以降でなければ失敗する
func (r *Reservation) CheckIn(today, now time.Time) error {
	if !r.Status.CanTransitionTo(StatusCheckedIn) {
		return ErrReservationNotConfirmed
	}
	if today.Before(r.Stay.Start) {
		return ErrCheckInTooEarly
	}
	r.Status = StatusCheckedIn
	r.UpdatedAt = now
	return nil
}

// CheckOut はチェックアウト処理を行う
func (r *Reservation) CheckOut(now time.Time) error {
	if !r.Status.CanTransitionTo(StatusCheckedOut) {
		return ErrReservationNotCheckedIn
	}
	r.Status = StatusCheckedOut
	r.UpdatedAt = now
	return nil
}

// ChangeStay は期間・ゲスト数等を差し替える（重複チェックは呼び出し側の責務）
func (r *Reservation) ChangeStay(stay booking.DateRange, guestCount int, now time.Time) error {
	if r.Status.IsTerminal() {
		return ErrReservationTerminal
	}
	if guestCount <= 0 {
		return ErrInvalidGuestCount
	}
	r.Stay = stay
	r.GuestCount = guestCount
	r.UpdatedAt = now
	return nil
}
