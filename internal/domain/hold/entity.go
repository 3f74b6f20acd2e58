package hold

import (
	"time"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
)

// Status はホールドの状態を表す
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// allowedTransitions はホールドの状態遷移表
// CANCELLED と EXPIRED は終端状態であり、二度と遷移しない
var allowedTransitions = map[Status][]Status{
	StatusActive:    {StatusCancelled, StatusExpired},
	StatusCancelled: {},
	StatusExpired:   {},
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

// Hold は部屋の一時的な仮押さえを表す
// ACTIVE の間は [Start, End) の期間が同じ部屋の他のホールドをブロックする
type Hold struct {
	ID        string
	HotelID   string
	RoomID    string
	UserID    string
	Stay      booking.DateRange
	Status    Status
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewHold は新しいホールドを作成する
// 有効期限は作成時点より未来でなければならない
func NewHold(hotelID, roomID, userID string, stay booking.DateRange, expiresAt, now time.Time) (*Hold, error) {
	h := &Hold{
		HotelID:   hotelID,
		RoomID:    roomID,
		UserID:    userID,
		Stay:      stay,
		Status:    StatusActive,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.validate(now); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hold) validate(now time.Time) error {
	if h.HotelID == "" {
		return ErrHotelIDRequired
	}
	if h.RoomID == "" {
		return ErrRoomIDRequired
	}
	if h.UserID == "" {
		return ErrUserIDRequired
	}
	if !h.ExpiresAt.After(now) {
		return ErrExpiresAtInPast
	}
	return nil
}

// IsActive はホールドが有効かを返す
func (h *Hold) IsActive() bool {
	return h.Status == StatusActive
}

// IsDue は指定時刻で期限切れ対象かを返す（now >= expiresAt）
func (h *Hold) IsDue(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// Cancel はホールドを明示的にキャンセルする
func (h *Hold) Cancel(now time.Time) error {
	if h.Status == StatusCancelled {
		return ErrHoldAlreadyCancelled
	}
	if !h.Status.CanTransitionTo(StatusCancelled) {
		return ErrHoldAlreadyExpired
	}
	h.Status = StatusCancelled
	h.UpdatedAt = now
	return nil
}

// Expire はホールドを期限切れにする（スイーパーから呼ばれる）
func (h *Hold) Expire(now time.Time) error {
	if !h.Status.CanTransitionTo(StatusExpired) {
		return ErrHoldNotActive
	}
	if !h.IsDue(now) {
		return ErrHoldNotDue
	}
	h.Status = StatusExpired
	h.UpdatedAt = now
	return nil
}

// ChangeStay は期間と有効期限を差し替える（重複チェックは呼び出し側の責務）
func (h *Hold) ChangeStay(stay booking.DateRange, expiresAt, now time.Time) error {
	if !h.IsActive() {
		return ErrHoldNotActive
	}
	if !expiresAt.After(now) {
		return ErrExpiresAtInPast
	}
	h.Stay = stay
	h.ExpiresAt = expiresAt
	h.UpdatedAt = now
	return nil
}
