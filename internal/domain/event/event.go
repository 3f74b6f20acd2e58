package event

import (
	"context"
	"time"
)

// Type はドメインイベントの種別を表す
type Type string

const (
	HoldCreated           Type = "hold.created"
	HoldCancelled         Type = "hold.cancelled"
	HoldExpired           Type = "hold.expired"
	ReservationCreated    Type = "reservation.created"
	ReservationConfirmed  Type = "reservation.confirmed"
	ReservationCancelled  Type = "reservation.cancelled"
	ReservationCheckedIn  Type = "reservation.checked_in"
	ReservationCheckedOut Type = "reservation.checked_out"
)

// Event は予約コアが発行するドメインイベント
// 決済・通知等の隣接サービスはこれを購読して後続処理を行う
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	HotelID    string    `json:"hotel_id"`
	RoomID     string    `json:"room_id"`
	UserID     string    `json:"user_id"`
	SubjectID  string    `json:"subject_id"` // ホールドまたは予約のID
	StartDate  string    `json:"start_date"` // YYYY-MM-DD
	EndDate    string    `json:"end_date"`   // YYYY-MM-DD（排他的）
}

// Publisher はドメインイベントの発行を抽象化する
// 発行はコミット後のベストエフォートであり、失敗しても業務処理は巻き戻さない
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher は何もしないPublisher（イベント配信無効時・テスト用）
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, ev Event) error { return nil }
func (NopPublisher) Close() error                                { return nil }
