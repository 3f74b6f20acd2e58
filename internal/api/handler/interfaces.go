package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
)

// HoldServiceInterface はホールドサービスのインターフェース
type HoldServiceInterface interface {
	CreateHold(ctx context.Context, input application.CreateHoldInput) (*hold.Hold, error)
	GetHold(ctx context.Context, id string) (*hold.Hold, error)
	SearchHolds(ctx context.Context, filter hold.SearchFilter) ([]*hold.Hold, error)
	GetUserHolds(ctx context.Context, userID string, limit, offset int) ([]*hold.Hold, error)
	GetRoomHolds(ctx context.Context, roomID string, limit, offset int) ([]*hold.Hold, error)
	UpdateHold(ctx context.Context, input application.UpdateHoldInput) (*hold.Hold, error)
	CancelHold(ctx context.Context, id string) (*hold.Hold, error)
	DeleteHold(ctx context.Context, id string) error
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// RoomServiceInterface は部屋参照サービスのインターフェース
type RoomServiceInterface interface {
	GetRoom(ctx context.Context, id string) (*room.Room, error)
	GetRoomType(ctx context.Context, id string) (*room.RoomType, error)
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	SearchReservations(ctx context.Context, filter reservation.SearchFilter) ([]*reservation.Reservation, error)
	GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	GetHotelReservations(ctx context.Context, hotelID string, limit, offset int) ([]*reservation.Reservation, error)
	GetRoomReservations(ctx context.Context, roomID string, limit, offset int) ([]*reservation.Reservation, error)
	UpdateReservation(ctx context.Context, input application.UpdateReservationInput) (*reservation.Reservation, error)
	ConfirmReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id, reason, cancelledBy string) (*reservation.Reservation, error)
	CheckIn(ctx context.Context, id string) (*reservation.Reservation, error)
	CheckOut(ctx context.Context, id string) (*reservation.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	CountAvailableRooms(ctx context.Context, hotelID string) (int, error)
}
