package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hotel"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/user"
)

// ドメインエラーをHTTPステータスに対応付ける
// NotFound → 404, Conflict（業務ルール拒否） → 409, InvalidInput → 400, それ以外 → 500
var (
	notFoundErrors = []error{
		hold.ErrHoldNotFound,
		reservation.ErrReservationNotFound,
		room.ErrRoomNotFound,
		room.ErrRoomTypeNotFound,
		hotel.ErrHotelNotFound,
		user.ErrUserNotFound,
	}
	conflictErrors = []error{
		hold.ErrHoldRangeConflict,
		hold.ErrHoldAlreadyCancelled,
		hold.ErrHoldAlreadyExpired,
		hold.ErrHoldNotActive,
		hold.ErrHoldActiveDelete,
		hold.ErrHoldMismatch,
		reservation.ErrRangeConflict,
		reservation.ErrHoldBlocking,
		reservation.ErrReservationNotPending,
		reservation.ErrReservationAlreadyCancelled,
		reservation.ErrReservationCheckedOut,
		reservation.ErrReservationNotConfirmed,
		reservation.ErrReservationNotCheckedIn,
		reservation.ErrReservationTerminal,
		reservation.ErrReservationLiveDelete,
		reservation.ErrCheckInTooEarly,
		room.ErrRoomOccupied,
		room.ErrRoomNotOperational,
		booking.ErrRoomBusy,
	}
	invalidInputErrors = []error{
		booking.ErrInvalidDateRange,
		hold.ErrExpiresAtInPast,
		hold.ErrHotelIDRequired,
		hold.ErrRoomIDRequired,
		hold.ErrUserIDRequired,
		reservation.ErrPastStartDate,
		reservation.ErrGuestCountExceeded,
		reservation.ErrInvalidGuestCount,
		reservation.ErrInvalidStatus,
		reservation.ErrHotelIDRequired,
		reservation.ErrRoomIDRequired,
		reservation.ErrUserIDRequired,
	}
)

func toHTTPError(err error) *echo.HTTPError {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
	}
	for _, target := range invalidInputErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
