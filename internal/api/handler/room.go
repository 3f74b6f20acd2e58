package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
)

type RoomHandler struct {
	service RoomServiceInterface
}

func NewRoomHandler(s RoomServiceInterface) *RoomHandler {
	return &RoomHandler{service: s}
}

type RoomResponse struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotel_id"`
	RoomTypeID string    `json:"room_type_id"`
	RoomNumber string    `json:"room_number"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RoomTypeResponse struct {
	ID        string `json:"id"`
	HotelID   string `json:"hotel_id"`
	Name      string `json:"name"`
	MaxGuests int    `json:"max_guests"`
}

func toRoomResponse(r *room.Room) RoomResponse {
	return RoomResponse{
		ID:         r.ID,
		HotelID:    r.HotelID,
		RoomTypeID: r.RoomTypeID,
		RoomNumber: r.RoomNumber,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// GetByID godoc
// @Summary 部屋の運用状態を取得
// @Tags rooms
// @Produce json
// @Param id path string true "部屋ID"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(r))
}

// GetType godoc
// @Summary 部屋タイプを取得
// @Tags rooms
// @Produce json
// @Param id path string true "部屋タイプID"
// @Success 200 {object} RoomTypeResponse
// @Failure 404 {object} map[string]string
// @Router /room-types/{id} [get]
func (h *RoomHandler) GetType(c echo.Context) error {
	rt, err := h.service.GetRoomType(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, RoomTypeResponse{
		ID:        rt.ID,
		HotelID:   rt.HotelID,
		Name:      rt.Name,
		MaxGuests: rt.MaxGuests,
	})
}
