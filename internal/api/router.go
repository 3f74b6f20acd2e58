package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/api/handler"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/api/middleware"
)

// Handlers はルーティングに必要なハンドラー群
type Handlers struct {
	Hold        *handler.HoldHandler
	Reservation *handler.ReservationHandler
	Room        *handler.RoomHandler
	Health      *handler.HealthHandler
}

// RegisterRoutes は全ルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers, metricsToken string) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBearerAuth(metricsToken))

	v1 := e.Group("/api/v1")

	v1.GET("/health", h.Health.Check)

	holds := v1.Group("/holds")
	holds.POST("", h.Hold.Create)
	holds.GET("", h.Hold.Search)
	holds.GET("/me", h.Hold.GetMine)
	holds.POST("/expire-due", h.Hold.ExpireDue)
	holds.GET("/:id", h.Hold.GetByID)
	holds.PUT("/:id", h.Hold.Update)
	holds.POST("/:id/cancel", h.Hold.Cancel)
	holds.DELETE("/:id", h.Hold.Delete)

	reservations := v1.Group("/reservations")
	reservations.POST("", h.Reservation.Create)
	reservations.GET("", h.Reservation.Search)
	reservations.GET("/me", h.Reservation.GetMine)
	reservations.GET("/:id", h.Reservation.GetByID)
	reservations.PUT("/:id", h.Reservation.Update)
	reservations.POST("/:id/confirm", h.Reservation.Confirm)
	reservations.POST("/:id/cancel", h.Reservation.Cancel)
	reservations.POST("/:id/check-in", h.Reservation.CheckIn)
	reservations.POST("/:id/check-out", h.Reservation.CheckOut)
	reservations.DELETE("/:id", h.Reservation.Delete)

	v1.GET("/rooms/:id", h.Room.GetByID)
	v1.GET("/rooms/:id/holds", h.Hold.GetByRoom)
	v1.GET("/rooms/:id/reservations", h.Reservation.GetByRoom)
	v1.GET("/room-types/:id", h.Room.GetType)
	v1.GET("/hotels/:id/reservations", h.Reservation.GetByHotel)
	v1.GET("/hotels/:id/available-rooms", h.Reservation.CountAvailableRooms)
}
