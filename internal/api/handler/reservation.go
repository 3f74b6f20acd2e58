package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	HotelID         string `json:"hotel_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	RoomID          string `json:"room_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	StartDate       string `json:"start_date" validate:"required" example:"2025-04-10"`
	EndDate         string `json:"end_date" validate:"required" example:"2025-04-15"`
	GuestCount      int    `json:"guest_count" validate:"required,min=1" example:"2"`
	Status          string `json:"status" validate:"omitempty,oneof=pending confirmed" example:"pending"`
	TotalAmount     int64  `json:"total_amount" validate:"min=0" example:"50000"`
	Currency        string `json:"currency" validate:"omitempty,len=3" example:"JPY"`
	SpecialRequests string `json:"special_requests" example:"高層階を希望"`
	HoldID          string `json:"hold_id" example:""`
}

type UpdateReservationRequest struct {
	StartDate       string  `json:"start_date" validate:"required" example:"2025-04-10"`
	EndDate         string  `json:"end_date" validate:"required" example:"2025-04-15"`
	GuestCount      int     `json:"guest_count" validate:"required,min=1" example:"2"`
	SpecialRequests *string `json:"special_requests"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" example:"予定変更のため"`
}

type ReservationResponse struct {
	ID                 string     `json:"id"`
	HotelID            string     `json:"hotel_id"`
	UserID             string     `json:"user_id"`
	RoomID             string     `json:"room_id"`
	RoomTypeID         string     `json:"room_type_id"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	GuestCount         int        `json:"guest_count"`
	Status             string     `json:"status"`
	TotalAmount        int64      `json:"total_amount"`
	Currency           string     `json:"currency"`
	SpecialRequests    string     `json:"special_requests,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:                 r.ID,
		HotelID:            r.HotelID,
		UserID:             r.UserID,
		RoomID:             r.RoomID,
		RoomTypeID:         r.RoomTypeID,
		StartDate:          formatDate(r.Stay.Start),
		EndDate:            formatDate(r.Stay.End),
		GuestCount:         r.GuestCount,
		Status:             string(r.Status),
		TotalAmount:        r.TotalAmount,
		Currency:           r.Currency,
		SpecialRequests:    r.SpecialRequests,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CancelledBy:        r.CancelledBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toReservationResponses(list []*reservation.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i, r := range list {
		resp[i] = toReservationResponse(r)
	}
	return resp
}

// Create godoc
// @Summary 予約を作成
// @Description 部屋の予約を作成します（hold_id 指定でホールドを昇格）
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が既存の予約と重複"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return err
	}

	created, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		HotelID:         req.HotelID,
		UserID:          userID,
		RoomID:          req.RoomID,
		StartDate:       start,
		EndDate:         end,
		GuestCount:      req.GuestCount,
		Status:          req.Status,
		TotalAmount:     req.TotalAmount,
		Currency:        req.Currency,
		SpecialRequests: req.SpecialRequests,
		HoldID:          req.HoldID,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(created))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	found, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(found))
}

// Search godoc
// @Summary 予約を検索
// @Description フィルタ条件（AND結合）で予約一覧を取得します
// @Tags reservations
// @Produce json
// @Param hotel_id query string false "ホテルID"
// @Param room_id query string false "部屋ID"
// @Param user_id query string false "ユーザーID"
// @Param status query string false "状態（カンマ区切り）"
// @Param min_guests query int false "最小ゲスト数"
// @Param max_guests query int false "最大ゲスト数"
// @Param min_amount query int false "最小金額"
// @Param max_amount query int false "最大金額"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Router /reservations [get]
func (h *ReservationHandler) Search(c echo.Context) error {
	filter := reservation.SearchFilter{
		HotelID: c.QueryParam("hotel_id"),
		RoomID:  c.QueryParam("room_id"),
		UserID:  c.QueryParam("user_id"),
	}
	for _, s := range splitCSV(c.QueryParam("status")) {
		filter.Statuses = append(filter.Statuses, reservation.Status(s))
	}
	if v := c.QueryParam("start_from"); v != "" {
		t, err := parseDate(v, "start_from")
		if err != nil {
			return err
		}
		filter.StartFrom = &t
	}
	if v := c.QueryParam("start_to"); v != "" {
		t, err := parseDate(v, "start_to")
		if err != nil {
			return err
		}
		filter.StartTo = &t
	}
	filter.MinGuestCount, _ = strconv.Atoi(c.QueryParam("min_guests"))
	filter.MaxGuestCount, _ = strconv.Atoi(c.QueryParam("max_guests"))
	if v := c.QueryParam("min_amount"); v != "" {
		if amount, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MinAmount = &amount
		}
	}
	if v := c.QueryParam("max_amount"); v != "" {
		if amount, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MaxAmount = &amount
		}
	}
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	list, err := h.service.SearchReservations(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// GetByHotel godoc
// @Summary ホテルの予約一覧を取得
// @Tags reservations
// @Produce json
// @Param id path string true "ホテルID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Router /hotels/{id}/reservations [get]
func (h *ReservationHandler) GetByHotel(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.service.GetHotelReservations(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// GetByRoom godoc
// @Summary 部屋の予約一覧を取得
// @Tags reservations
// @Produce json
// @Param id path string true "部屋ID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Router /rooms/{id}/reservations [get]
func (h *ReservationHandler) GetByRoom(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.service.GetRoomReservations(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// GetMine godoc
// @Summary 自分の予約一覧を取得
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Success 200 {array} ReservationResponse
// @Router /reservations/me [get]
func (h *ReservationHandler) GetMine(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.service.GetUserReservations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// Update godoc
// @Summary 予約を更新
// @Description 期間・ゲスト数を差し替えます（重複は自分自身を除外して再チェック）
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body UpdateReservationRequest true "更新情報"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return err
	}

	updated, err := h.service.UpdateReservation(c.Request().Context(), application.UpdateReservationInput{
		ID:              c.Param("id"),
		StartDate:       start,
		EndDate:         end,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(updated))
}

// Confirm godoc
// @Summary 予約を確定
// @Description 確定待ちの予約を確定します（決済完了後に呼ばれる）
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c echo.Context) error {
	confirmed, err := h.service.ConfirmReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(confirmed))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 理由・時刻・実行者を記録してキャンセルします
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Param request body CancelReservationRequest false "キャンセル理由"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "既にキャンセルまたはチェックアウト済み"
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CancelReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	cancelled, err := h.service.CancelReservation(c.Request().Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(cancelled))
}

// CheckIn godoc
// @Summary チェックイン
// @Description 予約状態と部屋の運用状態を同時に更新します
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "未確定・開始日前・部屋が利用中"
// @Router /reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	checkedIn, err := h.service.CheckIn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(checkedIn))
}

// CheckOut godoc
// @Summary チェックアウト
// @Description 予約を完了し、部屋を利用可能に戻します
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "チェックイン済みでない"
// @Router /reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	checkedOut, err := h.service.CheckOut(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(checkedOut))
}

// Delete godoc
// @Summary 予約を削除
// @Description 終端状態の予約を物理削除します
// @Tags reservations
// @Param id path string true "予約ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "有効な予約は削除不可"
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteReservation(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CountAvailableRooms godoc
// @Summary ホテルの利用可能部屋数を取得
// @Description キャッシュ付きの表示用カウントです
// @Tags hotels
// @Produce json
// @Param id path string true "ホテルID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /hotels/{id}/available-rooms [get]
func (h *ReservationHandler) CountAvailableRooms(c echo.Context) error {
	count, err := h.service.CountAvailableRooms(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"available_rooms": count})
}
