package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hold"
)

type HoldHandler struct {
	service HoldServiceInterface
}

func NewHoldHandler(s HoldServiceInterface) *HoldHandler {
	return &HoldHandler{service: s}
}

type CreateHoldRequest struct {
	HotelID   string `json:"hotel_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	RoomID    string `json:"room_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	StartDate string `json:"start_date" validate:"required" example:"2025-03-01"`
	EndDate   string `json:"end_date" validate:"required" example:"2025-03-05"`
	ExpiresAt string `json:"expires_at" validate:"required" example:"2025-02-20T00:00:00Z"`
}

type UpdateHoldRequest struct {
	StartDate string `json:"start_date" validate:"required" example:"2025-03-01"`
	EndDate   string `json:"end_date" validate:"required" example:"2025-03-05"`
	ExpiresAt string `json:"expires_at" validate:"required" example:"2025-02-20T00:00:00Z"`
}

type HoldResponse struct {
	ID        string    `json:"id"`
	HotelID   string    `json:"hotel_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toHoldResponse(h *hold.Hold) HoldResponse {
	return HoldResponse{
		ID:        h.ID,
		HotelID:   h.HotelID,
		RoomID:    h.RoomID,
		UserID:    h.UserID,
		StartDate: formatDate(h.Stay.Start),
		EndDate:   formatDate(h.Stay.End),
		Status:    string(h.Status),
		ExpiresAt: h.ExpiresAt,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func toHoldResponses(holds []*hold.Hold) []HoldResponse {
	resp := make([]HoldResponse, len(holds))
	for i, h := range holds {
		resp[i] = toHoldResponse(h)
	}
	return resp
}

// Create godoc
// @Summary ホールドを作成
// @Description 部屋を期間指定で仮押さえします
// @Tags holds
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateHoldRequest true "ホールド情報"
// @Success 201 {object} HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が既存のホールドと重複"
// @Router /holds [post]
func (h *HoldHandler) Create(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateHoldRequest
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
	expiresAt, err := parseTimestamp(req.ExpiresAt, "expires_at")
	if err != nil {
		return err
	}

	created, err := h.service.CreateHold(c.Request().Context(), application.CreateHoldInput{
		HotelID:   req.HotelID,
		RoomID:    req.RoomID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toHoldResponse(created))
}

// GetByID godoc
// @Summary ホールドを取得
// @Tags holds
// @Produce json
// @Param id path string true "ホールドID"
// @Success 200 {object} HoldResponse
// @Failure 404 {object} map[string]string
// @Router /holds/{id} [get]
func (h *HoldHandler) GetByID(c echo.Context) error {
	found, err := h.service.GetHold(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(found))
}

// Search godoc
// @Summary ホールドを検索
// @Description フィルタ条件（AND結合）でホールド一覧を取得します
// @Tags holds
// @Produce json
// @Param hotel_id query string false "ホテルID"
// @Param room_id query string false "部屋ID"
// @Param user_id query string false "ユーザーID"
// @Param status query string false "状態（カンマ区切り）"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} HoldResponse
// @Router /holds [get]
func (h *HoldHandler) Search(c echo.Context) error {
	filter := hold.SearchFilter{
		HotelID: c.QueryParam("hotel_id"),
		RoomID:  c.QueryParam("room_id"),
		UserID:  c.QueryParam("user_id"),
	}
	for _, s := range splitCSV(c.QueryParam("status")) {
		filter.Statuses = append(filter.Statuses, hold.Status(s))
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
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	holds, err := h.service.SearchHolds(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toHoldResponses(holds))
}

// GetByRoom godoc
// @Summary 部屋のホールド一覧を取得
// @Tags holds
// @Produce json
// @Param id path string true "部屋ID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} HoldResponse
// @Router /rooms/{id}/holds [get]
func (h *HoldHandler) GetByRoom(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	holds, err := h.service.GetRoomHolds(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toHoldResponses(holds))
}

// GetMine godoc
// @Summary 自分のホールド一覧を取得
// @Tags holds
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Success 200 {array} HoldResponse
// @Router /holds/me [get]
func (h *HoldHandler) GetMine(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	holds, err := h.service.GetUserHolds(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toHoldResponses(holds))
}

// Update godoc
// @Summary ホールドを更新
// @Description 期間・有効期限を差し替えます（重複は自分自身を除外して再チェック）
// @Tags holds
// @Accept json
// @Produce json
// @Param id path string true "ホールドID"
// @Param request body UpdateHoldRequest true "更新情報"
// @Success 200 {object} HoldResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /holds/{id} [put]
func (h *HoldHandler) Update(c echo.Context) error {
	var req UpdateHoldRequest
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
	expiresAt, err := parseTimestamp(req.ExpiresAt, "expires_at")
	if err != nil {
		return err
	}

	updated, err := h.service.UpdateHold(c.Request().Context(), application.UpdateHoldInput{
		ID:        c.Param("id"),
		StartDate: start,
		EndDate:   end,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(updated))
}

// Cancel godoc
// @Summary ホールドをキャンセル
// @Tags holds
// @Produce json
// @Param id path string true "ホールドID"
// @Success 200 {object} HoldResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "既にキャンセルまたは期限切れ"
// @Router /holds/{id}/cancel [post]
func (h *HoldHandler) Cancel(c echo.Context) error {
	cancelled, err := h.service.CancelHold(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toHoldResponse(cancelled))
}

// Delete godoc
// @Summary ホールドを削除
// @Description 終端状態のホールドを物理削除します
// @Tags holds
// @Param id path string true "ホールドID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "ACTIVEなホールドは削除不可"
// @Router /holds/{id} [delete]
func (h *HoldHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteHold(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExpireDue godoc
// @Summary 期限切れホールドを一括遷移
// @Description スイーパーと同じ処理をオンデマンドで実行します（冪等）
// @Tags holds
// @Produce json
// @Success 200 {object} map[string]int
// @Router /holds/expire-due [post]
func (h *HoldHandler) ExpireDue(c echo.Context) error {
	count, err := h.service.ExpireDue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"expired": count})
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
