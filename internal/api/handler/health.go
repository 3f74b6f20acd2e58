package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger は依存コンポーネントの死活確認を抽象化する
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	dbPing    Pinger
	redisPing Pinger
}

func NewHealthHandler(dbPing, redisPing Pinger) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, redisPing: redisPing}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Deps   map[string]string `json:"deps,omitempty"`
}

// Check godoc
// @Summary ヘルスチェック
// @Description DBとRedisの接続状態を含めて返します
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
		Deps:   map[string]string{},
	}
	code := http.StatusOK

	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			resp.Deps["database"] = "down"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			resp.Deps["database"] = "up"
		}
	}
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			resp.Deps["redis"] = "down"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			resp.Deps["redis"] = "up"
		}
	}

	return c.JSON(code, resp)
}
