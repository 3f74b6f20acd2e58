package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// MetricsBearerAuth は /metrics エンドポイント用の Bearer トークン認証ミドルウェア
// トークンが空の場合は認証をスキップする（ローカル開発用）
func MetricsBearerAuth(token string) echo.MiddlewareFunc {
	if token == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			provided, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}
			// タイミング攻撃を防ぐため ConstantTimeCompare を使用
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "トークンが不正です")
			}
			return next(c)
		}
	}
}
