package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, field+" はYYYY-MM-DD形式で指定してください")
	}
	return t, nil
}

func parseTimestamp(value, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, field+" はRFC3339形式で指定してください")
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func requireUserID(c echo.Context) (string, error) {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	return userID, nil
}
