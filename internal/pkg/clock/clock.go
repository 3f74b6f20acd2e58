package clock

import "time"

// Clock は現在時刻の取得を抽象化する
// 期限切れ判定・日付境界のテストで時刻を固定できるようにするための注入点
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem はシステム時計を返す
func NewSystem() Clock { return systemClock{} }

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// NewFixed は固定時刻の時計を返す（テスト用）
func NewFixed(t time.Time) Clock { return fixedClock{t: t.UTC()} }

// Today は時計の現在時刻をUTC日付単位に切り捨てて返す
func Today(c Clock) time.Time {
	u := c.Now().UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
