package booking

import "time"

// DateRange は宿泊期間を表す半開区間 [Start, End)
// End は退室日でありその日自体は占有しない（同日チェックイン・チェックアウトの連続予約を許す）
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange は日付をUTC日付単位に正規化した期間を作成する
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: truncateToDate(start), End: truncateToDate(end)}
	if !r.Start.Before(r.End) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Overlaps は半開区間同士の交差判定を行う
// existing.start < end AND existing.end > start
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Contains は指定日が期間内（滞在中）かを返す
func (r DateRange) Contains(day time.Time) bool {
	d := truncateToDate(day)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Nights は宿泊数を返す
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
