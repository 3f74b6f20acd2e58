package booking

import "context"

// RoomGate は部屋単位の直列化ゲート
// 重複チェックと書き込みの間に他のリクエストが割り込む二重予約レースを防ぐため、
// 同一部屋に対する check-then-write は必ずこのゲートを通して直列化する
type RoomGate interface {
	// AcquireRoom は部屋ロックを取得する
	// 取得できない場合は ErrRoomBusy を返す（ハングせず有限時間で諦める）
	AcquireRoom(ctx context.Context, roomID string) (RoomLease, error)
}

// RoomLease は取得済みの部屋ロック
// 成功・失敗どちらの経路でも必ず Release すること
type RoomLease interface {
	Release(ctx context.Context) error
}

// IntervalIndex は「この部屋のこの期間は既存の有効な割当と重なるか」に答える
// excludeID は更新時に自分自身のレコードを除外するために使う（不要なら空文字列）
type IntervalIndex interface {
	Overlaps(ctx context.Context, roomID string, stay DateRange, excludeID string) (bool, error)
}
