package booking

import "errors"

// 予約コア共通のエラー定義
var (
	ErrInvalidDateRange = errors.New("終了日は開始日より後である必要があります")
	ErrRoomBusy         = errors.New("部屋が他のリクエストで処理中です")
)
