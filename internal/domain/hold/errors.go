package hold

import "errors"

// Hold ドメインのエラー定義
var (
	ErrHoldNotFound         = errors.New("ホールドが見つかりません")
	ErrHoldRangeConflict    = errors.New("指定期間にこの部屋の有効なホールドが既に存在します")
	ErrHoldAlreadyCancelled = errors.New("ホールドは既にキャンセルされています")
	ErrHoldAlreadyExpired   = errors.New("ホールドは既に期限切れです")
	ErrHoldNotActive        = errors.New("ホールドは有効ではありません")
	ErrHoldNotDue           = errors.New("ホールドはまだ有効期限内です")
	ErrHoldActiveDelete     = errors.New("有効なホールドは削除できません（先にキャンセルしてください）")
	ErrHoldMismatch         = errors.New("ホールドの部屋またはユーザーが一致しないか、既に無効です")
	ErrExpiresAtInPast      = errors.New("有効期限は未来の時刻である必要があります")
	ErrHotelIDRequired      = errors.New("ホテルIDは必須です")
	ErrRoomIDRequired       = errors.New("部屋IDは必須です")
	ErrUserIDRequired       = errors.New("ユーザーIDは必須です")
)
