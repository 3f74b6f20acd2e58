package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound         = errors.New("予約が見つかりません")
	ErrRangeConflict               = errors.New("指定期間にこの部屋の有効な予約が既に存在します")
	ErrHoldBlocking                = errors.New("指定期間にこの部屋の有効なホールドが存在します")
	ErrReservationNotPending       = errors.New("予約は確定待ちではありません")
	ErrReservationAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrReservationCheckedOut       = errors.New("チェックアウト済みの予約はキャンセルできません")
	ErrReservationNotConfirmed     = errors.New("チェックインには確定済みの予約が必要です")
	ErrReservationNotCheckedIn     = errors.New("チェックアウトにはチェックイン済みの予約が必要です")
	ErrReservationTerminal         = errors.New("終端状態の予約は変更できません")
	ErrReservationLiveDelete       = errors.New("有効な予約は削除できません（先にキャンセルしてください）")
	ErrCheckInTooEarly             = errors.New("チェックインは開始日以降に可能です")
	ErrPastStartDate               = errors.New("開始日に過去の日付は指定できません")
	ErrGuestCountExceeded          = errors.New("ゲスト数が部屋タイプの定員を超えています")
	ErrInvalidGuestCount           = errors.New("ゲスト数は1以上である必要があります")
	ErrInvalidStatus               = errors.New("不正な予約状態です")
	ErrHotelIDRequired             = errors.New("ホテルIDは必須です")
	ErrRoomIDRequired              = errors.New("部屋IDは必須です")
	ErrUserIDRequired              = errors.New("ユーザーIDは必須です")
)
