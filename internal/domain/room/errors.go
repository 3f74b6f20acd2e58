package room

import "errors"

// Room ドメインのエラー定義
var (
	ErrRoomNotFound       = errors.New("部屋が見つかりません")
	ErrRoomTypeNotFound   = errors.New("部屋タイプが見つかりません")
	ErrRoomOccupied       = errors.New("部屋は既に利用中です")
	ErrRoomNotOperational = errors.New("部屋は現在利用できません（整備中または提供停止中）")
)
