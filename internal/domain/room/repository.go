package room

import (
	"context"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
)

// Repository は部屋の参照と運用状態の更新を提供する
// 部屋エンティティの所有者は外部コラボレータであり、コアは運用状態のみ書き換える
type Repository interface {
	// GetByID はIDから部屋を取得する
	GetByID(ctx context.Context, id string) (*Room, error)

	// UpdateStatus は部屋の運用状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status OperationalStatus) error

	// CountAvailable はホテル内の利用可能な部屋数を返す（表示用）
	CountAvailable(ctx context.Context, hotelID string) (int, error)
}

// TypeRepository は部屋タイプの参照を提供する
type TypeRepository interface {
	// GetByID はIDから部屋タイプを取得する
	GetByID(ctx context.Context, id string) (*RoomType, error)
}
