package hold

import (
	"context"
	"time"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
)

// SearchFilter は検索条件を表す
// ゼロ値のフィールドは条件として適用されない（AND結合）
type SearchFilter struct {
	HotelID       string
	RoomID        string
	UserID        string
	Statuses      []Status
	StartFrom     *time.Time
	StartTo       *time.Time
	ExpiresBefore *time.Time
	Limit         int
	Offset        int
}

// Repository はホールドリポジトリのインターフェース
type Repository interface {
	// Create は新しいホールドを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, h *Hold) error

	// GetByID はIDからホールドを取得する
	GetByID(ctx context.Context, id string) (*Hold, error)

	// Search はフィルタ条件に合致するホールド一覧を取得する
	Search(ctx context.Context, filter SearchFilter) ([]*Hold, error)

	// Update はホールドを更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, h *Hold) error

	// Delete はホールドを物理削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// Overlaps はACTIVEなホールドとの期間重複を判定する
	// excludeID は更新時に自分自身を除外するために使う
	Overlaps(ctx context.Context, roomID string, stay booking.DateRange, excludeID string) (bool, error)

	// ListDueRoomIDs は期限切れ対象のACTIVEホールドを持つ部屋ID一覧を返す
	ListDueRoomIDs(ctx context.Context, now time.Time) ([]string, error)

	// ExpireDueForRoom は指定部屋の期限切れACTIVEホールドをEXPIREDに遷移させ、
	// 遷移したホールドを返す。status='active' を条件に含むため冪等
	ExpireDueForRoom(ctx context.Context, tx transaction.Tx, roomID string, now time.Time) ([]*Hold, error)
}
