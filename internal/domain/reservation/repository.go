package reservation

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
	MinGuestCount int
	MaxGuestCount int
	MinAmount     *int64
	MaxAmount     *int64
	Limit         int
	Offset        int
}

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// Search はフィルタ条件に合致する予約一覧を取得する
	Search(ctx context.Context, filter SearchFilter) ([]*Reservation, error)

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// Delete は予約を物理削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// Overlaps は有効な予約（PENDING/CONFIRMED/CHECKED_IN）との期間重複を判定する
	// excludeID は更新時に自分自身を除外するために使う
	Overlaps(ctx context.Context, roomID string, stay booking.DateRange, excludeID string) (bool, error)
}
