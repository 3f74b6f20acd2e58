package room

import "time"

// OperationalStatus は部屋の運用状態を表す
type OperationalStatus string

const (
	StatusAvailable    OperationalStatus = "available"
	StatusOccupied     OperationalStatus = "occupied"
	StatusMaintenance  OperationalStatus = "maintenance"
	StatusOutOfService OperationalStatus = "out_of_service"
)

// Room は予約可能な部屋を表す
// 部屋のCRUDは外部コラボレータの責務であり、予約コアが変更するのは
// チェックイン・チェックアウトに伴う運用状態のみ
type Room struct {
	ID         string
	HotelID    string
	RoomTypeID string
	RoomNumber string
	Status     OperationalStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanCheckIn はチェックイン可能な運用状態かを返す
func (r *Room) CanCheckIn() error {
	switch r.Status {
	case StatusOccupied:
		return ErrRoomOccupied
	case StatusMaintenance, StatusOutOfService:
		return ErrRoomNotOperational
	}
	return nil
}

// RoomType は部屋タイプを表す（定員チェックにのみ使用する外部参照データ）
type RoomType struct {
	ID        string
	HotelID   string
	Name      string
	MaxGuests int
}
