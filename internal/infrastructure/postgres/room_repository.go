package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
)

type roomRow struct {
	ID         string    `db:"id"`
	HotelID    string    `db:"hotel_id"`
	RoomTypeID string    `db:"room_type_id"`
	RoomNumber string    `db:"room_number"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	var row roomRow
	query := `SELECT id, hotel_id, room_type_id, room_number, status, created_at, updated_at FROM rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("部屋取得に失敗: %w", err)
	}
	return &room.Room{
		ID:         row.ID,
		HotelID:    row.HotelID,
		RoomTypeID: row.RoomTypeID,
		RoomNumber: row.RoomNumber,
		Status:     room.OperationalStatus(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status room.OperationalStatus) error {
	sqlxTx := UnwrapTx(tx)
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE rooms SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("部屋状態更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

// CountAvailable はホテル内の利用可能な部屋数を返す（表示用）
func (r *RoomRepository) CountAvailable(ctx context.Context, hotelID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rooms WHERE hotel_id = $1 AND status = 'available'`
	if err := r.db.GetContext(ctx, &count, query, hotelID); err != nil {
		return 0, fmt.Errorf("利用可能部屋数の取得に失敗: %w", err)
	}
	return count, nil
}

type RoomTypeRepository struct {
	db *sqlx.DB
}

func NewRoomTypeRepository(db *sqlx.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id string) (*room.RoomType, error) {
	var row struct {
		ID        string `db:"id"`
		HotelID   string `db:"hotel_id"`
		Name      string `db:"name"`
		MaxGuests int    `db:"max_guests"`
	}
	query := `SELECT id, hotel_id, name, max_guests FROM room_types WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("部屋タイプ取得に失敗: %w", err)
	}
	return &room.RoomType{
		ID:        row.ID,
		HotelID:   row.HotelID,
		Name:      row.Name,
		MaxGuests: row.MaxGuests,
	}, nil
}

var (
	_ room.Repository     = (*RoomRepository)(nil)
	_ room.TypeRepository = (*RoomTypeRepository)(nil)
)
