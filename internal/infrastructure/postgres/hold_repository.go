package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
)

type holdRow struct {
	ID        string    `db:"id"`
	HotelID   string    `db:"hotel_id"`
	RoomID    string    `db:"room_id"`
	UserID    string    `db:"user_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const holdColumns = `id, hotel_id, room_id, user_id, start_date, end_date, status, expires_at, created_at, updated_at`

type HoldRepository struct {
	db *sqlx.DB
}

func NewHoldRepository(db *sqlx.DB) *HoldRepository {
	return &HoldRepository{db: db}
}

func (r *HoldRepository) Create(ctx context.Context, tx transaction.Tx, h *hold.Hold) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO holds (hotel_id, room_id, user_id, start_date, end_date, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		h.HotelID, h.RoomID, h.UserID, h.Stay.Start, h.Stay.End,
		string(h.Status), h.ExpiresAt, h.CreatedAt, h.UpdatedAt,
	).Scan(&h.ID); err != nil {
		return fmt.Errorf("ホールド作成に失敗: %w", err)
	}
	return nil
}

func (r *HoldRepository) GetByID(ctx context.Context, id string) (*hold.Hold, error) {
	var row holdRow
	query := `SELECT ` + holdColumns + ` FROM holds WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hold.ErrHoldNotFound
		}
		return nil, fmt.Errorf("ホールド取得に失敗: %w", err)
	}
	return holdToEntity(&row), nil
}

func (r *HoldRepository) Search(ctx context.Context, filter hold.SearchFilter) ([]*hold.Hold, error) {
	query := `SELECT ` + holdColumns + ` FROM holds WHERE 1=1`
	var args []interface{}

	if filter.HotelID != "" {
		query += " AND hotel_id = ?"
		args = append(args, filter.HotelID)
	}
	if filter.RoomID != "" {
		query += " AND room_id = ?"
		args = append(args, filter.RoomID)
	}
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		inQuery, inArgs, err := sqlx.In(" AND status IN (?)", statuses)
		if err != nil {
			return nil, fmt.Errorf("検索条件の構築に失敗: %w", err)
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	if filter.StartFrom != nil {
		query += " AND start_date >= ?"
		args = append(args, *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query += " AND start_date < ?"
		args = append(args, *filter.StartTo)
	}
	if filter.ExpiresBefore != nil {
		query += " AND expires_at < ?"
		args = append(args, *filter.ExpiresBefore)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	var rows []holdRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("ホールド検索に失敗: %w", err)
	}
	result := make([]*hold.Hold, len(rows))
	for i := range rows {
		result[i] = holdToEntity(&rows[i])
	}
	return result, nil
}

func (r *HoldRepository) Update(ctx context.Context, tx transaction.Tx, h *hold.Hold) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE holds SET start_date = $1, end_date = $2, status = $3, expires_at = $4, updated_at = $5 WHERE id = $6`
	result, err := sqlxTx.ExecContext(ctx, query,
		h.Stay.Start, h.Stay.End, string(h.Status), h.ExpiresAt, h.UpdatedAt, h.ID)
	if err != nil {
		return fmt.Errorf("ホールド更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return hold.ErrHoldNotFound
	}
	return nil
}

func (r *HoldRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM holds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ホールド削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return hold.ErrHoldNotFound
	}
	return nil
}

// Overlaps は半開区間 [start, end) の交差判定を行う
// 複合部分インデックス (room_id, start_date, end_date) WHERE status = 'active' を前提とする
func (r *HoldRepository) Overlaps(ctx context.Context, roomID string, stay booking.DateRange, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		query := `SELECT EXISTS (
			SELECT 1 FROM holds
			WHERE room_id = $1 AND status = 'active'
			  AND start_date < $3 AND end_date > $2)`
		err = r.db.GetContext(ctx, &exists, query, roomID, stay.Start, stay.End)
	} else {
		query := `SELECT EXISTS (
			SELECT 1 FROM holds
			WHERE room_id = $1 AND status = 'active'
			  AND start_date < $3 AND end_date > $2
			  AND id <> $4)`
		err = r.db.GetContext(ctx, &exists, query, roomID, stay.Start, stay.End, excludeID)
	}
	if err != nil {
		return false, fmt.Errorf("ホールド重複判定に失敗: %w", err)
	}
	return exists, nil
}

func (r *HoldRepository) ListDueRoomIDs(ctx context.Context, now time.Time) ([]string, error) {
	var roomIDs []string
	query := `SELECT DISTINCT room_id FROM holds WHERE status = 'active' AND expires_at <= $1`
	if err := r.db.SelectContext(ctx, &roomIDs, query, now); err != nil {
		return nil, fmt.Errorf("期限切れ対象部屋の取得に失敗: %w", err)
	}
	return roomIDs, nil
}

// ExpireDueForRoom は status = 'active' を条件に含む単一UPDATEのため、
// 同じ now で二回実行しても二回目は0行に作用する（冪等）
func (r *HoldRepository) ExpireDueForRoom(ctx context.Context, tx transaction.Tx, roomID string, now time.Time) ([]*hold.Hold, error) {
	sqlxTx := UnwrapTx(tx)
	var rows []holdRow
	query := `UPDATE holds SET status = 'expired', updated_at = $2
		WHERE room_id = $1 AND status = 'active' AND expires_at <= $2
		RETURNING ` + holdColumns
	if err := sqlxTx.SelectContext(ctx, &rows, query, roomID, now); err != nil {
		return nil, fmt.Errorf("ホールド期限切れ処理に失敗: %w", err)
	}
	result := make([]*hold.Hold, len(rows))
	for i := range rows {
		result[i] = holdToEntity(&rows[i])
	}
	return result, nil
}

func holdToEntity(row *holdRow) *hold.Hold {
	return &hold.Hold{
		ID:      row.ID,
		HotelID: row.HotelID,
		RoomID:  row.RoomID,
		UserID:  row.UserID,
		Stay: booking.DateRange{
			Start: row.StartDate.UTC(),
			End:   row.EndDate.UTC(),
		},
		Status:    hold.Status(row.Status),
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

var _ hold.Repository = (*HoldRepository)(nil)
