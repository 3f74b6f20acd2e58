package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
)

type reservationRow struct {
	ID                 string     `db:"id"`
	HotelID            string     `db:"hotel_id"`
	UserID             string     `db:"user_id"`
	RoomID             string     `db:"room_id"`
	RoomTypeID         string     `db:"room_type_id"`
	StartDate          time.Time  `db:"start_date"`
	EndDate            time.Time  `db:"end_date"`
	GuestCount         int        `db:"guest_count"`
	Status             string     `db:"status"`
	TotalAmount        int64      `db:"total_amount"`
	Currency           string     `db:"currency"`
	SpecialRequests    string     `db:"special_requests"`
	CancellationReason *string    `db:"cancellation_reason"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CancelledBy        *string    `db:"cancelled_by"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

const reservationColumns = `id, hotel_id, user_id, room_id, room_type_id, start_date, end_date, guest_count, status, total_amount, currency, special_requests, cancellation_reason, cancelled_at, cancelled_by, created_at, updated_at`

type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO reservations (hotel_id, user_id, room_id, room_type_id, start_date, end_date, guest_count, status, total_amount, currency, special_requests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		res.HotelID, res.UserID, res.RoomID, res.RoomTypeID,
		res.Stay.Start, res.Stay.End, res.GuestCount, string(res.Status),
		res.TotalAmount, res.Currency, res.SpecialRequests,
		res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return reservationToEntity(&row), nil
}

func (r *ReservationRepository) Search(ctx context.Context, filter reservation.SearchFilter) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
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
	if filter.MinGuestCount > 0 {
		query += " AND guest_count >= ?"
		args = append(args, filter.MinGuestCount)
	}
	if filter.MaxGuestCount > 0 {
		query += " AND guest_count <= ?"
		args = append(args, filter.MaxGuestCount)
	}
	if filter.MinAmount != nil {
		query += " AND total_amount >= ?"
		args = append(args, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query += " AND total_amount <= ?"
		args = append(args, *filter.MaxAmount)
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

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("予約検索に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = reservationToEntity(&rows[i])
	}
	return result, nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE reservations SET start_date = $1, end_date = $2, guest_count = $3, status = $4, total_amount = $5, special_requests = $6, cancellation_reason = $7, cancelled_at = $8, cancelled_by = $9, updated_at = $10 WHERE id = $11`
	result, err := sqlxTx.ExecContext(ctx, query,
		res.Stay.Start, res.Stay.End, res.GuestCount, string(res.Status),
		res.TotalAmount, res.SpecialRequests,
		res.CancellationReason, res.CancelledAt, res.CancelledBy,
		res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// Overlaps は半開区間 [start, end) の交差判定を行う
// 対象は有効な予約（pending / confirmed / checked_in）のみ
// 複合部分インデックス (room_id, start_date, end_date) を前提とする
func (r *ReservationRepository) Overlaps(ctx context.Context, roomID string, stay booking.DateRange, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		query := `SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_id = $1 AND status IN ('pending', 'confirmed', 'checked_in')
			  AND start_date < $3 AND end_date > $2)`
		err = r.db.GetContext(ctx, &exists, query, roomID, stay.Start, stay.End)
	} else {
		query := `SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_id = $1 AND status IN ('pending', 'confirmed', 'checked_in')
			  AND start_date < $3 AND end_date > $2
			  AND id <> $4)`
		err = r.db.GetContext(ctx, &exists, query, roomID, stay.Start, stay.End, excludeID)
	}
	if err != nil {
		return false, fmt.Errorf("予約重複判定に失敗: %w", err)
	}
	return exists, nil
}

func reservationToEntity(row *reservationRow) *reservation.Reservation {
	return &reservation.Reservation{
		ID:         row.ID,
		HotelID:    row.HotelID,
		UserID:     row.UserID,
		RoomID:     row.RoomID,
		RoomTypeID: row.RoomTypeID,
		Stay: booking.DateRange{
			Start: row.StartDate.UTC(),
			End:   row.EndDate.UTC(),
		},
		GuestCount:         row.GuestCount,
		Status:             reservation.Status(row.Status),
		TotalAmount:        row.TotalAmount,
		Currency:           row.Currency,
		SpecialRequests:    row.SpecialRequests,
		CancellationReason: row.CancellationReason,
		CancelledAt:        row.CancelledAt,
		CancelledBy:        row.CancelledBy,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

var _ reservation.Repository = (*ReservationRepository)(nil)
