package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hotel"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/user"
)

// HotelRepository はホテルの存在解決を提供する
// ホテルのCRUDは外部コラボレータの責務であり、コアは参照のみ行う
type HotelRepository struct {
	db *sqlx.DB
}

func NewHotelRepository(db *sqlx.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) GetByID(ctx context.Context, id string) (*hotel.Hotel, error) {
	var row struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.GetContext(ctx, &row, `SELECT id, name FROM hotels WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hotel.ErrHotelNotFound
		}
		return nil, fmt.Errorf("ホテル取得に失敗: %w", err)
	}
	return &hotel.Hotel{ID: row.ID, Name: row.Name}, nil
}

// UserRepository はユーザーの存在解決を提供する
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row struct {
		ID    string `db:"id"`
		Email string `db:"email"`
	}
	if err := r.db.GetContext(ctx, &row, `SELECT id, email FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return &user.User{ID: row.ID, Email: row.Email}, nil
}

var (
	_ hotel.Resolver = (*HotelRepository)(nil)
	_ user.Resolver  = (*UserRepository)(nil)
)
