package user

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("ユーザーが見つかりません")

// User はゲストユーザーを表す（外部コラボレータ所有、参照のみ）
type User struct {
	ID    string
	Email string
}

// Resolver はユーザーの存在解決を提供する
type Resolver interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
