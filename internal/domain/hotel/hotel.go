package hotel

import (
	"context"
	"errors"
)

var ErrHotelNotFound = errors.New("ホテルが見つかりません")

// Hotel はホテルを表す（外部コラボレータ所有、参照のみ）
type Hotel struct {
	ID   string
	Name string
}

// Resolver はホテルの存在解決を提供する
type Resolver interface {
	GetByID(ctx context.Context, id string) (*Hotel, error)
}
