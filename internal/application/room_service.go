package application

import (
	"context"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
)

// RoomService は部屋と部屋タイプの読み取り専用サービス
// 部屋のCRUDは外部コラボレータの責務なので、コアは参照のみを提供する
type RoomService struct {
	roomRepo     room.Repository
	roomTypeRepo room.TypeRepository
}

func NewRoomService(rr room.Repository, rt room.TypeRepository) *RoomService {
	return &RoomService{roomRepo: rr, roomTypeRepo: rt}
}

// GetRoom は部屋を取得する（運用状態の確認用）
func (s *RoomService) GetRoom(ctx context.Context, id string) (*room.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

// GetRoomType は部屋タイプを取得する
func (s *RoomService) GetRoomType(ctx context.Context, id string) (*room.RoomType, error) {
	return s.roomTypeRepo.GetByID(ctx, id)
}
