package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/event"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/hotel"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/user"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockHoldRepository implements hold.Repository
type MockHoldRepository struct {
	mock.Mock
}

func (m *MockHoldRepository) Create(ctx context.Context, tx transaction.Tx, h *hold.Hold) error {
	args := m.Called(ctx, tx, h)
	return args.Error(0)
}

func (m *MockHoldRepository) GetByID(ctx context.Context, id string) (*hold.Hold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hold.Hold), args.Error(1)
}

func (m *MockHoldRepository) Search(ctx context.Context, filter hold.SearchFilter) ([]*hold.Hold, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hold.Hold), args.Error(1)
}

func (m *MockHoldRepository) Update(ctx context.Context, tx transaction.Tx, h *hold.Hold) error {
	args := m.Called(ctx, tx, h)
	return args.Error(0)
}

func (m *MockHoldRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockHoldRepository) Overlaps(ctx context.Context, roomID string, stay booking.DateRange, excludeID string) (bool, error) {
	args := m.Called(ctx, roomID, stay, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHoldRepository) ListDueRoomIDs(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHoldRepository) ExpireDueForRoom(ctx context.Context, tx transaction.Tx, roomID string, now time.Time) ([]*hold.Hold, error) {
	args := m.Called(ctx, tx, roomID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hold.Hold), args.Error(1)
}

// MockReservationRepository implements reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Search(ctx context.Context, filter reservation.SearchFilter) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) Overlaps(ctx context.Context, roomID string, stay booking.DateRange, excludeID string) (bool, error) {
	args := m.Called(ctx, roomID, stay, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockRoomRepository implements room.Repository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockRoomRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status room.OperationalStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockRoomRepository) CountAvailable(ctx context.Context, hotelID string) (int, error) {
	args := m.Called(ctx, hotelID)
	return args.Int(0), args.Error(1)
}

// MockRoomTypeRepository implements room.TypeRepository
type MockRoomTypeRepository struct {
	mock.Mock
}

func (m *MockRoomTypeRepository) GetByID(ctx context.Context, id string) (*room.RoomType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.RoomType), args.Error(1)
}

// MockHotelResolver implements hotel.Resolver
type MockHotelResolver struct {
	mock.Mock
}

func (m *MockHotelResolver) GetByID(ctx context.Context, id string) (*hotel.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Hotel), args.Error(1)
}

// MockUserResolver implements user.Resolver
type MockUserResolver struct {
	mock.Mock
}

func (m *MockUserResolver) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockRoomGate implements booking.RoomGate
type MockRoomGate struct {
	mock.Mock
}

func (m *MockRoomGate) AcquireRoom(ctx context.Context, roomID string) (booking.RoomLease, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(booking.RoomLease), args.Error(1)
}

// MockRoomLease implements booking.RoomLease
type MockRoomLease struct {
	mock.Mock
}

func (m *MockRoomLease) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPublisher implements event.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev event.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAvailabilityCache implements AvailabilityCache
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) GetAvailableCount(ctx context.Context, hotelID string) (int, error) {
	args := m.Called(ctx, hotelID)
	return args.Int(0), args.Error(1)
}

func (m *MockAvailabilityCache) SetAvailableCount(ctx context.Context, hotelID string, count int, ttl time.Duration) error {
	args := m.Called(ctx, hotelID, count, ttl)
	return args.Error(0)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, hotelID string) error {
	args := m.Called(ctx, hotelID)
	return args.Error(0)
}
