package hold

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/booking"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testStay(t *testing.T) booking.DateRange {
	t.Helper()
	r, err := booking.NewDateRange(
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return r
}

func createTestHold(t *testing.T) *Hold {
	t.Helper()
	h, err := NewHold("hotel-1", "room-1", "user-1", testStay(t), testNow.Add(15*time.Minute), testNow)
	require.NoError(t, err)
	return h
}

func TestNewHold(t *testing.T) {
	tests := []struct {
		name        string
		hotelID     string
		roomID      string
		userID      string
		expiresAt   time.Time
		wantErr     bool
		errExpected error
	}{
		{
			name: "正常なホールド作成", hotelID: "hotel-1", roomID: "room-1", userID: "user-1",
			expiresAt: testNow.Add(15 * time.Minute), wantErr: false,
		},
		{
			name: "ホテルID未指定", hotelID: "", roomID: "room-1", userID: "user-1",
			expiresAt: testNow.Add(15 * time.Minute), wantErr: true, errExpected: ErrHotelIDRequired,
		},
		{
			name: "部屋ID未指定", hotelID: "hotel-1", roomID: "", userID: "user-1",
			expiresAt: testNow.Add(15 * time.Minute), wantErr: true, errExpected: ErrRoomIDRequired,
		},
		{
			name: "ユーザーID未指定", hotelID: "hotel-1", roomID: "room-1", userID: "",
			expiresAt: testNow.Add(15 * time.Minute), wantErr: true, errExpected: ErrUserIDRequired,
		},
		{
			name: "有効期限が過去", hotelID: "hotel-1", roomID: "room-1", userID: "user-1",
			expiresAt: testNow.Add(-1 * time.Minute), wantErr: true, errExpected: ErrExpiresAtInPast,
		},
		{
			name: "有効期限が現在時刻と同一", hotelID: "hotel-1", roomID: "room-1", userID: "user-1",
			expiresAt: testNow, wantErr: true, errExpected: ErrExpiresAtInPast,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHold(tt.hotelID, tt.roomID, tt.userID, testStay(t), tt.expiresAt, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusActive, h.Status)
			assert.Equal(t, tt.expiresAt, h.ExpiresAt)
			assert.True(t, h.IsActive())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusExpired, true},
		{StatusCancelled, StatusActive, false},
		{StatusCancelled, StatusExpired, false},
		{StatusExpired, StatusActive, false},
		{StatusExpired, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
}

func TestHold_Cancel(t *testing.T) {
	h := createTestHold(t)
	err := h.Cancel(testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, h.Status)
	assert.False(t, h.IsActive())
}

func TestHold_Cancel_Invalid(t *testing.T) {
	h := createTestHold(t)
	h.Status = StatusCancelled
	assert.ErrorIs(t, h.Cancel(testNow), ErrHoldAlreadyCancelled)

	h.Status = StatusExpired
	assert.ErrorIs(t, h.Cancel(testNow), ErrHoldAlreadyExpired)
}

func TestHold_Expire(t *testing.T) {
	h := createTestHold(t)
	due := h.ExpiresAt.Add(time.Second)
	err := h.Expire(due)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, h.Status)
}

func TestHold_Expire_ExactlyAtExpiry(t *testing.T) {
	// now == expiresAt は期限切れ対象（now >= expiresAt）
	h := createTestHold(t)
	require.NoError(t, h.Expire(h.ExpiresAt))
	assert.Equal(t, StatusExpired, h.Status)
}

func TestHold_Expire_NotDue(t *testing.T) {
	h := createTestHold(t)
	assert.ErrorIs(t, h.Expire(h.ExpiresAt.Add(-time.Second)), ErrHoldNotDue)
	assert.Equal(t, StatusActive, h.Status)
}

func TestHold_Expire_Terminal(t *testing.T) {
	h := createTestHold(t)
	require.NoError(t, h.Cancel(testNow))
	assert.ErrorIs(t, h.Expire(h.ExpiresAt.Add(time.Minute)), ErrHoldNotActive)
}

func TestHold_IsDue(t *testing.T) {
	h := createTestHold(t)
	assert.False(t, h.IsDue(h.ExpiresAt.Add(-time.Second)))
	assert.True(t, h.IsDue(h.ExpiresAt))
	assert.True(t, h.IsDue(h.ExpiresAt.Add(time.Second)))
}

func TestHold_ChangeStay(t *testing.T) {
	h := createTestHold(t)
	newStay, err := booking.NewDateRange(
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	newExpiry := testNow.Add(30 * time.Minute)
	require.NoError(t, h.ChangeStay(newStay, newExpiry, testNow))
	assert.Equal(t, newStay, h.Stay)
	assert.Equal(t, newExpiry, h.ExpiresAt)
}

func TestHold_ChangeStay_NotActive(t *testing.T) {
	h := createTestHold(t)
	require.NoError(t, h.Cancel(testNow))
	err := h.ChangeStay(testStay(t), testNow.Add(time.Hour), testNow)
	assert.ErrorIs(t, err, ErrHoldNotActive)
}

func TestHold_ChangeStay_ExpiryInPast(t *testing.T) {
	h := createTestHold(t)
	err := h.ChangeStay(testStay(t), testNow.Add(-time.Minute), testNow)
	assert.ErrorIs(t, err, ErrExpiresAtInPast)
}
