package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/wechat"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetOrCreate(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByOpenID(ctx context.Context, openid string) (*domain.User, error) {
	args := m.Called(ctx, openid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

// --- Mock Room Repository ---

type mockRoomRepository struct {
	mock.Mock
}

func (m *mockRoomRepository) GetByID(ctx context.Context, id int) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *mockRoomRepository) List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

// --- Mock Order Repository ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID, status string) ([]domain.Order, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListByGuestPhone(ctx context.Context, phone, status string) ([]domain.Order, error) {
	args := m.Called(ctx, phone, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepository) Cancel(ctx context.Context, id string, cancelTime time.Time) error {
	args := m.Called(ctx, id, cancelTime)
	return args.Error(0)
}

// --- Mock Favorite Repository ---

type mockFavoriteRepository struct {
	mock.Mock
}

func (m *mockFavoriteRepository) Add(ctx context.Context, f *domain.Favorite) (bool, error) {
	args := m.Called(ctx, f)
	return args.Bool(0), args.Error(1)
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID string, roomID int) error {
	args := m.Called(ctx, userID, roomID)
	return args.Error(0)
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Favorite), args.Error(1)
}

// --- Mock Event Publisher ---

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishOrderCancelled(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishFavoriteAdded(ctx context.Context, f *domain.Favorite) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishFavoriteRemoved(ctx context.Context, userID string, roomID int) error {
	args := m.Called(ctx, userID, roomID)
	return args.Error(0)
}

// --- Mock Code Exchanger ---

type mockCodeExchanger struct {
	mock.Mock
}

func (m *mockCodeExchanger) ExchangeCode(ctx context.Context, code string) (*wechat.Session, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wechat.Session), args.Error(1)
}

// --- Mock Room Cache ---

type mockRoomCache struct {
	mock.Mock
}

func (m *mockRoomCache) GetRooms(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *mockRoomCache) SetRooms(ctx context.Context, rooms []domain.Room) error {
	args := m.Called(ctx, rooms)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string {
	return &s
}

func intPtr(n int) *int {
	return &n
}
