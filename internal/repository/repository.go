package repository

import (
	"context"
	"time"

	"github.com/xdf2508/e-family/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// GetOrCreate returns the user registered for the openid on u, creating
	// the record atomically when absent. The boolean is true when a new
	// user was created by this call.
	GetOrCreate(ctx context.Context, u *domain.User) (*domain.User, bool, error)

	// GetByID retrieves a user by their identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByOpenID retrieves a user by their provider openid.
	GetByOpenID(ctx context.Context, openid string) (*domain.User, error)

	// Update modifies an existing user's profile fields.
	Update(ctx context.Context, u *domain.User) error

	// Counts returns the user's live order and favorite counts.
	Counts(ctx context.Context, userID string) (orders int, favorites int, err error)
}

// RoomRepository defines read access to the room catalog.
type RoomRepository interface {
	// GetByID retrieves a room by its identifier.
	GetByID(ctx context.Context, id int) (*domain.Room, error)

	// List returns rooms matching the filter, in id order.
	List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error)
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order.
	Create(ctx context.Context, o *domain.Order) error

	// GetByID retrieves an order by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUser returns the user's orders, newest first. An empty status
	// matches all statuses.
	ListByUser(ctx context.Context, userID, status string) ([]domain.Order, error)

	// ListByGuestPhone returns orders booked under the phone number,
	// newest first. Used by the legacy phone ownership mode.
	ListByGuestPhone(ctx context.Context, phone, status string) ([]domain.Order, error)

	// Cancel transitions a confirmed order to cancelled, stamping the
	// cancellation time. Returns a conflict error when the order is not
	// in a cancellable state.
	Cancel(ctx context.Context, id string, cancelTime time.Time) error
}

// FavoriteRepository defines the interface for favorite persistence operations.
type FavoriteRepository interface {
	// Add inserts the favorite. Returns false without error when the room
	// is already favorited by the user.
	Add(ctx context.Context, f *domain.Favorite) (bool, error)

	// Remove deletes the favorite, failing with a not-found error when it
	// does not exist.
	Remove(ctx context.Context, userID string, roomID int) error

	// ListByUser returns the user's favorites, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
}
