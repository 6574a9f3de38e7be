// Package service implements the business logic for the homestay booking API.
package service

import (
	"context"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/wechat"
)

// EventPublisher publishes domain events. Publishing failures never fail the
// operation that produced the event.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, u *domain.User) error
	PublishOrderCreated(ctx context.Context, o *domain.Order) error
	PublishOrderCancelled(ctx context.Context, o *domain.Order) error
	PublishFavoriteAdded(ctx context.Context, f *domain.Favorite) error
	PublishFavoriteRemoved(ctx context.Context, userID string, roomID int) error
}

// CodeExchanger exchanges a login code for a provider session.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*wechat.Session, error)
}

// TokenIssuer mints session tokens for an authenticated openid.
type TokenIssuer interface {
	Issue(openid string) (string, error)
}

// RoomCache is a read cache over the room catalog list.
type RoomCache interface {
	GetRooms(ctx context.Context) ([]domain.Room, error)
	SetRooms(ctx context.Context, rooms []domain.Room) error
}
