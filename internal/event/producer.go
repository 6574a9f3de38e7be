// Package event publishes homestay domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pkgkafka "github.com/xdf2508/e-family/pkg/kafka"

	"github.com/xdf2508/e-family/internal/domain"
)

// Kafka topic constants for homestay domain events.
const (
	TopicUserRegistered  = "homestay.user.registered"
	TopicOrderCreated    = "homestay.order.created"
	TopicOrderCancelled  = "homestay.order.cancelled"
	TopicFavoriteAdded   = "homestay.favorite.added"
	TopicFavoriteRemoved = "homestay.favorite.removed"
)

// Aggregate type constants.
const (
	AggregateTypeUser     = "user"
	AggregateTypeOrder    = "order"
	AggregateTypeFavorite = "favorite"
)

// Source identifier for events originating from this service.
const SourceHomestayAPI = "homestay-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	RegisterTime time.Time `json:"register_time"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID      string    `json:"order_id"`
	UserID       string    `json:"user_id"`
	RoomID       int       `json:"room_id"`
	RoomName     string    `json:"room_name"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	Nights       int       `json:"nights"`
	TotalPrice   float64   `json:"total_price"`
	CreateTime   time.Time `json:"create_time"`
}

// OrderCancelledData is the payload for an order.cancelled event.
type OrderCancelledData struct {
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id"`
	CancelTime *time.Time `json:"cancel_time,omitempty"`
}

// FavoriteAddedData is the payload for a favorite.added event.
type FavoriteAddedData struct {
	UserID       string    `json:"user_id"`
	RoomID       int       `json:"room_id"`
	RoomName     string    `json:"room_name"`
	FavoriteTime time.Time `json:"favorite_time"`
}

// FavoriteRemovedData is the payload for a favorite.removed event.
type FavoriteRemovedData struct {
	UserID string `json:"user_id"`
	RoomID int    `json:"room_id"`
}

// Producer publishes homestay domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event for a newly
// created account.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	data := UserRegisteredData{
		UserID:       u.ID,
		UserName:     u.UserName,
		RegisterTime: u.RegisterTime,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, u.ID, AggregateTypeUser, SourceHomestayAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", u.ID),
	)
	return nil
}

// PublishOrderCreated publishes an order.created event with the booking snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	data := OrderCreatedData{
		OrderID:      o.ID,
		UserID:       o.UserID,
		RoomID:       o.RoomID,
		RoomName:     o.RoomName,
		CheckInDate:  o.CheckInDate,
		CheckOutDate: o.CheckOutDate,
		Nights:       o.Nights,
		TotalPrice:   o.TotalPrice,
		CreateTime:   o.CreateTime,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, o.ID, AggregateTypeOrder, SourceHomestayAPI, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", o.ID),
		slog.String("user_id", o.UserID),
	)
	return nil
}

// PublishOrderCancelled publishes an order.cancelled event.
func (p *Producer) PublishOrderCancelled(ctx context.Context, o *domain.Order) error {
	data := OrderCancelledData{
		OrderID:    o.ID,
		UserID:     o.UserID,
		CancelTime: o.CancelTime,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCancelled, o.ID, AggregateTypeOrder, SourceHomestayAPI, data)
	if err != nil {
		return fmt.Errorf("create order.cancelled event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCancelled, event); err != nil {
		return fmt.Errorf("publish order.cancelled event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.cancelled event",
		slog.String("order_id", o.ID),
	)
	return nil
}

// PublishFavoriteAdded publishes a favorite.added event.
func (p *Producer) PublishFavoriteAdded(ctx context.Context, f *domain.Favorite) error {
	data := FavoriteAddedData{
		UserID:       f.UserID,
		RoomID:       f.RoomID,
		RoomName:     f.RoomName,
		FavoriteTime: f.FavoriteTime,
	}

	event, err := pkgkafka.NewEvent(TopicFavoriteAdded, favoriteAggregateID(f.UserID, f.RoomID), AggregateTypeFavorite, SourceHomestayAPI, data)
	if err != nil {
		return fmt.Errorf("create favorite.added event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFavoriteAdded, event); err != nil {
		return fmt.Errorf("publish favorite.added event: %w", err)
	}

	p.logger.DebugContext(ctx, "published favorite.added event",
		slog.String("user_id", f.UserID),
		slog.Int("room_id", f.RoomID),
	)
	return nil
}

// PublishFavoriteRemoved publishes a favorite.removed event.
func (p *Producer) PublishFavoriteRemoved(ctx context.Context, userID string, roomID int) error {
	data := FavoriteRemovedData{
		UserID: userID,
		RoomID: roomID,
	}

	event, err := pkgkafka.NewEvent(TopicFavoriteRemoved, favoriteAggregateID(userID, roomID), AggregateTypeFavorite, SourceHomestayAPI, data)
	if err != nil {
		return fmt.Errorf("create favorite.removed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicFavoriteRemoved, event); err != nil {
		return fmt.Errorf("publish favorite.removed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published favorite.removed event",
		slog.String("user_id", userID),
		slog.Int("room_id", roomID),
	)
	return nil
}

func favoriteAggregateID(userID string, roomID int) string {
	return userID + ":" + strconv.Itoa(roomID)
}
