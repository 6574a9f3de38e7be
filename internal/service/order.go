package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xdf2508/e-family/pkg/errors"

	"github.com/xdf2508/e-family/internal/config"
	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/repository"
)

// OrderService implements booking creation, listing and cancellation.
type OrderService struct {
	orders        repository.OrderRepository
	rooms         repository.RoomRepository
	users         repository.UserRepository
	producer      EventPublisher
	ownershipMode string
	logger        *slog.Logger
}

// NewOrderService creates a new order service. ownershipMode selects how
// order ownership is established, see config.OwnershipModeSubject.
func NewOrderService(orders repository.OrderRepository, rooms repository.RoomRepository, users repository.UserRepository, producer EventPublisher, ownershipMode string, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:        orders,
		rooms:         rooms,
		users:         users,
		producer:      producer,
		ownershipMode: ownershipMode,
		logger:        logger,
	}
}

// CreateOrderInput holds the parameters for creating a booking. A nil
// Nights means the caller left it out and the stay length is derived from
// the dates.
type CreateOrderInput struct {
	RoomID       int
	CheckInDate  time.Time
	CheckOutDate time.Time
	Nights       *int
	GuestName    string
	GuestPhone   string
}

// CreateOrder books a room for the user. The room name, image and price are
// snapshotted onto the order so later catalog edits do not rewrite history.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error) {
	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, fmt.Errorf("get room for order: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for order: %w", err)
	}

	var nights int
	switch {
	case input.Nights != nil:
		if *input.Nights < 1 {
			return nil, apperrors.InvalidInput("nights must be at least 1")
		}
		nights = *input.Nights
	case !input.CheckOutDate.IsZero():
		nights = domain.NightsBetween(input.CheckInDate, input.CheckOutDate)
		if nights < 1 {
			return nil, apperrors.InvalidInput("check-out date must be after check-in date")
		}
	default:
		nights = 1
	}

	guestName := input.GuestName
	if guestName == "" {
		guestName = user.UserName
	}
	guestPhone := input.GuestPhone
	if guestPhone == "" {
		guestPhone = user.Phone
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            newOrderID(),
		UserID:        user.ID,
		RoomID:        room.ID,
		RoomName:      room.Name,
		RoomImage:     room.Image,
		CheckInDate:   input.CheckInDate,
		CheckOutDate:  input.CheckOutDate,
		Nights:        nights,
		GuestName:     guestName,
		GuestPhone:    guestPhone,
		TotalPrice:    room.Price * float64(nights),
		Status:        domain.OrderStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPaid,
		PaymentMethod: domain.PaymentMethodWechat,
		CreateTime:    now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int("room_id", order.RoomID),
		slog.Float64("total_price", order.TotalPrice),
	)

	return order, nil
}

// ListOrders returns the user's orders, newest first. An empty status
// matches all statuses.
func (s *OrderService) ListOrders(ctx context.Context, userID, status string) ([]domain.Order, error) {
	if s.ownershipMode == config.OwnershipModePhone {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get user for order list: %w", err)
		}
		orders, err := s.orders.ListByGuestPhone(ctx, user.Phone, status)
		if err != nil {
			return nil, fmt.Errorf("list orders by phone: %w", err)
		}
		return orders, nil
	}

	orders, err := s.orders.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves one of the user's orders.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if err := s.authorize(ctx, userID, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels one of the user's confirmed orders. Cancelling an
// already cancelled order fails with a conflict.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order for cancel: %w", err)
	}

	if err := s.authorize(ctx, userID, order); err != nil {
		return nil, err
	}

	cancelTime := time.Now().UTC()
	if err := s.orders.Cancel(ctx, orderID, cancelTime); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	order.CancelTime = &cancelTime

	if err := s.producer.PublishOrderCancelled(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.cancelled event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
	)

	return order, nil
}

// authorize checks whether the user owns the order under the configured
// ownership mode.
func (s *OrderService) authorize(ctx context.Context, userID string, order *domain.Order) error {
	if s.ownershipMode == config.OwnershipModePhone {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user for ownership check: %w", err)
		}
		if user.Phone == "" || order.GuestPhone != user.Phone {
			return apperrors.Forbidden("order belongs to another user")
		}
		return nil
	}

	if order.UserID != userID {
		return apperrors.Forbidden("order belongs to another user")
	}
	return nil
}

func newOrderID() string {
	return "ORD" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
