package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
	"github.com/xdf2508/e-family/pkg/database"

	"github.com/xdf2508/e-family/internal/domain"
)

const orderColumns = `id, user_id, room_id, room_name, room_image, check_in_date, check_out_date,
	nights, guest_name, guest_phone, total_price, status, payment_status, payment_method,
	create_time, cancel_time`

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order. The primary key backs order number uniqueness.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, room_id, room_name, room_image, check_in_date, check_out_date,
			nights, guest_name, guest_phone, total_price, status, payment_status, payment_method, create_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		o.ID,
		o.UserID,
		o.RoomID,
		o.RoomName,
		o.RoomImage,
		o.CheckInDate,
		o.CheckOutDate,
		o.Nights,
		o.GuestName,
		o.GuestPhone,
		o.TotalPrice,
		o.Status,
		o.PaymentStatus,
		o.PaymentMethod,
		o.CreateTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("order", "id", o.ID)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.RoomID,
		&o.RoomName,
		&o.RoomImage,
		&o.CheckInDate,
		&o.CheckOutDate,
		&o.Nights,
		&o.GuestName,
		&o.GuestPhone,
		&o.TotalPrice,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.CreateTime,
		&o.CancelTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID, status string) ([]domain.Order, error) {
	return r.list(ctx, "user_id", userID, status)
}

// ListByGuestPhone returns orders booked under the phone number, newest first.
func (r *OrderRepository) ListByGuestPhone(ctx context.Context, phone, status string) ([]domain.Order, error) {
	return r.list(ctx, "guest_phone", phone, status)
}

func (r *OrderRepository) list(ctx context.Context, ownerColumn, ownerValue, status string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + ownerColumn + ` = $1`
	args := []any{ownerValue}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY create_time DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.RoomID,
			&o.RoomName,
			&o.RoomImage,
			&o.CheckInDate,
			&o.CheckOutDate,
			&o.Nights,
			&o.GuestName,
			&o.GuestPhone,
			&o.TotalPrice,
			&o.Status,
			&o.PaymentStatus,
			&o.PaymentMethod,
			&o.CreateTime,
			&o.CancelTime,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	return orders, nil
}

// Cancel transitions a confirmed order to cancelled. The status predicate
// makes the transition atomic: of any number of concurrent cancels exactly
// one updates the row, the rest see zero rows affected.
func (r *OrderRepository) Cancel(ctx context.Context, id string, cancelTime time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, cancel_time = $2
		WHERE id = $3 AND status = $4`

	ct, err := r.db.Exec(ctx, query, domain.OrderStatusCancelled, cancelTime, id, domain.OrderStatusConfirmed)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.Conflict("order is already cancelled")
	}

	return nil
}
