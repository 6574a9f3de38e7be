package domain

import (
	"math"
	"time"
)

// Order status values. Confirmed orders can transition to cancelled;
// cancelled is terminal.
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// Payment fields carried over from the booking flow: orders are created
// already paid through the in-app wallet.
const (
	PaymentStatusPaid   = "paid"
	PaymentMethodWechat = "wechat"
)

// Order is a room booking with the room details snapshotted at creation time.
type Order struct {
	ID            string     `json:"orderId"`
	UserID        string     `json:"userId"`
	RoomID        int        `json:"roomId"`
	RoomName      string     `json:"roomName"`
	RoomImage     string     `json:"roomImage"`
	CheckInDate   time.Time  `json:"checkInDate"`
	CheckOutDate  time.Time  `json:"checkOutDate"`
	Nights        int        `json:"nights"`
	GuestName     string     `json:"guestName"`
	GuestPhone    string     `json:"guestPhone"`
	TotalPrice    float64    `json:"totalPrice"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentMethod string     `json:"paymentMethod"`
	CreateTime    time.Time  `json:"createTime"`
	CancelTime    *time.Time `json:"cancelTime,omitempty"`
}

// CanCancel reports whether the order is still in a cancellable state.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusConfirmed
}

// NightsBetween returns the number of nights between check-in and check-out,
// rounding partial days up. Returns 0 when check-out is not after check-in.
func NightsBetween(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
