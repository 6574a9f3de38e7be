package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xdf2508/e-family/pkg/httputil"
	"github.com/xdf2508/e-family/pkg/middleware"
	"github.com/xdf2508/e-family/pkg/validator"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/service"
)

const dateLayout = "2006-01-02"

// OrderHandler handles HTTP requests for booking endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateOrderRequest is the JSON request body for creating a booking. Dates
// use the YYYY-MM-DD format.
type CreateOrderRequest struct {
	RoomID       int    `json:"roomId" validate:"required,gt=0"`
	CheckInDate  string `json:"checkInDate" validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate string `json:"checkOutDate" validate:"omitempty,datetime=2006-01-02"`
	Nights       *int   `json:"nights" validate:"omitempty,gte=1"`
	GuestName    string `json:"guestName"`
	GuestPhone   string `json:"guestPhone"`
}

// --- Handlers ---

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Code:    "INVALID_INPUT",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.CreateOrderInput{
		RoomID:     req.RoomID,
		Nights:     req.Nights,
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
	}
	if req.CheckInDate != "" {
		input.CheckInDate, _ = time.Parse(dateLayout, req.CheckInDate)
	}
	if req.CheckOutDate != "" {
		input.CheckOutDate, _ = time.Parse(dateLayout, req.CheckOutDate)
	}

	userID := middleware.UserIDFromContext(r.Context())
	order, err := h.service.CreateOrder(r.Context(), userID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "order created", order)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != domain.OrderStatusConfirmed && status != domain.OrderStatusCancelled {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Code:    "INVALID_PARAMETER",
			Message: "status must be confirmed or cancelled",
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	orders, err := h.service.ListOrders(r.Context(), userID, status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", orders)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", order)
}

// CancelOrder handles POST /api/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.CancelOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "order cancelled", order)
}
