package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xdf2508/e-family/pkg/httputil"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/service"
)

// RoomHandler handles HTTP requests for the room catalog.
type RoomHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewRoomHandler creates a new room HTTP handler.
func NewRoomHandler(catalog *service.CatalogService, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListRooms handles GET /api/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	var filter domain.RoomFilter

	filter.Keyword = r.URL.Query().Get("keyword")
	filter.Tag = r.URL.Query().Get("tag")
	if v := r.URL.Query().Get("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Success: false,
				Code:    "INVALID_PARAMETER",
				Message: "minPrice must be a non-negative number",
			})
			return
		}
		filter.MinPrice = &price
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Success: false,
				Code:    "INVALID_PARAMETER",
				Message: "maxPrice must be a non-negative number",
			})
			return
		}
		filter.MaxPrice = &price
	}

	rooms, err := h.catalog.ListRooms(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", rooms)
}

// GetRoom handles GET /api/rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRoomID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	room, err := h.catalog.GetRoom(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", room)
}

// parseRoomID parses a positive integer room id, writing a 400 response on
// failure.
func parseRoomID(w http.ResponseWriter, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Code:    "INVALID_PARAMETER",
			Message: "room id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
