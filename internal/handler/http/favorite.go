package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xdf2508/e-family/pkg/httputil"
	"github.com/xdf2508/e-family/pkg/middleware"
	"github.com/xdf2508/e-family/pkg/validator"

	"github.com/xdf2508/e-family/internal/service"
)

// FavoriteHandler handles HTTP requests for favorite endpoints.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorite HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: svc,
		logger:  logger,
	}
}

// AddFavoriteRequest is the JSON request body for adding a favorite.
type AddFavoriteRequest struct {
	RoomID int `json:"roomId" validate:"required,gt=0"`
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddFavoriteRequest
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

	userID := middleware.UserIDFromContext(r.Context())
	favorite, err := h.service.AddFavorite(r.Context(), userID, req.RoomID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "favorite added", favorite)
}

// RemoveFavorite handles DELETE /api/favorites/{id}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseRoomID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.RemoveFavorite(r.Context(), userID, roomID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "favorite removed", nil)
}

// ListFavorites handles GET /api/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	favorites, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", favorites)
}
