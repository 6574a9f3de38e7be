// Package http exposes the booking API over HTTP using chi.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/xdf2508/e-family/pkg/httputil"
	"github.com/xdf2508/e-family/pkg/middleware"
	"github.com/xdf2508/e-family/pkg/validator"

	"github.com/xdf2508/e-family/internal/service"
)

// UserHandler handles HTTP requests for login and profile endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// LoginRequest is the JSON request body for the credential exchange.
type LoginRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// UpdateProfileRequest is the JSON request body for a partial profile update.
type UpdateProfileRequest struct {
	UserName *string `json:"userName"`
	Avatar   *string `json:"avatar"`
	Phone    *string `json:"phone"`
}

// UpdateNicknameRequest is the JSON request body for a nickname change.
type UpdateNicknameRequest struct {
	NickName string `json:"nickName" validate:"required"`
}

// --- Handlers ---

// Login handles POST /api/user/wechat-login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req LoginRequest
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

	result, err := h.service.Login(r.Context(), req.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "login successful", result)
}

// GetProfile handles GET /api/user/info
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	openid := middleware.OpenIDFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), openid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", user)
}

// UpdateProfile handles PUT /api/user/update
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Code:    "INVALID_INPUT",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	openid := middleware.OpenIDFromContext(r.Context())
	user, err := h.service.UpdateProfile(r.Context(), openid, service.UpdateProfileInput{
		UserName: req.UserName,
		Avatar:   req.Avatar,
		Phone:    req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "profile updated", user)
}

// UpdateNickname handles POST /api/user/update-nickname
func (h *UserHandler) UpdateNickname(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateNicknameRequest
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

	openid := middleware.OpenIDFromContext(r.Context())
	user, err := h.service.UpdateNickname(r.Context(), openid, req.NickName)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "nickname updated", user)
}
