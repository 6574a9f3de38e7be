package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xdf2508/e-family/pkg/health"
	"github.com/xdf2508/e-family/pkg/middleware"

	"github.com/xdf2508/e-family/internal/auth"
	"github.com/xdf2508/e-family/internal/repository"
	"github.com/xdf2508/e-family/internal/service"
)

const serviceName = "homestay-api"

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Users     *service.UserService
	Catalog   *service.CatalogService
	Orders    *service.OrderService
	Favorites *service.FavoriteService

	Tokens   *auth.JWTManager
	UserRepo repository.UserRepository

	Health *health.Handler
	CORS   middleware.CORSConfig
	Logger *slog.Logger

	// Per-client throttle on the login route.
	LoginRateRPS   int
	LoginRateBurst int
}

// NewRouter creates a chi router with all booking API routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authMW := middleware.Auth(sessionValidator(deps.Tokens, deps.UserRepo))
	loginLimiter := middleware.RateLimit(deps.LoginRateRPS, deps.LoginRateBurst, deps.Logger)

	userHandler := NewUserHandler(deps.Users, deps.Logger)
	roomHandler := NewRoomHandler(deps.Catalog, deps.Logger)
	orderHandler := NewOrderHandler(deps.Orders, deps.Logger)
	favoriteHandler := NewFavoriteHandler(deps.Favorites, deps.Logger)

	r.Route("/api/user", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(loginLimiter).Post("/wechat-login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Get("/info", userHandler.GetProfile)
			r.Put("/update", userHandler.UpdateProfile)
			r.Post("/update-nickname", userHandler.UpdateNickname)
		})
	})

	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", roomHandler.ListRooms)
		r.Get("/{id}", roomHandler.GetRoom)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)

		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Post("/{id}/cancel", orderHandler.CancelOrder)
	})

	r.Route("/api/favorites", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)

		r.Get("/", favoriteHandler.ListFavorites)
		r.Post("/", favoriteHandler.AddFavorite)
		r.Delete("/{id}", favoriteHandler.RemoveFavorite)
	})

	return r
}

// sessionValidator bridges JWT validation and user lookup into the auth
// middleware. The account lookup keeps deleted users out even while their
// token is still within its validity window.
func sessionValidator(tokens *auth.JWTManager, users repository.UserRepository) middleware.TokenValidator {
	return func(ctx context.Context, token string) (*middleware.Claims, error) {
		claims, err := tokens.Validate(token)
		if err != nil {
			return nil, err
		}

		user, err := users.GetByOpenID(ctx, claims.OpenID)
		if err != nil {
			return nil, err
		}

		return &middleware.Claims{
			UserID: user.ID,
			OpenID: user.OpenID,
		}, nil
	}
}
