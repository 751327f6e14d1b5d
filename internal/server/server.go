package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/model"
)

// PermissionStore is the persistence behind the permissions API.
type PermissionStore interface {
	Modules(ctx context.Context) ([]model.Module, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	UserPermissions(ctx context.Context, userID int64) ([]model.ModulePermission, error)
	SaveUserPermissions(ctx context.Context, userID int64, perms []model.ModulePermission) error
	// UpdateUserPermissions runs fn on the current grants and stores its
	// result without interleaving with other updates for the same user.
	UpdateUserPermissions(ctx context.Context, userID int64, fn func([]model.ModulePermission) []model.ModulePermission) ([]model.ModulePermission, error)
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
}

// NewRouter builds the HTTP handler for the permissions API.
func NewRouter(store PermissionStore, logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/modules", h.listModules)
	r.Route("/users/{userID}/permissions", func(ur chi.Router) {
		ur.Get("/", h.getPermissions)
		ur.Put("/", h.replacePermissions)
		ur.Put("/{moduleID}", h.setModule)
		ur.Put("/{moduleID}/flags/{flag}", h.setFlag)
	})
	return r
}

// requestLogger logs and records metrics for every request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			elapsed := time.Since(started)
			route := chi.RouteContext(r.Context()).RoutePattern()
			observeRequest(r.Method, route, ww.Status(), elapsed.Seconds())
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route_pattern", route),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
