package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/bestcdn-board/internal/console/handler"
	"github.com/xela07ax/bestcdn-board/internal/infra"
	"go.uber.org/zap"
)

type DashboardServer struct {
	router  *chi.Mux
	logger  *zap.Logger
	cfg     infra.ServerConfig
	metrics *infra.Metrics

	dashHandler *handler.DashboardHandler // /, /api/v1/dashboard
}

// NewDashboardServer инициализирует публичный сервер дашборда
func NewDashboardServer(
	cfg infra.ServerConfig,
	logger *zap.Logger,
	metrics *infra.Metrics,
	dashH *handler.DashboardHandler,
) *DashboardServer {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	s := &DashboardServer{
		router:      chi.NewRouter(),
		logger:      logger.Named("dashboard-api"),
		cfg:         cfg,
		metrics:     metrics,
		dashHandler: dashH,
	}

	s.routes()
	return s
}

func (s *DashboardServer) routes() {
	r := s.router

	// Порядок важен: ID -> метрики/лог -> recover -> лимит
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TracingMiddleware)
	r.Use(ObserveMiddleware(s.metrics, s.logger))
	r.Use(RecoverMiddleware(s.logger))

	r.Get("/health", s.dashHandler.Health)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))

		r.Get("/", s.dashHandler.Page)
		r.Get("/api/v1/dashboard", s.dashHandler.ViewJSON)
	})
}

// ServeHTTP позволяет использовать DashboardServer как стандартный http.Handler
func (s *DashboardServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
