package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	accountcontroller "travelbook/internal/account/controller"
	commentcontroller "travelbook/internal/comment/controller"
	"travelbook/internal/domain"
	"travelbook/internal/metrics"
	ordercontroller "travelbook/internal/order/controller"
	plancontroller "travelbook/internal/plan/controller"
	"travelbook/internal/session"
	statscontroller "travelbook/internal/statistics/controller"
)

type Controllers struct {
	Accounts   *accountcontroller.AccountController
	Plans      *plancontroller.PlanController
	Orders     *ordercontroller.OrderController
	Comments   *commentcontroller.CommentController
	Statistics *statscontroller.StatisticsController
}

func NewRouter(c Controllers, sessions *session.Store, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.Handler())

	staff := session.RequireRole(domain.RoleStaff)

	r.Route("/api", func(r chi.Router) {
		r.Use(session.Authenticate(sessions, logger))

		r.Post("/register", c.Accounts.Register)
		r.Post("/login", c.Accounts.Login)
		r.With(session.RequireSession).Post("/logout", c.Accounts.Logout)
		r.With(staff).Post("/staff/verify", c.Accounts.Verify)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", c.Plans.List)
			r.Get("/search", c.Plans.List)
			r.Get("/{planId}", c.Plans.Get)
			r.With(staff).Post("/", c.Plans.Create)
			r.With(staff).Put("/{planId}", c.Plans.Update)
			r.With(staff).Patch("/{planId}/status", c.Plans.ToggleStatus)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(session.RequireSession)
			r.Get("/", c.Orders.List)
			r.Post("/", c.Orders.Place)
			r.Get("/{orderId}", c.Orders.Get)
			r.With(staff).Put("/{orderId}", c.Orders.Update)
			r.Put("/{orderId}/status", c.Orders.SetStatus)
			r.Post("/{orderId}/pay", c.Orders.Pay)
			r.With(staff).Patch("/{orderId}/process", c.Orders.Process)
			r.Patch("/{orderId}/cancel", c.Orders.Cancel)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", c.Comments.List)
			r.Get("/{commentId}", c.Comments.Get)
			r.With(session.RequireSession).Post("/", c.Comments.Create)
			r.With(staff).Put("/{commentId}", c.Comments.Update)
			r.With(staff).Delete("/{commentId}", c.Comments.Delete)
		})

		r.Route("/statistics", func(r chi.Router) {
			r.Use(staff)
			r.Get("/popular-plans", c.Statistics.PopularPlans)
			r.Get("/profit-plans", c.Statistics.ProfitablePlans)
			r.Get("/famous-places", c.Statistics.PopularLocations)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
