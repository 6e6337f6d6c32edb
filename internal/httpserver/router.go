package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/coroadoradores/portal/internal/config"
	"github.com/coroadoradores/portal/internal/httpserver/csrf"
	"github.com/coroadoradores/portal/internal/httpserver/ratelimit"
	"github.com/coroadoradores/portal/internal/metrics"
	"github.com/coroadoradores/portal/internal/session"
	"github.com/coroadoradores/portal/internal/ui"
)

// NewRouter wires all HTTP routes for the public site and the member portal.
func NewRouter(cfg *config.Config, log *zap.Logger, sessions *session.Manager, uiHandler *ui.Handler) http.Handler {
	r := chi.NewRouter()

	// Auth endpoints: 5 requests per second, burst of 10
	authRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(overrideMethod)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	// Public pages render an authenticated variant when a session exists.
	r.Group(func(r chi.Router) {
		r.Use(sessions.Attach)
		r.Use(csrf.Middleware(cfg))

		r.Get("/", uiHandler.Home)
		r.Get("/ensayos", uiHandler.Rehearsals)
		r.Get("/contrataciones", uiHandler.Hiring)

		r.Group(func(r chi.Router) {
			r.Use(authRateLimiter.Middleware())
			r.Get("/login", uiHandler.LoginForm)
			r.Post("/login", uiHandler.Login)
			r.Get("/registro", uiHandler.RegisterForm)
			r.Post("/registro", uiHandler.Register)
		})
	})

	// Member portal.
	r.Group(func(r chi.Router) {
		r.Use(sessions.Require)
		r.Use(csrf.Middleware(cfg))

		r.Post("/logout", uiHandler.Logout)
		r.Get("/perfil", uiHandler.Profile)

		r.Get("/calendario", uiHandler.Calendar)
		r.Get("/citas/nueva", uiHandler.NewAppointmentForm)
		r.Post("/citas", uiHandler.CreateAppointment)
		r.Get("/citas/{id}", uiHandler.AppointmentDetail)
		r.Post("/citas/{id}/eliminar", uiHandler.DeleteAppointment)
		r.Get("/citas/{id}/recibo", uiHandler.ReceiptPage)
		r.Get("/citas/{id}/recibo.pdf", uiHandler.ReceiptPDF)

		r.Get("/api/calendario/semana", uiHandler.WeekJSON)
	})

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func overrideMethod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		if r.Method == http.MethodPost {
			if m := strings.TrimSpace(r.PostFormValue("_method")); m != "" {
				method = m
			} else if m := strings.TrimSpace(r.URL.Query().Get("_method")); m != "" {
				method = m
			}
		}
		switch strings.ToUpper(method) {
		case http.MethodPut, http.MethodDelete:
			r.Method = strings.ToUpper(method)
		}
		next.ServeHTTP(w, r)
	})
}
