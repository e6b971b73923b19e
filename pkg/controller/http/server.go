package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opsdesk/demandflow/pkg/usecase"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(actorContext)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	r.Route("/api/v1/demands", func(r chi.Router) {
		r.Post("/", s.createDemand)
		r.Get("/", s.listDemands)

		r.Route("/{demandID}", func(r chi.Router) {
			r.Get("/", s.getDemand)
			r.Post("/submit", s.submitDemand)
			r.Post("/status", s.changeStatus)
			r.Post("/approvals", s.recordApproval)
			r.Post("/input-requests", s.requestInput)
			r.Put("/risk-assessment", s.assessRisk)
			r.Get("/risk-assessment", s.getRiskAssessment)
			r.Get("/actions", s.listActions)
			r.Get("/history", s.listHistory)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
