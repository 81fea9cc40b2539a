package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/usecase"
)

type Server struct {
	router   *chi.Mux
	verifier *TokenVerifier
}

type Options func(*Server)

// WithTokenVerifier enables bearer-token authentication on the mutating
// endpoints. Without it the server refuses all mutations.
func WithTokenVerifier(verifier *TokenVerifier) Options {
	return func(s *Server) {
		s.verifier = verifier
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	r.Get("/health", healthHandler)

	r.Route("/api/v1/alerts", func(r chi.Router) {
		// citizen-facing reads and engagement counters
		r.Get("/", listAlertsHandler(uc))
		r.Get("/active", activeAlertsHandler(uc))
		r.Get("/relevant", relevantAlertsHandler(uc))
		r.Get("/{alertID}", getAlertHandler(uc))
		r.Get("/{alertID}/children", childAlertsHandler(uc))
		r.Post("/{alertID}/view", metricHandler(uc, types.MetricView))
		r.Post("/{alertID}/acknowledge", metricHandler(uc, types.MetricAcknowledgment))
		r.Post("/{alertID}/share", metricHandler(uc, types.MetricShare))

		// official-only mutations
		r.Group(func(r chi.Router) {
			if s.verifier != nil {
				r.Use(requireOfficial(s.verifier))
			} else {
				r.Use(denyMutations)
			}

			r.Post("/", createAlertHandler(uc))
			r.Post("/{alertID}/activate", activateAlertHandler(uc))
			r.Post("/{alertID}/cancel", cancelAlertHandler(uc))
			r.Post("/{alertID}/extend", extendAlertHandler(uc))
			r.Post("/{alertID}/content", updateContentHandler(uc))
			r.Post("/{alertID}/archive", archiveAlertHandler(uc))
		})
	})

	return s
}

func denyMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "authentication is not configured", http.StatusUnauthorized)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
