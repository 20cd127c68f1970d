package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/usecase"
)

// EventSink receives status-change events that passed the trigger's filters
type EventSink func(ctx context.Context, event *model.StatusChangeEvent) error

// Server routes the adapter's HTTP surface: option loaders and actions for
// the workflow host, and the inbound webhook receiver.
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	repo   interfaces.Repository

	triggerScope  types.TriggerScope
	triggerFilter *model.SubscriptionFilter
	sink          EventSink
}

// Option configures the server
type Option func(*Server)

// WithTrigger wires the status-change trigger: inbound deliveries for the
// scope are matched against the filter
func WithTrigger(scope types.TriggerScope, filter *model.SubscriptionFilter) Option {
	return func(s *Server) {
		s.triggerScope = scope
		s.triggerFilter = filter
	}
}

// WithEventSink sets where emitted events go
func WithEventSink(sink EventSink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// New creates a new HTTP server
func New(uc *usecase.UseCases, repo interfaces.Repository, opts ...Option) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/options", func(r chi.Router) {
			r.Get("/boards", s.handleBoardOptions)
			r.Get("/boards/{boardID}/subboards", s.handleSubboardOptions)
			r.Get("/boards/{boardID}/columns", s.handleColumnOptions)
			r.Get("/boards/{boardID}/columns/{columnKey}/labels", s.handleStatusLabelOptions)
		})

		r.Get("/boards/{boardID}/fields", s.handleFieldDescriptors)

		r.Route("/actions", func(r chi.Router) {
			r.Post("/create-projects", s.handleCreateProjects)
			r.Post("/get-projects", s.handleGetProjects)
			r.Post("/switch-clipboard", s.handleSwitchClipboard)
		})
	})

	// Inbound webhook. No host auth; deliveries carry an HMAC signature
	// keyed by the subscription's signing secret.
	r.Post("/hooks/flowoffice", s.handleWebhook)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
