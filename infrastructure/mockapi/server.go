// Package mockapi is an in-memory stand-in for the annotation platform's
// REST API. It backs the client's tests and the mockapi binary for offline
// runs. It keeps just enough behaviour for the client to be exercised end
// to end: bearer authentication, validation, ownership checks and simple
// deterministic analysis.
package mockapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"ianct-client/domain/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	// Secret signs issued tokens.
	Secret string
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// Seed loads the sample users, texts and models.
	Seed bool
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

type user struct {
	profile  models.UserProfile
	password string
}

// Server holds the in-memory backend state.
type Server struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	seq       int64
	users     map[int64]*user
	texts     map[int64]*models.Text
	entities  map[int64]*models.Entity
	relations map[int64]*models.Relation
	sections  map[int64]*models.Section
	projects  map[int64]*models.Project
	modelCfgs map[int64]*models.ModelConfig
	markers   map[int64]*models.GeoMarker
	jobs      []models.ModelJob

	failMu   sync.RWMutex
	failures map[string]int
	hits     map[string]int
}

// New creates a server.
func New(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Secret == "" {
		opts.Secret = "mockapi-development-secret"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		opts:      opts,
		logger:    logger.Named("mockapi"),
		now:       time.Now,
		users:     make(map[int64]*user),
		texts:     make(map[int64]*models.Text),
		entities:  make(map[int64]*models.Entity),
		relations: make(map[int64]*models.Relation),
		sections:  make(map[int64]*models.Section),
		projects:  make(map[int64]*models.Project),
		modelCfgs: make(map[int64]*models.ModelConfig),
		markers:   make(map[int64]*models.GeoMarker),
		failures:  make(map[string]int),
		hits:      make(map[string]int),
	}
	if opts.Seed {
		s.seed()
	}
	return s
}

func (s *Server) nextID() int64 {
	s.seq++
	return s.seq
}

func key(method, pattern string) string {
	return method + " " + pattern
}

// Fail makes every request to method+pattern answer status until Clear is
// called. pattern is the route as registered, e.g. "/analysis/{textId}/insights".
func (s *Server) Fail(method, pattern string, status int) {
	s.failMu.Lock()
	s.failures[key(method, pattern)] = status
	s.failMu.Unlock()
}

// Clear removes an injected failure.
func (s *Server) Clear(method, pattern string) {
	s.failMu.Lock()
	delete(s.failures, key(method, pattern))
	s.failMu.Unlock()
}

// Hits returns how many requests reached method+pattern.
func (s *Server) Hits(method, pattern string) int {
	s.failMu.RLock()
	defer s.failMu.RUnlock()
	return s.hits[key(method, pattern)]
}

// TotalHits returns the number of requests served by any route.
func (s *Server) TotalHits() int {
	s.failMu.RLock()
	defer s.failMu.RUnlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// ResetHits zeroes the request counters.
func (s *Server) ResetHits() {
	s.failMu.Lock()
	s.hits = make(map[string]int)
	s.failMu.Unlock()
}

// route wraps h with hit counting and failure injection.
func (s *Server) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	k := key(method, pattern)
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.failMu.Lock()
		s.hits[k]++
		status, fail := s.failures[k]
		s.failMu.Unlock()
		if fail {
			respondError(w, status, fmt.Sprintf("injected failure for %s", k))
			return
		}
		h(w, req)
	}))
}

// Handler returns the HTTP handler serving the API under /api.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api", func(r chi.Router) {
		s.route(r, http.MethodPost, "/auth/login", s.login)
		s.route(r, http.MethodPost, "/auth/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			s.route(r, http.MethodGet, "/auth/current", s.currentUser)
			s.route(r, http.MethodGet, "/user/me", s.currentUser)
			s.route(r, http.MethodPut, "/user/email", s.updateEmail)
			s.route(r, http.MethodPut, "/user/password", s.changePassword)

			s.route(r, http.MethodGet, "/texts", s.listTexts)
			s.route(r, http.MethodPost, "/texts", s.uploadText)
			s.route(r, http.MethodGet, "/texts/search", s.searchTexts)
			s.route(r, http.MethodGet, "/texts/{id}", s.getText)
			s.route(r, http.MethodPut, "/texts/{id}", s.updateText)
			s.route(r, http.MethodPatch, "/texts/{id}/category", s.updateCategory)
			s.route(r, http.MethodDelete, "/texts/{id}", s.deleteText)
			s.route(r, http.MethodGet, "/texts/{id}/export", s.exportText)
			s.route(r, http.MethodGet, "/texts/{id}/sections", s.listSections)
			s.route(r, http.MethodPost, "/texts/{id}/sections/auto", s.autoSegment)
			s.route(r, http.MethodPut, "/sections/{id}", s.updateSection)

			s.route(r, http.MethodGet, "/annotations/entities", s.listEntities)
			s.route(r, http.MethodPost, "/annotations/entities", s.createEntity)
			s.route(r, http.MethodDelete, "/annotations/entities/{id}", s.deleteEntity)
			s.route(r, http.MethodGet, "/annotations/relations", s.listRelations)
			s.route(r, http.MethodPost, "/annotations/relations", s.createRelation)
			s.route(r, http.MethodDelete, "/annotations/relations/{id}", s.deleteRelation)

			s.route(r, http.MethodPost, "/analysis/{textId}/classify", s.classify)
			s.route(r, http.MethodPost, "/analysis/{textId}/auto-annotate", s.autoAnnotate)
			s.route(r, http.MethodGet, "/analysis/{textId}/insights", s.insights)
			s.route(r, http.MethodPost, "/analysis/{textId}/full", s.fullAnalysis)

			s.route(r, http.MethodPost, "/geo/locate", s.locate)
			s.route(r, http.MethodPost, "/geo/marker", s.saveMarker)
			s.route(r, http.MethodGet, "/geo/markers/{textId}", s.listMarkers)
			s.route(r, http.MethodDelete, "/geo/marker/{textId}/{entityId}", s.deleteMarker)

			s.route(r, http.MethodGet, "/models", s.enabledModels)
			s.route(r, http.MethodGet, "/navigation/tree", s.navigationTree)
			s.route(r, http.MethodGet, "/dashboard/overview", s.overview)

			s.route(r, http.MethodGet, "/projects/mine", s.myProjects)
			s.route(r, http.MethodPost, "/projects", s.createProject)
			s.route(r, http.MethodGet, "/projects/{id}", s.getProject)
			s.route(r, http.MethodDelete, "/projects/{id}", s.deleteProject)
			s.route(r, http.MethodPost, "/projects/{id}/members", s.addMember)
			s.route(r, http.MethodDelete, "/projects/{id}/members", s.removeMember)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				s.route(r, http.MethodGet, "/users", s.listUsers)
				s.route(r, http.MethodPost, "/users", s.createUser)
				s.route(r, http.MethodPatch, "/users/{id}/status", s.updateUserStatus)

				s.route(r, http.MethodGet, "/models/all", s.allModels)
				s.route(r, http.MethodPost, "/models", s.createModel)
				s.route(r, http.MethodPut, "/models/{id}", s.updateModel)
				s.route(r, http.MethodDelete, "/models/{id}", s.deleteModel)

				s.route(r, http.MethodGet, "/dashboard/admin-overview", s.adminOverview)
			})
		})
	})

	return router
}
