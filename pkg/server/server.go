package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/flowmap/pkg/buildinfo"
	"github.com/matzehuels/flowmap/pkg/dimension"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/observability"
	"github.com/matzehuels/flowmap/pkg/render"
	"github.com/matzehuels/flowmap/pkg/storage"
)

// Options configures a [Server]. Zero fields take defaults.
type Options struct {
	Sizes       *dimension.Registry
	Theme       render.Theme
	Logger      *log.Logger
	CORSOrigins []string // allowed origins; none disables CORS headers

	// Editor options applied to every mutation, e.g. a fixed clock in tests.
	EditorOptions []flowchart.Option
}

// Server serves the flowchart API.
type Server struct {
	repo    *storage.Repository
	sizes   *dimension.Registry
	theme   render.Theme
	logger  *log.Logger
	origins []string
	edit    []flowchart.Option
	locks   *keyedMutex
}

// New creates a server backed by repo.
func New(repo *storage.Repository, opts Options) *Server {
	s := &Server{
		repo:    repo,
		sizes:   opts.Sizes,
		theme:   opts.Theme.WithDefaults(),
		logger:  opts.Logger,
		origins: opts.CORSOrigins,
		locks:   newKeyedMutex(),
	}
	if s.sizes == nil {
		s.sizes = dimension.NewRegistry(nil)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.edit = append([]flowchart.Option{flowchart.WithSizes(s.sizes)}, opts.EditorOptions...)
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)

	r.Route("/api/v1/flowcharts", func(r chi.Router) {
		r.Get("/", s.listDocuments)

		r.Route("/{doc}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Put("/", s.putDocument)
			r.Delete("/", s.deleteDocument)
			r.Put("/title", s.setTitle)
			r.Post("/clear", s.clear)

			r.Post("/nodes", s.addNode)
			r.Route("/nodes/{id}", func(r chi.Router) {
				r.Delete("/", s.deleteNode)
				r.Patch("/label", s.setLabel)
				r.Patch("/size", s.resize)
				r.Patch("/completion", s.setCompletion)
				r.Patch("/position", s.move)
				r.Patch("/parent", s.setParent)
				r.Patch("/ext", s.setExtension)
				r.Get("/relations", s.relations)
			})

			r.Post("/edges", s.connect)
			r.Delete("/edges/{id}", s.deleteEdge)

			r.Get("/stats", s.stats)
			r.Get("/check", s.check)
			r.Get("/export", s.export)
			r.Post("/import", s.putDocument)
			r.Get("/render.{format}", s.render)
		})
	})

	return r
}

// requestLogger attaches a request-scoped logger to the context, logs each
// request and reports it to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		l := s.logger.With("request_id", chimiddleware.GetReqID(r.Context()))
		ctx := logging.WithLogger(r.Context(), l)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, route)
		hooks.OnResponse(ctx, r.Method, route, ww.Status(), time.Since(start))

		l.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}
