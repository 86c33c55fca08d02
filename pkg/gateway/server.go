package gateway

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/integrations/gitlab"
	"github.com/matzehuels/javelin/pkg/integrations/nexus"
)

const shutdownTimeout = 5 * time.Second

// Registry is the artifact search upstream.
type Registry interface {
	Search(ctx context.Context, opts nexus.SearchOpts, refresh bool) ([]nexus.Item, error)
}

// Repositories is the source repository upstream.
type Repositories interface {
	Projects(ctx context.Context, refresh bool) ([]gitlab.Project, error)
	Tree(ctx context.Context, projectID, path string, refresh bool) ([]gitlab.TreeItem, error)
	RawFile(ctx context.Context, projectID, path string, refresh bool) (string, error)
}

// Options configures a [Server].
type Options struct {
	// SearchRepositories are queried concurrently for every search without
	// an explicit repository, release repository first.
	SearchRepositories []string

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server is the javelin HTTP gateway.
type Server struct {
	registry Registry
	repos    Repositories
	searchIn []string
	logger   *log.Logger
	handler  http.Handler
}

// New creates a gateway over the given upstreams.
func New(registry Registry, repos Repositories, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		registry: registry,
		repos:    repos,
		searchIn: opts.SearchRepositories,
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/api/nexus/search", s.handleSearch)
	r.Get("/api/nexus/dependency", s.handleDependency)
	r.Get("/api/gitlab/projects", s.handleProjects)
	r.Get("/api/gitlab/projects/{id}/repository/tree", s.handleTree)
	r.Get("/api/gitlab/projects/{id}/repository/files/raw", s.handleRawFile)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: errors.ErrCodeNotFound, Error: "no route for " + r.URL.Path})
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info("gateway listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if err == nil || stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
