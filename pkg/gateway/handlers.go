package gateway

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/integrations"
	"github.com/matzehuels/javelin/pkg/integrations/maven"
	"github.com/matzehuels/javelin/pkg/integrations/nexus"
)

type searchResponse struct {
	Items []nexus.Item `json:"items"`
}

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group, name := strings.TrimSpace(q.Get("group")), strings.TrimSpace(q.Get("name"))
	query := strings.TrimSpace(q.Get("q"))
	repository := strings.TrimSpace(q.Get("repository"))

	opts := nexus.SearchOpts{Query: query}
	if q.Has("group") || q.Has("name") {
		if err := errors.ValidateCoordinate(group, name, "", false); err != nil {
			s.writeError(w, r, err)
			return
		}
		opts = nexus.SearchOpts{Group: group, Name: name}
	}

	repos := s.searchIn
	if repository != "" && !opts.Exact() {
		repos = []string{repository}
	}
	if len(repos) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidConfig, "no search repositories configured"))
		return
	}

	items, err := s.searchAll(r.Context(), repos, opts, refresh(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Items: items})
}

// searchAll queries repos concurrently and concatenates the results in repos
// order without duplicates. A failing repository counts as empty unless
// every repository fails.
func (s *Server) searchAll(ctx context.Context, repos []string, opts nexus.SearchOpts, refresh bool) ([]nexus.Item, error) {
	results := make([][]nexus.Item, len(repos))
	var (
		mu       sync.Mutex
		failures []error
	)

	var g errgroup.Group
	for i, repo := range repos {
		g.Go(func() error {
			o := opts
			o.Repository = repo
			items, err := s.registry.Search(ctx, o, refresh)
			if err != nil {
				s.logger.Warn("registry search failed", "repository", repo, "error", err, "request_id", RequestID(ctx))
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == len(repos) {
		return nil, stderrors.Join(failures...)
	}

	var all []nexus.Item
	for _, items := range results {
		all = append(all, items...)
	}
	return nexus.Dedupe(all), nil
}

func (s *Server) handleDependency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := maven.Coordinate{
		GroupID:    strings.TrimSpace(q.Get("g")),
		ArtifactID: strings.TrimSpace(q.Get("a")),
		Version:    strings.TrimSpace(q.Get("v")),
	}
	if err := errors.ValidateCoordinate(c.GroupID, c.ArtifactID, c.Version, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	snippets, err := maven.Render(c)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "invalid coordinate %s", c))
		return
	}
	writeJSON(w, http.StatusOK, snippets)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.repos.Projects(r.Context(), refresh(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	id, path, ok := s.repositoryParams(w, r)
	if !ok {
		return
	}
	items, err := s.repos.Tree(r.Context(), id, path, refresh(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRawFile(w http.ResponseWriter, r *http.Request) {
	id, path, ok := s.repositoryParams(w, r)
	if !ok {
		return
	}
	if path == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidPath, "path is required"))
		return
	}
	content, err := s.repos.RawFile(r.Context(), id, path, refresh(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) repositoryParams(w http.ResponseWriter, r *http.Request) (id, path string, ok bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "repository id is not properly escaped")
	} else {
		err = errors.ValidateRepositoryID(id)
	}
	if err != nil {
		s.writeError(w, r, err)
		return "", "", false
	}
	path = strings.Trim(r.URL.Query().Get("path"), "/")
	if err := errors.ValidatePath(path); err != nil {
		s.writeError(w, r, err)
		return "", "", false
	}
	return id, path, true
}

func refresh(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return v
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("upstream request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorBody{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}

// classify attaches an error code to upstream failures.
func classify(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "upstream timed out")
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "not found upstream")
	case stderrors.Is(err, integrations.ErrUnauthorized):
		return errors.Wrap(errors.ErrCodeUnauthorized, err, "upstream rejected the configured credentials")
	case stderrors.Is(err, integrations.ErrUnexpectedContent):
		return errors.Wrap(errors.ErrCodeUpstream, err, "upstream answered with unexpected content; check the configured URL and credentials")
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "upstream request failed")
	}
}
