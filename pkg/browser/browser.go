package browser

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/observability"
)

// ErrBusy is returned when a navigation is requested while another one is
// still fetching.
var ErrBusy = stderrors.New("navigation already in progress")

// Backend is the repository API the browser reads from.
type Backend interface {
	// Tree lists the direct children of path ("" for the root).
	Tree(ctx context.Context, repositoryID, path string) ([]Node, error)

	// RawFile returns the raw contents of the file at path.
	RawFile(ctx context.Context, repositoryID, path string) (string, error)
}

// Perform executes eff against backend and returns the completion event.
// Paths are validated before any request is sent. Perform returns nil for
// [None].
func Perform(ctx context.Context, backend Backend, eff Effect) Event {
	switch eff := eff.(type) {
	case FetchListing:
		if err := errors.ValidatePath(eff.Path); err != nil {
			return ListingFailed{ID: eff.ID, Err: err}
		}
		nodes, err := backend.Tree(ctx, eff.RepositoryID, eff.Path)
		if err != nil {
			return ListingFailed{ID: eff.ID, Err: err}
		}
		return ListingLoaded{ID: eff.ID, Nodes: nodes}

	case FetchContent:
		if err := errors.ValidatePath(eff.Node.Path); err != nil {
			return ContentFailed{ID: eff.ID, Err: err}
		}
		content, err := backend.RawFile(ctx, eff.RepositoryID, eff.Node.Path)
		if err != nil {
			return ContentFailed{ID: eff.ID, Err: err}
		}
		return ContentLoaded{ID: eff.ID, Content: content}
	}
	return nil
}

// Browser drives the state machine against a Backend, one navigation at a
// time. Each method blocks until every fetch the navigation triggers has
// completed, including the README preview after Open.
//
// Browser is safe for concurrent use; a navigation requested while another
// is in flight fails with [ErrBusy] and leaves the state unchanged.
type Browser struct {
	backend Backend
	logger  *log.Logger

	mu    sync.Mutex
	state State
	busy  bool
}

// New creates a closed browser. A nil logger discards log output.
func New(backend Backend, logger *log.Logger) *Browser {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Browser{backend: backend, logger: logger}
}

// State returns a snapshot of the current state.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.clone()
}

// Open starts browsing repositoryID at its root.
func (b *Browser) Open(ctx context.Context, repositoryID string) (State, error) {
	if err := errors.ValidateRepositoryID(repositoryID); err != nil {
		return b.State(), err
	}
	return b.dispatch(ctx, "open", repositoryID, Open{RepositoryID: repositoryID})
}

// Descend enters the directory node.
func (b *Browser) Descend(ctx context.Context, node Node) (State, error) {
	return b.dispatch(ctx, "descend", node.Path, Descend{Node: node})
}

// OpenFile shows the file node.
func (b *Browser) OpenFile(ctx context.Context, node Node) (State, error) {
	return b.dispatch(ctx, "open_file", node.Path, OpenFile{Node: node})
}

// Back leaves FileView or moves to the parent directory.
func (b *Browser) Back(ctx context.Context) (State, error) {
	return b.dispatch(ctx, "back", "", Back{})
}

// BreadcrumbJump moves to the ancestor directory path ("" for the root).
func (b *Browser) BreadcrumbJump(ctx context.Context, path string) (State, error) {
	if err := errors.ValidatePath(path); err != nil {
		return b.State(), err
	}
	return b.dispatch(ctx, "jump", path, BreadcrumbJump{Path: path})
}

// Close discards all state. It never fails, even while a fetch is in
// flight; that fetch's result is dropped.
func (b *Browser) Close() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state, _ = Transition(b.state, Close{})
	return b.state.clone()
}

func (b *Browser) dispatch(ctx context.Context, action, path string, ev Event) (State, error) {
	b.mu.Lock()
	if b.busy {
		st := b.state.clone()
		b.mu.Unlock()
		return st, ErrBusy
	}
	next, eff := Transition(b.state, ev)
	b.state = next
	if _, idle := eff.(None); idle {
		st := b.state.clone()
		b.mu.Unlock()
		return st, nil
	}
	b.busy = true
	b.mu.Unlock()

	start := time.Now()
	var failure error
	for {
		done := Perform(ctx, b.backend, eff)
		failure = completionError(done, eff)

		b.mu.Lock()
		b.state, eff = Transition(b.state, done)
		b.mu.Unlock()

		if _, idle := eff.(None); idle {
			break
		}
	}

	b.mu.Lock()
	b.busy = false
	st := b.state.clone()
	b.mu.Unlock()

	observability.Browser().OnNavigate(ctx, st.RepositoryID, action, path, time.Since(start), failure)
	if failure != nil {
		b.logger.Debug("navigation failed", "action", action, "path", path, "error", failure)
	}
	return st, failure
}

// completionError reports the error a caller should see. A failed README
// preview is silent.
func completionError(ev Event, eff Effect) error {
	switch ev := ev.(type) {
	case ListingFailed:
		return ev.Err
	case ContentFailed:
		if fc, ok := eff.(FetchContent); ok && fc.Auto {
			return nil
		}
		return ev.Err
	}
	return nil
}
