package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/javelin/pkg/observability"
)

// DefaultDebounce is the coalescing window between the last keystroke and
// the search request.
const DefaultDebounce = 300 * time.Millisecond

// Result is the outcome of one live search request.
type Result struct {
	Generation uint64
	Query      string
	View       GroupView
	Err        error
}

// LiveSearch runs debounced searches as the user types.
//
// Every call to [LiveSearch.Type] starts a new generation and restarts the
// coalescing window; a window that has not fired yet is superseded. When
// the window fires, the query is searched and the result is delivered on
// [LiveSearch.Results] only if no newer generation started in the
// meantime. In-flight requests are not cancelled; their results are
// discarded instead.
type LiveSearch struct {
	client  *Client
	window  time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	results chan Result

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	closed bool
}

// NewLiveSearch creates a live search over client. A window of zero or less
// uses [DefaultDebounce].
func NewLiveSearch(ctx context.Context, client *Client, window time.Duration) *LiveSearch {
	if window <= 0 {
		window = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(ctx)
	return &LiveSearch{
		client:  client,
		window:  window,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 1),
	}
}

// Type records a new query and returns its generation.
func (s *LiveSearch) Type(query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.gen
	}
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() { s.run(gen, query) })
	return gen
}

// Results delivers the latest result. The channel holds at most one value:
// a result not yet received is replaced by a newer one. It is closed by
// [LiveSearch.Close].
func (s *LiveSearch) Results() <-chan Result {
	return s.results
}

// Generation returns the generation of the most recent query.
func (s *LiveSearch) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// IsCurrent reports whether gen is still the latest generation. Consumers
// check it again when applying a result, since typing may have continued
// after delivery.
func (s *LiveSearch) IsCurrent(gen uint64) bool {
	return s.Generation() == gen
}

// Close stops the pending window, abandons in-flight requests and closes
// the results channel. Close is idempotent.
func (s *LiveSearch) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.cancel()
	close(s.results)
}

func (s *LiveSearch) run(gen uint64, query string) {
	if !s.IsCurrent(gen) {
		return
	}

	view, err := s.client.Search(s.ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		observability.Catalog().OnStale(s.ctx, query, gen)
		return
	}

	r := Result{Generation: gen, Query: query, View: view, Err: err}
	for {
		select {
		case s.results <- r:
			return
		default:
		}
		select {
		case <-s.results:
		default:
		}
	}
}
