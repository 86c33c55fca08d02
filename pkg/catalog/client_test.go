package catalog

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/matzehuels/javelin/pkg/errors"
)

type fakeBackend struct {
	mu       sync.Mutex
	records  []Record
	versions []Record
	snippet  Snippet
	err      error
	queries  []string
}

func (f *fakeBackend) Search(_ context.Context, query string) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.records, f.err
}

func (f *fakeBackend) Versions(_ context.Context, group, name string) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, group+":"+name)
	return f.versions, f.err
}

func (f *fakeBackend) Dependency(_ context.Context, group, name, version string) (Snippet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, group+":"+name+":"+version)
	return f.snippet, f.err
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func TestClientSearchQueryLength(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCalls int
		wantCode  errors.Code
	}{
		{"empty lists all", "", 1, ""},
		{"one character", "a", 0, errors.ErrCodeInvalidQuery},
		{"two characters", "ab", 0, errors.ErrCodeInvalidQuery},
		{"two characters padded", "  ab  ", 0, errors.ErrCodeInvalidQuery},
		{"three characters", "abc", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{records: []Record{{Group: "g", Name: "n", Version: "1"}}}
			c := NewClient(b, nil)

			_, err := c.Search(context.Background(), tt.query)
			if b.calls() != tt.wantCalls {
				t.Errorf("backend calls = %d, want %d", b.calls(), tt.wantCalls)
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("error code = %q, want %q (err=%v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestClientSearchEmptyQueryIsSentAsEmpty(t *testing.T) {
	b := &fakeBackend{records: []Record{{Group: "g", Name: "n", Version: "1"}}}
	if _, err := NewClient(b, nil).Search(context.Background(), "   "); err != nil {
		t.Fatal(err)
	}
	if b.queries[0] != "" {
		t.Errorf("query sent = %q, want empty", b.queries[0])
	}
}

func TestClientSearchGroupsAndDropsMalformed(t *testing.T) {
	b := &fakeBackend{records: []Record{
		{Group: "g", Name: "n"},
		{Group: "g", Name: "n", Version: "1.0"},
		{Group: "g", Name: "n", Version: "1.10", Repository: "maven-snapshots"},
		{Group: "g", Name: "n", Version: "1.9"},
		{Group: "h", Name: "m", Version: "0.1"},
		{Name: "orphan", Version: "1"},
	}}

	view, err := NewClient(b, nil).Search(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(view) != 2 {
		t.Fatalf("len(view) = %d, want 2", len(view))
	}
	if got := view[Key{"g", "n"}]; got.Version != "1.10" || got.Repository != "maven-snapshots" {
		t.Errorf("g:n = %+v", got)
	}
}

func TestClientSearchEmptyResult(t *testing.T) {
	b := &fakeBackend{records: []Record{{Group: "g", Name: "n"}}}

	_, err := NewClient(b, nil).Search(context.Background(), "abc")
	if !errors.Is(err, errors.ErrCodeEmptyResult) {
		t.Errorf("Search() error = %v, want EMPTY_RESULT", err)
	}
}

func TestClientSearchTransportError(t *testing.T) {
	cause := stderrors.New("connection refused")
	b := &fakeBackend{err: cause}

	_, err := NewClient(b, nil).Search(context.Background(), "abc")
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Search() error = %v, want NETWORK_ERROR", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("transport error should wrap its cause")
	}
	if b.calls() != 1 {
		t.Errorf("backend calls = %d, want 1 (no retry)", b.calls())
	}
}

func TestClientExpandVersions(t *testing.T) {
	b := &fakeBackend{versions: []Record{
		{Group: "g", Name: "n", Version: "1.9", Repository: "maven-releases"},
		{Group: "g", Name: "n", Version: "1.10-SNAPSHOT", Repository: "maven-snapshots"},
		{Group: "g", Name: "n"},
		{Group: "g", Name: "other", Version: "9.9"},
		{Group: "g", Name: "n", Version: "1.2", Repository: "maven-releases"},
	}}
	c := NewClient(b, nil)

	history, err := c.ExpandVersions(context.Background(), "g", "n")
	if err != nil {
		t.Fatalf("ExpandVersions() error: %v", err)
	}
	want := []string{"1.10-SNAPSHOT", "1.9", "1.2"}
	got := versions(history)
	if len(got) != len(want) {
		t.Fatalf("ExpandVersions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExpandVersions() = %v, want %v", got, want)
			break
		}
	}

	// No cache: every call refetches.
	if _, err := c.ExpandVersions(context.Background(), "g", "n"); err != nil {
		t.Fatal(err)
	}
	if b.calls() != 2 {
		t.Errorf("backend calls = %d, want 2", b.calls())
	}
}

func TestClientExpandVersionsValidation(t *testing.T) {
	b := &fakeBackend{}
	_, err := NewClient(b, nil).ExpandVersions(context.Background(), "", "n")
	if !errors.Is(err, errors.ErrCodeInvalidCoordinate) {
		t.Errorf("error = %v, want INVALID_COORDINATE", err)
	}
	if b.calls() != 0 {
		t.Error("validation failure should not reach the backend")
	}
}

func TestClientExpandVersionsEmpty(t *testing.T) {
	b := &fakeBackend{versions: []Record{{Group: "g", Name: "n"}}}
	history, err := NewClient(b, nil).ExpandVersions(context.Background(), "g", "n")
	if !errors.Is(err, errors.ErrCodeEmptyResult) {
		t.Errorf("error = %v, want EMPTY_RESULT", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %v, want empty", history)
	}
}

func TestClientResolveDependency(t *testing.T) {
	want := Snippet{Maven: "<dependency/>", Gradle: "implementation 'g:n:1'"}
	b := &fakeBackend{snippet: want}

	got := NewClient(b, nil).ResolveDependency(context.Background(), "g", "n", "1")
	if got != want {
		t.Errorf("ResolveDependency() = %+v, want %+v", got, want)
	}
	if !got.Available() {
		t.Error("Available() = false")
	}
}

func TestClientResolveDependencyFailureUsesPlaceholder(t *testing.T) {
	b := &fakeBackend{err: stderrors.New("boom")}

	got := NewClient(b, nil).ResolveDependency(context.Background(), "g", "n", "1")
	if got.Maven != SnippetUnavailable || got.Gradle != SnippetUnavailable {
		t.Errorf("ResolveDependency() = %+v, want placeholders", got)
	}
	if got.Available() {
		t.Error("Available() = true")
	}
}

func TestClientResolveDependencyPartial(t *testing.T) {
	b := &fakeBackend{snippet: Snippet{Maven: "<dependency/>"}}

	got := NewClient(b, nil).ResolveDependency(context.Background(), "g", "n", "1")
	if got.Maven != "<dependency/>" || got.Gradle != SnippetUnavailable {
		t.Errorf("ResolveDependency() = %+v", got)
	}
}

func TestClientResolveDependencyRequiresVersion(t *testing.T) {
	b := &fakeBackend{}
	got := NewClient(b, nil).ResolveDependency(context.Background(), "g", "n", "")
	if got.Available() || b.calls() != 0 {
		t.Errorf("got %+v with %d calls", got, b.calls())
	}
}
