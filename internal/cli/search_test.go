package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/javelin/pkg/catalog"
	"github.com/matzehuels/javelin/pkg/errors"
)

func writeGatewayJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func searchGateway(records ...catalog.Record) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/nexus/search":
			writeGatewayJSON(w, map[string]any{"items": records})
		case "/api/nexus/dependency":
			q := r.URL.Query()
			coord := q.Get("g") + ":" + q.Get("a") + ":" + q.Get("v")
			writeGatewayJSON(w, catalog.Snippet{
				Maven:  "<dependency>" + coord + "</dependency>",
				Gradle: "implementation '" + coord + "'",
			})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in        string
		group     string
		name      string
		wantError bool
	}{
		{in: "org.example:core", group: "org.example", name: "core"},
		{in: "  org.example:core  ", group: "org.example", name: "core"},
		{in: "org.example", wantError: true},
		{in: ":core", wantError: true},
		{in: "org.example:", wantError: true},
		{in: "org.example:core:1.0", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			group, name, err := parseKey(tt.in)
			if tt.wantError {
				if !errors.Is(err, errors.ErrCodeInvalidCoordinate) {
					t.Errorf("parseKey(%q) error = %v, want INVALID_COORDINATE", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseKey(%q) error: %v", tt.in, err)
			}
			if group != tt.group || name != tt.name {
				t.Errorf("parseKey(%q) = %q, %q", tt.in, group, name)
			}
		})
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in        string
		want      [3]string
		wantError bool
	}{
		{in: "org.example:core:1.2.3", want: [3]string{"org.example", "core", "1.2.3"}},
		{in: "org.example:core:1.0-SNAPSHOT", want: [3]string{"org.example", "core", "1.0-SNAPSHOT"}},
		{in: "org.example:core", wantError: true},
		{in: "org.example:core:", wantError: true},
		{in: "a:b:c:d", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g, n, v, err := parseCoordinate(tt.in)
			if tt.wantError {
				if !errors.Is(err, errors.ErrCodeInvalidCoordinate) {
					t.Errorf("parseCoordinate(%q) error = %v, want INVALID_COORDINATE", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCoordinate(%q) error: %v", tt.in, err)
			}
			if got := [3]string{g, n, v}; got != tt.want {
				t.Errorf("parseCoordinate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderRecords(t *testing.T) {
	records := []catalog.Record{
		{Group: "org.example", Name: "core", Version: "2.0", Repository: "maven-releases"},
		{Group: "org.example", Name: "core", Version: "2.1-SNAPSHOT", Repository: "maven-snapshots"},
	}

	got := renderRecords(records, true)
	for _, want := range []string{"Group", "Artifact", "org.example", "core", "2.0", "2.1-SNAPSHOT", "maven-snapshots"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderRecords() missing %q:\n%s", want, got)
		}
	}

	got = renderRecords(records, false)
	if strings.Contains(got, "Artifact") {
		t.Errorf("renderRecords(withArtifact=false) should omit artifact columns:\n%s", got)
	}
}

func TestRunSearch(t *testing.T) {
	c, buf := newTestCLI(t, searchGateway(
		catalog.Record{Group: "org.example", Name: "core", Version: "1.9", Repository: "maven-releases"},
		catalog.Record{Group: "org.example", Name: "core", Version: "1.10", Repository: "maven-releases"},
		catalog.Record{Group: "org.example", Name: "api", Version: "3.0", Repository: "maven-releases"},
		catalog.Record{Group: "org.example", Name: "broken"},
	))

	if err := c.runSearch(context.Background(), "example", false); err != nil {
		t.Fatalf("runSearch() error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "1.10") || strings.Contains(got, "1.9") {
		t.Errorf("runSearch() should show only the latest core version:\n%s", got)
	}
	if strings.Contains(got, "broken") {
		t.Errorf("runSearch() should drop records without a version:\n%s", got)
	}
	if !strings.Contains(got, "javelin versions org.example:api") {
		t.Errorf("runSearch() should suggest the first artifact:\n%s", got)
	}
}

func TestRunSearchJSON(t *testing.T) {
	c, buf := newTestCLI(t, searchGateway(
		catalog.Record{Group: "org.b", Name: "x", Version: "1.0", Repository: "maven-releases"},
		catalog.Record{Group: "org.a", Name: "y", Version: "1.0", Repository: "maven-releases"},
		catalog.Record{Group: "org.a", Name: "y", Version: "2.0", Repository: "maven-releases"},
	))

	if err := c.runSearch(context.Background(), "", true); err != nil {
		t.Fatalf("runSearch() error: %v", err)
	}

	var records []catalog.Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Group != "org.a" || records[0].Version != "2.0" {
		t.Errorf("records[0] = %+v, want org.a:y:2.0", records[0])
	}
}

func TestRunSearchShortQuery(t *testing.T) {
	var calls atomic.Int32
	c, buf := newTestCLI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeGatewayJSON(w, map[string]any{"items": []catalog.Record{}})
	}))

	if err := c.runSearch(context.Background(), "sp", false); err != nil {
		t.Fatalf("runSearch() error: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("short query should not reach the gateway, got %d calls", calls.Load())
	}
	if !strings.Contains(buf.String(), "at least 3") {
		t.Errorf("output = %q, want the minimum length hint", buf.String())
	}
}

func TestRunSearchEmpty(t *testing.T) {
	c, buf := newTestCLI(t, searchGateway())

	if err := c.runSearch(context.Background(), "nothing", false); err != nil {
		t.Fatalf("runSearch() error: %v", err)
	}
	if !strings.Contains(buf.String(), "nothing") {
		t.Errorf("output = %q, want the empty result message", buf.String())
	}
}

func TestRunSearchGatewayDown(t *testing.T) {
	c, _ := newTestCLI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := c.runSearch(context.Background(), "spring", false)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("runSearch() error = %v, want NETWORK_ERROR", err)
	}
}

func TestRunVersions(t *testing.T) {
	c, buf := newTestCLI(t, searchGateway(
		catalog.Record{Group: "org.example", Name: "core", Version: "1.2", Repository: "maven-releases"},
		catalog.Record{Group: "org.example", Name: "core", Version: "1.10", Repository: "maven-releases"},
		catalog.Record{Group: "org.example", Name: "core", Version: "1.11-SNAPSHOT", Repository: "maven-snapshots"},
	))

	if err := c.runVersions(context.Background(), "org.example", "core", false); err != nil {
		t.Fatalf("runVersions() error: %v", err)
	}

	got := buf.String()
	i, j := strings.Index(got, "1.11-SNAPSHOT"), strings.Index(got, "1.2")
	if i < 0 || j < 0 || i > j {
		t.Errorf("versions should be listed greatest first:\n%s", got)
	}
	if !strings.Contains(got, "javelin dep org.example:core:1.11-SNAPSHOT") {
		t.Errorf("runVersions() should suggest the latest coordinate:\n%s", got)
	}
}

func TestRunDep(t *testing.T) {
	tests := []struct {
		format  string
		want    []string
		notWant []string
	}{
		{format: "", want: []string{"Maven", "<dependency>org.example:core:1.0</dependency>", "implementation 'org.example:core:1.0'"}},
		{format: "maven", want: []string{"<dependency>"}, notWant: []string{"implementation"}},
		{format: "gradle", want: []string{"implementation"}, notWant: []string{"<dependency>"}},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			c, buf := newTestCLI(t, searchGateway())
			if err := c.runDep(context.Background(), "org.example", "core", "1.0", tt.format); err != nil {
				t.Fatalf("runDep() error: %v", err)
			}
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output should not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRunDepUnknownFormat(t *testing.T) {
	c, _ := newTestCLI(t, searchGateway())

	err := c.runDep(context.Background(), "org.example", "core", "1.0", "ivy")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("runDep() error = %v, want INVALID_INPUT", err)
	}
}

func TestRunDepUnavailable(t *testing.T) {
	c, buf := newTestCLI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if err := c.runDep(context.Background(), "org.example", "core", "1.0", "maven"); err != nil {
		t.Fatalf("runDep() error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != catalog.SnippetUnavailable {
		t.Errorf("output = %q, want %q", buf.String(), catalog.SnippetUnavailable)
	}
}
