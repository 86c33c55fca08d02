package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/javelin/pkg/browser"
	"github.com/matzehuels/javelin/pkg/errors"
)

type memRepo struct {
	trees map[string][]browser.Node
	files map[string]string
	calls []string
}

func (r *memRepo) Tree(_ context.Context, _, path string) ([]browser.Node, error) {
	r.calls = append(r.calls, "tree:"+path)
	nodes, ok := r.trees[path]
	if !ok {
		return nil, errors.New(errors.ErrCodeNetwork, "list %q failed", path)
	}
	return nodes, nil
}

func (r *memRepo) RawFile(_ context.Context, _, path string) (string, error) {
	r.calls = append(r.calls, "raw:"+path)
	content, ok := r.files[path]
	if !ok {
		return "", errors.New(errors.ErrCodeNetwork, "read %q failed", path)
	}
	return content, nil
}

func demoRepo() *memRepo {
	return &memRepo{
		trees: map[string][]browser.Node{
			"": {
				{Name: "pom.xml", Path: "pom.xml", Type: browser.File},
				{Name: "README.md", Path: "README.md", Type: browser.File},
				{Name: "src", Path: "src", Type: browser.Directory},
			},
			"src": {
				{Name: "main", Path: "src/main", Type: browser.Directory},
				{Name: "App.java", Path: "src/App.java", Type: browser.File},
			},
			"src/main": {},
		},
		files: map[string]string{
			"README.md":    "# Demo",
			"src/App.java": "class App {}",
		},
	}
}

// settle runs fetch commands until the model is idle.
func settle(t *testing.T, m browseModel, cmd tea.Cmd) browseModel {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			t.Fatal("model did not settle")
		}
		msg, ok := cmd().(browseEventMsg)
		if !ok {
			return m
		}
		next, c := m.Update(msg)
		m, cmd = next.(browseModel), c
	}
	return m
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m browseModel, keys ...string) browseModel {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyPress(k))
		m = settle(t, next.(browseModel), cmd)
	}
	return m
}

func openDemo(t *testing.T, repo *memRepo) browseModel {
	t.Helper()
	m := newBrowseModel(context.Background(), repo, "42")
	return settle(t, m, m.perform(m.initial))
}

func TestBrowseOpenPreviewsReadme(t *testing.T) {
	repo := demoRepo()
	m := openDemo(t, repo)

	if m.state.Mode != browser.FileView || m.state.File.Path != "README.md" {
		t.Fatalf("after open: mode=%v file=%q, want README preview", m.state.Mode, m.state.File.Path)
	}
	if got := strings.Join(repo.calls, ","); got != "tree:,raw:README.md" {
		t.Errorf("calls = %s", got)
	}
	if view := m.View(); !strings.Contains(view, "# Demo") || !strings.Contains(view, "Repository 42") {
		t.Errorf("View() should show the README:\n%s", view)
	}
}

func TestBrowseNavigation(t *testing.T) {
	repo := demoRepo()
	m := openDemo(t, repo)

	m = press(t, m, "backspace")
	if m.state.Mode != browser.TreeView {
		t.Fatalf("back from preview: mode = %v", m.state.Mode)
	}
	if len(repo.calls) != 2 {
		t.Errorf("back from a file should not fetch, calls = %v", repo.calls)
	}
	if node, _ := m.selected(); node.Name != "src" {
		t.Errorf("directories should sort first, cursor on %q", node.Name)
	}

	m = press(t, m, "enter")
	if m.state.CurrentPath() != "src" || m.cursor != 0 {
		t.Fatalf("descend: path=%q cursor=%d", m.state.CurrentPath(), m.cursor)
	}
	if view := m.View(); !strings.Contains(view, "1:src") || !strings.Contains(view, "App.java") {
		t.Errorf("View() after descend:\n%s", view)
	}

	m = press(t, m, "down", "enter")
	if m.state.Mode != browser.FileView || m.state.Content != "class App {}" {
		t.Fatalf("open file: mode=%v content=%q", m.state.Mode, m.state.Content)
	}

	m = press(t, m, "backspace", "up", "enter")
	if m.state.CurrentPath() != "src/main" {
		t.Fatalf("descend into main: path = %q", m.state.CurrentPath())
	}
	if view := m.View(); !strings.Contains(view, "empty directory") {
		t.Errorf("View() should mark the empty directory:\n%s", view)
	}

	m = press(t, m, "0")
	if m.state.CurrentPath() != "" || m.state.Mode != browser.TreeView {
		t.Errorf("jump to root: path=%q mode=%v", m.state.CurrentPath(), m.state.Mode)
	}
	if last := repo.calls[len(repo.calls)-1]; last != "tree:" {
		t.Errorf("jump to root should refetch the root without a README preview, last call %q", last)
	}
}

func TestBrowseListingError(t *testing.T) {
	repo := demoRepo()
	delete(repo.trees, "src")
	m := openDemo(t, repo)

	m = press(t, m, "backspace", "enter")
	if m.state.ListingErr == nil {
		t.Fatal("ListingErr should be set")
	}
	if m.state.CurrentPath() != "" {
		t.Errorf("failed descend should keep the path, got %q", m.state.CurrentPath())
	}
	if view := m.View(); !strings.Contains(view, "failed") {
		t.Errorf("View() should show the listing error inline:\n%s", view)
	}
}

func TestBrowseFileError(t *testing.T) {
	repo := demoRepo()
	delete(repo.files, "src/App.java")
	m := openDemo(t, repo)

	m = press(t, m, "backspace", "enter", "down", "enter")
	if m.state.Mode != browser.TreeView || m.state.Alert == nil {
		t.Fatalf("failed open: mode=%v alert=%v", m.state.Mode, m.state.Alert)
	}
	if view := m.View(); !strings.Contains(view, "read") {
		t.Errorf("View() should show the alert:\n%s", view)
	}
}

func TestBrowseIgnoresKeysWhileBusy(t *testing.T) {
	repo := demoRepo()
	m := newBrowseModel(context.Background(), repo, "42")

	next, cmd := m.Update(keyPress("enter"))
	if cmd != nil {
		t.Error("navigation while the first listing loads should be ignored")
	}
	if !next.(browseModel).state.Busy() {
		t.Error("model should still be waiting for the root listing")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := openDemo(t, demoRepo())

	next, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if next.(browseModel).state.IsOpen() {
		t.Error("quitting should close the browser")
	}
}

func TestCrumbForKey(t *testing.T) {
	repo := demoRepo()
	m := openDemo(t, repo)
	m = press(t, m, "backspace", "enter", "enter")

	tests := []struct {
		key  string
		path string
		ok   bool
	}{
		{key: "0", path: "", ok: true},
		{key: "1", path: "src", ok: true},
		{key: "2", path: "src/main", ok: true},
		{key: "3", ok: false},
		{key: "x", ok: false},
		{key: "10", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			crumb, ok := crumbForKey(m.state, tt.key)
			if ok != tt.ok {
				t.Fatalf("crumbForKey(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			}
			if ok && crumb.Path != tt.path {
				t.Errorf("crumbForKey(%q) = %q, want %q", tt.key, crumb.Path, tt.path)
			}
		})
	}
}

func TestBrowseCrumbCursorReachesDeepAncestors(t *testing.T) {
	repo := &memRepo{trees: map[string][]browser.Node{}}
	parent := ""
	for i := 0; i < 12; i++ {
		path := fmt.Sprintf("d%d", i)
		if parent != "" {
			path = parent + "/" + path
		}
		repo.trees[parent] = []browser.Node{{Name: fmt.Sprintf("d%d", i), Path: path, Type: browser.Directory}}
		parent = path
	}
	repo.trees[parent] = []browser.Node{}

	m := openDemo(t, repo)
	for i := 0; i < 12; i++ {
		m = press(t, m, "enter")
	}
	if crumbs := browser.Breadcrumbs(m.state); len(crumbs) != 13 {
		t.Fatalf("crumbs = %d, want 13", len(crumbs))
	}
	if _, ok := crumbForKey(m.state, "9"); !ok {
		t.Fatal("digit 9 should still map to a crumb")
	}

	m = press(t, m, "[", "[")
	if m.crumb != 10 {
		t.Fatalf("crumb = %d, want 10", m.crumb)
	}
	if view := m.View(); !strings.Contains(view, "[d9]") {
		t.Errorf("View() should bracket the picked crumb:\n%s", view)
	}

	m = press(t, m, "g")
	want := "d0/d1/d2/d3/d4/d5/d6/d7/d8/d9"
	if got := m.state.CurrentPath(); got != want {
		t.Errorf("after jump: path = %q, want %q", got, want)
	}
	if m.crumb != -1 {
		t.Errorf("crumb = %d after jump, want -1", m.crumb)
	}
}

func TestBrowseCrumbCursorBounds(t *testing.T) {
	m := openDemo(t, demoRepo())
	m = press(t, m, "backspace", "enter")

	// ] does nothing until [ picks a crumb.
	m = press(t, m, "]")
	if m.crumb != -1 {
		t.Fatalf("crumb = %d, want -1", m.crumb)
	}
	m = press(t, m, "[", "[", "[")
	if m.crumb != 0 {
		t.Fatalf("crumb = %d, want 0 (root)", m.crumb)
	}
	m = press(t, m, "]", "]", "]")
	if m.crumb != 1 {
		t.Fatalf("crumb = %d, want 1 (current)", m.crumb)
	}

	// g on the current directory is a no-op.
	m = press(t, m, "g")
	if m.state.CurrentPath() != "src" || len(m.state.PathStack) != 1 {
		t.Errorf("g on current crumb moved to %q", m.state.CurrentPath())
	}
}
