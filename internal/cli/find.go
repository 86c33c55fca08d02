package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/javelin/pkg/catalog"
	"github.com/matzehuels/javelin/pkg/errors"
)

// findCommand creates the "find" command.
func (c *CLI) findCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find [query]",
		Short: "Search artifacts interactively as you type",
		Long: `Search artifacts interactively as you type.

Results refresh once typing pauses. Select an artifact to list its versions
and a version to show its dependency snippets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, cfg, err := c.newCatalog()
			if err != nil {
				printFailure(err)
				return err
			}

			var initial string
			if len(args) == 1 {
				initial = args[0]
			}

			live := catalog.NewLiveSearch(ctx, client, cfg.Client.Debounce)
			defer live.Close()

			m := newFindModel(ctx, client, live, initial)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// findModel - Live artifact search
// =============================================================================

type findPane int

const (
	paneResults findPane = iota
	paneVersions
	paneSnippet
)

type liveResultMsg struct{ result catalog.Result }

type liveClosedMsg struct{}

type versionsMsg struct {
	key     catalog.Key
	history catalog.VersionHistory
	err     error
}

type snippetMsg struct {
	record  catalog.Record
	snippet catalog.Snippet
}

// paneState is the fetch and scroll state of one pane.
type paneState struct {
	loading bool
	err     error
	cursor  int
	offset  int
}

// findModel drives a LiveSearch from a text input. Only results of the
// current generation are shown.
type findModel struct {
	ctx    context.Context
	client *catalog.Client
	live   *catalog.LiveSearch

	input   textinput.Model
	spinner spinner.Model
	pane    findPane
	height  int

	gen     uint64
	results []catalog.Record
	search  paneState

	artifact catalog.Key
	history  catalog.VersionHistory
	versions paneState

	record  catalog.Record
	snippet catalog.Snippet
	details paneState
}

func newFindModel(ctx context.Context, client *catalog.Client, live *catalog.LiveSearch, query string) findModel {
	in := textinput.New()
	in.Placeholder = "artifact, group or keyword"
	in.Prompt = iconInfo + " "
	in.SetValue(query)
	in.Focus()

	m := findModel{
		ctx:     ctx,
		client:  client,
		live:    live,
		input:   in,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleIconSpinner)),
		height:  15,
	}
	m.typeQuery(query)
	return m
}

func (m findModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForResult(m.live))
}

// typeQuery starts a new generation. It runs on the update loop, never in
// a command, so generations follow keystroke order.
func (m *findModel) typeQuery(query string) {
	m.gen = m.live.Type(query)
	m.search.loading = true
}

// waitForResult blocks for the next delivered result.
func waitForResult(live *catalog.LiveSearch) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-live.Results()
		if !ok {
			return liveClosedMsg{}
		}
		return liveResultMsg{result: r}
	}
}

func (m findModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case liveResultMsg:
		m = m.applyResult(msg.result)
		return m, waitForResult(m.live)

	case liveClosedMsg:
		return m, nil

	case versionsMsg:
		if msg.key != m.artifact || m.pane != paneVersions {
			return m, nil
		}
		m.history = msg.history
		m.versions = paneState{err: msg.err}
		return m, nil

	case snippetMsg:
		if msg.record != m.record || m.pane != paneSnippet {
			return m, nil
		}
		m.snippet = msg.snippet
		m.details.loading = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applyResult shows r in the results pane if it belongs to the current
// generation. The other panes are left alone.
func (m findModel) applyResult(r catalog.Result) findModel {
	if r.Generation != m.gen || !m.live.IsCurrent(r.Generation) {
		return m
	}
	m.search = paneState{err: r.Err}
	if r.Err != nil {
		m.results = nil
		return m
	}
	m.results = r.View.Sorted()
	return m
}

func (m findModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.pane {
	case paneSnippet:
		if msg.String() == "esc" || msg.String() == "backspace" {
			m.pane = paneVersions
			m.details = paneState{}
			return m, nil
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil

	case paneVersions:
		switch {
		case msg.String() == "esc" || msg.String() == "backspace":
			m.pane = paneResults
			m.versions = paneState{}
			return m, nil
		case msg.String() == "q":
			return m, tea.Quit
		case key.Matches(msg, keyUp), key.Matches(msg, keyDown):
			m.versions.move(msg, len(m.history), m.height)
			return m, nil
		case msg.String() == "enter":
			if m.versions.loading || m.versions.cursor >= len(m.history) {
				return m, nil
			}
			m.record = m.history[m.versions.cursor]
			m.snippet = catalog.Snippet{}
			m.pane = paneSnippet
			m.details = paneState{loading: true}
			return m, m.resolve(m.record)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "up", "down":
		m.search.move(msg, len(m.results), m.height)
		return m, nil
	case "enter":
		if m.search.cursor >= len(m.results) {
			return m, nil
		}
		m.artifact = m.results[m.search.cursor].Key()
		m.history = nil
		m.pane = paneVersions
		m.versions = paneState{loading: true}
		return m, m.expand(m.artifact)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.typeQuery(m.input.Value())
	}
	return m, cmd
}

func (p *paneState) move(msg tea.KeyMsg, n, height int) {
	switch {
	case key.Matches(msg, keyUp):
		if p.cursor > 0 {
			p.cursor--
			if p.cursor < p.offset {
				p.offset = p.cursor
			}
		}
	case key.Matches(msg, keyDown):
		if p.cursor < n-1 {
			p.cursor++
			if p.cursor >= p.offset+height {
				p.offset = p.cursor - height + 1
			}
		}
	}
}

func (m findModel) expand(k catalog.Key) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		history, err := client.ExpandVersions(ctx, k.Group, k.Name)
		return versionsMsg{key: k, history: history, err: err}
	}
}

func (m findModel) resolve(r catalog.Record) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return snippetMsg{record: r, snippet: client.ResolveDependency(ctx, r.Group, r.Name, r.Version)}
	}
}

func (m findModel) View() string {
	var b strings.Builder

	switch m.pane {
	case paneVersions:
		b.WriteString(StyleTitle.Render(m.artifact.String()))
		b.WriteString("\n\n")
		b.WriteString(m.statusLine(m.versions, "Loading versions..."))
		b.WriteString(m.listView(m.versions, len(m.history), func(i int) string {
			r := m.history[i]
			line := fmt.Sprintf("%-20s %s", r.Version, StyleDim.Render(r.Repository))
			if catalog.IsSnapshot(r) {
				return styleSnapshot.Render(line)
			}
			return line
		}))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ snippet  esc back  q quit"))

	case paneSnippet:
		b.WriteString(StyleTitle.Render(m.record.Coordinate()))
		b.WriteString("\n\n")
		if m.details.loading {
			b.WriteString(m.spinner.View() + " " + StyleDim.Render("Loading snippet..."))
			b.WriteString("\n")
		} else {
			b.WriteString(renderSnippet("Maven", m.snippet.Maven))
			b.WriteString("\n")
			b.WriteString(renderSnippet("Gradle", m.snippet.Gradle))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("esc back  q quit"))

	default:
		b.WriteString(StyleTitle.Render("Find Artifact"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.statusLine(m.search, "Searching..."))
		b.WriteString(m.listView(m.search, len(m.results), func(i int) string {
			r := m.results[i]
			line := fmt.Sprintf("%-50s %s", r.Group+":"+r.Name, StyleValue.Render(r.Version))
			if catalog.IsSnapshot(r) {
				return styleSnapshot.Render(line)
			}
			return line
		}))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ versions  esc quit"))
	}
	return b.String()
}

func (m findModel) statusLine(p paneState, busy string) string {
	switch {
	case p.loading:
		return m.spinner.View() + " " + StyleDim.Render(busy) + "\n"
	case p.err != nil && errors.Is(p.err, errors.ErrCodeEmptyResult):
		return StyleDim.Render("  No matches") + "\n"
	case p.err != nil && errors.IsValidation(p.err):
		return StyleDim.Render("  "+errors.UserMessage(p.err)) + "\n"
	case p.err != nil:
		return StyleError.Render(iconError+" "+errors.UserMessage(p.err)) + "\n"
	}
	return ""
}

func (m findModel) listView(p paneState, n int, line func(i int) string) string {
	var b strings.Builder
	end := min(p.offset+m.height, n)
	for i := p.offset; i < end; i++ {
		cursor := "  "
		if i == p.cursor {
			cursor = StyleHighlight.Render(iconCursor) + " "
		}
		b.WriteString(cursor + line(i))
		b.WriteString("\n")
	}
	if n > m.height {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", p.cursor+1, n)))
		b.WriteString("\n")
	}
	return b.String()
}
