package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/javelin/pkg/browser"
	"github.com/matzehuels/javelin/pkg/errors"
)

// browseCommand creates the "browse" command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [repository-id]",
		Short: "Browse a repository's files interactively",
		Long: `Browse a repository's files interactively.

Without an argument, pick a repository from the list first. The root
README is previewed when the repository opens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, _, err := c.newBackend()
			if err != nil {
				printFailure(err)
				return err
			}

			var id string
			if len(args) == 1 {
				id = strings.TrimSpace(args[0])
			} else {
				id, err = c.pickProject(ctx)
				if err != nil || id == "" {
					return err
				}
			}
			if err := errors.ValidateRepositoryID(id); err != nil {
				printFailure(err)
				return nil
			}

			c.Logger.Debug("browsing repository", "id", id)
			_, err = tea.NewProgram(newBrowseModel(ctx, b, id), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// pickProject shows the repository picker and returns the chosen ID, or ""
// when the user quits.
func (c *CLI) pickProject(ctx context.Context) (string, error) {
	projects, err := c.loadProjects(ctx)
	if err != nil {
		printFailure(err)
		return "", err
	}
	if len(projects) == 0 {
		printInfo("No repositories found")
		return "", nil
	}

	final, err := tea.NewProgram(newProjectListModel(projects), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(projectListModel)
	if !ok || m.selected == nil {
		return "", nil
	}
	return strconv.FormatInt(m.selected.ID, 10), nil
}

// =============================================================================
// browseModel - Repository tree and file viewer
// =============================================================================

// browseEventMsg carries the completion of a fetch back into the model.
type browseEventMsg struct{ ev browser.Event }

// browseModel renders a browser.State. Every key press becomes a browser
// event; the effects Transition returns run as commands.
type browseModel struct {
	ctx     context.Context
	backend browser.Backend

	state   browser.State
	initial browser.Effect

	cursor int
	offset int
	height int
	width  int
	crumb  int // breadcrumb picked with [ and ]; -1 when none

	viewport viewport.Model
	spinner  spinner.Model
}

func newBrowseModel(ctx context.Context, backend browser.Backend, repositoryID string) browseModel {
	state, eff := browser.Transition(browser.State{}, browser.Open{RepositoryID: repositoryID})
	return browseModel{
		ctx:      ctx,
		backend:  backend,
		state:    state,
		initial:  eff,
		crumb:    -1,
		height:   15,
		width:    80,
		viewport: viewport.New(80, 15),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleIconSpinner)),
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.perform(m.initial))
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case browseEventMsg:
		return m.apply(msg.ev)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-8, 5)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keyQuit) {
		m.state, _ = browser.Transition(m.state, browser.Close{})
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, keyBack):
		if browser.CanGoBack(m.state) {
			return m.apply(browser.Back{})
		}
		return m, nil
	}

	if m.state.Mode == browser.FileView {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keyUp):
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case key.Matches(msg, keyDown):
		if m.cursor < len(m.state.Listing)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case key.Matches(msg, keySelect):
		node, ok := m.selected()
		if !ok {
			return m, nil
		}
		if node.IsDir() {
			return m.apply(browser.Descend{Node: node})
		}
		return m.apply(browser.OpenFile{Node: node})
	case key.Matches(msg, keyCrumbPrev):
		if m.crumb < 0 {
			m.crumb = len(browser.Breadcrumbs(m.state)) - 1
		}
		m.crumb = max(m.crumb-1, 0)
	case key.Matches(msg, keyCrumbNext):
		if m.crumb >= 0 {
			m.crumb = min(m.crumb+1, len(browser.Breadcrumbs(m.state))-1)
		}
	case key.Matches(msg, keyCrumbJump):
		crumbs := browser.Breadcrumbs(m.state)
		if m.crumb >= 0 && m.crumb < len(crumbs) && !crumbs[m.crumb].Current {
			return m.jump(crumbs[m.crumb])
		}
	default:
		if crumb, ok := crumbForKey(m.state, msg.String()); ok && !crumb.Current {
			return m.jump(crumb)
		}
	}
	return m, nil
}

func (m browseModel) jump(c browser.Crumb) (browseModel, tea.Cmd) {
	m.crumb = -1
	return m.apply(browser.BreadcrumbJump{Path: c.Path})
}

// apply feeds ev to the state machine and schedules the resulting fetch.
func (m browseModel) apply(ev browser.Event) (browseModel, tea.Cmd) {
	next, eff := browser.Transition(m.state, ev)
	m.state = next

	switch ev.(type) {
	case browser.ListingLoaded:
		m.cursor, m.offset = 0, 0
		m.crumb = -1
	case browser.ContentLoaded:
		if m.state.Mode == browser.FileView {
			m.viewport.SetContent(m.state.Content)
			m.viewport.GotoTop()
		}
	}
	return m, m.perform(eff)
}

func (m browseModel) perform(eff browser.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	if _, idle := eff.(browser.None); idle {
		return nil
	}
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return browseEventMsg{ev: browser.Perform(ctx, backend, eff)}
	}
}

func (m browseModel) selected() (browser.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Listing) {
		return browser.Node{}, false
	}
	return m.state.Listing[m.cursor], true
}

// crumbForKey maps the digit keys to breadcrumbs: 0 is the root. Deeper
// crumbs are reached with the [ ] cursor and g.
func crumbForKey(s browser.State, k string) (browser.Crumb, bool) {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return browser.Crumb{}, false
	}
	crumbs := browser.Breadcrumbs(s)
	i := int(k[0] - '0')
	if i >= len(crumbs) {
		return browser.Crumb{}, false
	}
	return crumbs[i], true
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Repository " + m.state.RepositoryID))
	b.WriteString("\n")
	b.WriteString(renderBreadcrumbs(browser.Breadcrumbs(m.state), m.crumb))
	b.WriteString("\n\n")

	if m.state.Busy() {
		b.WriteString(m.spinner.View() + " " + StyleDim.Render("Loading..."))
		b.WriteString("\n")
	}
	if m.state.Alert != nil {
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(errors.UserMessage(m.state.Alert)))
		b.WriteString("\n")
	}

	if m.state.Mode == browser.FileView {
		b.WriteString(StyleHighlight.Render(m.state.File.Path))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("↑/↓ scroll  ⌫ back  q quit"))
		return b.String()
	}

	b.WriteString(m.listingView())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ open  ⌫ up  0-9 jump  [ ] g pick crumb  q quit"))
	return b.String()
}

func (m browseModel) listingView() string {
	if m.state.ListingErr != nil {
		return StyleError.Render(iconError+" "+errors.UserMessage(m.state.ListingErr)) + "\n"
	}
	if len(m.state.Listing) == 0 {
		if m.state.Busy() {
			return ""
		}
		return StyleDim.Render("  (empty directory)") + "\n"
	}

	var b strings.Builder
	end := min(m.offset+m.height, len(m.state.Listing))
	for i := m.offset; i < end; i++ {
		node := m.state.Listing[i]
		cursor := "  "
		if i == m.cursor {
			cursor = StyleHighlight.Render(iconCursor) + " "
		}
		if node.IsDir() {
			b.WriteString(cursor + styleDirectory.Render(iconDir+" "+node.Name+"/"))
		} else {
			b.WriteString(cursor + StyleValue.Render(iconFile+" "+node.Name))
		}
		b.WriteString("\n")
	}
	if len(m.state.Listing) > m.height {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.state.Listing))))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBreadcrumbs numbers the crumbs reachable with a digit key and
// brackets the picked one.
func renderBreadcrumbs(crumbs []browser.Crumb, picked int) string {
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		label := c.Label
		if i <= 9 {
			label = fmt.Sprintf("%d:%s", i, c.Label)
		}
		switch {
		case i == picked:
			parts[i] = StyleHighlight.Render("[" + label + "]")
		case c.Current:
			parts[i] = StyleHighlight.Render(label)
		default:
			parts[i] = StyleDim.Render(label)
		}
	}
	return strings.Join(parts, StyleDim.Render(" / "))
}
