package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/javelin/pkg/integrations/gitlab"
)

// reposCommand creates the "repos" command.
func (c *CLI) reposCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List the repositories available for browsing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := c.loadProjects(cmd.Context())
			if err != nil {
				printFailure(err)
				return err
			}
			if asJSON {
				return printJSON(projects)
			}
			if len(projects) == 0 {
				printInfo("No repositories found")
				return nil
			}
			fmt.Fprintln(out, renderProjects(projects))
			printNextStep("Browse one", "javelin browse "+strconv.FormatInt(projects[0].ID, 10))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print projects as JSON")
	return cmd
}

func (c *CLI) loadProjects(ctx context.Context) ([]gitlab.Project, error) {
	b, _, err := c.newBackend()
	if err != nil {
		return nil, err
	}
	return spin(ctx, "Loading repositories...", b.Projects)
}

func renderProjects(projects []gitlab.Project) string {
	rows := make([][]string, len(projects))
	for i, p := range projects {
		rows[i] = []string{
			strconv.FormatInt(p.ID, 10),
			projectName(p),
			formatRelativeTime(p.LastActivityAt),
			strconv.Itoa(p.StarCount),
		}
	}
	return renderTable([]string{"ID", "Repository", "Updated", "Stars"}, rows, nil)
}

func projectName(p gitlab.Project) string {
	if p.PathWithNamespace != "" {
		return p.PathWithNamespace
	}
	return p.Name
}

// =============================================================================
// projectListModel - Interactive repository selection
// =============================================================================

// projectListModel is the bubbletea model for picking a repository to
// browse.
type projectListModel struct {
	projects []gitlab.Project
	cursor   int
	offset   int
	height   int
	selected *gitlab.Project
}

func newProjectListModel(projects []gitlab.Project) projectListModel {
	return projectListModel{projects: projects, height: 15}
}

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keySelect = key.NewBinding(key.WithKeys("enter", "right", "l"))
	keyBack   = key.NewBinding(key.WithKeys("backspace", "left", "h", "esc"))
	keyQuit   = key.NewBinding(key.WithKeys("q", "ctrl+c"))

	keyCrumbPrev = key.NewBinding(key.WithKeys("["))
	keyCrumbNext = key.NewBinding(key.WithKeys("]"))
	keyCrumbJump = key.NewBinding(key.WithKeys("g"))
)

func (m projectListModel) Init() tea.Cmd {
	return nil
}

func (m projectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit), msg.String() == "esc":
			return m, tea.Quit
		case key.Matches(msg, keyUp):
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case key.Matches(msg, keyDown):
			if m.cursor < len(m.projects)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case key.Matches(msg, keySelect):
			if len(m.projects) == 0 {
				return m, nil
			}
			p := m.projects[m.cursor]
			m.selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m projectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Repository"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ browse  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.projects))
	for i := m.offset; i < end; i++ {
		p := m.projects[i]
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(colorWhite)
		if i == m.cursor {
			cursor = iconCursor + " "
			style = style.Foreground(colorCyan).Bold(true)
		}
		line := fmt.Sprintf("%s%-40s %s", cursor, projectName(p), StyleDim.Render(formatRelativeTime(p.LastActivityAt)))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(m.projects)), len(m.projects))))
	return b.String()
}
