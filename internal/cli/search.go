package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/javelin/pkg/catalog"
	"github.com/matzehuels/javelin/pkg/errors"
)

// searchCommand creates the "search" command.
func (c *CLI) searchCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Show the latest version of every matching artifact",
		Long: `Search the registry and show the latest version of every matching artifact.

Without a query every artifact is listed. Queries must be at least 3 characters.`,
		Example: `  javelin search spring
  javelin search jackson --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return c.runSearch(cmd.Context(), query, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *CLI) runSearch(ctx context.Context, query string, asJSON bool) error {
	client, _, err := c.newCatalog()
	if err != nil {
		printFailure(err)
		return err
	}

	prog := newProgress(c.Logger)
	view, err := spin(ctx, "Searching...", func(ctx context.Context) (catalog.GroupView, error) {
		return client.Search(ctx, query)
	})
	if err != nil {
		printFailure(err)
		if errors.IsValidation(err) || errors.Is(err, errors.ErrCodeEmptyResult) {
			return nil
		}
		return err
	}
	prog.done(fmt.Sprintf("Found %d artifacts", len(view)))

	records := view.Sorted()
	if asJSON {
		return printJSON(records)
	}
	fmt.Fprintln(out, renderRecords(records, true))
	printDetail("%d artifacts", len(records))
	if len(records) > 0 {
		printNextStep("Show all versions", "javelin versions "+records[0].Key().String())
	}
	return nil
}

// versionsCommand creates the "versions" command.
func (c *CLI) versionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "versions <group:name>",
		Short:   "List every version of an artifact, newest first",
		Example: `  javelin versions org.springframework:spring-core`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, name, err := parseKey(args[0])
			if err != nil {
				printFailure(err)
				return err
			}
			return c.runVersions(cmd.Context(), group, name, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *CLI) runVersions(ctx context.Context, group, name string, asJSON bool) error {
	client, _, err := c.newCatalog()
	if err != nil {
		printFailure(err)
		return err
	}

	history, err := spin(ctx, "Loading versions...", func(ctx context.Context) (catalog.VersionHistory, error) {
		return client.ExpandVersions(ctx, group, name)
	})
	if err != nil {
		printFailure(err)
		if errors.Is(err, errors.ErrCodeEmptyResult) {
			return nil
		}
		return err
	}

	if asJSON {
		return printJSON(history)
	}
	fmt.Fprintln(out, StyleTitle.Render(group+":"+name))
	fmt.Fprintln(out, renderRecords(history, false))
	if latest, ok := history.Latest(); ok {
		printNextStep("Dependency snippet", "javelin dep "+latest.Coordinate())
	}
	return nil
}

// depCommand creates the "dep" command.
func (c *CLI) depCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "dep <group:name:version>",
		Short:   "Print the Maven and Gradle dependency declarations",
		Example: `  javelin dep org.springframework:spring-core:6.1.0 --format gradle`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, name, version, err := parseCoordinate(args[0])
			if err != nil {
				printFailure(err)
				return err
			}
			return c.runDep(cmd.Context(), group, name, version, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "print only one rendering: maven or gradle")
	return cmd
}

func (c *CLI) runDep(ctx context.Context, group, name, version, format string) error {
	client, _, err := c.newCatalog()
	if err != nil {
		printFailure(err)
		return err
	}

	snippet := client.ResolveDependency(ctx, group, name, version)
	switch strings.ToLower(format) {
	case "maven", "pom":
		fmt.Fprintln(out, snippet.Maven)
	case "gradle":
		fmt.Fprintln(out, snippet.Gradle)
	case "":
		fmt.Fprintln(out, renderSnippet("Maven", snippet.Maven))
		fmt.Fprintln(out, renderSnippet("Gradle", snippet.Gradle))
	default:
		err := errors.New(errors.ErrCodeInvalidInput, "unknown format %q (expected maven or gradle)", format)
		printFailure(err)
		return err
	}
	if !snippet.Available() {
		c.Logger.Warn("dependency snippet unavailable", "coordinate", group+":"+name+":"+version)
	}
	return nil
}

// renderRecords renders records as a table. Snapshot versions are
// highlighted.
func renderRecords(records []catalog.Record, withArtifact bool) string {
	headers := []string{"Version", "Repository"}
	if withArtifact {
		headers = []string{"Group", "Artifact", "Version", "Repository"}
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		if withArtifact {
			rows[i] = []string{r.Group, r.Name, r.Version, r.Repository}
		} else {
			rows[i] = []string{r.Version, r.Repository}
		}
	}

	return renderTable(headers, rows, func(row int) lipgloss.Style {
		if row >= 0 && row < len(records) && catalog.IsSnapshot(records[row]) {
			return styleSnapshot
		}
		return lipgloss.NewStyle()
	})
}

// parseKey splits "group:name".
func parseKey(s string) (group, name string, err error) {
	group, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return "", "", errors.New(errors.ErrCodeInvalidCoordinate, "expected group:name, got %q", s)
	}
	if err := errors.ValidateCoordinate(group, name, "", false); err != nil {
		return "", "", err
	}
	return group, name, nil
}

// parseCoordinate splits "group:name:version".
func parseCoordinate(s string) (group, name, version string, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return "", "", "", errors.New(errors.ErrCodeInvalidCoordinate, "expected group:name:version, got %q", s)
	}
	if err := errors.ValidateCoordinate(parts[0], parts[1], parts[2], true); err != nil {
		return "", "", "", err
	}
	return parts[0], parts[1], parts[2], nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
