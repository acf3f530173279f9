package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/internal/export"
	"github.com/spf13/cobra"
)

var searchOpts internal.SearchOptions
var searchJSON bool

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var searchCmd = &cobra.Command{
	Use:   "search <namespace>",
	Short: "List projects in a namespace",
	Long: `Search the projects of a namespace.

Examples:
  phc search databio
  phc search databio --query rna --limit 20
  phc search geo --filter-by submission_date --start-date 2024/01/01 --end-date 2024/06/30
  phc search databio --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch searchOpts.FilterBy {
		case "", "submission_date", "last_update_date":
		default:
			return fmt.Errorf("unsupported --filter-by %q (supported: submission_date, last_update_date)", searchOpts.FilterBy)
		}

		result, err := newClient().Search(cmd.Context(), args[0], searchOpts)
		if err != nil {
			return err
		}
		if searchJSON {
			return (&export.JSONExporter{}).Export(result, cmd.OutOrStdout())
		}
		displaySearchResult(cmd.OutOrStdout(), args[0], result)
		return nil
	},
}

func displaySearchResult(out io.Writer, namespace string, result *internal.SearchResult) {
	if len(result.Items) == 0 {
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("No projects found in %s", namespace)))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("Showing %d of %d project(s) in %s", len(result.Items), result.Count, namespace))
	fmt.Fprintln(out, header)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Project")+"\t"+titleStyle.Render("Samples")+"\t"+titleStyle.Render("Updated")+"\t"+titleStyle.Render("Description")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, item := range result.Items {
		ref := fmt.Sprintf("%s/%s:%s", item.Namespace, item.Name, item.Tag)
		if item.IsPrivate {
			ref += " (private)"
		}

		description := strings.Join(strings.Fields(item.Description), " ")
		// Truncate long descriptions but keep them readable
		if len(description) > 50 {
			description = description[:47] + "..."
		}

		updated := item.LastUpdateDate
		if len(updated) > 10 {
			updated = updated[:10]
		}
		if updated == "" {
			updated = "—"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(ref),
			countStyle.Render(strconv.Itoa(item.NumberOfSamples)),
			dateStyle.Render(updated),
			description)
	}
	_ = w.Flush()

	if next := result.Offset + len(result.Items); next < result.Count {
		fmt.Fprintln(out)
		fmt.Fprintln(out, dateStyle.Render(fmt.Sprintf("More results: --offset %d", next)))
	}
}

func init() {
	searchCmd.Flags().StringVarP(&searchOpts.Query, "query", "q", "", "text to search for")
	searchCmd.Flags().IntVar(&searchOpts.Limit, "limit", 100, "maximum number of projects")
	searchCmd.Flags().IntVar(&searchOpts.Offset, "offset", 0, "number of projects to skip")
	searchCmd.Flags().StringVar(&searchOpts.FilterBy, "filter-by", "", "date field to filter on (submission_date, last_update_date)")
	searchCmd.Flags().StringVar(&searchOpts.StartDate, "start-date", "", "earliest date, YYYY/MM/DD (with --filter-by)")
	searchCmd.Flags().StringVar(&searchOpts.EndDate, "end-date", "", "latest date, YYYY/MM/DD (with --filter-by)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the raw result as JSON")
	rootCmd.AddCommand(searchCmd)
}
