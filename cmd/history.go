package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/internal/export"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var failedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	Bold(true)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pulls, pushes and edits made from this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if _, err := os.Stat(cfg.HistoryPath()); os.IsNotExist(err) {
			if historyJSON {
				return (&export.JSONExporter{}).Export([]internal.HistoryEntry{}, out)
			}
			fmt.Fprintln(out, headerStyle.Render("No history yet"))
			return nil
		}

		store, err := internal.OpenHistoryReadOnly(cfg.HistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if historyJSON {
			if entries == nil {
				entries = []internal.HistoryEntry{}
			}
			return (&export.JSONExporter{}).Export(entries, out)
		}
		displayHistory(out, entries)
		return nil
	},
}

func displayHistory(out io.Writer, entries []internal.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No history yet"))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("When")+"\t"+titleStyle.Render("Action")+"\t"+titleStyle.Render("Project")+"\t"+titleStyle.Render("Target")+"\t"+titleStyle.Render("Status")+"\t")
	for _, e := range entries {
		status := countStyle.Render(e.Status)
		if e.Status != internal.HistoryOK {
			status = failedStyle.Render(e.Status)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			dateStyle.Render(e.CreatedAt.Local().Format(time.DateTime)),
			e.Action,
			idStyle.Render(e.RegistryPath),
			e.Target,
			status)
	}
	_ = w.Flush()
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(historyCmd)
}
