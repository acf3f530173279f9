package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pephub-client/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

const healthcheckTimeout = 10 * time.Second

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, login state and hub connectivity",
	Long: `Check the health of the client by verifying:
  • Configuration (hub URL, identity provider, client ID)
  • Stored session token
  • PEPhub reachability
  • Local history database

This command is useful for debugging connection and login problems.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("PEPhub Client Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking configuration..."))
		fmt.Fprintln(out, okStyle.Render("✅ Configuration loaded"))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Hub: %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "   Identity provider: %s\n", cfg.IdentityURL)
			fmt.Fprintf(out, "   Data directory: %s\n", cfg.DataDir)
			fmt.Fprintf(out, "   Timeout: %s\n", cfg.Timeout)
			fmt.Fprintf(out, "   Device flow: %s\n", cfg.DeviceFlow.Mode)
		}
		if cfg.ClientID == "" {
			fmt.Fprintln(out, warnStyle.Render("⚠️  client_id is not set; login will not work"))
		}
		if cfg.InsecureSkipVerify {
			fmt.Fprintln(out, warnStyle.Render("⚠️  TLS certificate verification is disabled"))
		}
		fmt.Fprintln(out)

		// Step 2: Credential
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking login state..."))
		store := newCredentialStore()
		token, err := store.Load()
		switch {
		case err != nil:
			fmt.Fprintln(out, badStyle.Render("❌ Failed to read session token:"), err)
		case token == "":
			fmt.Fprintln(out, warnStyle.Render("⚠️  Not logged in (run 'phc login')"))
		default:
			fmt.Fprintln(out, okStyle.Render("✅ Session token present"))
			if healthcheckDetails {
				fmt.Fprintf(out, "   File: %s\n", store.Path())
			}
		}
		fmt.Fprintln(out)

		// Step 3: Hub reachability
		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting PEPhub..."))
		hubOK := true
		resp, err := newRequestManager().Send(cmd.Context(), internal.Request{
			Method:  http.MethodGet,
			URL:     cfg.BaseURL,
			Timeout: min(cfg.Timeout, healthcheckTimeout),
		})
		if err != nil {
			hubOK = false
			fmt.Fprintln(out, badStyle.Render("❌ PEPhub is not reachable:"), err)
		} else {
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✅ PEPhub answered (HTTP %d)", resp.StatusCode)))
		}
		fmt.Fprintln(out)

		// Step 4: History database
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking history database..."))
		historyOK := true
		err = nil
		if _, statErr := os.Stat(cfg.HistoryPath()); os.IsNotExist(statErr) {
			fmt.Fprintln(out, okStyle.Render("✅ No history yet"))
		} else {
			var history *internal.HistoryStore
			history, err = internal.OpenHistoryReadOnly(cfg.HistoryPath())
			if err == nil {
				var entries []internal.HistoryEntry
				entries, err = history.List(cmd.Context(), 1)
				_ = history.Close()
				if err == nil {
					fmt.Fprintln(out, okStyle.Render("✅ History database accessible"))
					if healthcheckDetails && len(entries) > 0 {
						fmt.Fprintf(out, "   Last operation: %s %s (%s)\n", entries[0].Action, entries[0].RegistryPath, entries[0].Status)
					}
				}
			}
		}
		if err != nil {
			historyOK = false
			fmt.Fprintln(out, badStyle.Render("❌ History database unavailable:"), err)
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("Summary"))
		fmt.Fprintln(out)
		if hubOK && historyOK {
			fmt.Fprintln(out, okStyle.Render("✅ Health check passed!"))
			return nil
		}
		fmt.Fprintln(out, badStyle.Render("❌ Health check failed"))
		return fmt.Errorf("health check failed")
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
