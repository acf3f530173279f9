package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PEPHUB"

var (
	verbose bool
	cfgFile string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"

	// cfg is resolved once per invocation in PersistentPreRunE
	cfg internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "phc",
	Short: "Command line client for PEPhub",
	Long: `A CLI to log in to PEPhub and pull, push and edit the Portable
Encapsulated Projects (PEPs) it hosts.

Quick Start:
  phc login                              # authorize this machine
  phc pull geo/GSE124224:default         # download a project
  phc push project_config.yaml --namespace me --name demo
  phc search databio --query rna         # find projects in a namespace

Configuration is read from ~/.pephubclient/config.yaml, PEPHUB_* environment
variables and flags, in increasing order of precedence.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		loaded, err := loadConfig(cmd.Root().PersistentFlags())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ReportError(internal.NewPrinter(os.Stdout, os.Stderr), err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.pephubclient/config.yaml)")
	flags.String("hub-url", "", "PEPhub API base URL")
	flags.String("identity-url", "", "OAuth identity provider URL")
	flags.String("data-dir", "", "directory for the credential and history files")
	flags.Duration("timeout", 0, "per-request timeout (e.g. 30s)")
	flags.Bool("insecure", false, "skip TLS certificate verification (local development only)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// flagKeys binds persistent flags to config keys
var flagKeys = map[string]string{
	"hub-url":      "base_url",
	"identity-url": "identity_url",
	"data-dir":     "data_dir",
	"timeout":      "timeout",
	"insecure":     "insecure_skip_verify",
}

// loadConfig resolves defaults, the config file, PEPHUB_* variables and the
// changed flags in flags. A fresh viper instance per call keeps repeated
// executions independent.
func loadConfig(flags *pflag.FlagSet) (internal.Config, error) {
	defaults, err := internal.DefaultConfig()
	if err != nil {
		return internal.Config{}, err
	}

	v := viper.New()
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("identity_url", defaults.IdentityURL)
	v.SetDefault("client_id", defaults.ClientID)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("insecure_skip_verify", defaults.InsecureSkipVerify)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("device_flow.mode", string(defaults.DeviceFlow.Mode))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return internal.Config{}, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else {
		// Config lookup: {data_dir}/config.yaml when present
		path := filepath.Join(v.GetString("data_dir"), "config.yaml")
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return internal.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var loaded internal.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return internal.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return internal.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	internal.LogDebug("config: hub=%s provider=%s data_dir=%s timeout=%s", loaded.BaseURL, loaded.IdentityURL, loaded.DataDir, loaded.Timeout)
	return loaded, nil
}

func userAgent() string {
	return "pephubclient/" + version
}

func newPrinter(cmd *cobra.Command) *internal.Printer {
	return internal.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func newRequestManager() *internal.RequestManager {
	return internal.NewRequestManager(cfg, userAgent())
}

func newCredentialStore() *internal.CredentialStore {
	return internal.NewCredentialStore(cfg.CredentialPath())
}

func newClient() *internal.Client {
	return internal.NewClient(cfg, newRequestManager(), newCredentialStore())
}

// writeDocument prints doc as yaml or json; csv prints table, the only part with a tabular form
func writeDocument(w io.Writer, format string, doc any, table []map[string]any) error {
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	if _, ok := exporter.(*export.CSVExporter); ok {
		return exporter.Export(table, w)
	}
	return exporter.Export(doc, w)
}

// recordHistory logs an operation outcome; history problems never fail the command
func recordHistory(ctx context.Context, entry internal.HistoryEntry, opErr error) {
	entry.Status, entry.Detail = internal.Outcome(opErr)
	store, err := internal.OpenHistory(cfg.HistoryPath())
	if err != nil {
		internal.LogWarn("history unavailable: %v", err)
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := store.Record(ctx, entry); err != nil {
		internal.LogWarn("%v", err)
	}
}
