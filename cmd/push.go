package cmd

import (
	"fmt"

	"github.com/iksnae/pephub-client/internal"
	"github.com/spf13/cobra"
)

var (
	pushNamespace string
	pushName      string
	pushTag       string
	pushForce     bool
	pushPrivate   bool
)

var pushCmd = &cobra.Command{
	Use:   "push <config.yaml|samples.csv>",
	Short: "Upload a local project to PEPhub",
	Long: `Upload a local PEP to a namespace you can write to.

The input is either a project config YAML (its sample_table and
subsample_table files are read relative to it) or a bare sample table CSV.
An existing project with the same name and tag is only replaced with --force.

Examples:
  phc push project_config.yaml --namespace databio --name example
  phc push samples.csv --namespace me --name demo --tag v2 --private`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		opts := internal.PushOptions{
			Namespace: pushNamespace,
			Name:      pushName,
			Tag:       pushTag,
			IsPrivate: pushPrivate,
			Force:     pushForce,
		}

		var ref internal.RegistryPath
		err := printer.ShowProgress(cmd.Context(), fmt.Sprintf("Pushing %s", args[0]), func() error {
			var err error
			ref, err = newClient().Push(cmd.Context(), args[0], opts)
			return err
		})

		entry := internal.HistoryEntry{Action: "push", Target: args[0]}
		if ref.Namespace != "" {
			entry.RegistryPath = ref.String()
		}
		recordHistory(cmd.Context(), entry, err)
		if err != nil {
			return err
		}

		printer.Success(fmt.Sprintf("Project '%s' was successfully uploaded", ref))
		return nil
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushNamespace, "namespace", "", "namespace to upload to (required)")
	pushCmd.Flags().StringVar(&pushName, "name", "", "project name (default: the config's name)")
	pushCmd.Flags().StringVar(&pushTag, "tag", internal.DefaultTag, "project tag")
	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "overwrite an existing project")
	pushCmd.Flags().BoolVar(&pushPrivate, "private", false, "upload as a private project")
	_ = pushCmd.MarkFlagRequired("namespace")
	rootCmd.AddCommand(pushCmd)
}
