package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/iksnae/pephub-client/internal"
	"github.com/spf13/cobra"
)

var (
	pullForce    bool
	pullZip      bool
	pullJustName bool
	pullOutput   string
)

var pullCmd = &cobra.Command{
	Use:   "pull <registry-path>",
	Short: "Download a project and save it as config YAML and sample CSVs",
	Long: `Download a project from PEPhub.

The registry path has the form [protocol::]namespace/name[:tag]; the tag
defaults to "default". Files are written to a folder named
{namespace}_{name}[:tag] (or just {name} with --just-name) and are not
overwritten unless --force is given.

Examples:
  phc pull geo/GSE124224
  phc pull databio/example:v1 --output ./peps --force
  phc pull databio/example --zip`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		opts := internal.PullOptions{SaveOptions: internal.SaveOptions{
			Force:     pullForce,
			JustName:  pullJustName,
			Zip:       pullZip,
			ParentDir: pullOutput,
		}}

		var paths []string
		err := printer.ShowProgress(cmd.Context(), fmt.Sprintf("Pulling %s", args[0]), func() error {
			var err error
			paths, err = newClient().Pull(cmd.Context(), args[0], opts)
			return err
		})

		entry := internal.HistoryEntry{Action: "pull", RegistryPath: args[0]}
		if len(paths) > 0 {
			entry.Target = filepath.Dir(paths[0])
			if pullZip {
				entry.Target = paths[0]
			}
		}
		recordHistory(cmd.Context(), entry, err)
		if err != nil {
			return err
		}

		printer.Success(fmt.Sprintf("Project was downloaded successfully -> %s", entry.Target))
		for _, p := range paths {
			internal.LogInfo("  %s", p)
		}
		return nil
	},
}

func init() {
	pullCmd.Flags().BoolVarP(&pullForce, "force", "f", false, "overwrite existing files")
	pullCmd.Flags().BoolVar(&pullZip, "zip", false, "save the project as a zip archive")
	pullCmd.Flags().BoolVar(&pullJustName, "just-name", false, "name the folder after the project only")
	pullCmd.Flags().StringVarP(&pullOutput, "output", "o", "", "existing parent directory (default: current directory)")
	rootCmd.AddCommand(pullCmd)
}
