package cmd

import (
	"fmt"

	"github.com/iksnae/pephub-client/internal"
	"github.com/spf13/cobra"
)

var (
	viewSamples []string
	viewFormat  string
	viewOutput  string
	viewForce   bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Manage named subsets of a project's samples",
	Long: `Views are named subsets of a project's samples.

Examples:
  phc view create databio/example rna --sample s1 --sample s2
  phc view get databio/example rna
  phc view get databio/example rna --output ./peps
  phc view add-sample databio/example rna s3
  phc view remove-sample databio/example rna s3
  phc view delete databio/example rna`,
}

var viewGetCmd = &cobra.Command{
	Use:   "get <registry-path> <view>",
	Short: "Print a view, or save it like a pulled project with --output",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		project, err := newClient().Views.Get(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1])
		if err != nil {
			return err
		}

		if viewOutput != "" {
			// saved as {namespace}_{name}_{view}[:tag]
			target := rp
			target.Item = rp.Item + "_" + args[1]
			paths, err := internal.NewMaterializer().Save(project, target, internal.SaveOptions{ParentDir: viewOutput, Force: viewForce})
			recordHistory(cmd.Context(), internal.HistoryEntry{Action: "view get", RegistryPath: rp.String(), Target: args[1]}, err)
			if err != nil {
				return err
			}
			newPrinter(cmd).Success(fmt.Sprintf("View '%s' was downloaded successfully -> %d files", args[1], len(paths)))
			return nil
		}

		// csv prints the view's sample table
		return writeDocument(cmd.OutOrStdout(), viewFormat, project, project.SampleList)
	},
}

var viewCreateCmd = &cobra.Command{
	Use:   "create <registry-path> <view>",
	Short: "Create a view from existing samples",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		err = newClient().Views.Create(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1], viewSamples)
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "view create", RegistryPath: rp.String(), Target: args[1]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("View '%s' created in project '%s'", args[1], rp))
		return nil
	},
}

var viewDeleteCmd = &cobra.Command{
	Use:   "delete <registry-path> <view>",
	Short: "Delete a view (its samples stay in the project)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		err = newClient().Views.Delete(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1])
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "view delete", RegistryPath: rp.String(), Target: args[1]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("View '%s' deleted from project '%s'", args[1], rp))
		return nil
	},
}

var viewAddSampleCmd = &cobra.Command{
	Use:   "add-sample <registry-path> <view> <sample>",
	Short: "Add a project sample to a view",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		err = newClient().Views.AddSample(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1], args[2])
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "view add-sample", RegistryPath: rp.String(), Target: args[1] + "/" + args[2]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Sample '%s' added to view '%s'", args[2], args[1]))
		return nil
	},
}

var viewRemoveSampleCmd = &cobra.Command{
	Use:   "remove-sample <registry-path> <view> <sample>",
	Short: "Remove a sample from a view",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		err = newClient().Views.RemoveSample(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1], args[2])
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "view remove-sample", RegistryPath: rp.String(), Target: args[1] + "/" + args[2]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Sample '%s' removed from view '%s'", args[2], args[1]))
		return nil
	},
}

func init() {
	viewGetCmd.Flags().StringVar(&viewFormat, "format", "yaml", "output format (yaml, json, csv)")
	viewGetCmd.Flags().StringVarP(&viewOutput, "output", "o", "", "save the view as config YAML and CSVs under this directory")
	viewGetCmd.Flags().BoolVarP(&viewForce, "force", "f", false, "overwrite existing files with --output")
	viewCreateCmd.Flags().StringArrayVarP(&viewSamples, "sample", "s", nil, "sample to include (repeatable)")

	viewCmd.AddCommand(viewGetCmd, viewCreateCmd, viewDeleteCmd, viewAddSampleCmd, viewRemoveSampleCmd)
	rootCmd.AddCommand(viewCmd)
}
