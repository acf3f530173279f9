package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/pephub-client/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	sampleFrom      string
	sampleSet       []string
	sampleOverwrite bool
	sampleFormat    string
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Get, create, update or remove single samples of a project",
	Long: `Work with single samples of a hosted project.

The project is given as a registry path (namespace/name[:tag]). Sample
attributes come from a YAML or JSON file (--from) and/or key=value pairs
(--set); --set wins when both name the same attribute.

Examples:
  phc sample get databio/example s1
  phc sample create databio/example s4 --set organism=human --set protocol=RNA
  phc sample update databio/example:v1 s4 --from s4.yaml
  phc sample remove databio/example s4`,
}

var sampleGetCmd = &cobra.Command{
	Use:   "get <registry-path> <sample>",
	Short: "Print a sample's attributes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		sample, err := newClient().Samples.Get(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1])
		if err != nil {
			return err
		}
		return writeDocument(cmd.OutOrStdout(), sampleFormat, sample, []internal.Row{sample})
	},
}

var sampleCreateCmd = &cobra.Command{
	Use:   "create <registry-path> <sample>",
	Short: "Add a sample to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		sample, err := sampleAttributes(args[1])
		if err != nil {
			return err
		}
		err = newClient().Samples.Create(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1], sample, sampleOverwrite)
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "sample create", RegistryPath: rp.String(), Target: args[1]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Sample '%s' added to project '%s'", args[1], rp))
		return nil
	},
}

var sampleUpdateCmd = &cobra.Command{
	Use:   "update <registry-path> <sample>",
	Short: "Change attributes of a sample",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		sample, err := sampleAttributes("")
		if err != nil {
			return err
		}
		if len(sample) == 0 {
			return fmt.Errorf("nothing to update: pass --from or --set")
		}
		err = newClient().Samples.Update(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1], sample)
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "sample update", RegistryPath: rp.String(), Target: args[1]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Sample '%s' updated in project '%s'", args[1], rp))
		return nil
	},
}

var sampleRemoveCmd = &cobra.Command{
	Use:   "remove <registry-path> <sample>",
	Short: "Delete a sample from a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rp, err := projectArg(args[0])
		if err != nil {
			return err
		}
		err = newClient().Samples.Remove(cmd.Context(), rp.Namespace, rp.Item, rp.Tag, args[1])
		recordHistory(cmd.Context(), internal.HistoryEntry{Action: "sample remove", RegistryPath: rp.String(), Target: args[1]}, err)
		if err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Sample '%s' removed from project '%s'", args[1], rp))
		return nil
	},
}

// projectArg parses a registry path naming a project
func projectArg(s string) (internal.RegistryPath, error) {
	return internal.ParseRegistryPath(s)
}

// sampleAttributes merges --from and --set; a non-empty name is stored as sample_name
func sampleAttributes(name string) (internal.Row, error) {
	sample := internal.Row{}
	if sampleFrom != "" {
		data, err := os.ReadFile(sampleFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to read sample file: %w", err)
		}
		// JSON documents are valid YAML
		if err := yaml.Unmarshal(data, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse sample file %s: %w", sampleFrom, err)
		}
	}
	for _, pair := range sampleSet {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--set %q must be formatted as key=value", pair)
		}
		sample[key] = value
	}
	if name != "" {
		if _, ok := sample["sample_name"]; !ok {
			sample["sample_name"] = name
		}
	}
	return sample, nil
}

func init() {
	for _, c := range []*cobra.Command{sampleCreateCmd, sampleUpdateCmd} {
		c.Flags().StringVar(&sampleFrom, "from", "", "YAML or JSON file with sample attributes")
		c.Flags().StringArrayVar(&sampleSet, "set", nil, "sample attribute as key=value (repeatable)")
	}
	sampleCreateCmd.Flags().BoolVar(&sampleOverwrite, "overwrite", false, "replace an existing sample with the same name")
	sampleGetCmd.Flags().StringVar(&sampleFormat, "format", "yaml", "output format (yaml, json, csv)")

	sampleCmd.AddCommand(sampleGetCmd, sampleCreateCmd, sampleUpdateCmd, sampleRemoveCmd)
	rootCmd.AddCommand(sampleCmd)
}
