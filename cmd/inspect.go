package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/internal/export"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <registry-path|config.yaml|samples.csv>",
	Short: "Summarize a hosted or local project without saving it",
	Long: `Inspect a project's config and sample tables.

The argument is a registry path (namespace/name[:tag]) for a hosted project,
or a local config YAML or sample CSV, which is read the same way push reads it.

Examples:
  phc inspect geo/GSE124224
  phc inspect project_config.yaml --sample 5
  phc inspect databio/example:v1 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var project *internal.ProjectDict
		if internal.IsRegistryPath(args[0]) {
			rp, err := internal.ParseRegistryPath(args[0])
			if err != nil {
				return err
			}
			project, err = newClient().LoadProject(cmd.Context(), rp)
			if err != nil {
				return err
			}
		} else {
			var err error
			project, err = internal.LoadLocalProject(args[0])
			if err != nil {
				return err
			}
		}

		switch inspectFormat {
		case "text":
			displayProjectSummary(cmd.OutOrStdout(), args[0], project)
			return nil
		default:
			return writeDocument(cmd.OutOrStdout(), inspectFormat, project, project.SampleList)
		}
	},
}

func displayProjectSummary(out io.Writer, source string, project *internal.ProjectDict) {
	fmt.Fprintln(out, sectionStyle.Render(fmt.Sprintf("Project %s", source)))
	fmt.Fprintln(out)

	name := project.Name()
	if name == "" {
		name = "Untitled"
	}
	fmt.Fprintf(out, "Name:        %s\n", name)
	if d := project.Description(); d != "" {
		fmt.Fprintf(out, "Description: %s\n", d)
	}
	if v, ok := project.Config["pep_version"]; ok {
		fmt.Fprintf(out, "PEP version: %v\n", v)
	}
	fmt.Fprintf(out, "Samples:     %s\n", countStyle.Render(fmt.Sprint(len(project.SampleList))))
	if columns := export.Columns(project.SampleList); len(columns) > 0 {
		fmt.Fprintf(out, "Columns:     %s\n", strings.Join(columns, ", "))
	}
	for i, table := range project.SubsampleList {
		fmt.Fprintf(out, "Subsamples:  table %d, %d row(s)\n", i+1, len(table))
	}

	if inspectSampleRows > 0 && len(project.SampleList) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("First %d sample(s):", min(inspectSampleRows, len(project.SampleList)))))
		rows := project.SampleList[:min(inspectSampleRows, len(project.SampleList))]
		_ = (&export.CSVExporter{}).Export(rows, out)
	}
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text", "Output format: text, yaml, json, csv")
	inspectCmd.Flags().IntVarP(&inspectSampleRows, "sample", "s", 0, "Number of sample rows to show")
	rootCmd.AddCommand(inspectCmd)
}
