package export

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	config := map[string]any{
		"pep_version":  "2.1.0",
		"name":         "GSE124224",
		"description":  "bulk RNA-seq",
		"sample_table": "GSE124224_sample_table.csv",
		"sample_modifiers": map[string]any{
			"append": map[string]any{"organism": "human"},
		},
	}

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(config, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "{") {
		t.Errorf("expected block style, got:\n%s", output)
	}
	if !strings.Contains(output, "  append:") {
		t.Errorf("expected two-space indentation, got:\n%s", output)
	}

	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if back["sample_table"] != "GSE124224_sample_table.csv" {
		t.Errorf("sample_table = %v", back["sample_table"])
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
