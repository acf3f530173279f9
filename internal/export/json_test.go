package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONExporter_Export(t *testing.T) {
	doc := map[string]any{"count": 1, "items": []any{map[string]any{"name": "demo"}}}

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(doc, &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("output should be pretty-printed with indentation")
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if got := (&JSONExporter{}).Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
