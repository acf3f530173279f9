package export

import (
	"encoding/json"
	"io"
)

// JSONExporter writes pretty-printed JSON
type JSONExporter struct{}

// Export encodes doc as indented JSON
func (e *JSONExporter) Export(doc any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
