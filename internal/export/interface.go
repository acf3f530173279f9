package export

import (
	"fmt"
	"io"
)

// Exporter encodes one document of a downloaded project
type Exporter interface {
	Export(doc any, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: yaml, csv, json)", format)
	}
}
