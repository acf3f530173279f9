package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// leadingColumns are written before all other columns when present
var leadingColumns = []string{"sample_name", "subsample_name"}

// CSVExporter writes sample tables. Columns are taken from Columns when set,
// otherwise from the union of row keys with the sample identifier first.
type CSVExporter struct {
	Columns []string
}

// Export encodes a []map[string]any table as CSV with a header row
func (e *CSVExporter) Export(doc any, w io.Writer) error {
	rows, ok := doc.([]map[string]any)
	if !ok {
		return fmt.Errorf("csv export needs a table of rows, got %T", doc)
	}

	columns := e.Columns
	if len(columns) == 0 {
		columns = Columns(rows)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cell, err := formatCell(row[col])
			if err != nil {
				return fmt.Errorf("column %s: %w", col, err)
			}
			record[i] = cell
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}

// Columns returns the header for a table
func Columns(rows []map[string]any) []string {
	seen := make(map[string]bool)
	var rest []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				rest = append(rest, key)
			}
		}
	}
	sort.Strings(rest)

	columns := make([]string, 0, len(rest))
	for _, lead := range leadingColumns {
		if seen[lead] {
			columns = append(columns, lead)
		}
	}
	for _, key := range rest {
		if !isLeading(key) {
			columns = append(columns, key)
		}
	}
	return columns
}

func isLeading(key string) bool {
	for _, lead := range leadingColumns {
		if key == lead {
			return true
		}
	}
	return false
}

func formatCell(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10), nil
		}
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case json.Number:
		return x.String(), nil
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
