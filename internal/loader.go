package internal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultPEPVersion = "2.1.0"

// LoadLocalProject reads a PEP from disk: either a project config YAML that
// points at its sample tables, or a bare sample table CSV
func LoadLocalProject(path string) (*ProjectDict, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadConfigProject(path)
	case ".csv":
		return loadTableProject(path)
	default:
		return nil, fmt.Errorf("unsupported project file %s (expected .yaml, .yml or .csv)", path)
	}
}

func loadConfigProject(path string) (*ProjectDict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse project config %s: %w", path, err)
	}
	if config == nil {
		return nil, fmt.Errorf("project config %s is empty", path)
	}

	dir := filepath.Dir(path)
	project := &ProjectDict{Config: config, SampleList: []Row{}}

	if table := configString(config, "sample_table"); table != "" {
		rows, err := readTable(resolve(dir, table))
		if err != nil {
			return nil, err
		}
		project.SampleList = rows
	}

	subsampleTables, err := stringList(config["subsample_table"])
	if err != nil {
		return nil, fmt.Errorf("project config %s: subsample_table: %w", path, err)
	}
	for _, table := range subsampleTables {
		rows, err := readTable(resolve(dir, table))
		if err != nil {
			return nil, err
		}
		project.SubsampleList = append(project.SubsampleList, rows)
	}

	if project.Name() == "" {
		config["name"] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return project, nil
}

func loadTableProject(path string) (*ProjectDict, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return &ProjectDict{
		Config: map[string]any{
			"pep_version": defaultPEPVersion,
			"name":        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		},
		SampleList: rows,
	}, nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// stringList accepts a single string or a list of strings
func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if x == "" {
			return nil, nil
		}
		return []string{x}, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected file names, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a file name or a list of file names, got %T", v)
	}
}

// readTable reads a CSV with a header row into rows; every cell stays a string
func readTable(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := []Row{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
