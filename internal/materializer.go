package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/pephub-client/internal/export"
)

// SaveOptions controls how a downloaded project is written
type SaveOptions struct {
	// Force overwrites existing files
	Force bool
	// JustName names the folder after the item only
	JustName bool
	// Zip writes one archive instead of a folder
	Zip bool
	// ParentDir must already exist; empty means the working directory
	ParentDir string
}

// Materializer lays out a project as a config YAML plus CSV sample tables
type Materializer struct {
	config export.Exporter
	table  export.Exporter
}

// NewMaterializer creates a materializer writing YAML configs and CSV tables
func NewMaterializer() *Materializer {
	return &Materializer{
		config: &export.YAMLExporter{},
		table:  &export.CSVExporter{},
	}
}

type renderedFile struct {
	name string
	data []byte
}

// Save writes the project and returns the paths it created. Without Force
// nothing is written if any target exists, and every collision is reported.
func (m *Materializer) Save(project *ProjectDict, rp RegistryPath, opts SaveOptions) ([]string, error) {
	parent := opts.ParentDir
	if parent == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		parent = wd
	} else if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("parent path does not exist. Provided path: %s", parent)
	}

	folder := rp.FolderName()
	if opts.JustName {
		folder = rp.Item
	}

	files, err := m.render(project, rp.Item)
	if err != nil {
		return nil, err
	}

	var targets []string
	if opts.Zip {
		targets = []string{filepath.Join(parent, folder+".zip")}
	} else {
		for _, f := range files {
			targets = append(targets, filepath.Join(parent, folder, f.name))
		}
	}

	if !opts.Force {
		if existing := existingFiles(targets); len(existing) > 0 {
			return nil, &PEPAlreadyExistsError{Paths: existing}
		}
	}

	if opts.Zip {
		members := make([]export.File, 0, len(files))
		for _, f := range files {
			members = append(members, export.File{Name: folder + "/" + f.name, Data: f.data})
		}
		if err := export.WriteZip(targets[0], members); err != nil {
			return nil, err
		}
		LogInfo("wrote %s", targets[0])
		return targets, nil
	}

	if err := os.MkdirAll(filepath.Join(parent, folder), 0755); err != nil {
		return nil, fmt.Errorf("failed to create project folder: %w", err)
	}
	for i, f := range files {
		if err := os.WriteFile(targets[i], f.data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", targets[i], err)
		}
		LogInfo("wrote %s", targets[i])
	}
	return targets, nil
}

// render encodes the config first, then the sample table, then each subsample table
func (m *Materializer) render(project *ProjectDict, item string) ([]renderedFile, error) {
	sampleTable := fmt.Sprintf("%s_sample_table.%s", item, m.table.Extension())
	subsampleTables := make([]string, len(project.SubsampleList))
	for i := range project.SubsampleList {
		subsampleTables[i] = fmt.Sprintf("%s_subsample_table%d.%s", item, i+1, m.table.Extension())
	}

	config := make(map[string]any, len(project.Config)+4)
	for k, v := range project.Config {
		config[k] = v
	}
	if project.Name() == "" {
		config["name"] = item
	}
	config["description"] = project.Description()
	config["sample_table"] = sampleTable
	switch len(subsampleTables) {
	case 0:
		delete(config, "subsample_table")
	case 1:
		config["subsample_table"] = subsampleTables[0]
	default:
		config["subsample_table"] = subsampleTables
	}

	var files []renderedFile
	data, err := encode(m.config, config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project config: %w", err)
	}
	files = append(files, renderedFile{name: fmt.Sprintf("%s_config.%s", item, m.config.Extension()), data: data})

	data, err = encode(m.table, rowsOf(project.SampleList))
	if err != nil {
		return nil, fmt.Errorf("failed to encode sample table: %w", err)
	}
	files = append(files, renderedFile{name: sampleTable, data: data})

	for i, table := range project.SubsampleList {
		data, err := encode(m.table, rowsOf(table))
		if err != nil {
			return nil, fmt.Errorf("failed to encode subsample table %d: %w", i+1, err)
		}
		files = append(files, renderedFile{name: subsampleTables[i], data: data})
	}
	return files, nil
}

func encode(e export.Exporter, doc any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rowsOf(rows []Row) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}

func existingFiles(paths []string) []string {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	return existing
}
