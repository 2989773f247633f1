package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
	"gopkg.in/yaml.v3"
)

// ExportFormat names a document format for exporting and importing tasks.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
	FormatTOML ExportFormat = "toml"
)

// ParseExportFormat converts user input into an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported format %q: must be json, yaml or toml", s)
}

// FormatFromPath guesses the format of a file from its extension, defaulting
// to JSON.
func FormatFromPath(path string) ExportFormat {
	f, err := ParseExportFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// exportDocument wraps the task list so TOML, which has no top-level arrays,
// can carry it.
type exportDocument struct {
	Tasks []models.Task `yaml:"tasks" toml:"tasks"`
}

// EncodeTasks renders tasks in the given format. JSON output is the same
// array shape the store persists.
func EncodeTasks(tasks []models.Task, format ExportFormat) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding tasks as json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(exportDocument{Tasks: tasks})
		if err != nil {
			return nil, fmt.Errorf("encoding tasks as yaml: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(exportDocument{Tasks: tasks}); err != nil {
			return nil, fmt.Errorf("encoding tasks as toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// DecodeTasks parses a document produced by EncodeTasks.
func DecodeTasks(data []byte, format ExportFormat) ([]models.Task, error) {
	switch format {
	case FormatJSON:
		var tasks []models.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("decoding json tasks: %w", err)
		}
		return tasks, nil
	case FormatYAML:
		var doc exportDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml tasks: %w", err)
		}
		return doc.Tasks, nil
	case FormatTOML:
		var doc exportDocument
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decoding toml tasks: %w", err)
		}
		return doc.Tasks, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
