package todo

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogEntry struct {
	Name            string `yaml:"name"`
	Type            Type   `yaml:"todo_type"`
	Description     string `yaml:"description"`
	ExtraFieldLabel string `yaml:"extra_field_label"`
}

// DefaultCatalog returns the built-in default todo list.
func DefaultCatalog() []DefaultTodo {
	entries, err := parseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("todo: embedded catalog: %v", err))
	}
	return entries
}

// LoadCatalog reads a catalog in the same YAML shape as the built-in one.
func LoadCatalog(r io.Reader) ([]DefaultTodo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseCatalog(raw)
}

func parseCatalog(raw []byte) ([]DefaultTodo, error) {
	var entries []catalogEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]DefaultTodo, 0, len(entries))
	for i, e := range entries {
		out = append(out, DefaultTodo{
			Name:            e.Name,
			Type:            e.Type,
			Description:     e.Description,
			ExtraFieldLabel: e.ExtraFieldLabel,
			SortOrder:       i,
		})
	}
	return out, nil
}
