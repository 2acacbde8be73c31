// Package catalog serves the bundled reference data: campaign templates,
// the bestiary, environments, equipment and keeper moves.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data
var embedded embed.FS

// Catalog is the parsed reference data. It is read-only after Load.
type Catalog struct {
	templates    []Template
	tiers        []Tier
	environments Environments
	equipment    Equipment
	moves        Moves
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded data, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load()
	})
	return defaultCatalog, defaultErr
}

// Load parses the embedded data.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("open catalog data: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS parses catalog data laid out as templates/*.yaml, bestiary.yaml,
// environments.yaml, equipment.yaml and moves.yaml.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	var err error
	if c.templates, err = loadTemplates(fsys); err != nil {
		return nil, err
	}
	if c.tiers, err = loadBestiary(fsys); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, "environments.yaml", &c.environments); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, "equipment.yaml", &c.equipment); err != nil {
		return nil, err
	}
	if c.moves, err = loadMoves(fsys); err != nil {
		return nil, err
	}
	return c, nil
}

func readYAML(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// viaJSON re-encodes decoded YAML as JSON into v so records share the
// lenient JSON decoding of saved documents.
func viaJSON(in any, v any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
