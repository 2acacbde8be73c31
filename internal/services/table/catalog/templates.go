package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// BlankTemplateID names the empty campaign.
const BlankTemplateID = "blank"

// Template is a bundled starting campaign.
type Template struct {
	ID          string
	Name        string
	Description string
	Author      string
	Document    domain.Document
}

type templateFile struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Author      string         `yaml:"author"`
	Document    map[string]any `yaml:"document"`
}

func loadTemplates(fsys fs.FS) ([]Template, error) {
	names, err := fs.Glob(fsys, "templates/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	templates := make([]Template, 0, len(names))
	for _, name := range names {
		var file templateFile
		if err := readYAML(fsys, name, &file); err != nil {
			return nil, err
		}
		if file.ID == "" {
			file.ID = strings.TrimSuffix(path.Base(name), ".yaml")
		}
		raw, err := json.Marshal(file.Document)
		if err != nil {
			return nil, fmt.Errorf("encode template %s: %w", file.ID, err)
		}
		doc, err := domain.ParseDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", file.ID, err)
		}
		templates = append(templates, Template{
			ID:          file.ID,
			Name:        file.Name,
			Description: file.Description,
			Author:      file.Author,
			Document:    doc,
		})
	}
	sort.SliceStable(templates, func(i, j int) bool {
		if (templates[i].ID == BlankTemplateID) != (templates[j].ID == BlankTemplateID) {
			return templates[i].ID == BlankTemplateID
		}
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

// Templates lists the bundled templates, blank first.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		t.Document = t.Document.Clone()
		out[i] = t
	}
	return out
}

// Template returns one template by id.
func (c *Catalog) Template(id string) (Template, error) {
	for _, t := range c.templates {
		if t.ID == id {
			t.Document = t.Document.Clone()
			return t, nil
		}
	}
	ids := make([]string, len(c.templates))
	for i, t := range c.templates {
		ids[i] = t.ID
	}
	return Template{}, apperrors.WithMetadata(apperrors.CodeTemplateNotFound, "template not found", map[string]string{
		"ID":         id,
		"Suggestion": Suggest(id, ids),
	})
}
