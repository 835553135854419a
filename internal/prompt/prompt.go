package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder marks where the user's selection is inserted into a template body.
const Placeholder = "{{TEXT}}"

//go:embed templates.yaml
var defaultTemplates []byte

var (
	ErrNoTemplates      = errors.New("template catalog is empty")
	ErrTemplateNotFound = errors.New("template not found")
)

// Template is a named instruction body with one embedded placeholder.
type Template struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Body  string `yaml:"body" json:"-"`
}

// Compose replaces the first placeholder in the body with selection, verbatim.
// A body without the placeholder is returned unchanged.
func (t Template) Compose(selection string) string {
	return strings.Replace(t.Body, Placeholder, selection, 1)
}

// HasPlaceholder reports whether the selection will actually be inserted.
func (t Template) HasPlaceholder() bool {
	return strings.Contains(t.Body, Placeholder)
}

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// Catalog is the fixed, ordered set of templates offered in the chooser.
type Catalog struct {
	templates []Template
	byID      map[string]int
}

// NewCatalog validates templates and keeps them in the given display order.
func NewCatalog(templates []Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	c := &Catalog{
		templates: make([]Template, len(templates)),
		byID:      make(map[string]int, len(templates)),
	}
	for i, t := range templates {
		if t.ID == "" || t.Label == "" {
			return nil, fmt.Errorf("template %d: id and label are required", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("template %d: duplicate id %q", i, t.ID)
		}
		c.templates[i] = t
		c.byID[t.ID] = i
	}
	return c, nil
}

// Default returns the built-in Summarize, Extract Wisdom and Clean Text catalog.
func Default() *Catalog {
	c, err := Parse(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return c
}

// Parse reads a YAML document with a top-level "templates" list.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return NewCatalog(f.Templates)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	return Parse(data)
}

// All returns the templates in display order.
func (c *Catalog) All() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get looks a template up by id.
func (c *Catalog) Get(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return c.templates[i], nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
