// Package catalog holds the read-only component catalog loaded from a JSON array.
// Derived fields (type and tags) are computed once at load time and records are never
// mutated afterwards, so a *Catalog can be shared between requests without locking.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

//go:embed bundled.json
var bundledJSON []byte

// LoadError reports a missing or malformed catalog source
type LoadError struct {
	Path string
	Err  error
}

// Error implements error
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog load failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog load failed for %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *LoadError) Unwrap() error { return e.Err }

// Provider supplies the catalog in effect for a request
type Provider interface {
	Catalog() (*Catalog, error)
}

// Catalog is an immutable list of components with a case-insensitive name index
type Catalog struct {
	components []Component
	byName     map[string]int
	checksum   uint64
}

// New builds a catalog from components, deriving missing type and tags.
// Names must be unique (case-insensitive) and categories must be known.
func New(components []Component) (*Catalog, error) {
	c := &Catalog{
		components: make([]Component, 0, len(components)),
		byName:     make(map[string]int, len(components)),
	}
	for i, comp := range components {
		comp.Name = strings.TrimSpace(comp.Name)
		if comp.Name == "" {
			return nil, fmt.Errorf("component #%d has empty name", i)
		}
		key := strings.ToLower(comp.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate component name: %s", comp.Name)
		}
		category, ok := ParseCategory(string(comp.Category))
		if !ok {
			return nil, fmt.Errorf("component %s has unknown category %q", comp.Name, comp.Category)
		}
		comp.Category = category

		switch kind, ok := ParseKind(string(comp.Type)); {
		case ok:
			comp.Type = kind
		case strings.TrimSpace(string(comp.Type)) == "":
			comp.Type = DeriveKind(comp.Name)
		default:
			return nil, fmt.Errorf("component %s has unknown type %q", comp.Name, comp.Type)
		}

		if len(comp.Tags) == 0 {
			comp.Tags = DeriveTags(comp.Name, comp.Category)
		} else {
			comp.Tags = normalizeTags(comp.Tags)
		}

		c.byName[key] = len(c.components)
		c.components = append(c.components, comp)
	}

	// marshaling plain structs can't fail
	data, _ := json.Marshal(c.components)
	c.checksum = xxhash.Sum64(data)
	return c, nil
}

// Parse decodes a JSON array of components into a catalog
func Parse(data []byte) (*Catalog, error) {
	var components []Component
	if err := json.Unmarshal(data, &components); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("invalid catalog JSON: %w", err)}
	}
	c, err := New(components)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return c, nil
}

// LoadFile reads and parses a catalog JSON file
func LoadFile(path string) (*Catalog, error) {
	// #nosec G304 - catalog path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	c, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return c, nil
}

// Bundled returns the catalog embedded into the binary
func Bundled() (*Catalog, error) {
	return Parse(bundledJSON)
}

// All returns every component in source order. The slice is shared and must not be modified.
func (c *Catalog) All() []Component {
	return c.components
}

// Len returns the number of components
func (c *Catalog) Len() int {
	return len(c.components)
}

// Checksum identifies the normalized catalog content
func (c *Catalog) Checksum() uint64 {
	return c.checksum
}

// FindByName returns the component with the given name, compared case-insensitively
func (c *Catalog) FindByName(name string) (Component, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Component{}, false
	}
	return c.components[idx], true
}

// FilterByCategory returns components of the given category in source order
func (c *Catalog) FilterByCategory(category Category) []Component {
	var result []Component
	for _, comp := range c.components {
		if comp.Category == category {
			result = append(result, comp)
		}
	}
	return result
}

// Names returns all component names in source order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.components))
	for i, comp := range c.components {
		names[i] = comp.Name
	}
	return names
}

// Catalog implements Provider for an already loaded catalog
func (c *Catalog) Catalog() (*Catalog, error) {
	return c, nil
}
