package config

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/FractureX/fracturex-module-database/internal/database"
	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// DatabaseConfig is one named entry of the registry.
type DatabaseConfig struct {
	Name string
	// URL is the connection string. "address" is accepted as an alias in
	// the environment text.
	URL string
}

// Kind infers the backend from the URL. It is never stored.
func (d DatabaseConfig) Kind() (database.Kind, error) {
	return database.InferKind(d.URL)
}

// Registry maps configuration names to DatabaseConfig, keeping the order in
// which entries were declared. It is read-only once built.
type Registry struct {
	names   []string
	entries map[string]DatabaseConfig
}

// NewRegistry builds a registry from entries in the given order.
func NewRegistry(entries ...DatabaseConfig) (*Registry, error) {
	r := &Registry{entries: make(map[string]DatabaseConfig, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "database configuration name must not be empty")
		}
		if _, dup := r.entries[e.Name]; dup {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "duplicate database configuration %q", e.Name)
		}
		if strings.TrimSpace(e.URL) == "" {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "database configuration %q has no url", e.Name)
		}
		r.names = append(r.names, e.Name)
		r.entries[e.Name] = e
	}
	return r, nil
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Names returns the entry names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the entry called name.
func (r *Registry) Lookup(name string) (DatabaseConfig, bool) {
	if r == nil {
		return DatabaseConfig{}, false
	}
	e, ok := r.entries[name]
	return e, ok
}

// First returns the first declared entry.
func (r *Registry) First() (DatabaseConfig, bool) {
	if r.Len() == 0 {
		return DatabaseConfig{}, false
	}
	return r.entries[r.names[0]], true
}

// Parse reads a name → {url} mapping. JSON and YAML are both accepted, and
// an entry may be given as a bare url string.
// An empty mapping yields an empty registry.
func Parse(text string) (*Registry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed database configuration", err)
	}
	if len(root.Content) == 0 {
		return nil, errs.New(errs.ErrKindInvalidInput, "malformed database configuration: empty document")
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errs.New(errs.ErrKindInvalidInput, "malformed database configuration: expected a mapping of name to {url}")
	}

	entries := make([]DatabaseConfig, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		value := doc.Content[i+1]

		// name: "<url>" is shorthand for name: {url: "<url>"}
		if value.Kind == yaml.ScalarNode {
			url := value.Value
			if value.Tag == "!!null" {
				url = ""
			}
			entries = append(entries, DatabaseConfig{Name: name, URL: url})
			continue
		}

		var raw struct {
			URL     string `yaml:"url"`
			Address string `yaml:"address"`
		}
		if err := value.Decode(&raw); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput,
				fmt.Sprintf("malformed database configuration %q", name), err)
		}

		url := raw.URL
		if url == "" {
			url = raw.Address
		}
		entries = append(entries, DatabaseConfig{Name: name, URL: url})
	}

	return NewRegistry(entries...)
}
