package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"makerbot/internal/domain"
)

// Category is a named, ordered list of object groups
type Category struct {
	Name   string     `toml:"name"`
	Groups [][]string `toml:"groups"`
}

// Style is a named ruleset/skin defining the full object menu
type Style struct {
	Name       string     `toml:"name"`
	Categories []Category `toml:"categories"`
}

// Registry holds every style known to this run
type Registry struct {
	styles map[string]Style
}

// NewRegistry creates a registry holding the built-in styles
func NewRegistry() *Registry {
	r := &Registry{styles: make(map[string]Style)}
	r.styles[StyleSMW.Name] = StyleSMW
	r.styles[StyleSM3DW.Name] = StyleSM3DW
	return r
}

// Register adds or replaces a style
func (r *Registry) Register(style Style) error {
	if style.Name == "" {
		return fmt.Errorf("style has no name")
	}
	r.styles[style.Name] = style
	return nil
}

// Get returns the style registered under name
func (r *Registry) Get(name string) (Style, error) {
	style, ok := r.styles[name]
	if !ok {
		return Style{}, &domain.UnknownStyleError{Style: name}
	}
	return style, nil
}

// Names returns the registered style names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.styles))
	for name := range r.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build flattens the named style into a Catalog
func (r *Registry) Build(name string) (*Catalog, error) {
	style, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return FromStyle(style)
}

// LoadStyleFile reads a style definition from a TOML file
func LoadStyleFile(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("failed to read style file: %w", err)
	}

	var style Style
	if err := toml.Unmarshal(data, &style); err != nil {
		return Style{}, fmt.Errorf("failed to parse style file %s: %w", path, err)
	}
	if style.Name == "" {
		return Style{}, fmt.Errorf("style file %s: missing name", path)
	}
	if len(style.Categories) == 0 {
		return Style{}, fmt.Errorf("style file %s: no categories", path)
	}

	return style, nil
}
