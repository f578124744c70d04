package presets

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
)

// ErrUnknownPreset is returned by Get for a name with no layout.
var ErrUnknownPreset = errors.New("unknown preset")

// Registry holds the loaded layouts keyed by name.
type Registry struct {
	layouts map[string]Layout
}

// NewRegistry creates a registry from loaded layouts. Later layouts replace
// earlier ones with the same name.
func NewRegistry(layouts []Layout) *Registry {
	registry := &Registry{layouts: make(map[string]Layout, len(layouts))}
	for _, l := range layouts {
		registry.layouts[l.Name] = l
	}
	return registry
}

// LoadRegistry loads every embedded layout.
func LoadRegistry() (*Registry, error) {
	files, err := fs.Glob(layoutFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	layouts := make([]Layout, 0, len(files))
	for _, f := range files {
		l, err := Load[Layout](f)
		if err != nil {
			return nil, err
		}
		if l.Name == "" {
			return nil, fmt.Errorf("layout %s has no name", f)
		}
		layouts = append(layouts, l)
	}
	if len(layouts) == 0 {
		return nil, errors.New("no layouts embedded")
	}
	return NewRegistry(layouts), nil
}

// MustLoadRegistry loads a registry, panicking on error.
func MustLoadRegistry() *Registry {
	registry, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Get returns the layout with the given name.
func (r *Registry) Get(name string) (Layout, error) {
	l, ok := r.layouts[name]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return l, nil
}

// Names returns the layout names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Count returns the number of layouts in the registry.
func (r *Registry) Count() int {
	return len(r.layouts)
}
