package program

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"lpd8ctl/setting"
)

//go:embed presets/*.json
var bundled embed.FS

// Preset is a named program record.
type Preset struct {
	Name   string
	Config *Config
}

// Registry is an immutable, ordered set of presets. Lookups hand out
// deep copies so callers can mutate them freely.
type Registry struct {
	presets []Preset
}

// NewRegistry builds a registry from presets in the given order.
func NewRegistry(presets ...Preset) *Registry {
	r := &Registry{presets: make([]Preset, len(presets))}
	for i, p := range presets {
		r.presets[i] = Preset{Name: p.Name, Config: p.Config.Clone()}
	}
	return r
}

// LoadRegistry reads every *.json file in fsys, sorted by file name.
func LoadRegistry(fsys fs.FS) (*Registry, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var presets []Preset
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		cfg, err := Parse(data, false)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		presets = append(presets, Preset{Name: presetName(name), Config: cfg})
	}
	return &Registry{presets: presets}, nil
}

// "01-drums.json" -> "drums"
func presetName(file string) string {
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	if i := strings.IndexByte(base, '-'); i >= 0 {
		return base[i+1:]
	}
	return base
}

// DefaultRegistry returns the presets bundled with the binary.
func DefaultRegistry() (*Registry, error) {
	sub, err := fs.Sub(bundled, "presets")
	if err != nil {
		return nil, err
	}
	return LoadRegistry(sub)
}

// Len returns the number of presets.
func (r *Registry) Len() int { return len(r.presets) }

// Names returns preset names in index order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.presets))
	for i, p := range r.presets {
		names[i] = p.Name
	}
	return names
}

// Get returns a copy of preset n (1-based).
func (r *Registry) Get(n int) (*Config, error) {
	if n < 1 || n > len(r.presets) {
		return nil, &setting.RangeError{Setting: "preset", Value: n, Lower: 1, Upper: len(r.presets)}
	}
	return r.presets[n-1].Config.Clone(), nil
}
