package scss

import (
	"fmt"
	"slices"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Registry is the immutable name keyed set of mixin definitions for one run.
// It is built once from the loaded library and shared read only across every
// file processed in that run, concurrent pipelines included.
type Registry struct {
	defs map[string]Definition
}

// BuildRegistry parses every library file and registers the definitions found
// in it. Files are processed in the library's fixed natural order, a name
// declared twice is resolved last-scanned-wins and reported as a Warning
// naming both files.
func BuildRegistry(lib *Library, log *zap.Logger) (*Registry, []Diagnostic) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scss-registry")

	var diags []Diagnostic
	reg := &Registry{defs: make(map[string]Definition)}

	for _, f := range lib.Files {
		defs := ParseDefinitions(f.Data, f.Path)
		log.Debug("Parsed library file", zap.String("file", f.Path), zap.Int("mixins", len(defs)))
		for _, def := range defs {
			if prev, exists := reg.defs[def.Name]; exists {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("mixin %q in %s overrides earlier definition from %s", def.Name, def.File, prev.File),
					File:     def.File,
					Line:     def.Line,
				})
				log.Warn("Mixin name collision, last definition wins",
					zap.String("mixin", def.Name), zap.String("kept", def.File), zap.String("shadowed", prev.File))
			}
			reg.defs[def.Name] = def
		}
	}

	log.Debug("Registry built", zap.Int("mixins", len(reg.defs)))
	return reg, diags
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Len returns the number of registered mixins.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Names returns all registered mixin names in natural sort order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if a == b {
			return 0
		}
		if natural.Less(a, b) {
			return -1
		}
		return 1
	})
	return names
}
