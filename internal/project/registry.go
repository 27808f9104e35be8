package project

import (
	"strings"

	"github.com/egoavara/plughub/internal/plugintype"
)

// Registry resolves plugin names against a fixed list of installed plugins
type Registry struct {
	plugins []InstalledPlugin
}

// NewRegistry creates a registry over plugins, kept in the given order
func NewRegistry(plugins []InstalledPlugin) *Registry {
	return &Registry{plugins: append([]InstalledPlugin(nil), plugins...)}
}

// Plugins returns the installed plugins in registry order
func (r *Registry) Plugins() []InstalledPlugin {
	return append([]InstalledPlugin(nil), r.plugins...)
}

// Resolve finds the plugin named name. The name may be qualified as
// "type/name" (singular or plural type) to restrict the lookup to one type.
//
// An unqualified name configured under several types is an
// *AmbiguousPluginError rather than the first match, so the result never
// depends on registry order.
func (r *Registry) Resolve(name string) (InstalledPlugin, error) {
	if typ, bare, ok := splitQualified(name); ok {
		for _, p := range r.plugins {
			if p.Type == typ && p.Name == bare {
				return p, nil
			}
		}
		return InstalledPlugin{}, &PluginNotFoundError{Name: bare, Type: typ}
	}

	var matches []InstalledPlugin
	for _, p := range r.plugins {
		if p.Name == name {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return InstalledPlugin{}, &PluginNotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		types := make([]plugintype.Type, 0, len(matches))
		for _, m := range matches {
			types = append(types, m.Type)
		}
		return InstalledPlugin{}, &AmbiguousPluginError{Name: name, Types: types}
	}
}

// splitQualified splits "type/name" when the prefix is a plugin type
func splitQualified(name string) (plugintype.Type, string, bool) {
	prefix, bare, found := strings.Cut(name, "/")
	if !found || bare == "" {
		return 0, "", false
	}
	typ, err := plugintype.Parse(prefix)
	if err != nil {
		return 0, "", false
	}
	return typ, bare, true
}
