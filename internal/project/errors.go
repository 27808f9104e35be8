package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/egoavara/plughub/internal/plugintype"
)

var (
	// ErrProjectNotFound is returned when no project file exists in the search path
	ErrProjectNotFound = errors.New("project not found")
	// ErrPluginNotFound is matched by *PluginNotFoundError
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrAmbiguousPlugin is matched by *AmbiguousPluginError
	ErrAmbiguousPlugin = errors.New("ambiguous plugin name")
)

// PluginNotFoundError reports a name that no configured plugin has
type PluginNotFoundError struct {
	Name string
	// Type is set when the lookup was restricted to one type
	Type plugintype.Type
}

func (e *PluginNotFoundError) Error() string {
	if e.Type.Valid() {
		return fmt.Sprintf("%s %q is not configured in this project", e.Type, e.Name)
	}
	return fmt.Sprintf("plugin %q is not configured in this project", e.Name)
}

func (e *PluginNotFoundError) Is(target error) bool {
	return target == ErrPluginNotFound
}

// AmbiguousPluginError reports a name configured under more than one type
type AmbiguousPluginError struct {
	Name  string
	Types []plugintype.Type
}

// TypeNames returns the candidate types as canonical names
func (e *AmbiguousPluginError) TypeNames() []string {
	names := make([]string, 0, len(e.Types))
	for _, t := range e.Types {
		names = append(names, t.String())
	}
	return names
}

func (e *AmbiguousPluginError) Error() string {
	return fmt.Sprintf("plugin name %q is configured as %s; qualify it as <type>/%s",
		e.Name, strings.Join(e.TypeNames(), ", "), e.Name)
}

func (e *AmbiguousPluginError) Is(target error) bool {
	return target == ErrAmbiguousPlugin
}
