package project

import (
	"maps"

	"github.com/egoavara/plughub/internal/plugintype"
)

// File is the plughub.yml structure
type File struct {
	Version int                       `json:"version"`
	Env     map[string]string         `json:"env,omitempty"`
	Plugins map[string][]PluginConfig `json:"plugins,omitempty"` // keyed by plural plugin type
}

// PluginConfig is one plugin entry in plughub.yml
type PluginConfig struct {
	Name       string            `json:"name"`
	Variant    string            `json:"variant,omitempty"`
	Executable string            `json:"executable,omitempty"` // defaults to name
	Command    string            `json:"command,omitempty"`    // shell-words command line; wins over executable
	Config     map[string]any    `json:"config,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
}

// InstalledPlugin is a configured plugin instance of a project
type InstalledPlugin struct {
	Type       plugintype.Type
	Name       string
	Variant    string
	Executable string
	Command    string
	Config     map[string]any
	Env        map[string]string
}

// ID returns "type/name"
func (p InstalledPlugin) ID() string {
	return p.Type.String() + "/" + p.Name
}

// ExecutableName returns the configured executable, defaulting to the plugin name
func (p InstalledPlugin) ExecutableName() string {
	if p.Executable != "" {
		return p.Executable
	}
	return p.Name
}

func newInstalledPlugin(t plugintype.Type, c PluginConfig) InstalledPlugin {
	return InstalledPlugin{
		Type:       t,
		Name:       c.Name,
		Variant:    c.Variant,
		Executable: c.Executable,
		Command:    c.Command,
		Config:     maps.Clone(c.Config),
		Env:        maps.Clone(c.Env),
	}
}
