package project

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"github.com/egoavara/plughub/internal/plugintype"
)

const (
	// FileName is the project file looked up by Find
	FileName = "plughub.yml"
	// EnvProjectRoot pins the project root instead of searching for it
	EnvProjectRoot = "PLUGHUB_PROJECT_ROOT"
	// StateDir holds installed plugin environments under the project root
	StateDir = ".plughub"

	supportedVersion = 1
)

// Project is a loaded plughub project
type Project struct {
	Root string
	fs   afero.Fs
	file *File
}

// Find locates the project containing startDir, walking up to the filesystem root.
// EnvProjectRoot, when set, is used as the root without searching.
func Find(fs afero.Fs, startDir string) (*Project, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return Load(fs, root)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		exists, err := afero.Exists(fs, filepath.Join(dir, FileName))
		if err != nil {
			return nil, err
		}
		if exists {
			return Load(fs, dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w: no %s in %s or any parent directory", ErrProjectNotFound, FileName, startDir)
		}
		dir = parent
	}
}

// Load reads and validates the project file in root
func Load(fs afero.Fs, root string) (*Project, error) {
	path := filepath.Join(root, FileName)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrProjectNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return &Project{Root: root, fs: fs, file: file}, nil
}

// Parse decodes and validates project file contents. All validation problems
// are reported together.
func Parse(data []byte) (*File, error) {
	var file File
	// Keep config numbers as written; float64 would round large integers
	if err := yaml.Unmarshal(data, &file, func(d *json.Decoder) *json.Decoder {
		d.UseNumber()
		return d
	}); err != nil {
		return nil, err
	}
	if err := validate(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

func validate(file *File) error {
	var result *multierror.Error

	if file.Version != supportedVersion {
		result = multierror.Append(result, fmt.Errorf("unsupported version %d, expected %d", file.Version, supportedVersion))
	}

	for _, key := range pluginKeys(file.Plugins) {
		plugins := file.Plugins[key]
		t, err := plugintype.Parse(key)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("plugins: %w", err))
			continue
		}
		if key != t.Plural() {
			result = multierror.Append(result, fmt.Errorf("plugins.%s: use the plural key %q", key, t.Plural()))
			continue
		}

		seen := make(map[string]bool, len(plugins))
		for i, p := range plugins {
			if p.Name == "" {
				result = multierror.Append(result, fmt.Errorf("plugins.%s[%d]: name is required", key, i))
				continue
			}
			if seen[p.Name] {
				result = multierror.Append(result, fmt.Errorf("plugins.%s[%d]: duplicate %s %q", key, i, t, p.Name))
			}
			seen[p.Name] = true
		}
	}

	return result.ErrorOrNil()
}

// pluginKeys orders the plugins keys by plugin type declaration, then any
// unrecognized keys alphabetically
func pluginKeys(plugins map[string][]PluginConfig) []string {
	keys := make([]string, 0, len(plugins))
	for _, t := range plugintype.AllTypes() {
		if _, ok := plugins[t.Plural()]; ok {
			keys = append(keys, t.Plural())
		}
	}

	var rest []string
	for key := range plugins {
		if !slices.Contains(keys, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// Fs returns the filesystem the project was loaded from
func (p *Project) Fs() afero.Fs {
	return p.fs
}

// Env returns the project-level environment variables
func (p *Project) Env() map[string]string {
	return maps.Clone(p.file.Env)
}

// PluginDir returns the directory plugin environments of t/name are installed into
func (p *Project) PluginDir(t plugintype.Type, name string) string {
	return filepath.Join(p.Root, StateDir, t.Plural(), name)
}

// Plugins returns every configured plugin: types in declaration order, plugins
// in file order within a type.
func (p *Project) Plugins() []InstalledPlugin {
	var out []InstalledPlugin
	for _, t := range plugintype.AllTypes() {
		for _, c := range p.file.Plugins[t.Plural()] {
			out = append(out, newInstalledPlugin(t, c))
		}
	}
	return out
}

// Registry returns the installed-plugin registry of the project
func (p *Project) Registry() *Registry {
	return NewRegistry(p.Plugins())
}
