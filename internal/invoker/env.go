package invoker

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/egoavara/plughub/internal/project"
)

const (
	EnvPluginName    = "PLUGHUB_PLUGIN_NAME"
	EnvPluginType    = "PLUGHUB_PLUGIN_TYPE"
	EnvPluginVariant = "PLUGHUB_PLUGIN_VARIANT"
)

// environment is a set of variables where later layers override earlier ones
type environment map[string]string

func newEnvironment(base []string) environment {
	env := make(environment, len(base))
	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

func (e environment) apply(layer map[string]string) {
	for k, v := range layer {
		e[k] = v
	}
}

// list returns KEY=VALUE pairs sorted by key
func (e environment) list() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}

// pluginLayer builds the variables plughub sets for a plugin: identity,
// then config values, then the plugin's explicit env.
func pluginLayer(root string, p project.InstalledPlugin) (environment, error) {
	env := environment{
		project.EnvProjectRoot: root,
		EnvPluginName:          p.Name,
		EnvPluginType:          p.Type.String(),
		EnvPluginVariant:       p.Variant,
	}

	keys := make([]string, 0, len(p.Config))
	for k := range p.Config {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	prefix := EnvName(p.Name)
	for _, k := range keys {
		value, err := configValue(p.Config[k])
		if err != nil {
			return nil, fmt.Errorf("config %q of %s: %w", k, p.ID(), err)
		}
		env[prefix+"_"+EnvName(k)] = value
	}

	env.apply(p.Env)
	return env, nil
}

func configValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EnvName converts s into an environment variable name: upper case, with
// every character outside [A-Z0-9] replaced by an underscore.
func EnvName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
