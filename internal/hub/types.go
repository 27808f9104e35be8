package hub

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// indexResponse is the body of GET /plugins/{type}/index, keyed by plugin name
type indexResponse = orderedmap.OrderedMap[string, indexedPlugin]

type indexedPlugin struct {
	LogoURL        string                                         `json:"logo_url,omitempty"`
	DefaultVariant string                                         `json:"default_variant,omitempty"`
	Variants       *orderedmap.OrderedMap[string, indexedVariant] `json:"variants,omitempty"`
}

type indexedVariant struct {
	Ref        string `json:"ref,omitempty"`
	Label      string `json:"label,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}
