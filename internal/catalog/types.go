package catalog

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/egoavara/plughub/internal/plugintype"
)

// Variant is one named implementation of a plugin
type Variant struct {
	Name       string
	Label      string
	Deprecated bool
}

// DisplayLabel returns the label, falling back to the name
func (v Variant) DisplayLabel() string {
	if v.Label != "" {
		return v.Label
	}
	return v.Name
}

// Descriptor is a single catalog entry. Variants is never empty for a listed plugin.
type Descriptor struct {
	Type           plugintype.Type
	Name           string
	LogoURL        string
	DefaultVariant string
	Variants       []Variant
}

// VariantLabels returns the variant labels in catalog order
func (d Descriptor) VariantLabels() []string {
	labels := make([]string, 0, len(d.Variants))
	for _, v := range d.Variants {
		labels = append(labels, v.DisplayLabel())
	}
	return labels
}

// VariantNames returns the variant names in catalog order
func (d Descriptor) VariantNames() []string {
	names := make([]string, 0, len(d.Variants))
	for _, v := range d.Variants {
		names = append(names, v.Name)
	}
	return names
}

// Summary renders the one-line listing form. A single variant is the implicit
// default and is not enumerated.
func (d Descriptor) Summary() string {
	if len(d.Variants) > 1 {
		return d.Name + ", variants: " + strings.Join(d.VariantLabels(), ", ")
	}
	return d.Name
}

// ID returns "type/name", the qualified form accepted by invoke
func (d Descriptor) ID() string {
	return d.Type.String() + "/" + d.Name
}

// Index maps plugin name to descriptor for one type, keeping insertion order
type Index struct {
	Type    plugintype.Type
	entries *orderedmap.OrderedMap[string, Descriptor]
}

// NewIndex creates an empty index for a type
func NewIndex(t plugintype.Type) *Index {
	return &Index{
		Type:    t,
		entries: orderedmap.New[string, Descriptor](),
	}
}

// Set adds or replaces a descriptor. Replacing keeps the original position.
func (i *Index) Set(d Descriptor) {
	d.Type = i.Type
	i.entries.Set(d.Name, d)
}

// Get looks up a descriptor by name
func (i *Index) Get(name string) (Descriptor, bool) {
	return i.entries.Get(name)
}

// Len returns the number of descriptors
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return i.entries.Len()
}

// Descriptors returns the descriptors in insertion order
func (i *Index) Descriptors() []Descriptor {
	if i == nil {
		return nil
	}
	out := make([]Descriptor, 0, i.entries.Len())
	for pair := i.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Names returns the plugin names in insertion order
func (i *Index) Names() []string {
	if i == nil {
		return nil
	}
	out := make([]string, 0, i.entries.Len())
	for pair := i.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
