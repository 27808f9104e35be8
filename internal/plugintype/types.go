package plugintype

import (
	"errors"
	"fmt"
	"strings"
)

// All is the scope token that selects every discoverable type
const All = "all"

// ErrInvalidArgument is matched by errors returned for unknown type tokens
var ErrInvalidArgument = errors.New("invalid argument")

// Type is a plugin category. The set is closed; the zero value is not a valid type.
type Type int

const (
	Extractor Type = iota + 1
	Loader
	Transform
	Orchestrator
	Transformer
	File
	Utility
	Mapper
	// Mapping is a pseudo-type for mapper mappings and cannot be discovered
	Mapping
)

// declared holds every type in declaration order
var declared = []Type{
	Extractor,
	Loader,
	Transform,
	Orchestrator,
	Transformer,
	File,
	Utility,
	Mapper,
	Mapping,
}

// InvalidArgumentError reports a token that does not name a plugin type
type InvalidArgumentError struct {
	Token string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid plugin type %q: expected one of %s", e.Token, strings.Join(Tokens(), ", "))
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// String returns the canonical singular name, e.g. "extractor"
func (t Type) String() string {
	switch t {
	case Extractor:
		return "extractor"
	case Loader:
		return "loader"
	case Transform:
		return "transform"
	case Orchestrator:
		return "orchestrator"
	case Transformer:
		return "transformer"
	case File:
		return "file"
	case Utility:
		return "utility"
	case Mapper:
		return "mapper"
	case Mapping:
		return "mapping"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Plural returns the plural form used by the hub API and project files
func (t Type) Plural() string {
	switch t {
	case Utility:
		return "utilities"
	case Extractor, Loader, Transform, Orchestrator, Transformer, File, Mapper, Mapping:
		return t.String() + "s"
	default:
		return t.String()
	}
}

// Display returns the capitalized singular name used as a listing header
func (t Type) Display() string {
	name := t.String()
	if !t.Valid() {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Discoverable reports whether the type is listed by the "all" scope
func (t Type) Discoverable() bool {
	switch t {
	case Mapping:
		return false
	default:
		return t.Valid()
	}
}

// Valid reports whether t is one of the declared types
func (t Type) Valid() bool {
	return t >= Extractor && t <= Mapping
}

// Parse maps a canonical singular or plural name to its Type
func Parse(token string) (Type, error) {
	for _, t := range declared {
		if token == t.String() || token == t.Plural() {
			return t, nil
		}
	}
	return 0, &InvalidArgumentError{Token: token}
}

// AllTypes returns every type in declaration order
func AllTypes() []Type {
	out := make([]Type, len(declared))
	copy(out, declared)
	return out
}

// Discoverable returns the discoverable types in declaration order
func Discoverable() []Type {
	var out []Type
	for _, t := range declared {
		if t.Discoverable() {
			out = append(out, t)
		}
	}
	return out
}

// Tokens returns the canonical names accepted on the command line, followed by "all"
func Tokens() []string {
	out := make([]string, 0, len(declared)+1)
	for _, t := range declared {
		out = append(out, t.String())
	}
	return append(out, All)
}
