package plugintype

// Scope is the target of a discovery request: one type, or every discoverable type
type Scope struct {
	all bool
	typ Type
}

// ScopeAll selects every discoverable type
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeOf selects a single type
func ScopeOf(t Type) Scope {
	return Scope{typ: t}
}

// ParseScope accepts "all" or anything Parse accepts
func ParseScope(token string) (Scope, error) {
	if token == All {
		return ScopeAll(), nil
	}
	t, err := Parse(token)
	if err != nil {
		return Scope{}, err
	}
	return ScopeOf(t), nil
}

// IsAll reports whether the scope is the "all" sentinel
func (s Scope) IsAll() bool {
	return s.all
}

// Types returns the ordered list of target types
func (s Scope) Types() []Type {
	if s.all {
		return Discoverable()
	}
	if !s.typ.Valid() {
		return nil
	}
	return []Type{s.typ}
}

func (s Scope) String() string {
	if s.all {
		return All
	}
	return s.typ.String()
}
