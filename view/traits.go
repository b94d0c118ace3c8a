package view

import (
	"sort"
	"strings"
)

// Traits is an immutable set of environment descriptors (size classes, dark
// mode, pointer kind, ...). Trait names are opaque to the engine; conditions
// only ever test containment.
type Traits struct {
	names map[string]struct{}
}

// NewTraits builds a trait set from the given names. Empty names are dropped.
func NewTraits(names ...string) Traits {
	t := Traits{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n != "" {
			t.names[n] = struct{}{}
		}
	}
	return t
}

// Contains reports whether the set holds the named trait.
func (t Traits) Contains(name string) bool {
	_, ok := t.names[name]
	return ok
}

// ContainsAll reports whether every trait of other is present in t. The empty
// set is contained in everything.
func (t Traits) ContainsAll(other Traits) bool {
	for n := range other.names {
		if !t.Contains(n) {
			return false
		}
	}
	return true
}

// Equal reports set equality.
func (t Traits) Equal(other Traits) bool {
	if len(t.names) != len(other.names) {
		return false
	}
	return t.ContainsAll(other)
}

// Len returns the number of traits in the set.
func (t Traits) Len() int {
	return len(t.names)
}

// Names returns the trait names in sorted order.
func (t Traits) Names() []string {
	out := make([]string, 0, len(t.names))
	for n := range t.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// String renders the set for logs and traces.
func (t Traits) String() string {
	return "{" + strings.Join(t.Names(), ",") + "}"
}
