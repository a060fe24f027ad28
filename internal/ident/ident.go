// Package ident implements namespace-qualified resource identifiers of the
// form "namespace:name". Identifiers are case-sensitive and matched exactly.
package ident

import (
	"path"
	"strings"
)

// DefaultNamespace is assumed when an identifier carries no namespace.
const DefaultNamespace = "minecraft"

// ID is a parsed identifier. Name may contain path separators and an
// optional variant suffix appended after '#'.
type ID struct {
	Namespace string
	Name      string
}

// Parse splits s into namespace and name. A missing namespace defaults to
// DefaultNamespace. Only the first ':' separates the two parts.
func Parse(s string) ID {
	ns, name, ok := strings.Cut(s, ":")
	if !ok {
		return ID{Namespace: DefaultNamespace, Name: s}
	}
	return ID{Namespace: ns, Name: name}
}

// String returns the canonical "namespace:name" form.
func (id ID) String() string {
	return id.Namespace + ":" + id.Name
}

// Variant returns the identifier with a variant suffix, "namespace:name#v".
func (id ID) Variant(v string) string {
	return id.String() + "#" + v
}

// Basename returns the identifier reduced to the last path segment of its
// name. Identifiers sourced from quest data may carry a path-like name
// ("mod:block/gem_ore"); lookups operate on the bare leaf ("mod:gem_ore").
func (id ID) Basename() ID {
	return ID{Namespace: id.Namespace, Name: path.Base(id.Name)}
}

// Key builds the canonical map key for a namespace and name.
func Key(ns, name string) string {
	return ns + ":" + name
}

// Flatten replaces path separators in a subpath with underscores, producing
// the alternate registration key for nested texture paths.
func Flatten(sub string) string {
	return strings.ReplaceAll(sub, "/", "_")
}
