// Package ref provides parsing and formatting of compound entity references.
//
// A compound reference addresses one catalog entity in the canonical
// "kind:namespace/name" form, for example "Component:acme/checkout". The
// namespace segment is the fixed pseudo-namespace "cluster" for
// cluster-scoped kinds.
package ref

import (
	"fmt"
	"strings"

	"github.com/rashadism/choreosync/models"
)

// Ref is a parsed compound entity reference.
type Ref struct {
	// Kind is the entity kind segment.
	Kind string

	// Namespace is the namespace segment.
	Namespace string

	// Name is the name segment.
	Name string
}

// String formats the reference in the canonical "kind:namespace/name" form.
func (r Ref) String() string {
	return r.Kind + ":" + r.Namespace + "/" + r.Name
}

// Parse parses a compound reference string. All three segments are required
// and must be non-empty.
func Parse(s string) (Ref, error) {
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, fmt.Errorf("%w: missing kind separator in %q", models.ErrInvalidRef, s)
	}
	namespace, name, ok := strings.Cut(rest, "/")
	if !ok {
		return Ref{}, fmt.Errorf("%w: missing namespace separator in %q", models.ErrInvalidRef, s)
	}
	if kind == "" || namespace == "" || name == "" {
		return Ref{}, fmt.Errorf("%w: empty segment in %q", models.ErrInvalidRef, s)
	}
	if !models.ValidKind(kind) {
		return Ref{}, fmt.Errorf("%w: %q", models.ErrInvalidKind, kind)
	}
	return Ref{Kind: kind, Namespace: namespace, Name: name}, nil
}

// ForEntity returns the reference of a catalog entity.
func ForEntity(e models.Entity) Ref {
	return Ref{Kind: e.Kind, Namespace: e.Namespace, Name: e.Name}
}
