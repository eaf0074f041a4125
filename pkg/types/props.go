// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// PropSet is an immutable set of property names. Lookups are
// case-insensitive; names are stored lower-cased.
type PropSet map[string]struct{}

// NewPropSet builds a PropSet from the given names.
func NewPropSet(names ...string) PropSet {
	s := make(PropSet, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s PropSet) Has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// ExportableProps names the annotation fields written into a heading's
// property drawer on export. The importer recognizes the same set when
// reading a drawer back, so round-tripped properties survive.
var ExportableProps = NewPropSet(
	"page", "edges", "id", "flags", "color", "modified",
	"label", "subject", "opacity", "created", "markup-edges", "icon",
)

// ImportableProps names the properties handed to the annotation store when
// creating an annotation. Deliberately narrower than ExportableProps:
// id, created, modified, page, markup-edges and subject are either derived,
// assigned fresh by the store, or not recoverable with fidelity from the
// outline text.
var ImportableProps = NewPropSet(
	"contents", "edges", "flags", "color", "label", "opacity", "icon",
)
