// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strconv"
	"time"

	"github.com/pdiddy/pdforg/internal/sexpr"
)

// Kind identifies an annotation kind. The set is open: PDF viewers may store
// kinds beyond the ones named here, and unknown kinds are carried through
// verbatim.
type Kind string

const (
	KindText      Kind = "text"
	KindLink      Kind = "link"
	KindHighlight Kind = "highlight"
	KindUnderline Kind = "underline"
	KindSquiggly  Kind = "squiggly"
	KindStrikeOut Kind = "strike-out"
)

// IsMarkup reports whether the kind marks up a run of page text and
// therefore carries one rectangle per covered text line.
func (k Kind) IsMarkup() bool {
	switch k {
	case KindHighlight, KindUnderline, KindSquiggly, KindStrikeOut:
		return true
	}
	return false
}

// Rect is a rectangle in page-normalized coordinates: values in [0,1],
// origin at the top-left corner of the page, Y growing downward.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Annotation holds one annotation record read from or destined for a PDF
// annotation store. Known fields are typed; anything else the store carries
// lands in Extra as its printable string form.
type Annotation struct {
	// ID is an opaque identifier, stable per annotation within one PDF.
	ID string `json:"id" yaml:"id"`

	// Type is the annotation kind (highlight, text, link, ...).
	Type Kind `json:"type" yaml:"type"`

	// Page is the 1-based page number.
	Page int `json:"page" yaml:"page"`

	// Edges is the annotation rectangle, present for all annotations.
	Edges Rect `json:"edges" yaml:"edges"`

	// MarkupEdges holds one rectangle per covered text line, in reading
	// order. It is nil unless Type.IsMarkup(); when non-nil it is non-empty
	// and supersedes Edges for region computation.
	MarkupEdges []Rect `json:"markup_edges,omitempty" yaml:"markup_edges,omitempty"`

	// Contents is the free-form note text authored by the user.
	Contents string `json:"contents,omitempty" yaml:"contents,omitempty"`

	Flags   int     `json:"flags" yaml:"flags"`
	Color   string  `json:"color,omitempty" yaml:"color,omitempty"`
	Label   string  `json:"label,omitempty" yaml:"label,omitempty"`
	Subject string  `json:"subject,omitempty" yaml:"subject,omitempty"`
	Opacity float64 `json:"opacity" yaml:"opacity"`

	// Created is the creation timestamp in the store's printable form.
	Created string `json:"created,omitempty" yaml:"created,omitempty"`

	// Modified is the last-modification time, zero if the store has none.
	Modified time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`

	// Icon names the icon shown for text-note annotations.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`

	// Extra holds pass-through fields outside the known set, keyed by
	// lower-cased name.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Region returns the rectangle that stands in for the whole annotation:
// the markup rectangles when present, otherwise Edges.
func (a *Annotation) Region() []Rect {
	if len(a.MarkupEdges) > 0 {
		return a.MarkupEdges
	}
	return []Rect{a.Edges}
}

// Field returns the printable string form of the named field, or ok=false
// when the annotation has no value for it. Unknown names fall back to Extra.
func (a *Annotation) Field(name string) (string, bool) {
	switch name {
	case "page":
		return strconv.Itoa(a.Page), true
	case "edges":
		return sexpr.FormatRect(a.Edges.Left, a.Edges.Top, a.Edges.Right, a.Edges.Bottom), true
	case "id":
		return a.ID, a.ID != ""
	case "flags":
		return strconv.Itoa(a.Flags), true
	case "color":
		return a.Color, a.Color != ""
	case "modified":
		if a.Modified.IsZero() {
			return "", false
		}
		return sexpr.FormatTime(a.Modified), true
	case "label":
		return a.Label, a.Label != ""
	case "subject":
		return a.Subject, a.Subject != ""
	case "opacity":
		return strconv.FormatFloat(a.Opacity, 'g', -1, 64), true
	case "created":
		return a.Created, a.Created != ""
	case "markup-edges":
		if len(a.MarkupEdges) == 0 {
			return "", false
		}
		quads := make([][4]float64, len(a.MarkupEdges))
		for i, r := range a.MarkupEdges {
			quads[i] = [4]float64{r.Left, r.Top, r.Right, r.Bottom}
		}
		return sexpr.FormatRects(quads), true
	case "contents":
		return a.Contents, a.Contents != ""
	case "icon":
		return a.Icon, a.Icon != ""
	}
	v, ok := a.Extra[name]
	return v, ok
}
