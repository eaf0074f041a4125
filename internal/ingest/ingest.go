// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reconstructs annotation records from the heading blocks of
// an outline document and adds them to a PDF annotation store.
package ingest

import (
	"errors"
	"fmt"

	"github.com/pdiddy/pdforg/internal/org"
	"github.com/pdiddy/pdforg/internal/region"
	"github.com/pdiddy/pdforg/internal/sexpr"
	"github.com/pdiddy/pdforg/pkg/types"
)

var (
	// ErrMissingType is returned for a heading with no type tag.
	ErrMissingType = errors.New("heading has no annotation type tag")

	// ErrMalformedHeading is returned when a heading's properties or body
	// cannot be read back into an annotation record.
	ErrMalformedHeading = errors.New("malformed heading")

	// ErrMissingGeometry is returned when a heading carries no rectangle
	// usable as the annotation region.
	ErrMissingGeometry = errors.New("heading has no usable geometry")

	// ErrSinkRejected wraps errors raised by the annotation store.
	ErrSinkRejected = errors.New("annotation store rejected the annotation")
)

// Sink is the PDF annotation store write side.
type Sink interface {
	// AddAnnotation creates one annotation. The property bag holds only
	// names from the importable allow-set; values are parsed (numbers,
	// rectangles, strings). The call is atomic: it either records the
	// annotation or leaves the store untouched.
	AddAnnotation(kind types.Kind, r types.Rect, props map[string]any, page int) error
}

// Import walks the document's heading blocks top to bottom, reconstructing
// one annotation per heading and adding it to sink. The pass halts at the
// first offending heading: annotations from earlier headings stay added,
// later headings are never reached. Returns the number of annotations
// added.
//
// The exportable set gates which drawer entries are read back (round-trip
// symmetry with export); the importable set gates which of the parsed
// values reach the sink.
func Import(doc *org.Document, sink Sink, exportable, importable types.PropSet) (int, error) {
	added := 0
	for i, h := range doc.Headings {
		if err := importHeading(h, sink, exportable, importable); err != nil {
			return added, fmt.Errorf("heading %d (%s): %w", i+1, headingName(h), err)
		}
		added++
	}
	return added, nil
}

func importHeading(h *org.Heading, sink Sink, exportable, importable types.PropSet) error {
	vals, err := parseProperties(h, exportable)
	if err != nil {
		return err
	}

	if len(h.Tags) == 0 {
		return ErrMissingType
	}
	kind := types.Kind(h.Tags[0])

	pageVal, ok := vals["page"].(float64)
	if !ok {
		return fmt.Errorf("%w: missing page property", ErrMalformedHeading)
	}
	page := int(pageVal)
	if float64(page) != pageVal {
		return fmt.Errorf("%w: page %v is not an integer", ErrMalformedHeading, pageVal)
	}

	geom, err := geometry(kind, vals)
	if err != nil {
		return err
	}

	bag := make(map[string]any)
	for name, v := range vals {
		if importable.Has(name) {
			bag[name] = v
		}
	}
	if h.Body != "" && importable.Has("contents") {
		bag["contents"] = h.Body
	}

	if err := sink.AddAnnotation(kind, geom, bag, page); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkRejected, err)
	}
	return nil
}

// geometry picks the rectangle handed to the sink: plain text notes use
// their edges directly; every other kind requires per-line markup
// rectangles run through the region estimator.
func geometry(kind types.Kind, vals map[string]any) (types.Rect, error) {
	if kind == types.KindText {
		r, ok := vals["edges"].(types.Rect)
		if !ok {
			return types.Rect{}, ErrMissingGeometry
		}
		return r, nil
	}
	rects, ok := vals["markup-edges"].([]types.Rect)
	if !ok || len(rects) == 0 {
		return types.Rect{}, ErrMissingGeometry
	}
	r, err := region.Estimate(rects)
	if err != nil {
		return types.Rect{}, fmt.Errorf("%w: %v", ErrMissingGeometry, err)
	}
	return r, nil
}

// parseProperties reads the heading's drawer entries whose names are in the
// allow-set, parsing each value by its declared name. Entries holding the
// literal token "nil" are treated as absent.
func parseProperties(h *org.Heading, allowed types.PropSet) (map[string]any, error) {
	vals := make(map[string]any)
	for _, p := range h.Properties {
		if !allowed.Has(p.Name) || sexpr.IsNil(p.Value) {
			continue
		}
		v, err := parseValue(p.Name, p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: property %s: %v", ErrMalformedHeading, p.Name, err)
		}
		vals[p.Name] = v
	}
	return vals, nil
}

func parseValue(name, value string) (any, error) {
	switch name {
	case "page", "flags", "opacity":
		return sexpr.ParseNumber(value)
	case "id":
		return value, nil
	case "edges":
		q, err := sexpr.ParseRect(value)
		if err != nil {
			return nil, err
		}
		return types.Rect{Left: q[0], Top: q[1], Right: q[2], Bottom: q[3]}, nil
	case "modified":
		return sexpr.ParseFloats(value)
	case "markup-edges":
		qs, err := sexpr.ParseRects(value)
		if err != nil {
			return nil, err
		}
		rects := make([]types.Rect, len(qs))
		for i, q := range qs {
			rects[i] = types.Rect{Left: q[0], Top: q[1], Right: q[2], Bottom: q[3]}
		}
		return rects, nil
	default:
		return value, nil
	}
}

func headingName(h *org.Heading) string {
	if h.Link != nil && h.Link.Label != "" {
		return h.Link.Label
	}
	if h.Title != "" {
		return h.Title
	}
	return "untitled"
}
