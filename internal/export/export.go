// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export emits the annotations of a PDF as heading blocks in a new
// outline document, one heading per annotation.
package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/pdforg/internal/org"
	"github.com/pdiddy/pdforg/internal/region"
	"github.com/pdiddy/pdforg/pkg/types"
)

// Source is the PDF annotation store read side. Different backends (a live
// viewer, a file on disk, a test fake) implement this interface.
type Source interface {
	// Name identifies the original document, used as the link target.
	Name() string

	// Annotations returns all annotations of the document.
	Annotations() ([]*types.Annotation, error)

	// ExtractText returns the text under the given page region.
	ExtractText(page int, r types.Rect) (string, error)

	// Less is the store's canonical annotation order.
	Less(a, b *types.Annotation) bool
}

// nonExportable lists the kinds left out of the outline document. Links are
// navigational, not content.
var nonExportable = map[types.Kind]bool{
	types.KindLink: true,
}

// propOrder fixes the drawer entry order so exports are deterministic.
var propOrder = []string{
	"page", "edges", "id", "flags", "color", "modified",
	"label", "subject", "opacity", "created", "markup-edges", "icon",
}

// Export reads all annotations from src, sorts them in the store's
// canonical order, drops non-exportable kinds, and emits one heading block
// per remaining annotation. Heading order exactly matches the sorted,
// filtered annotation order. Drawer entries are restricted to the given
// allow-set. The document is returned in memory; persisting it is the
// caller's concern.
func Export(src Source, targetName string, exportable types.PropSet) (*org.Document, error) {
	annots, err := src.Annotations()
	if err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	sort.SliceStable(annots, func(i, j int) bool { return src.Less(annots[i], annots[j]) })

	doc := &org.Document{Title: docTitle(targetName)}

	for _, a := range annots {
		if nonExportable[a.Type] {
			continue
		}
		h, err := exportHeading(src, a, exportable)
		if err != nil {
			return nil, err
		}
		doc.Headings = append(doc.Headings, h)
	}
	return doc, nil
}

func exportHeading(src Source, a *types.Annotation, exportable types.PropSet) (*org.Heading, error) {
	effective := a.Edges
	if len(a.MarkupEdges) > 0 {
		r, err := region.Estimate(a.MarkupEdges)
		if err != nil {
			return nil, fmt.Errorf("annotation %s: %w", a.ID, err)
		}
		effective = r
	}

	h := &org.Heading{
		Level: 1,
		Link: &org.Link{
			Path:    src.Name(),
			Page:    a.Page,
			VOffset: effective.Top,
			Label:   a.ID,
		},
		Tags: []string{string(a.Type)},
		Body: a.Contents,
	}

	for _, name := range propOrder {
		if !exportable.Has(name) {
			continue
		}
		if v, ok := a.Field(name); ok {
			h.SetProperty(name, v)
		}
	}

	if len(a.MarkupEdges) > 0 {
		text, err := src.ExtractText(a.Page, effective)
		if err != nil {
			return nil, fmt.Errorf("annotation %s: extracting text: %w", a.ID, err)
		}
		h.Quote = text
	}
	return h, nil
}

// docTitle derives the document title line from the target file name.
func docTitle(targetName string) string {
	base := filepath.Base(targetName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
