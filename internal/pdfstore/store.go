// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfstore reads and writes PDF annotation sets on disk. It backs
// the export source and import sink with seehuhn.de/go/pdf for the object
// model and github.com/tsawler/tabula for positioned text extraction.
package pdfstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/pdf"

	"github.com/tsawler/tabula/reader"

	"github.com/pdiddy/pdforg/pkg/types"
)

// pageInfo caches what the store needs per page: the page object reference,
// its dictionary, and the media box annotations are measured against.
type pageInfo struct {
	ref  pdf.Reference
	dict pdf.Dict
	box  *pdf.Rectangle
}

// Store is a PDF document opened for reading annotations.
type Store struct {
	path  string
	r     *pdf.Reader
	pages []pageInfo

	// tab is the text-extraction reader, opened on first use.
	tab *reader.Reader
}

// Open opens the PDF at path and walks its page tree.
func Open(path string) (*Store, error) {
	r, pages, err := openPages(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, r: r, pages: pages}, nil
}

func openPages(path string) (*pdf.Reader, []pageInfo, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	pages, err := walkPages(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("reading page tree of %s: %w", path, err)
	}
	return r, pages, nil
}

// walkPages traverses the page tree depth-first, collecting the leaf pages
// in document order.
func walkPages(r pdf.Getter) ([]pageInfo, error) {
	root := r.GetMeta().Catalog.Pages
	if root == 0 {
		return nil, errors.New("document has no page tree")
	}

	var pages []pageInfo
	todo := []pdf.Reference{root}
	seen := map[pdf.Reference]bool{root: true}
	for len(todo) > 0 {
		k := len(todo) - 1
		ref := todo[k]
		todo = todo[:k]

		node, err := pdf.GetDict(r, ref)
		if err != nil {
			return nil, err
		}
		tp, err := pdf.GetName(r, node["Type"])
		if err != nil {
			return nil, err
		}
		switch tp {
		case "Page":
			pages = append(pages, pageInfo{ref: ref, dict: node, box: mediaBox(r, node)})
		case "Pages":
			kids, err := pdf.GetArray(r, node["Kids"])
			if err != nil {
				return nil, err
			}
			for i := len(kids) - 1; i >= 0; i-- {
				if kidRef, ok := kids[i].(pdf.Reference); ok && !seen[kidRef] {
					todo = append(todo, kidRef)
					seen[kidRef] = true
				}
			}
		default:
			return nil, fmt.Errorf("unexpected page tree node type %q", tp)
		}
	}
	return pages, nil
}

// Close releases the underlying file handles.
func (s *Store) Close() error {
	if s.tab != nil {
		s.tab.Close()
		s.tab = nil
	}
	return s.r.Close()
}

// Name identifies the document; used as the link target in exported
// headings.
func (s *Store) Name() string {
	return s.path
}

// NumPages returns the page count.
func (s *Store) NumPages() int {
	return len(s.pages)
}

// Annotations decodes every annotation of the document, in page order and,
// within a page, in /Annots order.
func (s *Store) Annotations() ([]*types.Annotation, error) {
	var out []*types.Annotation
	for i, pg := range s.pages {
		arr, err := pdf.GetArray(s.r, pg.dict["Annots"])
		if err != nil {
			return nil, fmt.Errorf("page %d: reading annotation list: %w", i+1, err)
		}
		for j, obj := range arr {
			dict, err := pdf.GetDict(s.r, obj)
			if err != nil || dict == nil {
				continue // tolerate broken entries; they are not ours to fix
			}
			out = append(out, s.decodeAnnotation(dict, i+1, pg.box, j))
		}
	}
	return out, nil
}

// Less is the canonical annotation order: page ascending, then top edge,
// then left edge.
func (s *Store) Less(a, b *types.Annotation) bool {
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	if a.Edges.Top != b.Edges.Top {
		return a.Edges.Top < b.Edges.Top
	}
	return a.Edges.Left < b.Edges.Left
}

// knownKeys lists annotation dictionary entries decoded into typed fields
// or deliberately left behind (structural references, appearance streams).
var knownKeys = map[pdf.Name]bool{
	"Type": true, "Subtype": true, "Rect": true, "QuadPoints": true,
	"Contents": true, "NM": true, "F": true, "C": true, "T": true,
	"Subj": true, "CA": true, "M": true, "CreationDate": true, "Name": true,
	"P": true, "AP": true, "AS": true, "Popup": true, "Parent": true,
	"OC": true, "StructParent": true, "RC": true, "IRT": true, "RT": true,
	"BS": true, "Border": true, "A": true, "Dest": true, "IC": true,
}

func (s *Store) decodeAnnotation(dict pdf.Dict, page int, box *pdf.Rectangle, idx int) *types.Annotation {
	a := &types.Annotation{Page: page, Opacity: 1}

	subtype, _ := pdf.GetName(s.r, dict["Subtype"])
	a.Type = kindForSubtype(subtype)

	if rect := resolveRect(s.r, dict["Rect"]); rect != nil {
		a.Edges = normalize(box, rect)
	}

	if a.Type.IsMarkup() {
		if qp, _ := pdf.GetArray(s.r, dict["QuadPoints"]); len(qp) >= 8 {
			a.MarkupEdges = quadRects(s.r, qp, box)
		}
	}

	if v, _ := pdf.GetString(s.r, dict["Contents"]); len(v) > 0 {
		a.Contents = string(v.AsTextString())
	}
	if v, _ := pdf.GetString(s.r, dict["NM"]); len(v) > 0 {
		a.ID = string(v.AsTextString())
	} else {
		a.ID = fmt.Sprintf("annot-%d-%d", page, idx+1)
	}
	if f, ok := resolveNumber(s.r, dict["F"]); ok {
		a.Flags = int(f)
	}
	if arr, _ := pdf.GetArray(s.r, dict["C"]); len(arr) > 0 {
		a.Color = colorHex(resolveFloats(s.r, arr))
	}
	if v, _ := pdf.GetString(s.r, dict["T"]); len(v) > 0 {
		a.Label = string(v.AsTextString())
	}
	if v, _ := pdf.GetString(s.r, dict["Subj"]); len(v) > 0 {
		a.Subject = string(v.AsTextString())
	}
	if ca, ok := resolveNumber(s.r, dict["CA"]); ok {
		a.Opacity = ca
	}
	if v, _ := pdf.GetString(s.r, dict["M"]); len(v) > 0 {
		if t, err := v.AsDate(); err == nil {
			a.Modified = time.Time(t)
		}
	}
	if v, _ := pdf.GetString(s.r, dict["CreationDate"]); len(v) > 0 {
		a.Created = string(v.AsTextString())
	}
	if v, _ := pdf.GetName(s.r, dict["Name"]); v != "" {
		a.Icon = string(v)
	}

	a.Extra = s.extraFields(dict)
	return a
}

// extraFields collects scalar entries outside the known set, keyed by
// lower-cased name, so unknown store metadata passes through unharmed.
func (s *Store) extraFields(dict pdf.Dict) map[string]string {
	var extra map[string]string
	for key, obj := range dict {
		if knownKeys[key] {
			continue
		}
		resolved, err := pdf.Resolve(s.r, obj)
		if err != nil {
			continue
		}
		var v string
		switch x := resolved.(type) {
		case pdf.String:
			v = string(x.AsTextString())
		case pdf.Name:
			v = string(x)
		case pdf.Integer:
			v = strconv.FormatInt(int64(x), 10)
		case pdf.Real:
			v = strconv.FormatFloat(float64(x), 'g', -1, 64)
		default:
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[strings.ToLower(string(key))] = v
	}
	return extra
}

// quadRects converts a /QuadPoints array into per-line normalized
// rectangles, preserving the stored (reading) order.
func quadRects(r pdf.Getter, qp pdf.Array, box *pdf.Rectangle) []types.Rect {
	vals := resolveFloats(r, qp)
	n := len(vals) / 8
	if n == 0 {
		return nil
	}
	rects := make([]types.Rect, 0, n)
	for q := 0; q < n; q++ {
		g := vals[q*8 : q*8+8]
		quad := &pdf.Rectangle{
			LLx: min4(g[0], g[2], g[4], g[6]),
			LLy: min4(g[1], g[3], g[5], g[7]),
			URx: max4(g[0], g[2], g[4], g[6]),
			URy: max4(g[1], g[3], g[5], g[7]),
		}
		rects = append(rects, normalize(box, quad))
	}
	return rects
}

// mediaBox resolves the page's media box, following Parent links for
// inherited values and falling back to US Letter.
func mediaBox(r pdf.Getter, dict pdf.Dict) *pdf.Rectangle {
	for i := 0; dict != nil && i < 32; i++ {
		if box := resolveRect(r, dict["MediaBox"]); box != nil {
			return box
		}
		parent, err := pdf.GetDict(r, dict["Parent"])
		if err != nil {
			break
		}
		dict = parent
	}
	return &pdf.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792}
}
