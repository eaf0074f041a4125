// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfstore

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pdfcopy"

	"github.com/pdiddy/pdforg/pkg/types"
)

// Sink is a PDF document opened for adding annotations. Additions are
// buffered in memory; Save rewrites the document with them applied.
type Sink struct {
	path    string
	r       *pdf.Reader
	pages   []pageInfo
	pending map[int][]pdf.Dict // 0-based page index -> new annotation dicts
	serial  int
}

// OpenSink opens the PDF at path for annotation additions.
func OpenSink(path string) (*Sink, error) {
	r, pages, err := openPages(path)
	if err != nil {
		return nil, err
	}
	return &Sink{path: path, r: r, pages: pages, pending: make(map[int][]pdf.Dict)}, nil
}

// Close releases the underlying file handle without saving.
func (s *Sink) Close() error {
	return s.r.Close()
}

// Pending returns the number of buffered additions.
func (s *Sink) Pending() int {
	n := 0
	for _, dicts := range s.pending {
		n += len(dicts)
	}
	return n
}

// AddAnnotation buffers one new annotation on the given 1-based page. The
// region is in page-normalized coordinates; props holds parsed values for
// names in the importable allow-set. The id and timestamps of the new
// annotation are assigned fresh here, never taken from props.
func (s *Sink) AddAnnotation(kind types.Kind, r types.Rect, props map[string]any, page int) error {
	if page < 1 || page > len(s.pages) {
		return fmt.Errorf("page %d out of range (document has %d pages)", page, len(s.pages))
	}
	subtype, ok := subtypes[kind]
	if !ok {
		return fmt.Errorf("annotation kind %q cannot be created", kind)
	}

	box := s.pages[page-1].box
	rect := denormalize(box, r)
	s.serial++
	now := pdf.Date(time.Now())

	d := pdf.Dict{
		"Type":         pdf.Name("Annot"),
		"Subtype":      subtype,
		"Rect":         rectArray(rect),
		"NM":           pdf.TextString(fmt.Sprintf("added-%d-%d", page, s.serial)),
		"M":            now,
		"CreationDate": now,
	}
	if kind.IsMarkup() {
		d["QuadPoints"] = quadArray(rect)
	}
	if err := applyProps(d, props); err != nil {
		return err
	}

	s.pending[page-1] = append(s.pending[page-1], d)
	return nil
}

// applyProps translates the parsed property bag into annotation dictionary
// entries. The edges entry is skipped: the region argument is authoritative.
func applyProps(d pdf.Dict, props map[string]any) error {
	for name, v := range props {
		switch name {
		case "contents":
			if str, ok := v.(string); ok && str != "" {
				d["Contents"] = pdf.TextString(str)
			}
		case "flags":
			if f, ok := v.(float64); ok {
				d["F"] = pdf.Integer(f)
			}
		case "color":
			str, ok := v.(string)
			if !ok || str == "" {
				continue
			}
			rgb, err := parseColor(str)
			if err != nil {
				return err
			}
			d["C"] = pdf.Array{pdf.Real(rgb[0]), pdf.Real(rgb[1]), pdf.Real(rgb[2])}
		case "label":
			if str, ok := v.(string); ok && str != "" {
				d["T"] = pdf.TextString(str)
			}
		case "opacity":
			if f, ok := v.(float64); ok && f != 1 {
				d["CA"] = pdf.Real(f)
			}
		case "icon":
			if str, ok := v.(string); ok && str != "" {
				d["Name"] = pdf.Name(str)
			}
		case "edges":
			// region argument wins
		}
	}
	return nil
}

// Save rewrites the document with all buffered annotations appended to
// their pages' annotation lists. The new file is written to a temporary
// file next to outPath and moved into place, so a failed save never leaves
// a half-written document. With backup set, a pre-existing outPath is kept
// as outPath.bak.
func (s *Sink) Save(outPath string, backup bool) error {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".pdforg-*.pdf")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if backup {
		if _, err := os.Stat(outPath); err == nil {
			if err := os.Rename(outPath, outPath+".bak"); err != nil {
				return fmt.Errorf("keeping backup: %w", err)
			}
		}
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("replacing %s: %w", outPath, err)
	}
	return nil
}

func (s *Sink) write(f *os.File) error {
	metaIn := s.r.GetMeta()

	out, err := pdf.NewWriter(f, metaIn.Version, nil)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	copier := pdfcopy.NewCopier(out, s.r)

	// Reserve output references for every page up front, so Parent and
	// Kids links copied below resolve to the rewritten pages.
	refs := make([]pdf.Reference, len(s.pages))
	for i, pg := range s.pages {
		refs[i] = out.Alloc()
		copier.Redirect(pg.ref, refs[i])
	}

	for i, pg := range s.pages {
		pageIn := maps.Clone(pg.dict)
		annotsIn, err := pdf.GetArray(s.r, pageIn["Annots"])
		if err != nil {
			return fmt.Errorf("page %d: reading annotation list: %w", i+1, err)
		}
		delete(pageIn, "Annots")

		pageOut, err := copier.CopyDict(pageIn)
		if err != nil {
			return fmt.Errorf("page %d: copying: %w", i+1, err)
		}

		var annotsOut pdf.Array
		if len(annotsIn) > 0 {
			annotsOut, err = copier.CopyArray(annotsIn)
			if err != nil {
				return fmt.Errorf("page %d: copying annotations: %w", i+1, err)
			}
		}
		for _, d := range s.pending[i] {
			ref := out.Alloc()
			if err := out.Put(ref, d); err != nil {
				return fmt.Errorf("page %d: writing annotation: %w", i+1, err)
			}
			annotsOut = append(annotsOut, ref)
		}
		if len(annotsOut) > 0 {
			pageOut["Annots"] = annotsOut
		}

		if err := out.Put(refs[i], pageOut); err != nil {
			return fmt.Errorf("page %d: writing: %w", i+1, err)
		}
	}

	// Copying the tree root pulls in the intermediate Pages nodes; their
	// Kids entries land on the redirected page references above.
	treeRef, err := copier.CopyReference(metaIn.Catalog.Pages)
	if err != nil {
		return fmt.Errorf("copying page tree: %w", err)
	}

	metaOut := out.GetMeta()
	metaOut.Catalog.Pages = treeRef
	metaOut.Info = metaIn.Info

	return out.Close()
}
