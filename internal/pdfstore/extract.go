// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/pdforg/pkg/types"
)

// ExtractText returns the text physically under the given page region,
// reassembled in reading order. The region is in page-normalized
// coordinates.
func (s *Store) ExtractText(page int, r types.Rect) (string, error) {
	if page < 1 || page > len(s.pages) {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, len(s.pages))
	}
	if s.tab == nil {
		tr, err := reader.Open(s.path)
		if err != nil {
			return "", fmt.Errorf("opening %s for text extraction: %w", s.path, err)
		}
		s.tab = tr
	}

	frags, _, err := tabula.FromReader(s.tab).Pages(page).Fragments()
	if err != nil {
		return "", fmt.Errorf("extracting text of page %d: %w", page, err)
	}

	box := denormalize(s.pages[page-1].box, r)
	var kept []text.TextFragment
	for _, f := range frags {
		// A fragment belongs to the region when its center point does.
		cx := f.X + f.Width/2
		cy := f.Y + f.Height/2
		if cx >= box.LLx && cx <= box.URx && cy >= box.LLy && cy <= box.URy {
			kept = append(kept, f)
		}
	}
	return assemble(kept), nil
}

// assemble orders fragments top to bottom, left to right, joining fragments
// on the same line with spaces and lines with newlines.
func assemble(frags []text.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y > frags[j].Y // larger Y is higher on the page
		}
		return frags[i].X < frags[j].X
	})

	var b strings.Builder
	lineY := frags[0].Y
	for i, f := range frags {
		if i > 0 {
			if lineY-f.Y > lineTolerance(f) {
				b.WriteByte('\n')
				lineY = f.Y
			} else if !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(f.Text, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(strings.TrimRight(f.Text, " "))
	}
	return strings.TrimSpace(b.String())
}

func lineTolerance(f text.TextFragment) float64 {
	if f.Height > 0 {
		return f.Height / 2
	}
	return 2
}
