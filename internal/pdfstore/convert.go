// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfstore

import (
	"fmt"
	"strings"

	"seehuhn.de/go/pdf"

	"github.com/pdiddy/pdforg/pkg/types"
)

// subtypes maps annotation kinds to PDF annotation subtypes.
var subtypes = map[types.Kind]pdf.Name{
	types.KindText:      "Text",
	types.KindLink:      "Link",
	types.KindHighlight: "Highlight",
	types.KindUnderline: "Underline",
	types.KindSquiggly:  "Squiggly",
	types.KindStrikeOut: "StrikeOut",
}

func kindForSubtype(subtype pdf.Name) types.Kind {
	switch subtype {
	case "Text":
		return types.KindText
	case "Link":
		return types.KindLink
	case "Highlight":
		return types.KindHighlight
	case "Underline":
		return types.KindUnderline
	case "Squiggly":
		return types.KindSquiggly
	case "StrikeOut":
		return types.KindStrikeOut
	}
	return types.Kind(strings.ToLower(string(subtype)))
}

// normalize converts a rectangle from PDF user space (origin bottom-left,
// Y up) to page-normalized coordinates (origin top-left, Y down, 0..1).
func normalize(box *pdf.Rectangle, r *pdf.Rectangle) types.Rect {
	w := box.URx - box.LLx
	h := box.URy - box.LLy
	if w <= 0 || h <= 0 {
		return types.Rect{}
	}
	return types.Rect{
		Left:   (r.LLx - box.LLx) / w,
		Top:    (box.URy - r.URy) / h,
		Right:  (r.URx - box.LLx) / w,
		Bottom: (box.URy - r.LLy) / h,
	}
}

// denormalize is the inverse of normalize.
func denormalize(box *pdf.Rectangle, r types.Rect) *pdf.Rectangle {
	w := box.URx - box.LLx
	h := box.URy - box.LLy
	return &pdf.Rectangle{
		LLx: box.LLx + r.Left*w,
		LLy: box.URy - r.Bottom*h,
		URx: box.LLx + r.Right*w,
		URy: box.URy - r.Top*h,
	}
}

func rectArray(r *pdf.Rectangle) pdf.Array {
	return pdf.Array{pdf.Real(r.LLx), pdf.Real(r.LLy), pdf.Real(r.URx), pdf.Real(r.URy)}
}

// quadArray builds a one-quadrilateral /QuadPoints array covering r,
// corners ordered upper-left, upper-right, lower-left, lower-right.
func quadArray(r *pdf.Rectangle) pdf.Array {
	return pdf.Array{
		pdf.Real(r.LLx), pdf.Real(r.URy),
		pdf.Real(r.URx), pdf.Real(r.URy),
		pdf.Real(r.LLx), pdf.Real(r.LLy),
		pdf.Real(r.URx), pdf.Real(r.LLy),
	}
}

// colorHex renders device color components as a #rrggbb string. One
// component is gray, three are RGB, four are CMYK.
func colorHex(c []float64) string {
	var r, g, b float64
	switch len(c) {
	case 1:
		r, g, b = c[0], c[0], c[0]
	case 3:
		r, g, b = c[0], c[1], c[2]
	case 4:
		r = (1 - c[0]) * (1 - c[3])
		g = (1 - c[1]) * (1 - c[3])
		b = (1 - c[2]) * (1 - c[3])
	default:
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", byte(r*255+0.5), byte(g*255+0.5), byte(b*255+0.5))
}

// parseColor reads a #rrggbb string back into RGB components.
func parseColor(s string) ([]float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	return []float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}, nil
}

func min4(a, b, c, d float64) float64 {
	return min(min(a, b), min(c, d))
}

func max4(a, b, c, d float64) float64 {
	return max(max(a, b), max(c, d))
}

// resolveNumber resolves obj and returns its numeric value. Non-numbers
// report ok=false.
func resolveNumber(r pdf.Getter, obj pdf.Object) (float64, bool) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return 0, false
	}
	switch x := resolved.(type) {
	case pdf.Integer:
		return float64(x), true
	case pdf.Real:
		return float64(x), true
	}
	return 0, false
}

// resolveRect reads a four-number array into a rectangle, normalizing the
// corner order. Returns nil when obj is not a valid rectangle.
func resolveRect(r pdf.Getter, obj pdf.Object) *pdf.Rectangle {
	arr, err := pdf.GetArray(r, obj)
	if err != nil || len(arr) != 4 {
		return nil
	}
	var v [4]float64
	for i, el := range arr {
		x, ok := resolveNumber(r, el)
		if !ok {
			return nil
		}
		v[i] = x
	}
	return &pdf.Rectangle{
		LLx: min(v[0], v[2]),
		LLy: min(v[1], v[3]),
		URx: max(v[0], v[2]),
		URy: max(v[1], v[3]),
	}
}

// resolveFloats resolves every element of arr as a number. Returns nil if
// any element is not numeric.
func resolveFloats(r pdf.Getter, arr pdf.Array) []float64 {
	vals := make([]float64, 0, len(arr))
	for _, obj := range arr {
		v, ok := resolveNumber(r, obj)
		if !ok {
			return nil
		}
		vals = append(vals, v)
	}
	return vals
}
