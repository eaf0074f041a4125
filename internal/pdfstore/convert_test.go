// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfstore

import (
	"math"
	"testing"

	"seehuhn.de/go/pdf"

	"github.com/pdiddy/pdforg/pkg/types"
)

var letter = &pdf.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		box  *pdf.Rectangle
		in   *pdf.Rectangle
		want types.Rect
	}{
		{
			name: "full page",
			box:  letter,
			in:   &pdf.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792},
			want: types.Rect{Left: 0, Top: 0, Right: 1, Bottom: 1},
		},
		{
			name: "top half flips to the low half of the Y axis",
			box:  letter,
			in:   &pdf.Rectangle{LLx: 0, LLy: 396, URx: 612, URy: 792},
			want: types.Rect{Left: 0, Top: 0, Right: 1, Bottom: 0.5},
		},
		{
			name: "offset media box",
			box:  &pdf.Rectangle{LLx: 10, LLy: 10, URx: 110, URy: 210},
			in:   &pdf.Rectangle{LLx: 35, LLy: 110, URx: 60, URy: 160},
			want: types.Rect{Left: 0.25, Top: 0.25, Right: 0.5, Bottom: 0.5},
		},
		{
			name: "degenerate media box",
			box:  &pdf.Rectangle{LLx: 5, LLy: 5, URx: 5, URy: 5},
			in:   &pdf.Rectangle{LLx: 0, LLy: 0, URx: 1, URy: 1},
			want: types.Rect{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.box, tt.in)
			if got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDenormalizeRoundTrip(t *testing.T) {
	rects := []types.Rect{
		{Left: 0.1, Top: 0.2, Right: 0.6, Bottom: 0.5},
		{Left: 0, Top: 0, Right: 1, Bottom: 1},
		{Left: 0.33, Top: 0.9, Right: 0.34, Bottom: 0.95},
	}
	const eps = 1e-9
	for _, r := range rects {
		back := normalize(letter, denormalize(letter, r))
		if math.Abs(back.Left-r.Left) > eps || math.Abs(back.Top-r.Top) > eps ||
			math.Abs(back.Right-r.Right) > eps || math.Abs(back.Bottom-r.Bottom) > eps {
			t.Errorf("round trip of %+v gave %+v", r, back)
		}
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want string
	}{
		{"rgb yellow", []float64{1, 1, 0}, "#ffff00"},
		{"gray", []float64{0.5}, "#808080"},
		{"cmyk red", []float64{0, 1, 1, 0}, "#ff0000"},
		{"empty", nil, ""},
		{"two components", []float64{0.5, 0.5}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorHex(tt.in); got != tt.want {
				t.Errorf("colorHex(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 128.0 / 255, 0}
	for i := range want {
		if math.Abs(c[i]-want[i]) > 1e-9 {
			t.Errorf("component %d = %v, want %v", i, c[i], want[i])
		}
	}

	for _, bad := range []string{"", "#fff", "#gggggg", "red"} {
		if _, err := parseColor(bad); err == nil {
			t.Errorf("parseColor(%q) should fail", bad)
		}
	}
}

func TestColorRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#ffff00", "#123456"} {
		c, err := parseColor(hex)
		if err != nil {
			t.Fatal(err)
		}
		if got := colorHex(c); got != hex {
			t.Errorf("round trip of %s gave %s", hex, got)
		}
	}
}

func TestQuadArray(t *testing.T) {
	got := quadArray(&pdf.Rectangle{LLx: 10, LLy: 20, URx: 30, URy: 40})
	want := pdf.Array{
		pdf.Real(10), pdf.Real(40),
		pdf.Real(30), pdf.Real(40),
		pdf.Real(10), pdf.Real(20),
		pdf.Real(30), pdf.Real(20),
	}
	if len(got) != len(want) {
		t.Fatalf("quadArray has %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResolveNumber(t *testing.T) {
	tests := []struct {
		name string
		in   pdf.Object
		want float64
		ok   bool
	}{
		{"integer", pdf.Integer(3), 3, true},
		{"real", pdf.Real(0.25), 0.25, true},
		{"name", pdf.Name("NaN"), 0, false},
		{"missing", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveNumber(nil, tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("resolveNumber() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolveRect(t *testing.T) {
	// Corner order in the file is arbitrary; the result is always
	// lower-left to upper-right.
	got := resolveRect(nil, pdf.Array{pdf.Real(30), pdf.Integer(40), pdf.Real(10), pdf.Integer(20)})
	if got == nil {
		t.Fatal("resolveRect() = nil")
	}
	want := pdf.Rectangle{LLx: 10, LLy: 20, URx: 30, URy: 40}
	if *got != want {
		t.Errorf("resolveRect() = %+v, want %+v", *got, want)
	}

	bad := []pdf.Object{
		nil,
		pdf.Array{pdf.Real(1), pdf.Real(2), pdf.Real(3)},
		pdf.Array{pdf.Real(1), pdf.Name("x"), pdf.Real(3), pdf.Real(4)},
	}
	for _, in := range bad {
		if r := resolveRect(nil, in); r != nil {
			t.Errorf("resolveRect(%v) = %+v, want nil", in, *r)
		}
	}
}

func TestResolveFloats(t *testing.T) {
	got := resolveFloats(nil, pdf.Array{pdf.Integer(1), pdf.Real(0.5)})
	if len(got) != 2 || got[0] != 1 || got[1] != 0.5 {
		t.Errorf("resolveFloats() = %v", got)
	}
	if got := resolveFloats(nil, pdf.Array{pdf.Real(1), pdf.Name("x")}); got != nil {
		t.Errorf("resolveFloats() with a non-number = %v, want nil", got)
	}
}

func TestKindSubtypeMapping(t *testing.T) {
	for kind, subtype := range subtypes {
		if got := kindForSubtype(subtype); got != kind {
			t.Errorf("kindForSubtype(%s) = %s, want %s", subtype, got, kind)
		}
	}
	// Unknown subtypes pass through lower-cased so nothing is dropped.
	if got := kindForSubtype("FreeText"); got != types.Kind("freetext") {
		t.Errorf("kindForSubtype(FreeText) = %s", got)
	}
}
