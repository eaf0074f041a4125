// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package region

import (
	"errors"
	"math"
	"testing"

	"github.com/pdiddy/pdforg/pkg/types"
)

func rectsEqual(a, b types.Rect) bool {
	const eps = 1e-9
	return math.Abs(a.Left-b.Left) < eps &&
		math.Abs(a.Top-b.Top) < eps &&
		math.Abs(a.Right-b.Right) < eps &&
		math.Abs(a.Bottom-b.Bottom) < eps
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name  string
		rects []types.Rect
		want  types.Rect
	}{
		{
			name: "two line highlight",
			rects: []types.Rect{
				{Left: 10, Top: 20, Right: 90, Bottom: 35},
				{Left: 10, Top: 40, Right: 60, Bottom: 55},
			},
			want: types.Rect{Left: 10, Top: 25, Right: 60, Bottom: 50},
		},
		{
			name: "three lines use only first and last",
			rects: []types.Rect{
				{Left: 30, Top: 0, Right: 100, Bottom: 12},
				{Left: 0, Top: 12, Right: 100, Bottom: 24},
				{Left: 0, Top: 24, Right: 45, Bottom: 36},
			},
			want: types.Rect{Left: 30, Top: 4, Right: 45, Bottom: 32},
		},
		{
			name:  "single rectangle shrinks both edges",
			rects: []types.Rect{{Left: 5, Top: 10, Right: 50, Bottom: 22}},
			want:  types.Rect{Left: 5, Top: 14, Right: 50, Bottom: 18},
		},
		{
			name: "normalized coordinates",
			rects: []types.Rect{
				{Left: 0.1, Top: 0.2, Right: 0.9, Bottom: 0.23},
				{Left: 0.1, Top: 0.23, Right: 0.4, Bottom: 0.26},
			},
			want: types.Rect{Left: 0.1, Top: 0.21, Right: 0.4, Bottom: 0.25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.rects)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if !rectsEqual(got, tt.want) {
				t.Errorf("Estimate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEstimateEmpty(t *testing.T) {
	_, err := Estimate(nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("Estimate(nil) error = %v, want ErrEmptySelection", err)
	}
}

// The shrunk region must stay inside the horizontal span of its first and
// last lines and keep a sensible vertical extent when the selection covers
// more than one line.
func TestEstimateStaysWithinSelection(t *testing.T) {
	rects := []types.Rect{
		{Left: 12, Top: 100, Right: 580, Bottom: 114},
		{Left: 12, Top: 114, Right: 580, Bottom: 128},
		{Left: 12, Top: 128, Right: 300, Bottom: 142},
	}
	got, err := Estimate(rects)
	if err != nil {
		t.Fatal(err)
	}
	if got.Left != rects[0].Left || got.Right != rects[len(rects)-1].Right {
		t.Errorf("horizontal span %v does not match first/last lines", got)
	}
	if got.Top <= rects[0].Top || got.Bottom >= rects[len(rects)-1].Bottom {
		t.Errorf("vertical span %v was not shrunk inward", got)
	}
	if got.Top >= got.Bottom {
		t.Errorf("region %v is vertically degenerate", got)
	}
}
