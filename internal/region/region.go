// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package region derives a single text-selection rectangle from the
// per-line rectangles of a multi-line markup annotation.
package region

import (
	"errors"

	"github.com/pdiddy/pdforg/pkg/types"
)

// ErrEmptySelection is returned when no rectangles are given.
var ErrEmptySelection = errors.New("empty selection: no rectangles")

// Estimate computes one enclosing rectangle for a selection spanning the
// given consecutive text lines, in reading order. The result spans from the
// left edge of the first line to the right edge of the last, and is nudged
// inward by one third of a line height at the top and bottom: raw line
// boxes often touch the neighboring lines on the rendered page, and the
// shrunk rectangle avoids picking up their text when it is later used for
// extraction.
//
// A single rectangle is valid input; both of its edges shrink.
func Estimate(rects []types.Rect) (types.Rect, error) {
	if len(rects) == 0 {
		return types.Rect{}, ErrEmptySelection
	}
	first := rects[0]
	last := rects[len(rects)-1]
	return types.Rect{
		Left:   first.Left,
		Top:    first.Top + first.Height()/3,
		Right:  last.Right,
		Bottom: last.Bottom - last.Height()/3,
	}, nil
}
