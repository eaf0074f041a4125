// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sexpr reads and writes the parenthesized value syntax used in
// heading property drawers: numbers, flat number sequences like
// "(0.1 0.2 0.9 0.4)", and rectangle sequences like "((a b c d) (e f g h))".
// The literal token "nil" denotes an absent value.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Nil is the printable form of an absent value.
const Nil = "nil"

// IsNil reports whether s is the absent-value token.
func IsNil(s string) bool {
	return strings.TrimSpace(s) == Nil
}

// FormatFloat renders a number with the shortest representation that
// round-trips exactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatFloats renders a flat number sequence, e.g. "(0.1 0.2 0.9 0.4)".
func FormatFloats(vs []float64) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatFloat(v))
	}
	b.WriteByte(')')
	return b.String()
}

// FormatRect renders one rectangle as a flat four-number sequence.
func FormatRect(left, top, right, bottom float64) string {
	return FormatFloats([]float64{left, top, right, bottom})
}

// FormatRects renders a sequence of rectangles, one parenthesized group per
// rectangle.
func FormatRects(rects [][4]float64) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, r := range rects {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatRect(r[0], r[1], r[2], r[3]))
	}
	b.WriteByte(')')
	return b.String()
}

// FormatTime renders a timestamp as the two-integer tuple "(hi lo)" with the
// Unix time split at 2^16, the form timestamps take in exported drawers.
func FormatTime(t time.Time) string {
	secs := t.Unix()
	return fmt.Sprintf("(%d %d)", secs>>16, secs&0xffff)
}

// ParseNumber parses a single number token.
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// ParseFloats parses a flat number sequence. The surrounding parentheses
// are optional so that a bare number list is accepted too.
func ParseFloats(s string) ([]float64, error) {
	inner, err := stripParens(s)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(inner)
	vs := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", f, s)
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// ParseRect parses a flat four-number sequence into a rectangle.
func ParseRect(s string) ([4]float64, error) {
	vs, err := ParseFloats(s)
	if err != nil {
		return [4]float64{}, err
	}
	if len(vs) != 4 {
		return [4]float64{}, fmt.Errorf("expected 4 numbers in %q, got %d", s, len(vs))
	}
	return [4]float64{vs[0], vs[1], vs[2], vs[3]}, nil
}

// ParseRects parses a sequence of parenthesized rectangle groups. Splitting
// happens on the boundary between groups; each group is then parsed as a
// flat number sequence.
func ParseRects(s string) ([][4]float64, error) {
	inner, err := stripParens(s)
	if err != nil {
		return nil, err
	}
	var rects [][4]float64
	for {
		start := strings.IndexByte(inner, '(')
		if start < 0 {
			if strings.TrimSpace(inner) != "" {
				return nil, fmt.Errorf("stray tokens %q in rectangle sequence", strings.TrimSpace(inner))
			}
			break
		}
		end := strings.IndexByte(inner[start:], ')')
		if end < 0 {
			return nil, fmt.Errorf("unbalanced parentheses in %q", s)
		}
		r, err := ParseRect(inner[start : start+end+1])
		if err != nil {
			return nil, err
		}
		rects = append(rects, r)
		inner = inner[start+end+1:]
	}
	if len(rects) == 0 {
		return nil, fmt.Errorf("no rectangles in %q", s)
	}
	return rects, nil
}

// stripParens removes one optional level of surrounding parentheses.
func stripParens(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return s, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("unbalanced parentheses in %q", s)
	}
	return s[1 : len(s)-1], nil
}
