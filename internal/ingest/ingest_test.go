// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdforg/internal/org"
	"github.com/pdiddy/pdforg/pkg/types"
)

type sinkCall struct {
	kind  types.Kind
	rect  types.Rect
	props map[string]any
	page  int
}

// fakeSink records AddAnnotation calls and can be told to reject one.
type fakeSink struct {
	calls    []sinkCall
	rejectAt int // reject the nth call (1-based), 0 for never
}

func (f *fakeSink) AddAnnotation(kind types.Kind, r types.Rect, props map[string]any, page int) error {
	if f.rejectAt > 0 && len(f.calls)+1 == f.rejectAt {
		return errors.New("page locked")
	}
	f.calls = append(f.calls, sinkCall{kind: kind, rect: r, props: props, page: page})
	return nil
}

func textHeading(label string, page string, edges string) *org.Heading {
	h := &org.Heading{
		Level: 1,
		Link:  &org.Link{Path: "paper.pdf", Page: 1, Label: label},
		Tags:  []string{"text"},
	}
	h.SetProperty("page", page)
	h.SetProperty("edges", edges)
	return h
}

func TestImportTextNote(t *testing.T) {
	h := textHeading("annot-1-1", "1", "(0 0 100 50)")
	h.SetProperty("color", "#ff0000")
	h.SetProperty("subject", "should not pass the importable gate")
	h.Body = "note contents"

	sink := &fakeSink{}
	added, err := Import(&org.Document{Headings: []*org.Heading{h}}, sink,
		types.ExportableProps, types.ImportableProps)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, sink.calls, 1)

	call := sink.calls[0]
	assert.Equal(t, types.KindText, call.kind)
	assert.Equal(t, 1, call.page)
	assert.Equal(t, types.Rect{Left: 0, Top: 0, Right: 100, Bottom: 50}, call.rect)
	assert.Equal(t, "note contents", call.props["contents"])
	assert.Equal(t, "#ff0000", call.props["color"])

	// subject is exportable but not importable; page is consumed, not passed.
	assert.NotContains(t, call.props, "subject")
	assert.NotContains(t, call.props, "page")
}

func TestImportMarkupUsesEstimatedRegion(t *testing.T) {
	h := &org.Heading{
		Level: 1,
		Link:  &org.Link{Path: "paper.pdf", Page: 3, Label: "annot-3-1"},
		Tags:  []string{"highlight"},
	}
	h.SetProperty("page", "3")
	h.SetProperty("edges", "(10 20 90 55)")
	h.SetProperty("markup-edges", "((10 20 90 35) (10 40 60 55))")

	sink := &fakeSink{}
	added, err := Import(&org.Document{Headings: []*org.Heading{h}}, sink,
		types.ExportableProps, types.ImportableProps)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, sink.calls, 1)

	assert.Equal(t, types.KindHighlight, sink.calls[0].kind)
	assert.Equal(t, types.Rect{Left: 10, Top: 25, Right: 60, Bottom: 50}, sink.calls[0].rect)
}

func TestImportNilValuesAreAbsent(t *testing.T) {
	h := textHeading("annot-1-1", "1", "(0 0 1 1)")
	h.SetProperty("color", "nil")

	sink := &fakeSink{}
	_, err := Import(&org.Document{Headings: []*org.Heading{h}}, sink,
		types.ExportableProps, types.ImportableProps)
	require.NoError(t, err)
	assert.NotContains(t, sink.calls[0].props, "color")
}

func TestImportHaltsAtFirstFailure(t *testing.T) {
	good := textHeading("annot-1-1", "1", "(0 0 1 1)")
	bad := &org.Heading{Level: 1, Title: "no tags here"}
	bad.SetProperty("page", "2")
	bad.SetProperty("edges", "(0 0 1 1)")
	never := textHeading("annot-3-1", "3", "(0 0 1 1)")

	sink := &fakeSink{}
	added, err := Import(&org.Document{Headings: []*org.Heading{good, bad, never}}, sink,
		types.ExportableProps, types.ImportableProps)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingType)
	assert.Contains(t, err.Error(), "heading 2")
	assert.Equal(t, 1, added)

	// The first annotation stays added; headings after the failure are never
	// presented to the sink.
	require.Len(t, sink.calls, 1)
	assert.Equal(t, 1, sink.calls[0].page)
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		heading func() *org.Heading
		want    error
	}{
		{
			name: "missing page",
			heading: func() *org.Heading {
				h := &org.Heading{Level: 1, Tags: []string{"text"}}
				h.SetProperty("edges", "(0 0 1 1)")
				return h
			},
			want: ErrMalformedHeading,
		},
		{
			name: "unparseable page",
			heading: func() *org.Heading {
				h := &org.Heading{Level: 1, Tags: []string{"text"}}
				h.SetProperty("page", "three")
				h.SetProperty("edges", "(0 0 1 1)")
				return h
			},
			want: ErrMalformedHeading,
		},
		{
			name: "fractional page",
			heading: func() *org.Heading {
				h := &org.Heading{Level: 1, Tags: []string{"text"}}
				h.SetProperty("page", "3.7")
				h.SetProperty("edges", "(0 0 1 1)")
				return h
			},
			want: ErrMalformedHeading,
		},
		{
			name: "bad edges",
			heading: func() *org.Heading {
				h := &org.Heading{Level: 1, Tags: []string{"text"}}
				h.SetProperty("page", "1")
				h.SetProperty("edges", "(0 0 1)")
				return h
			},
			want: ErrMalformedHeading,
		},
		{
			name: "text note without edges",
			heading: func() *org.Heading {
				h := &org.Heading{Level: 1, Tags: []string{"text"}}
				h.SetProperty("page", "1")
				return h
			},
			want: ErrMissingGeometry,
		},
		{
			name: "markup without markup-edges",
			heading: func() *org.Heading {
				h := &org.Heading{Level: 1, Tags: []string{"highlight"}}
				h.SetProperty("page", "1")
				h.SetProperty("edges", "(0 0 1 1)")
				return h
			},
			want: ErrMissingGeometry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			added, err := Import(&org.Document{Headings: []*org.Heading{tt.heading()}}, sink,
				types.ExportableProps, types.ImportableProps)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, added)
			assert.Empty(t, sink.calls)
		})
	}
}

func TestImportSinkRejection(t *testing.T) {
	first := textHeading("annot-1-1", "1", "(0 0 1 1)")
	second := textHeading("annot-2-1", "2", "(0 0 1 1)")

	sink := &fakeSink{rejectAt: 2}
	added, err := Import(&org.Document{Headings: []*org.Heading{first, second}}, sink,
		types.ExportableProps, types.ImportableProps)

	assert.ErrorIs(t, err, ErrSinkRejected)
	assert.Contains(t, err.Error(), "page locked")
	assert.Equal(t, 1, added)
	assert.Len(t, sink.calls, 1)
}
