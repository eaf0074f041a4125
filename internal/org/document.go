// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package org models an outline document as a pre-parsed sequence of heading
// nodes. Each node exposes its link, tags, property drawer, quote block and
// body directly, so consumers never search raw buffer text for block
// boundaries.
package org

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is an outline document: a title line and a flat sequence of
// heading blocks in file order.
type Document struct {
	Title    string
	Headings []*Heading
}

// Link is a navigable reference to a location inside a PDF, rendered as
// [[pdfview:PATH::PAGE++VOFFSET][LABEL]].
type Link struct {
	Path    string
	Page    int
	VOffset float64
	Label   string
}

// Property is one name/value pair from a property drawer. Names are
// lower-cased when parsed.
type Property struct {
	Name  string
	Value string
}

// Heading is one heading block: the heading line (link or plain title, plus
// trailing tags), its property drawer, an optional quote sub-block, and the
// free body text up to the next heading.
type Heading struct {
	Level      int
	Title      string
	Link       *Link
	Tags       []string
	Properties []Property
	Quote      string
	Body       string
}

// Property returns the value of the named drawer entry, matching
// case-insensitively.
func (h *Heading) Property(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, p := range h.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// SetProperty appends a drawer entry.
func (h *Heading) SetProperty(name, value string) {
	h.Properties = append(h.Properties, Property{Name: strings.ToLower(name), Value: value})
}

func (l *Link) String() string {
	target := fmt.Sprintf("pdfview:%s::%d++%s", l.Path, l.Page,
		strconv.FormatFloat(l.VOffset, 'f', 4, 64))
	return fmt.Sprintf("[[%s][%s]]", target, l.Label)
}

// Render serializes the document back to outline text.
func Render(doc *Document) string {
	var b strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&b, "#+TITLE: %s\n", doc.Title)
	}
	for _, h := range doc.Headings {
		b.WriteByte('\n')
		renderHeading(&b, h)
	}
	return b.String()
}

func renderHeading(b *strings.Builder, h *Heading) {
	level := h.Level
	if level < 1 {
		level = 1
	}
	b.WriteString(strings.Repeat("*", level))
	b.WriteByte(' ')
	if h.Link != nil {
		b.WriteString(h.Link.String())
	} else {
		b.WriteString(h.Title)
	}
	if len(h.Tags) > 0 {
		fmt.Fprintf(b, " :%s:", strings.Join(h.Tags, ":"))
	}
	b.WriteByte('\n')

	if len(h.Properties) > 0 {
		b.WriteString(":PROPERTIES:\n")
		for _, p := range h.Properties {
			fmt.Fprintf(b, ":%s: %s\n", p.Name, p.Value)
		}
		b.WriteString(":END:\n")
	}
	if h.Quote != "" {
		b.WriteString("#+begin_quote\n")
		b.WriteString(strings.TrimRight(h.Quote, "\n"))
		b.WriteString("\n#+end_quote\n")
	}
	if h.Body != "" {
		b.WriteString(strings.TrimRight(h.Body, "\n"))
		b.WriteByte('\n')
	}
}
