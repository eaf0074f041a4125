// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package org

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^(\*+)\s+(.*)$`)
	tagsRe     = regexp.MustCompile(`\s+((?::[[:alnum:]_@#%-]+)+:)\s*$`)
	linkRe     = regexp.MustCompile(`^\[\[pdfview:(.+?)::(\d+)(?:\+\+([0-9.eE+-]+))?\]\[(.*)\]\]$`)
	propertyRe = regexp.MustCompile(`^\s*:([^:\s][^:]*):\s*(.*)$`)
	titleRe    = regexp.MustCompile(`(?i)^#\+TITLE:\s*(.*)$`)
)

// Parse reads outline text into a Document. Heading blocks come back in
// file order; an unterminated property drawer or quote block is an error.
func Parse(text string) (*Document, error) {
	doc := &Document{}
	lines := strings.Split(text, "\n")

	var cur *Heading
	var body []string
	i := 0

	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(body, "\n"))
		doc.Headings = append(doc.Headings, cur)
		cur = nil
		body = nil
	}

	for i < len(lines) {
		line := lines[i]

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			h, err := parseHeadingLine(len(m[1]), m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			cur = h
			i++
			continue
		}

		if cur == nil {
			if m := titleRe.FindStringSubmatch(line); m != nil {
				doc.Title = strings.TrimSpace(m[1])
			}
			i++
			continue
		}

		switch {
		case strings.EqualFold(strings.TrimSpace(line), ":PROPERTIES:"):
			end, err := parseDrawer(cur, lines, i+1)
			if err != nil {
				return nil, err
			}
			i = end

		case strings.EqualFold(strings.TrimSpace(line), "#+begin_quote"):
			end, quote, err := parseQuote(lines, i+1)
			if err != nil {
				return nil, err
			}
			if cur.Quote == "" {
				cur.Quote = quote
			} else {
				body = append(body, quote)
			}
			i = end

		default:
			body = append(body, line)
			i++
		}
	}
	flush()
	return doc, nil
}

func parseHeadingLine(level int, rest string) (*Heading, error) {
	h := &Heading{Level: level}

	if m := tagsRe.FindStringSubmatch(rest); m != nil {
		h.Tags = strings.Split(strings.Trim(m[1], ":"), ":")
		rest = strings.TrimSpace(rest[:len(rest)-len(m[0])])
	}
	h.Title = rest

	if m := linkRe.FindStringSubmatch(rest); m != nil {
		page, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("invalid page in link %q", rest)
		}
		l := &Link{Path: m[1], Page: page, Label: m[4]}
		if m[3] != "" {
			v, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid offset in link %q", rest)
			}
			l.VOffset = v
		}
		h.Link = l
	}
	return h, nil
}

// parseDrawer reads property lines until :END:, returning the index of the
// first line after the drawer.
func parseDrawer(h *Heading, lines []string, start int) (int, error) {
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.EqualFold(line, ":END:") {
			return i + 1, nil
		}
		m := propertyRe.FindStringSubmatch(line)
		if m == nil {
			return 0, fmt.Errorf("line %d: malformed property drawer entry %q", i+1, line)
		}
		h.SetProperty(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	}
	return 0, fmt.Errorf("line %d: property drawer without :END:", start)
}

// parseQuote reads quote lines until #+end_quote, returning the index of the
// first line after the block and its contents.
func parseQuote(lines []string, start int) (int, string, error) {
	var quote []string
	for i := start; i < len(lines); i++ {
		if strings.EqualFold(strings.TrimSpace(lines[i]), "#+end_quote") {
			return i + 1, strings.Join(quote, "\n"), nil
		}
		quote = append(quote, lines[i])
	}
	return 0, "", fmt.Errorf("line %d: quote block without #+end_quote", start)
}
