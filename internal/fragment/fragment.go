// Package fragment flattens the server's HTML fragments into terminal text.
// Fragments are opaque: no structure beyond line breaks and cell
// separation is interpreted.
package fragment

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const cellSeparator = "  "

var blockTags = map[atom.Atom]bool{
	atom.Br: true, atom.P: true, atom.Div: true, atom.Tr: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Tbody: true, atom.Thead: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Hr: true, atom.Dt: true, atom.Dd: true,
}

var skipTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true,
}

// Text renders fragment as plain text: block elements break lines, table
// cells are separated by spaces, and whitespace outside <pre> collapses.
func Text(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(collapse(fragment))
	}
	var b builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	pre := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				b.write(string(z.Raw()))
			}
			return b.String()
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if pre > 0 {
				b.writeRaw(text)
			} else {
				b.write(collapse(text))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case skipTags[a]:
				if tt == html.StartTagToken {
					skip++
				}
			case a == atom.Pre:
				b.newline()
				if tt == html.StartTagToken {
					pre++
				}
			case a == atom.Td || a == atom.Th:
				b.cell()
			case a == atom.Hr:
				b.newline()
				b.writeRaw("----")
				b.newline()
			case blockTags[a]:
				b.newline()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case skipTags[a]:
				if skip > 0 {
					skip--
				}
			case a == atom.Pre:
				if pre > 0 {
					pre--
				}
				b.newline()
			case blockTags[a]:
				b.newline()
			}
		}
	}
}

// Lines renders fragment and splits it into display lines with trailing
// spaces removed and blank runs collapsed to one.
func Lines(fragment string) []string {
	text := Text(fragment)
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	blank := false
	for _, line := range raw {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, line)
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func collapse(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

type builder struct {
	strings.Builder
	lineStart bool
	inCell    bool
	atCell    bool
	pending   bool
}

// write appends collapsed text. Leading and trailing spaces are held back
// so that line and cell boundaries never start or end with one.
func (b *builder) write(s string) {
	if s == "" {
		return
	}
	lead := strings.HasPrefix(s, " ")
	trail := strings.HasSuffix(s, " ")
	s = strings.Trim(s, " ")
	if s == "" {
		b.pending = b.pending || lead || trail
		return
	}
	if (lead || b.pending) && b.Len() > 0 && !b.lineStart && !b.atCell {
		b.WriteByte(' ')
	}
	b.WriteString(s)
	b.lineStart = false
	b.atCell = false
	b.pending = trail
}

func (b *builder) writeRaw(s string) {
	if s == "" {
		return
	}
	if b.pending && b.Len() > 0 && !b.lineStart && !b.atCell {
		b.WriteByte(' ')
	}
	b.pending = false
	b.atCell = false
	b.WriteString(s)
	b.lineStart = strings.HasSuffix(s, "\n")
}

func (b *builder) newline() {
	b.pending = false
	b.inCell = false
	b.atCell = false
	if b.Len() == 0 || b.lineStart {
		return
	}
	b.WriteByte('\n')
	b.lineStart = true
}

func (b *builder) cell() {
	b.pending = false
	if b.inCell && !b.lineStart {
		b.WriteString(cellSeparator)
	}
	b.inCell = true
	b.atCell = true
}

func (b *builder) String() string {
	return strings.TrimRight(b.Builder.String(), " \n")
}
