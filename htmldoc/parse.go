package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/index"
)

// Parse reads one page. docPath is the canonical corpus path of the page,
// such as /archive/marx/works/1867-c1/ch01.htm.
func Parse(docPath string, r io.Reader) (*core.RawDocument, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, docPath, err)
	}
	utf8Reader, err := charset.NewReader(bytes.NewReader(raw), "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, docPath, err)
	}
	root, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, docPath, err)
	}

	p := &parser{
		doc: &core.RawDocument{
			Path:    docPath,
			Section: core.SectionFromPath(docPath),
			Meta:    make(map[string]string),
			Size:    len(raw),
		},
		cur: -1,
	}
	_, p.glossary = index.KindFromPath(docPath)
	p.walk(root, false)

	if body := findAny(root, atom.Body); body != nil {
		p.doc.Text = collapse(textOf(body))
	}
	p.doc.Terms = p.terms
	return p.doc, nil
}

type parser struct {
	doc      *core.RawDocument
	glossary bool
	terms    []core.Term
	cur      int    // index of the open term, -1 before the first
	pending  string // anchor seen outside a block, waiting for its text
}

func (p *parser) walk(n *html.Node, inBlock bool) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Title:
			if p.doc.Title == "" {
				p.doc.Title = collapse(textOf(n))
			}
			return
		case atom.Meta:
			p.meta(n)
			return
		case atom.Script, atom.Style, atom.Noscript:
			return
		case atom.Img, atom.Video, atom.Audio, atom.Object, atom.Embed:
			p.doc.MediaCount++
		case atom.A:
			p.anchor(n, inBlock)
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			if t := collapse(textOf(n)); t != "" {
				p.doc.Headings = append(p.doc.Headings, core.Heading{Level: int(n.Data[1] - '0'), Text: t})
			}
		case atom.P:
			if t := lines(textOf(n)); t != "" {
				p.doc.Paragraphs = append(p.doc.Paragraphs, core.Paragraph{Class: attr(n, "class"), Text: t})
			}
		case atom.Div, atom.Span, atom.Td:
			if core.IsInfoClass(attr(n, "class")) {
				for _, line := range strings.Split(lines(textOf(n)), "\n") {
					if line != "" {
						p.doc.Info = append(p.doc.Info, line)
					}
				}
			}
		}
		if p.glossary && !inBlock && isTermBlock(n.DataAtom) {
			p.termBlock(n)
			inBlock = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, inBlock)
	}
}

func (p *parser) meta(n *html.Node) {
	name := strings.ToLower(strings.TrimSpace(attr(n, "name")))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(attr(n, "http-equiv")))
	}
	if name == "" {
		return
	}
	if _, seen := p.doc.Meta[name]; !seen {
		p.doc.Meta[name] = strings.TrimSpace(attr(n, "content"))
	}
}

func (p *parser) anchor(n *html.Node, inBlock bool) {
	if href, ok := attrOK(n, "href"); ok {
		href = strings.TrimSpace(href)
		p.doc.Links = append(p.doc.Links, core.Link{Href: href, Text: collapse(textOf(n))})
		if p.cur >= 0 {
			p.terms[p.cur].Links = append(p.terms[p.cur].Links, href)
		}
		return
	}
	if p.glossary && !inBlock {
		if name := anchorName(n); name != "" {
			p.pending = name
		}
	}
}

// termBlock opens a new term when the block carries a named anchor, or
// extends the open term's body otherwise.
func (p *parser) termBlock(n *html.Node) {
	text := collapse(textOf(n))
	name, heading := "", ""
	if a := firstNamedAnchor(n); a != nil {
		name = anchorName(a)
		heading = collapse(textOf(a))
	} else if p.pending != "" {
		name = p.pending
	}
	p.pending = ""

	if name == "" {
		if p.cur >= 0 && text != "" && !isHeading(n.DataAtom) {
			t := &p.terms[p.cur]
			t.Body = strings.TrimSpace(t.Body + " " + text)
		}
		return
	}
	if heading == "" {
		if b := findAny(n, atom.B, atom.Strong); b != nil {
			heading = collapse(textOf(b))
		} else {
			heading = text
		}
	}
	p.terms = append(p.terms, core.Term{
		Anchor: name,
		Text:   heading,
		Body:   strings.TrimSpace(strings.TrimPrefix(text, heading)),
	})
	p.cur = len(p.terms) - 1
}

func isTermBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Dt, atom.Dd, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func isHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func anchorName(n *html.Node) string {
	if v := strings.TrimSpace(attr(n, "name")); v != "" {
		return v
	}
	return strings.TrimSpace(attr(n, "id"))
}

func firstNamedAnchor(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.A && anchorName(n) != "" {
		if _, isLink := attrOK(n, "href"); !isLink {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if a := firstNamedAnchor(c); a != nil {
			return a
		}
	}
	return nil
}

func findAny(n *html.Node, atoms ...atom.Atom) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range atoms {
			if n.DataAtom == a {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findAny(c, atoms...); f != nil {
			return f
		}
	}
	return nil
}

// Source line breaks are plain whitespace; only <br> breaks a line.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// textOf returns the visible text under n with <br> as a newline.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(lineBreaks.Replace(n.Data))
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head:
				return
			case atom.Br:
				sb.WriteByte('\n')
				return
			case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Li, atom.Tr:
				sb.WriteByte(' ')
				defer sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return sb.String()
}

// collapse folds all whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lines collapses whitespace within each line and drops empty lines.
func lines(s string) string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = collapse(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
