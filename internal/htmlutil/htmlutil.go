// Package htmlutil wraps golang.org/x/net/html with the document operations
// the email parsers need: tolerant parsing, text extraction, and
// label-anchored value lookups inside tabular layouts.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/juandaherrera/finmail/internal/textutil"
)

// Document is a parsed HTML email body with script, style and noscript
// subtrees removed.
type Document struct {
	root *html.Node
}

// Parse builds a Document from a raw HTML string. Notification emails are
// routinely malformed, so parsing is tolerant and never fails: an empty or
// unparsable body yields an empty document.
func Parse(raw string) *Document {
	node, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		node = &html.Node{Type: html.DocumentNode}
	}
	d := &Document{root: node}
	d.strip(atom.Script, atom.Style, atom.Noscript)
	return d
}

func (d *Document) strip(atoms ...atom.Atom) {
	var doomed []*html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			for _, a := range atoms {
				if n.DataAtom == a {
					doomed = append(doomed, n)
					return false
				}
			}
		}
		return true
	})
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// walk visits nodes depth-first in document order. The callback returns
// false to skip a node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// text concatenates the text nodes under n. With strip set, each segment is
// trimmed and empty segments are dropped, matching how values are read out
// of table cells.
func text(n *html.Node, sep string, strip bool) string {
	var parts []string
	walk(n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			s := n.Data
			if strip {
				s = strings.TrimSpace(s)
				if s == "" {
					return true
				}
			}
			parts = append(parts, s)
		}
		return true
	})
	return strings.Join(parts, sep)
}

// Text returns the document's visible text with segments joined by sep.
func (d *Document) Text(sep string) string {
	return text(d.root, sep, true)
}

// ForwardedSubject extracts the subject of a forwarded email: the first
// text line starting with a "subject:" marker, case-insensitively. Returns
// "" when the body carries no such line.
func (d *Document) ForwardedSubject() string {
	for _, line := range strings.Split(text(d.root, "\n", true), "\n") {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "subject:") {
			_, after, _ := strings.Cut(line, ":")
			return strings.TrimSpace(after)
		}
	}
	return ""
}

func findAll(root *html.Node, a atom.Atom) []*html.Node {
	var nodes []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

func ancestor(n *html.Node, a atom.Atom) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == a {
			return p
		}
	}
	return nil
}

func normalizeSet(variants []string) map[string]struct{} {
	set := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		set[textutil.Normalize(v)] = struct{}{}
	}
	return set
}

// FindRowValueByLabel locates a <p> whose normalized text equals one of the
// label variants and returns the text of the second <p> within the same
// table row. This is the RappiCard layout: label and value are paragraphs
// side by side inside one <tr>.
func (d *Document) FindRowValueByLabel(variants []string) (string, bool) {
	set := normalizeSet(variants)
	for _, p := range findAll(d.root, atom.P) {
		if _, ok := set[textutil.Normalize(text(p, "", false))]; !ok {
			continue
		}
		tr := ancestor(p, atom.Tr)
		if tr == nil {
			continue
		}
		if ps := findAll(tr, atom.P); len(ps) >= 2 {
			return text(ps[1], "", true), true
		}
	}
	return "", false
}

// FindSiblingCellByLabel locates a <p> whose normalized text equals one of
// the label variants and returns the text of the next <td> in the same
// table row. This is the RappiPay layout: label cell followed by value
// cell.
func (d *Document) FindSiblingCellByLabel(variants []string) (string, bool) {
	set := normalizeSet(variants)
	for _, p := range findAll(d.root, atom.P) {
		if _, ok := set[textutil.Normalize(text(p, "", false))]; !ok {
			continue
		}
		td := ancestor(p, atom.Td)
		if td == nil {
			continue
		}
		tr := ancestor(td, atom.Tr)
		if tr == nil {
			continue
		}
		tds := findAll(tr, atom.Td)
		for i, cell := range tds {
			if cell == td && i+1 < len(tds) {
				return text(tds[i+1], "", true), true
			}
		}
	}
	return "", false
}
