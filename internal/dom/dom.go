// Package dom holds the small set of node-tree operations the filter widget
// needs on top of golang.org/x/net/html: selector resolution, table section
// lookup, text extraction and element construction.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrInvalidSelector = errors.New("invalid selector")
	ErrNoMatch         = errors.New("selector matched nothing")
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Resolve returns the first element under root matching the CSS selector.
func Resolve(root *html.Node, selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	n := sel.MatchFirst(root)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, selector)
	}
	return n, nil
}

// QueryAll returns every element under root matching selector, in document order.
func QueryAll(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return sel.MatchAll(root), nil
}

// IsElement reports whether n is an element with the given tag.
func IsElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// IsTable reports whether n is a <table> element.
func IsTable(n *html.Node) bool {
	return IsElement(n, atom.Table)
}

// Children returns the element children of n with the given tag.
func Children(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, a) {
			out = append(out, c)
		}
	}
	return out
}

// Head returns the table's first <thead>, or nil.
func Head(table *html.Node) *html.Node {
	if hs := Children(table, atom.Thead); len(hs) > 0 {
		return hs[0]
	}
	return nil
}

// EnsureHead returns the table's <thead>, creating it when absent. A new
// <thead> goes after any <caption>/<colgroup> and before every other child.
func EnsureHead(table *html.Node) *html.Node {
	if h := Head(table); h != nil {
		return h
	}
	head := Element("thead")
	var before *html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Caption || c.DataAtom == atom.Colgroup {
			continue
		}
		before = c
		break
	}
	if before != nil {
		table.InsertBefore(head, before)
	} else {
		table.AppendChild(head)
	}
	return head
}

// BodySections returns the containers holding the table's body rows in
// document order: every <tbody>, plus the table itself when rows were
// placed directly under it.
func BodySections(table *html.Node) []*html.Node {
	var out []*html.Node
	direct := false
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case IsElement(c, atom.Tbody):
			out = append(out, c)
		case IsElement(c, atom.Tr) && !direct:
			direct = true
			out = append(out, table)
		}
	}
	return out
}

// Rows returns the <tr> children of a section.
func Rows(section *html.Node) []*html.Node {
	return Children(section, atom.Tr)
}

// Cells returns the <td> and <th> children of a row.
func Cells(tr *html.Node) []*html.Node {
	var out []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, atom.Td) || IsElement(c, atom.Th) {
			out = append(out, c)
		}
	}
	return out
}

// Element creates a detached element.
func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// TextNode creates a detached text node.
func TextNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether n's class attribute lists class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Render writes n as HTML.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}
