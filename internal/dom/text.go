package dom

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Text returns the concatenated text of every text node under n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// CollapseSpace replaces every run of whitespace with a single space.
// Leading and trailing runs are collapsed too, not removed.
func CollapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// CellText is the normalized text content of a table cell.
func CellText(n *html.Node) string {
	return CollapseSpace(Text(n))
}
