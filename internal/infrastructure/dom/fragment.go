// Package dom parses rendered HTML fragments so attributes can be attached to their root
// element before the markup is written back out.
package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoRootElement is returned when a fragment contains no element at the top level
var ErrNoRootElement = errors.New("fragment has no root element")

// Fragment is a parsed HTML fragment. The first top-level element is its root.
type Fragment struct {
	nodes []*html.Node
	root  *html.Node
}

// Parse parses markup in a <body> context
func Parse(markup string) (*Fragment, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrNoRootElement
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}

	f := &Fragment{nodes: nodes}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			f.root = n
			break
		}
	}
	if f.root == nil {
		return nil, ErrNoRootElement
	}
	return f, nil
}

// RootTag returns the root element's tag name
func (f *Fragment) RootTag() string {
	return f.root.Data
}

// SetAttr sets an attribute on the root element, replacing any existing value
func (f *Fragment) SetAttr(key, value string) {
	for i, a := range f.root.Attr {
		if a.Namespace == "" && a.Key == key {
			f.root.Attr[i].Val = value
			return
		}
	}
	f.root.Attr = append(f.root.Attr, html.Attribute{Key: key, Val: value})
}

// Attr returns the root element's attribute value
func (f *Fragment) Attr(key string) (string, bool) {
	for _, a := range f.root.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Contains reports whether an element with the given tag appears anywhere in the fragment
func (f *Fragment) Contains(tag string) bool {
	for _, n := range f.nodes {
		if containsTag(n, tag) {
			return true
		}
	}
	return false
}

func containsTag(n *html.Node, tag string) bool {
	if n.Type == html.ElementNode && n.Data == tag {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsTag(c, tag) {
			return true
		}
	}
	return false
}

// Render serializes every top-level node back to markup
func (f *Fragment) Render() (string, error) {
	var b strings.Builder
	for _, n := range f.nodes {
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("failed to render fragment: %w", err)
		}
	}
	return b.String(), nil
}
