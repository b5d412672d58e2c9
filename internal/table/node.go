package table

import (
	"fmt"
	"strings"
	"sync"
)

// Node is one element of a rendered table: a div with class names, optional
// text and child elements.
type Node struct {
	Classes  []string `json:"classes"`
	Text     string   `json:"text,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

func newNode(text string, classes ...string) *Node {
	return &Node{Classes: classes, Text: text}
}

// Class returns the space separated class attribute.
func (n *Node) Class() string {
	return strings.Join(n.Classes, " ")
}

// HasClass reports whether n carries every one of the given classes.
func (n *Node) HasClass(classes ...string) bool {
	for _, want := range classes {
		found := false
		for _, c := range n.Classes {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// Child returns the first direct child carrying all classes, or nil.
func (n *Node) Child(classes ...string) *Node {
	for _, c := range n.Children {
		if c.HasClass(classes...) {
			return c
		}
	}
	return nil
}

// Find returns every descendant of n, depth first, that carries all classes.
func (n *Node) Find(classes ...string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.HasClass(classes...) {
			out = append(out, c)
		}
		out = append(out, c.Find(classes...)...)
	}
	return out
}

// Document holds the containers tables are inserted into, addressed by
// selector ("#summary"). Append is safe for concurrent use.
type Document struct {
	mu         sync.Mutex
	order      []string
	containers map[string]*Node
}

// NewDocument creates a document with one empty container per selector.
func NewDocument(selectors ...string) *Document {
	d := &Document{containers: make(map[string]*Node, len(selectors))}
	for _, s := range selectors {
		if _, ok := d.containers[s]; ok {
			continue
		}
		d.order = append(d.order, s)
		d.containers[s] = newNode("", "container")
	}
	return d
}

// Append inserts n as the last child of the container matching selector.
func (d *Document) Append(selector string, n *Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.containers[selector]
	if !ok {
		return fmt.Errorf("no container matches %q", selector)
	}
	c.Append(n)
	return nil
}

// Container returns the container matching selector, or nil.
func (d *Document) Container(selector string) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.containers[selector]
}

// Selectors returns the container selectors in creation order.
func (d *Document) Selectors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.order...)
}
