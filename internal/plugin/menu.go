package plugin

import (
	"fmt"
	"io"
	"strings"
)

// MenuNode is one node of the menu tree built from registrations. Inner
// nodes are submenus; leaves carry their registration. A node with
// Separator set is drawn after a separator; a node with an empty Name is a
// bare separator.
type MenuNode struct {
	Name      string
	Path      string
	Item      *MenuRegistration
	Separator bool
	Children  []*MenuNode
}

// BuildMenu groups slash-delimited paths into a tree. Children keep the
// order in which their first item was registered. A path ending in "/"
// with Separator set adds a bare separator to that submenu.
func BuildMenu(items []MenuRegistration) *MenuNode {
	root := &MenuNode{}
	for i := range items {
		reg := &items[i]
		segments := splitMenuPath(reg.Path)
		if len(segments) == 0 {
			continue
		}

		parent := root
		for _, seg := range segments[:len(segments)-1] {
			parent = parent.child(seg)
		}

		leaf := segments[len(segments)-1]
		if leaf == "" {
			if reg.Separator {
				parent.Children = append(parent.Children, &MenuNode{Path: parent.Path, Separator: true})
			}
			continue
		}
		parent.Children = append(parent.Children, &MenuNode{
			Name:      leaf,
			Path:      joinMenuPath(parent.Path, leaf),
			Item:      reg,
			Separator: reg.Separator,
		})
	}
	return root
}

func splitMenuPath(path string) []string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for i, p := range parts {
		// Keep a trailing empty segment, it marks a separator entry
		if p == "" && i != len(parts)-1 {
			continue
		}
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func joinMenuPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func (n *MenuNode) child(name string) *MenuNode {
	for _, c := range n.Children {
		if c.Name == name && c.Item == nil {
			return c
		}
	}
	c := &MenuNode{Name: name, Path: joinMenuPath(n.Path, name)}
	n.Children = append(n.Children, c)
	return c
}

// Find returns the node at path, or nil.
func (n *MenuNode) Find(path string) *MenuNode {
	node := n
	for _, seg := range splitMenuPath(path) {
		if seg == "" {
			continue
		}
		var next *MenuNode
		for _, c := range node.Children {
			if c.Name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// IsSubmenu reports whether the node groups other entries.
func (n *MenuNode) IsSubmenu() bool {
	return n.Item == nil && n.Name != ""
}

// Write renders the tree as indented text.
func (n *MenuNode) Write(w io.Writer) error {
	return n.write(w, 0)
}

func (n *MenuNode) write(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, c := range n.Children {
		if c.Separator {
			if _, err := fmt.Fprintf(w, "%s----\n", indent); err != nil {
				return err
			}
		}
		if c.Name == "" {
			continue
		}
		line := indent + c.Name
		if c.Item != nil && c.Item.Shortcut != "" {
			line += "\t" + c.Item.Shortcut
		}
		if c.Item != nil {
			line += "\t[" + c.Item.Plugin + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := c.write(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}
