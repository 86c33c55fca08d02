package browser

import (
	"cmp"
	"slices"
	"strings"
)

// NodeType distinguishes directories from files.
type NodeType int

const (
	File NodeType = iota
	Directory
)

// ParseNodeType maps the wire value ("tree" or "blob") to a NodeType.
// Anything other than "tree" is a file.
func ParseNodeType(s string) NodeType {
	if s == "tree" {
		return Directory
	}
	return File
}

// String returns the wire value.
func (t NodeType) String() string {
	if t == Directory {
		return "tree"
	}
	return "blob"
}

// Node is one entry of a directory listing.
type Node struct {
	Name string
	Path string
	Type NodeType
}

// IsDir reports whether the node is a directory.
func (n Node) IsDir() bool { return n.Type == Directory }

// SortListing returns a copy of nodes with directories first, each group
// ordered by name (byte-wise).
func SortListing(nodes []Node) []Node {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b Node) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// findReadme returns the root README blob, if any.
func findReadme(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if !n.IsDir() && strings.EqualFold(n.Name, "readme.md") {
			return n, true
		}
	}
	return Node{}, false
}
