package export

import (
	"sort"
	"strings"
)

// treeNode is one node of the directory tree rebuilt from relative paths.
type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

func newTreeNode(name string, isDir bool) *treeNode {
	return &treeNode{
		name:     name,
		isDir:    isDir,
		children: make(map[string]*treeNode),
	}
}

// renderPathTree draws the directory structure of the given slash-separated
// relative paths with box-drawing connectors. With includeFiles false only
// the directories are drawn.
func renderPathTree(paths []string, includeFiles bool) string {
	if len(paths) == 0 {
		return ""
	}
	root := newTreeNode("", true)
	for _, p := range paths {
		parts := strings.Split(p, "/")
		node := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			isDir := i < len(parts)-1
			child, ok := node.children[part]
			if !ok {
				child = newTreeNode(part, isDir)
				node.children[part] = child
			} else if isDir {
				child.isDir = true
			}
			node = child
		}
	}

	var b strings.Builder
	writeTree(&b, root, "", includeFiles)
	return b.String()
}

// writeTree renders node's children under the given indentation prefix.
func writeTree(b *strings.Builder, node *treeNode, prefix string, includeFiles bool) {
	children := sortedChildren(node, includeFiles)
	for i, child := range children {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.name)
		b.WriteString("\n")
		if child.isDir {
			writeTree(b, child, childPrefix, includeFiles)
		}
	}
}

// sortedChildren lists a node's children directories first, then files, each
// group in case-insensitive name order.
func sortedChildren(node *treeNode, includeFiles bool) []*treeNode {
	children := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		if !includeFiles && !child.isDir {
			continue
		}
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].isDir != children[j].isDir {
			return children[i].isDir
		}
		return strings.ToLower(children[i].name) < strings.ToLower(children[j].name)
	})
	return children
}
