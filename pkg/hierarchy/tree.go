// Package hierarchy models the inheritance tree of sources.
//
// Nodes live in an arena: a node refers to its parent and children by index, so the parent
// link is a plain lookup and never owns anything.
package hierarchy

import (
	"strings"

	errUtils "github.com/cloudposse/monarch/errors"
)

const noParent = -1

type node struct {
	path     string
	parent   int
	children []int
}

// Tree is an immutable hierarchy of sources with one logical root.
type Tree struct {
	nodes []node
	root  int
	// synthetic is true when the root is the anonymous node holding several top-level sources.
	synthetic bool
	index     map[string][]int
}

func newTree() *Tree {
	return &Tree{index: make(map[string][]int)}
}

func (t *Tree) add(path string, parent int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{path: path, parent: parent})
	if parent != noParent {
		t.nodes[parent].children = append(t.nodes[parent].children, idx)
	}
	t.index[path] = append(t.index[path], idx)
	return idx
}

// lookup resolves path to a node index. It reports ErrAmbiguousSource when the
// uniqueness invariant is broken rather than picking one of the matches.
func (t *Tree) lookup(path string) (int, bool, error) {
	if t.synthetic && path == "" {
		return 0, false, nil
	}
	matches := t.index[path]
	switch len(matches) {
	case 0:
		return 0, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return 0, false, errUtils.Build(errUtils.ErrAmbiguousSource).
			WithCause("source %q matched %d nodes", path, len(matches)).
			WithSource(path).
			Err()
	}
}

// Root returns the root path, or "" when the root is synthetic.
func (t *Tree) Root() string {
	if t.synthetic {
		return ""
	}
	return t.nodes[t.root].path
}

// Synthetic reports whether the root is the anonymous node above several top-level sources.
func (t *Tree) Synthetic() bool {
	return t.synthetic
}

// Len returns the number of real sources in the tree.
func (t *Tree) Len() int {
	if t.synthetic {
		return len(t.nodes) - 1
	}
	return len(t.nodes)
}

// Contains reports whether path names exactly one source.
func (t *Tree) Contains(path string) bool {
	_, ok, err := t.lookup(path)
	return ok && err == nil
}

// Paths returns every source in level order.
func (t *Tree) Paths() []string {
	return t.levelOrder(t.root)
}

// Parent returns the parent of path. The second value is false for top-level sources and
// for absent paths.
func (t *Tree) Parent(path string) (string, bool) {
	idx, ok, err := t.lookup(path)
	if !ok || err != nil {
		return "", false
	}
	parent := t.nodes[idx].parent
	if parent == noParent || (t.synthetic && parent == t.root) {
		return "", false
	}
	return t.nodes[parent].path, true
}

// Children returns the direct children of path in declaration order.
func (t *Tree) Children(path string) []string {
	idx, ok, err := t.lookup(path)
	if !ok || err != nil {
		return nil
	}
	return t.pathsOf(t.nodes[idx].children)
}

// Depth returns the number of real ancestors above path, or -1 when path is absent.
func (t *Tree) Depth(path string) int {
	ancestors, err := t.AncestorsOf(path)
	if err != nil || len(ancestors) == 0 {
		return -1
	}
	return len(ancestors) - 1
}

// DescendantsOf returns path and everything below it in level order: path first, then each
// tier from nearest to farthest. An absent path yields an empty result.
func (t *Tree) DescendantsOf(path string) ([]string, error) {
	idx, ok, err := t.lookup(path)
	if err != nil || !ok {
		return nil, err
	}
	return t.levelOrder(idx), nil
}

// AncestorsOf returns the chain from path up to the root, path first and root last.
// The synthetic root is never part of the chain.
func (t *Tree) AncestorsOf(path string) ([]string, error) {
	idx, ok, err := t.lookup(path)
	if err != nil || !ok {
		return nil, err
	}
	var chain []string
	for i := idx; i != noParent; i = t.nodes[i].parent {
		if t.synthetic && i == t.root {
			break
		}
		chain = append(chain, t.nodes[i].path)
	}
	return chain, nil
}

// SubtreeRootedAt returns a new tree whose root is path. The second value is false when
// path is absent.
func (t *Tree) SubtreeRootedAt(path string) (*Tree, bool, error) {
	idx, ok, err := t.lookup(path)
	if err != nil || !ok {
		return nil, false, err
	}

	return t.reroot(idx), true, nil
}

// String renders the tree as an indented outline, one source per line, indented by depth.
func (t *Tree) String() string {
	var roots []string
	if t.Synthetic() {
		roots = t.pathsOf(t.nodes[t.root].children)
	} else {
		roots = []string{t.Root()}
	}

	var b strings.Builder
	var walk func(path string)
	walk = func(path string) {
		b.WriteString(strings.Repeat("  ", t.Depth(path)))
		b.WriteString(path)
		b.WriteString("\n")
		for _, child := range t.Children(path) {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return b.String()
}

func (t *Tree) levelOrder(start int) []string {
	var out []string
	queue := []int{start}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		if !(t.synthetic && idx == t.root) {
			out = append(out, t.nodes[idx].path)
		}
		queue = append(queue, t.nodes[idx].children...)
	}
	return out
}

func (t *Tree) pathsOf(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		out = append(out, t.nodes[i].path)
	}
	return out
}
