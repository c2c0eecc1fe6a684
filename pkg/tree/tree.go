package tree

import (
	"slices"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

const none = -1

// Tree is a resolved, read-only relationship view over a node collection.
// It is safe for concurrent use.
type Tree struct {
	nodes    []flowchart.Node
	index    map[string]int
	parent   []int
	children [][]int
}

// Build resolves the references of nodes. The input is not modified.
func Build(nodes []flowchart.Node) *Tree {
	last := make(map[string]int, len(nodes))
	for i, n := range nodes {
		last[n.ID] = i
	}

	t := &Tree{index: make(map[string]int, len(last))}
	for i, n := range nodes {
		if last[n.ID] != i {
			continue
		}
		t.index[n.ID] = len(t.nodes)
		t.nodes = append(t.nodes, n.Clone())
	}

	t.parent = make([]int, len(t.nodes))
	t.children = make([][]int, len(t.nodes))
	for i, n := range t.nodes {
		t.parent[i] = t.resolve(n.ParentID, i)

		seen := make(map[int]bool, len(n.ChildrenIDs))
		for _, id := range n.ChildrenIDs {
			c := t.resolve(id, i)
			if c == none || seen[c] {
				continue
			}
			seen[c] = true
			t.children[i] = append(t.children[i], c)
		}
	}
	return t
}

// resolve maps id to a table index, treating self references as dangling.
func (t *Tree) resolve(id string, self int) int {
	if id == "" {
		return none
	}
	i, ok := t.index[id]
	if !ok || i == self {
		return none
	}
	return i
}

// Len returns the number of distinct nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id string) (flowchart.Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return flowchart.Node{}, false
	}
	return t.nodes[i].Clone(), true
}

// Nodes returns every node in table order.
func (t *Tree) Nodes() []flowchart.Node {
	return t.collect(indices(len(t.nodes)))
}

// Strip returns the persisted form of the nodes: ids only, exactly as they
// were given to [Build] apart from dropped duplicates.
func (t *Tree) Strip() []flowchart.Node { return t.Nodes() }

// Parent returns the resolved parent of id.
func (t *Tree) Parent(id string) (flowchart.Node, bool) {
	i, ok := t.index[id]
	if !ok || t.parent[i] == none {
		return flowchart.Node{}, false
	}
	return t.nodes[t.parent[i]].Clone(), true
}

// Children returns the resolved children of id in display order.
func (t *Tree) Children(id string) []flowchart.Node {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.collect(t.children[i])
}

// Roots returns the nodes without a resolvable parent, in table order.
func (t *Tree) Roots() []flowchart.Node {
	var out []int
	for i, p := range t.parent {
		if p == none {
			out = append(out, i)
		}
	}
	return t.collect(out)
}

// Ancestors returns the parent chain of id, nearest first. The walk stops
// at the first node already visited.
func (t *Tree) Ancestors(id string) []flowchart.Node {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.collect(t.ancestors(i))
}

func (t *Tree) ancestors(i int) []int {
	var out []int
	seen := map[int]bool{i: true}
	for p := t.parent[i]; p != none && !seen[p]; p = t.parent[p] {
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Descendants returns every node reachable through child links, in
// pre-order, without duplicates and without id itself.
func (t *Tree) Descendants(id string) []flowchart.Node {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.collect(t.descendants(i))
}

func (t *Tree) descendants(root int) []int {
	var out []int
	seen := map[int]bool{root: true}
	var walk func(int)
	walk = func(i int) {
		for _, c := range t.children[i] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			walk(c)
		}
	}
	walk(root)
	return out
}

// Siblings returns the other children of id's parent. A node without a
// parent has no siblings.
func (t *Tree) Siblings(id string) []flowchart.Node {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.collect(t.siblings(i))
}

func (t *Tree) siblings(i int) []int {
	p := t.parent[i]
	if p == none {
		return nil
	}
	return slices.DeleteFunc(slices.Clone(t.children[p]), func(c int) bool { return c == i })
}

// Related returns ancestors, then descendants, then siblings of id, each
// node once.
func (t *Tree) Related(id string) []flowchart.Node {
	return t.RelatedFunc(id, nil)
}

// RelatedByKind filters [Tree.Related] by node kind.
func (t *Tree) RelatedByKind(id string, kind flowchart.Kind) []flowchart.Node {
	return t.RelatedFunc(id, func(n flowchart.Node) bool { return n.Kind == kind })
}

// RelatedByLabel filters [Tree.Related] by exact label.
func (t *Tree) RelatedByLabel(id, label string) []flowchart.Node {
	return t.RelatedFunc(id, func(n flowchart.Node) bool { return n.Label == label })
}

// RelatedByKindAndLabel filters [Tree.Related] by kind and exact label.
func (t *Tree) RelatedByKindAndLabel(id string, kind flowchart.Kind, label string) []flowchart.Node {
	return t.RelatedFunc(id, func(n flowchart.Node) bool { return n.Kind == kind && n.Label == label })
}

// RelatedFunc returns the related nodes of id for which keep reports true.
// A nil keep keeps everything.
func (t *Tree) RelatedFunc(id string, keep func(flowchart.Node) bool) []flowchart.Node {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	seen := map[int]bool{i: true}
	var out []int
	for _, group := range [][]int{t.ancestors(i), t.descendants(i), t.siblings(i)} {
		for _, j := range group {
			if seen[j] {
				continue
			}
			seen[j] = true
			if keep == nil || keep(t.nodes[j]) {
				out = append(out, j)
			}
		}
	}
	return t.collect(out)
}

func (t *Tree) collect(idx []int) []flowchart.Node {
	if len(idx) == 0 {
		return nil
	}
	out := make([]flowchart.Node, len(idx))
	for k, i := range idx {
		out[k] = t.nodes[i].Clone()
	}
	return out
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
