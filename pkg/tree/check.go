package tree

import (
	"fmt"
	"slices"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

// IssueKind classifies a structural problem.
type IssueKind string

// Issue kinds reported by [Check].
const (
	IssueDuplicateID   IssueKind = "duplicate-id"
	IssueSelfReference IssueKind = "self-reference"
	IssueDanglingRef   IssueKind = "dangling-ref"
	IssueOneSidedLink  IssueKind = "one-sided-link"
	IssueCycle         IssueKind = "cycle"
	IssueDanglingEdge  IssueKind = "dangling-edge"
)

// Issue is one structural problem found by [Check].
type Issue struct {
	Kind    IssueKind `json:"kind"`
	ID      string    `json:"id"`
	Message string    `json:"message"`
}

// Check reports problems that queries tolerate but an editor should not
// produce: duplicate ids, self references, references to missing nodes,
// parent/child links recorded on one side only, cycles, and edges with a
// missing endpoint. None of them stop [Build] from working.
func Check(fc *flowchart.Flowchart) []Issue {
	var issues []Issue
	add := func(kind IssueKind, id, format string, args ...any) {
		issues = append(issues, Issue{Kind: kind, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool, len(fc.Nodes))
	for _, n := range fc.Nodes {
		if seen[n.ID] {
			add(IssueDuplicateID, n.ID, "id %q is used by more than one node; the last one wins", n.ID)
		}
		seen[n.ID] = true
	}

	t := Build(fc.Nodes)
	for i, n := range t.nodes {
		switch {
		case n.ParentID == n.ID:
			add(IssueSelfReference, n.ID, "%s names itself as parent", n.ID)
		case n.ParentID != "" && t.parent[i] == none:
			add(IssueDanglingRef, n.ID, "%s has missing parent %q", n.ID, n.ParentID)
		case t.parent[i] != none && !slices.Contains(t.children[t.parent[i]], i):
			add(IssueOneSidedLink, n.ID, "%s names parent %s, which does not list it as a child", n.ID, n.ParentID)
		}
		for _, c := range n.ChildrenIDs {
			j, ok := t.index[c]
			switch {
			case c == n.ID:
				add(IssueSelfReference, n.ID, "%s lists itself as a child", n.ID)
			case !ok:
				add(IssueDanglingRef, n.ID, "%s has missing child %q", n.ID, c)
			case t.parent[j] != i:
				add(IssueOneSidedLink, n.ID, "%s lists child %s, whose parent is %q", n.ID, c, t.nodes[j].ParentID)
			}
		}
	}

	for _, id := range t.Cycles() {
		add(IssueCycle, id, "%s is on a cycle of tree links", id)
	}

	for _, e := range fc.Edges {
		for _, end := range []string{e.Source, e.Target} {
			if _, ok := t.index[end]; !ok {
				add(IssueDanglingEdge, e.ID, "edge %s references missing node %q", e.ID, end)
			}
		}
	}
	return issues
}
