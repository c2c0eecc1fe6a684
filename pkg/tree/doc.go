// Package tree resolves the parent/child references stored on flowchart
// nodes into a navigable view.
//
// Nodes persist only ids: ParentID and ChildrenIDs. [Build] copies the nodes
// into an indexed table and stores each relationship as a table index, so
// the view never holds pointers between nodes and needs no clean-up before
// the nodes are saved again. [Tree.Strip] returns the persisted form.
//
// # Malformed input
//
// Nothing in this package fails or panics on structurally valid input:
//   - Duplicate ids: the last occurrence wins, earlier ones are dropped.
//   - Dangling ids (a parent or child that does not exist) resolve to
//     "no relationship" and are not reported.
//   - A node naming itself as parent or child is treated as dangling.
//   - Cyclic parent chains and child lists are tolerated: every traversal
//     stops at the first revisited node. [Tree.Cycles] reports the nodes
//     involved so callers can warn about them.
//
// # Example
//
//	t := tree.Build(fc.Nodes)
//	for _, a := range t.Ancestors("node-7") {
//	    fmt.Println(a.Label)
//	}
package tree
