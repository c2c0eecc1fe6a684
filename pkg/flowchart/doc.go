// Package flowchart defines the flowmap document model and its editing
// operations.
//
// # Overview
//
// A [Flowchart] is a titled collection of [Node] boxes and [Edge]
// connections. Nodes carry a text label, a pixel size, an opaque position
// owned by whichever front end draws the canvas, a completion flag and
// optional tree references (ParentID/ChildrenIDs). Edges connect two nodes'
// handles and are independent of the tree references.
//
// # Editing
//
// All mutations go through an [Editor], which owns a private copy of the
// document:
//
//	ed := flowchart.NewEditor(fc, flowchart.WithSizes(registry))
//	n, _ := ed.AddNode(flowchart.KindTask, flowchart.Position{X: 100, Y: 40})
//	n, _ = ed.SetLabel(ctx, n.ID, "Write the report")
//	ed.SetCompleted(n.ID, true)
//	fc = ed.Flowchart()
//
// Label edits run the dimension engine for the node's kind, so the stored
// size grows while typing, shrinks while deleting and respects manual
// resizes (see package dimension).
//
// Editor methods return errors only for caller mistakes, such as unknown
// ids or a self-connection. They never fail because of label content.
//
// # Identifiers
//
// Node ids are minted from a running counter as "node-<n>". Edge ids are
// "edge-<uuid>". Imported documents reconstitute the counter from their node
// ids (see package io).
package flowchart
