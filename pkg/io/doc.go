// Package io provides JSON import and export for flowchart documents.
//
// # Overview
//
// The wire format is the document interchange format used by the editor's
// export button, the CLI's import/export commands and the HTTP API. It is
// designed for:
//
//   - Round trips: export, edit elsewhere, re-import without loss
//   - Hand editing: every field except node ids and edge endpoints is optional
//   - Plain values only: no functions, no derived tree objects
//
// # JSON Format
//
//	{
//	  "title": "Launch plan",
//	  "nodes": [
//	    {
//	      "id": "node-1",
//	      "type": "task",
//	      "position": {"x": 0, "y": 0},
//	      "data": {
//	        "label": "Write docs",
//	        "width": 160,
//	        "height": 80,
//	        "completed": true,
//	        "completedAt": 1767225600000,
//	        "childrenIds": ["node-2"]
//	      }
//	    },
//	    {"id": "node-2", "type": "simple", "data": {"label": "Ship", "parentId": "node-1"}}
//	  ],
//	  "edges": [
//	    {"id": "edge-1", "source": "node-1", "target": "node-2",
//	     "sourceHandle": "bottom", "targetHandle": "top"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Unique, non-empty string
//
// Optional:
//   - type: "task" (default) or "simple"
//   - position: Canvas coordinate, stored but never interpreted
//   - data.label: Display text, newlines allowed
//   - data.width, data.height: Box size in pixels, clamped to the kind's bounds
//   - data.completed, data.completedAt: Completion state of task nodes;
//     completedAt is milliseconds since the Unix epoch
//   - data.manuallyResized: Whether the size was set explicitly
//   - data.parentId, data.childrenIds: Tree references; ids that do not resolve
//     are kept and ignored by relationship queries
//   - data.note, data.color: Free-text note and "#rgb"/"#rrggbb" accent colour
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, [ReadJSON] to read
// from any io.Reader, or [Unmarshal] for bytes. A document that fails
// validation is rejected as a whole with an INVALID_IMPORT error; nothing is
// partially applied. The id counter of the result continues after the
// highest "node-N" id.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, [WriteJSON] to write to
// any io.Writer, or [Marshal] for bytes. Output is indented and stable.
package io
