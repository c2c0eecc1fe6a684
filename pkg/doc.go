// Package pkg provides the core libraries for flowmap task flowcharts.
//
// # Overview
//
// flowmap keeps flowcharts of task and note boxes: users add and connect
// nodes, type labels that resize their boxes, track completion, and import,
// export or render whole documents. Canvas positions are stored but never
// computed; whatever front end draws the canvas owns them. The pkg directory
// is organized into four areas:
//
//  1. Domain - [flowchart], [dimension], [tree]
//  2. Persistence - [storage]
//  3. Files and rendering - [io], [render]
//  4. Serving and ambient concerns - [server], [config], [errors], [logging],
//     [observability], [buildinfo], [fonts]
//
// # Architecture
//
// The typical data flow for one edit:
//
//	storage.Repository.LoadFlowchart
//	         ↓
//	    flowchart.Editor (add, label, resize, connect, delete)
//	         ↓           ↘
//	    dimension.Engine   tree.Build (parent/child links)
//	         ↓
//	storage.Repository.SaveFlowchart
//
// The CLI (internal/cli) and the HTTP API ([server]) both follow it, so a
// label typed in either place yields the same box size.
//
// # Quick Start
//
// Build a small document and export it:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/flowmap/pkg/flowchart"
//	    "github.com/matzehuels/flowmap/pkg/io"
//	)
//
//	ed := flowchart.NewEditor(nil)
//	n, _ := ed.AddNode(flowchart.KindTask, flowchart.Position{})
//	ed.SetLabel(context.Background(), n.ID, "Write the proposal")
//	io.WriteJSON(ed.Flowchart(), os.Stdout)
//
// # Main Packages
//
// ## Domain
//
// [flowchart] - Nodes, edges and documents, and the Editor that applies every
// mutation to a private copy. Node ids are "node-N" from a per-document
// counter; edge ids are "edge-" plus a UUID.
//
// [dimension] - Box sizing. Engines propose a size for label text (measured
// with [fonts]) and reconcile it with the current size, honouring manual
// resizes. A Registry holds one engine per node kind.
//
// [tree] - Parent/child links built from possibly inconsistent node fields,
// with ancestor, descendant, sibling and filtered relation queries, cycle
// detection and a consistency Check.
//
// ## Persistence
//
// [storage] - Byte-level key-value stores (memory, file, SQLite, Redis,
// MongoDB, null) behind one Store interface, a retrying Persister that falls
// back to defaults, and the Repository that maps a document onto four keys.
//
// ## Files and Rendering
//
// [io] - The JSON interchange format with validation on import.
//
// [render] - Graphviz DOT generation and SVG/PNG rendering via go-graphviz.
//
// ## Serving and Ambient Concerns
//
// [server] - The chi HTTP API under /api/v1.
//
// [config] - TOML configuration with FLOWMAP_* environment overrides.
//
// [errors] - Coded errors and input validators.
//
// [logging] - charmbracelet/log loggers carried through context.Context.
//
// [observability] - No-op-by-default hooks for stores, sizing, rendering and
// HTTP.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/dimension/...          # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [flowchart]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/flowchart
// [dimension]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/dimension
// [tree]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/tree
// [storage]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/storage
// [io]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/errors
// [logging]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/logging
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/buildinfo
// [fonts]: https://pkg.go.dev/github.com/matzehuels/flowmap/pkg/fonts
package pkg
