package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowmap/pkg/dimension"
	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
)

// Option configures an import.
type Option func(*options)

type options struct {
	sizes  *dimension.Registry
	edgeID func() string
}

// WithSizes sets the per-kind bounds imported sizes are clamped to.
func WithSizes(r *dimension.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.sizes = r
		}
	}
}

// WithEdgeIDs overrides the id generator for edges imported without an id.
func WithEdgeIDs(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.edgeID = gen
		}
	}
}

// ReadJSON decodes a JSON document from r.
//
// ReadJSON returns an INVALID_IMPORT error if:
//   - The JSON is malformed or has no "nodes" array
//   - A node id is empty, malformed or duplicated
//   - A node type is unknown
//   - A label or colour is invalid
//   - An edge has a missing or unknown endpoint, connects a node to itself,
//     or repeats another edge's id
//
// Sizes are clamped to the kind's bounds (missing sizes become the default
// size), edges without an id get a fresh one, and the id counter is set past
// the highest "node-N" id. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...Option) (*flowchart.Flowchart, error) {
	var data struct {
		Title string  `json:"title"`
		Nodes *[]node `json:"nodes"`
		Edges []edge  `json:"edges"`
	}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImport, err, "decode")
	}
	if data.Nodes == nil {
		return nil, errors.New(errors.ErrCodeInvalidImport, `missing "nodes" array`)
	}

	o := options{edgeID: func() string { return flowchart.EdgeIDPrefix + uuid.NewString() }}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sizes == nil {
		o.sizes = dimension.NewRegistry(nil)
	}

	fc := flowchart.New()
	if title := strings.TrimSpace(data.Title); title != "" {
		fc.Title = title
	}

	ids := make(map[string]bool, len(*data.Nodes))
	for i, n := range *data.Nodes {
		nd, err := fromNode(n, o.sizes)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImport, err, "node %d", i)
		}
		if ids[nd.ID] {
			return nil, errors.New(errors.ErrCodeInvalidImport, "node %d: duplicate id %q", i, nd.ID)
		}
		ids[nd.ID] = true
		fc.Nodes = append(fc.Nodes, nd)
	}

	edgeIDs := make(map[string]bool, len(data.Edges))
	for i, e := range data.Edges {
		switch {
		case e.Source == "" || e.Target == "":
			return nil, errors.New(errors.ErrCodeInvalidImport, "edge %d: missing source or target", i)
		case !ids[e.Source]:
			return nil, errors.New(errors.ErrCodeInvalidImport, "edge %d: unknown source %q", i, e.Source)
		case !ids[e.Target]:
			return nil, errors.New(errors.ErrCodeInvalidImport, "edge %d: unknown target %q", i, e.Target)
		case e.Source == e.Target:
			return nil, errors.New(errors.ErrCodeInvalidImport, "edge %d: connects %q to itself", i, e.Source)
		}
		if e.ID == "" {
			e.ID = o.edgeID()
		}
		if edgeIDs[e.ID] {
			return nil, errors.New(errors.ErrCodeInvalidImport, "edge %d: duplicate id %q", i, e.ID)
		}
		edgeIDs[e.ID] = true
		fc.Edges = append(fc.Edges, flowchart.Edge(e))
	}

	nodeIDs := make([]string, len(fc.Nodes))
	for i, n := range fc.Nodes {
		nodeIDs[i] = n.ID
	}
	fc.NextID = flowchart.NextIDFor(nodeIDs)
	return fc, nil
}

func fromNode(n node, sizes *dimension.Registry) (flowchart.Node, error) {
	if err := errors.ValidateNodeID(n.ID); err != nil {
		return flowchart.Node{}, err
	}
	kind, err := flowchart.ParseKind(n.Type)
	if err != nil {
		return flowchart.Node{}, err
	}
	d := n.Data
	if err := errors.ValidateLabel(d.Label); err != nil {
		return flowchart.Node{}, err
	}
	if d.Color != "" {
		if err := errors.ValidateColor(d.Color); err != nil {
			return flowchart.Node{}, err
		}
	}

	size := sizes.For(string(kind)).Clamp(dimension.Size{Width: d.Width, Height: d.Height})
	out := flowchart.Node{
		ID:              n.ID,
		Kind:            kind,
		Label:           d.Label,
		Width:           size.Width,
		Height:          size.Height,
		ManuallyResized: d.ManuallyResized,
		Position:        n.Position,
		ParentID:        d.ParentID,
		ChildrenIDs:     d.ChildrenIDs,
		Ext:             flowchart.Extension{Note: d.Note, Color: d.Color},
	}
	if kind.Completable() && d.Completed {
		out.Completed = true
		if d.CompletedAt != nil {
			t := time.UnixMilli(*d.CompletedAt).UTC()
			out.CompletedAt = &t
		}
	}
	return out, nil
}

// Unmarshal decodes a JSON document held in memory. See [ReadJSON].
func Unmarshal(data []byte, opts ...Option) (*flowchart.Flowchart, error) {
	return ReadJSON(bytes.NewReader(data), opts...)
}

// ImportJSON reads the JSON document at path. See [ReadJSON].
func ImportJSON(path string, opts ...Option) (*flowchart.Flowchart, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f, opts...)
}
