package flowchart

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowmap/pkg/dimension"
	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/observability"
)

// Editor applies edits to a private copy of a document, so slices held by
// the caller are never mutated. It is not safe for concurrent use.
type Editor struct {
	fc     *Flowchart
	sizes  *dimension.Registry
	now    func() time.Time
	edgeID func() string
}

// Option configures an [Editor].
type Option func(*Editor)

// WithSizes sets the per-kind dimension engines. The default registry uses
// default bounds for every kind.
func WithSizes(r *dimension.Registry) Option {
	return func(e *Editor) {
		if r != nil {
			e.sizes = r
		}
	}
}

// WithClock sets the clock used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithEdgeIDs overrides edge id generation. Generated ids must be unique.
func WithEdgeIDs(gen func() string) Option {
	return func(e *Editor) {
		if gen != nil {
			e.edgeID = gen
		}
	}
}

// NewEditor creates an editor over a copy of fc. A nil fc starts a new
// document.
func NewEditor(fc *Flowchart, opts ...Option) *Editor {
	if fc == nil {
		fc = New()
	} else {
		fc = fc.Clone()
	}
	if fc.NextID < 1 {
		fc.NextID = NextIDFor(nodeIDs(fc.Nodes))
	}
	e := &Editor{
		fc:     fc,
		now:    time.Now,
		edgeID: func() string { return EdgeIDPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sizes == nil {
		e.sizes = dimension.NewRegistry(nil)
	}
	return e
}

// Flowchart returns a copy of the edited document.
func (e *Editor) Flowchart() *Flowchart { return e.fc.Clone() }

// Sizes returns the dimension registry in use.
func (e *Editor) Sizes() *dimension.Registry { return e.sizes }

// AddNode appends a node of the given kind with the kind's default size and
// an empty label.
func (e *Editor) AddNode(kind Kind, pos Position) (Node, error) {
	if !kind.Valid() {
		return Node{}, errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q", kind)
	}
	// Skip ids already taken, e.g. after importing "node-7" next to a stale counter.
	id := NodeID(e.fc.NextID)
	for e.fc.nodeIndex(id) >= 0 {
		e.fc.NextID++
		id = NodeID(e.fc.NextID)
	}
	e.fc.NextID++

	size := e.sizes.For(string(kind)).Default()
	n := Node{
		ID:       id,
		Kind:     kind,
		Width:    size.Width,
		Height:   size.Height,
		Position: pos,
	}
	e.fc.Nodes = append(e.fc.Nodes, n)
	return n.Clone(), nil
}

// SetLabel replaces a node's label and reconciles its size with the new text.
func (e *Editor) SetLabel(ctx context.Context, id, text string) (Node, error) {
	n, err := e.node(id)
	if err != nil {
		return Node{}, err
	}
	if err := errors.ValidateLabel(text); err != nil {
		return Node{}, err
	}

	eng := e.sizes.For(string(n.Kind))
	current := dimension.Size{Width: n.Width, Height: n.Height}
	res := eng.Update(text, len([]rune(n.Label)), current, n.ManuallyResized)

	hooks := observability.Sizing()
	if res.Changed {
		logging.FromContext(ctx).Debug("auto-resized node", "id", id,
			"from", formatSize(current), "to", formatSize(res.Size))
		hooks.OnAutoResize(ctx, id, current.Width, current.Height, res.Size.Width, res.Size.Height)
	}
	if n.ManuallyResized && !res.Manual {
		hooks.OnManualReset(ctx, id)
	}

	n.Label = text
	n.Width, n.Height = res.Size.Width, res.Size.Height
	n.ManuallyResized = res.Manual
	return n.Clone(), nil
}

// Resize applies an explicit size. The result is clamped to the kind's
// bounds and the node is marked manually resized even when the size does not
// change.
func (e *Editor) Resize(ctx context.Context, id string, width, height float64) (Node, error) {
	n, err := e.node(id)
	if err != nil {
		return Node{}, err
	}
	size := e.sizes.For(string(n.Kind)).ApplyManualResize(width, height)
	n.Width, n.Height = size.Width, size.Height
	n.ManuallyResized = true
	observability.Sizing().OnManualResize(ctx, id, size.Width, size.Height)
	return n.Clone(), nil
}

// Move sets a node's canvas position.
func (e *Editor) Move(id string, pos Position) (Node, error) {
	n, err := e.node(id)
	if err != nil {
		return Node{}, err
	}
	n.Position = pos
	return n.Clone(), nil
}

// SetCompleted marks a task done or not done. Completing stamps CompletedAt;
// a node that is already complete keeps its original timestamp.
func (e *Editor) SetCompleted(id string, done bool) (Node, error) {
	n, err := e.node(id)
	if err != nil {
		return Node{}, err
	}
	if !n.Kind.Completable() {
		return Node{}, errors.New(errors.ErrCodeInvalidKind, "%s nodes have no completion state", n.Kind)
	}
	switch {
	case done && !n.Completed:
		t := e.now()
		n.CompletedAt = &t
	case !done:
		n.CompletedAt = nil
	}
	n.Completed = done
	return n.Clone(), nil
}

// ToggleCompleted flips a task's completion state.
func (e *Editor) ToggleCompleted(id string) (Node, error) {
	n, err := e.node(id)
	if err != nil {
		return Node{}, err
	}
	return e.SetCompleted(id, !n.Completed)
}

// SetExtension replaces a node's optional fields.
func (e *Editor) SetExtension(id string, ext Extension) (Node, error) {
	n, err := e.node(id)
	if err != nil {
		return Node{}, err
	}
	if ext.Color != "" {
		if err := errors.ValidateColor(ext.Color); err != nil {
			return Node{}, err
		}
	}
	n.Ext = ext
	return n.Clone(), nil
}

// SetParent attaches child under parent, appending it to the parent's
// children unless it is already there. An empty parent detaches child. Self-parenting and links that
// would close a cycle are rejected.
func (e *Editor) SetParent(child, parent string) error {
	c, err := e.node(child)
	if err != nil {
		return err
	}
	if parent != "" {
		if parent == child {
			return errors.New(errors.ErrCodeInvalidConnection, "node %q cannot be its own parent", child)
		}
		if _, err := e.node(parent); err != nil {
			return err
		}
		seen := map[string]bool{}
		for cur := parent; cur != "" && !seen[cur]; {
			if cur == child {
				return errors.New(errors.ErrCodeInvalidConnection, "making %q a child of %q would create a cycle", child, parent)
			}
			seen[cur] = true
			i := e.fc.nodeIndex(cur)
			if i < 0 {
				break
			}
			cur = e.fc.Nodes[i].ParentID
		}
	}

	// Re-attaching to the same parent keeps the child's place in the order.
	if old := c.ParentID; old != "" && old != parent {
		if i := e.fc.nodeIndex(old); i >= 0 {
			p := &e.fc.Nodes[i]
			p.ChildrenIDs = slices.DeleteFunc(p.ChildrenIDs, func(id string) bool { return id == child })
		}
	}
	c.ParentID = parent
	if parent != "" {
		p := &e.fc.Nodes[e.fc.nodeIndex(parent)]
		if !slices.Contains(p.ChildrenIDs, child) {
			p.ChildrenIDs = append(p.ChildrenIDs, child)
		}
	}
	return nil
}

// Connect adds an edge between two existing nodes. Self-connections and
// unknown endpoints are rejected. Connecting the same handles twice returns
// the existing edge with created set to false.
func (e *Editor) Connect(c Connection) (edge Edge, created bool, err error) {
	if c.Source == c.Target {
		return Edge{}, false, errors.New(errors.ErrCodeInvalidConnection, "cannot connect node %q to itself", c.Source)
	}
	if _, err := e.node(c.Source); err != nil {
		return Edge{}, false, err
	}
	if _, err := e.node(c.Target); err != nil {
		return Edge{}, false, err
	}
	for _, existing := range e.fc.Edges {
		if c.matches(existing) {
			return existing, false, nil
		}
	}
	edge = Edge{
		ID:           e.edgeID(),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
	}
	e.fc.Edges = append(e.fc.Edges, edge)
	return edge, true, nil
}

// DeleteNodes removes nodes, every edge referencing them, and their ids from
// other nodes' tree references. Nothing is removed if any id is unknown.
func (e *Editor) DeleteNodes(ids ...string) error {
	for _, id := range ids {
		if _, err := e.node(id); err != nil {
			return err
		}
	}
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}

	nodes := make([]Node, 0, len(e.fc.Nodes))
	for _, n := range e.fc.Nodes {
		if gone[n.ID] {
			continue
		}
		if gone[n.ParentID] {
			n.ParentID = ""
		}
		n.ChildrenIDs = slices.DeleteFunc(n.ChildrenIDs, func(id string) bool { return gone[id] })
		nodes = append(nodes, n)
	}
	e.fc.Nodes = nodes
	e.fc.Edges = slices.DeleteFunc(e.fc.Edges, func(edge Edge) bool {
		return gone[edge.Source] || gone[edge.Target]
	})
	return nil
}

// DeleteEdges removes edges by id. Nothing is removed if any id is unknown.
func (e *Editor) DeleteEdges(ids ...string) error {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := e.fc.Edge(id); !ok {
			return errors.New(errors.ErrCodeEdgeNotFound, "no edge %q", id)
		}
		gone[id] = true
	}
	e.fc.Edges = slices.DeleteFunc(e.fc.Edges, func(edge Edge) bool { return gone[edge.ID] })
	return nil
}

// SetTitle renames the document. A blank title restores [DefaultTitle].
func (e *Editor) SetTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	e.fc.Title = title
	return title
}

// Replace swaps the whole document for a copy of fc, as an import does.
func (e *Editor) Replace(fc *Flowchart) {
	e.fc = fc.Clone()
	if e.fc.NextID < 1 {
		e.fc.NextID = NextIDFor(nodeIDs(e.fc.Nodes))
	}
	e.fc.Title = e.fc.DisplayTitle()
}

// Clear removes every node and edge and restarts the id counter. The title
// is kept.
func (e *Editor) Clear() {
	e.fc.Nodes = nil
	e.fc.Edges = nil
	e.fc.NextID = 1
}

// node returns a pointer into the editor's own node slice.
func (e *Editor) node(id string) (*Node, error) {
	i := e.fc.nodeIndex(id)
	if i < 0 {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node %q", id)
	}
	return &e.fc.Nodes[i], nil
}

func nodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func formatSize(s dimension.Size) string {
	return fmt.Sprintf("%.0fx%.0f", s.Width, s.Height)
}
