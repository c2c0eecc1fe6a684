package flowchart

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/matzehuels/flowmap/pkg/errors"
)

// DefaultTitle is used for new documents and blank titles.
const DefaultTitle = "Untitled Flowchart"

// NodeIDPrefix prefixes counter-minted node ids.
const NodeIDPrefix = "node-"

// EdgeIDPrefix prefixes edge ids.
const EdgeIDPrefix = "edge-"

// Kind selects a node's behaviour and size bounds.
type Kind string

// Node kinds.
const (
	KindTask   Kind = "task"   // box with a completion checkbox
	KindSimple Kind = "simple" // plain box
)

// Kinds lists every known kind in display order.
var Kinds = []Kind{KindTask, KindSimple}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return slices.Contains(Kinds, k) }

// Completable reports whether nodes of this kind track completion.
func (k Kind) Completable() bool { return k == KindTask }

// ParseKind converts s to a Kind. An empty string means [KindTask].
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindTask, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q (want task or simple)", s)
	}
	return k, nil
}

// Position is a canvas coordinate. flowmap stores it but never interprets it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Extension holds the optional per-node fields. Only declared fields survive
// serialization.
type Extension struct {
	Note  string `json:"note,omitempty"`
	Color string `json:"color,omitempty"` // #rgb or #rrggbb fill override
}

// IsZero reports whether no extension field is set.
func (e Extension) IsZero() bool { return e == Extension{} }

// Node is a single box in the diagram.
type Node struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	Label           string     `json:"label"`
	Width           float64    `json:"width"`
	Height          float64    `json:"height"`
	ManuallyResized bool       `json:"manuallyResized,omitempty"`
	Position        Position   `json:"position"`
	Completed       bool       `json:"completed,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	ParentID        string     `json:"parentId,omitempty"`
	ChildrenIDs     []string   `json:"childrenIds,omitempty"`
	Ext             Extension  `json:"ext,omitzero"`
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.ChildrenIDs = slices.Clone(n.ChildrenIDs)
	if n.CompletedAt != nil {
		t := *n.CompletedAt
		n.CompletedAt = &t
	}
	return n
}

// DisplayLabel returns the label, or the id for unlabelled nodes.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed connection between two nodes' handles.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Connection describes an edge to create.
type Connection struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}

// matches reports whether e already realizes c.
func (c Connection) matches(e Edge) bool {
	return e.Source == c.Source && e.Target == c.Target &&
		e.SourceHandle == c.SourceHandle && e.TargetHandle == c.TargetHandle
}

// Flowchart is a complete document.
//
// The zero value is an empty untitled document whose counter starts at 1.
type Flowchart struct {
	Title  string `json:"title"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	NextID int    `json:"nextId"`
}

// New returns an empty document with the default title.
func New() *Flowchart {
	return &Flowchart{Title: DefaultTitle, NextID: 1}
}

// Clone returns a deep copy of fc.
func (fc *Flowchart) Clone() *Flowchart {
	out := &Flowchart{
		Title:  fc.Title,
		NextID: fc.NextID,
		Edges:  slices.Clone(fc.Edges),
	}
	if fc.Nodes != nil {
		out.Nodes = make([]Node, len(fc.Nodes))
		for i, n := range fc.Nodes {
			out.Nodes[i] = n.Clone()
		}
	}
	return out
}

// Node returns the node with the given id.
func (fc *Flowchart) Node(id string) (Node, bool) {
	if i := fc.nodeIndex(id); i >= 0 {
		return fc.Nodes[i].Clone(), true
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (fc *Flowchart) Edge(id string) (Edge, bool) {
	for _, e := range fc.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// EdgesOf returns the edges touching node id, in document order.
func (fc *Flowchart) EdgesOf(id string) []Edge {
	var out []Edge
	for _, e := range fc.Edges {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

func (fc *Flowchart) nodeIndex(id string) int {
	return slices.IndexFunc(fc.Nodes, func(n Node) bool { return n.ID == id })
}

// DisplayTitle returns the title, or [DefaultTitle] when blank.
func (fc *Flowchart) DisplayTitle() string {
	if fc.Title == "" {
		return DefaultTitle
	}
	return fc.Title
}

var nodeIDPattern = regexp.MustCompile(`^node-(\d+)$`)

// NextIDFor returns the counter value that follows every "node-<n>" id in
// ids, or 1 when none match. Non-matching ids are ignored.
func NextIDFor(ids []string) int {
	next := 1
	for _, id := range ids {
		m := nodeIDPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		next = max(next, n+1)
	}
	return next
}

// NodeID formats a counter value as a node id.
func NodeID(n int) string { return fmt.Sprintf("%s%d", NodeIDPrefix, n) }
