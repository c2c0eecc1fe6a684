package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

type document struct {
	Title string `json:"title,omitempty"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID       string             `json:"id"`
	Type     string             `json:"type,omitempty"`
	Position flowchart.Position `json:"position"`
	Data     nodeData           `json:"data"`
}

type nodeData struct {
	Label           string   `json:"label"`
	Width           float64  `json:"width,omitempty"`
	Height          float64  `json:"height,omitempty"`
	Completed       bool     `json:"completed,omitempty"`
	CompletedAt     *int64   `json:"completedAt,omitempty"`
	ManuallyResized bool     `json:"manuallyResized,omitempty"`
	ParentID        string   `json:"parentId,omitempty"`
	ChildrenIDs     []string `json:"childrenIds,omitempty"`
	Note            string   `json:"note,omitempty"`
	Color           string   `json:"color,omitempty"`
}

type edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

func toDocument(fc *flowchart.Flowchart) document {
	out := document{
		Title: fc.DisplayTitle(),
		Nodes: make([]node, len(fc.Nodes)),
		Edges: make([]edge, len(fc.Edges)),
	}
	for i, n := range fc.Nodes {
		d := nodeData{
			Label:           n.Label,
			Width:           n.Width,
			Height:          n.Height,
			Completed:       n.Completed,
			ManuallyResized: n.ManuallyResized,
			ParentID:        n.ParentID,
			ChildrenIDs:     n.ChildrenIDs,
			Note:            n.Ext.Note,
			Color:           n.Ext.Color,
		}
		if n.CompletedAt != nil {
			ms := n.CompletedAt.UnixMilli()
			d.CompletedAt = &ms
		}
		out.Nodes[i] = node{ID: n.ID, Type: string(n.Kind), Position: n.Position, Data: d}
	}
	for i, e := range fc.Edges {
		out.Edges[i] = edge(e)
	}
	return out
}

// WriteJSON encodes a flowchart as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(fc *flowchart.Flowchart, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(fc)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding written by [WriteJSON].
func Marshal(fc *flowchart.Flowchart) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(fc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes a flowchart to a JSON file at path.
func ExportJSON(fc *flowchart.Flowchart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(fc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
