package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
)

func sample() *flowchart.Flowchart {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &flowchart.Flowchart{
		Title: "Launch plan",
		Nodes: []flowchart.Node{
			{ID: "node-1", Kind: flowchart.KindTask, Label: "Write docs", Width: 160, Height: 80,
				Completed: true, CompletedAt: &at, ChildrenIDs: []string{"node-4"}},
			{ID: "node-4", Kind: flowchart.KindSimple, Label: "Ship\nit", Width: 250, Height: 120,
				ManuallyResized: true, ParentID: "node-1", Position: flowchart.Position{X: 40, Y: 160},
				Ext: flowchart.Extension{Note: "after review", Color: "#abc"}},
		},
		Edges: []flowchart.Edge{
			{ID: "edge-1", Source: "node-1", Target: "node-4", SourceHandle: "bottom", TargetHandle: "top"},
		},
		NextID: 5,
	}
}

func TestRoundTrip(t *testing.T) {
	want := sample()

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestWriteJSONFormat(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	nodes := raw["nodes"].([]any)
	first := nodes[0].(map[string]any)
	if first["type"] != "task" {
		t.Errorf("type = %v, want task", first["type"])
	}
	d := first["data"].(map[string]any)
	if d["completedAt"] != float64(1767225600000) {
		t.Errorf("completedAt = %v, want epoch milliseconds", d["completedAt"])
	}
	if _, ok := d["parentId"]; ok {
		t.Error("empty parentId should be omitted")
	}
	if !bytes.Contains(data, []byte("\n  \"nodes\"")) {
		t.Error("output should be indented")
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	data, err := Marshal(flowchart.New())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) || !bytes.Contains(data, []byte(`"edges": []`)) {
		t.Errorf("empty document should write empty arrays, got %s", data)
	}
}

func TestReadJSONDefaults(t *testing.T) {
	fc, err := Unmarshal([]byte(`{"nodes":[{"id":"a"},{"id":"node-9","type":"simple","data":{"width":9999,"height":1}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if fc.Title != flowchart.DefaultTitle {
		t.Errorf("Title = %q, want default", fc.Title)
	}
	if fc.Edges != nil {
		t.Errorf("Edges = %v, want none", fc.Edges)
	}
	a := fc.Nodes[0]
	if a.Kind != flowchart.KindTask || a.Width != 160 || a.Height != 80 {
		t.Errorf("node a = %+v, want default task size", a)
	}
	b := fc.Nodes[1]
	if b.Width != 400 || b.Height != 80 {
		t.Errorf("node-9 size = %vx%v, want clamped 400x80", b.Width, b.Height)
	}
	if fc.NextID != 10 {
		t.Errorf("NextID = %d, want 10", fc.NextID)
	}
}

func TestReadJSONCompletion(t *testing.T) {
	fc, err := Unmarshal([]byte(`{"nodes":[
		{"id":"t","data":{"completed":true}},
		{"id":"s","type":"simple","data":{"completed":true,"completedAt":5}}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if !fc.Nodes[0].Completed || fc.Nodes[0].CompletedAt != nil {
		t.Errorf("task = %+v, want completed without timestamp", fc.Nodes[0])
	}
	if fc.Nodes[1].Completed || fc.Nodes[1].CompletedAt != nil {
		t.Errorf("simple node should not carry completion: %+v", fc.Nodes[1])
	}
}

func TestReadJSONDanglingTreeRefs(t *testing.T) {
	fc, err := Unmarshal([]byte(`{"nodes":[{"id":"a","data":{"parentId":"ghost","childrenIds":["a","gone"]}}]}`))
	if err != nil {
		t.Fatalf("dangling tree references should be tolerated: %v", err)
	}
	if fc.Nodes[0].ParentID != "ghost" || len(fc.Nodes[0].ChildrenIDs) != 2 {
		t.Errorf("tree references should be kept verbatim: %+v", fc.Nodes[0])
	}
}

func TestReadJSONEdgeIDs(t *testing.T) {
	n := 0
	gen := func() string { n++; return "gen-" + string(rune('0'+n)) }
	fc, err := Unmarshal([]byte(`{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"}]}`), WithEdgeIDs(gen))
	if err != nil {
		t.Fatal(err)
	}
	if fc.Edges[0].ID != "gen-1" {
		t.Errorf("edge id = %q, want generated", fc.Edges[0].ID)
	}

	fc, _ = Unmarshal([]byte(`{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"}]}`))
	if !strings.HasPrefix(fc.Edges[0].ID, flowchart.EdgeIDPrefix) {
		t.Errorf("default edge id = %q", fc.Edges[0].ID)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"not an object", `[1,2]`},
		{"missing nodes", `{"edges": []}`},
		{"null nodes", `{"nodes": null}`},
		{"empty id", `{"nodes":[{"id":""}]}`},
		{"whitespace id", `{"nodes":[{"id":"a b"}]}`},
		{"duplicate id", `{"nodes":[{"id":"a"},{"id":"a"}]}`},
		{"unknown type", `{"nodes":[{"id":"a","type":"diamond"}]}`},
		{"bad color", `{"nodes":[{"id":"a","data":{"color":"red"}}]}`},
		{"bad label", `{"nodes":[{"id":"a","data":{"label":"a\u0007b"}}]}`},
		{"edge missing target", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"a"}]}`},
		{"edge unknown source", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"x","target":"a"}]}`},
		{"edge unknown target", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"a","target":"x"}]}`},
		{"self edge", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"a","target":"a"}]}`},
		{"duplicate edge id", `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[
			{"id":"e","source":"a","target":"b"},{"id":"e","source":"b","target":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := Unmarshal([]byte(tt.input))
			if err == nil {
				t.Fatalf("Unmarshal succeeded: %+v", fc)
			}
			if fc != nil {
				t.Error("failed import should return no document")
			}
			if !errors.Is(err, errors.ErrCodeInvalidImport) {
				t.Errorf("error = %v, want INVALID_IMPORT", err)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := ExportJSON(sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	fc, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if fc.Title != "Launch plan" || len(fc.Nodes) != 2 {
		t.Errorf("imported %+v", fc)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.IsNotFound(err) {
		t.Errorf("missing file error = %v, want not found", err)
	}
}
