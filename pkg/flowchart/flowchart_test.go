package flowchart

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindTask, false},
		{"task", KindTask, false},
		{"simple", KindSimple, false},
		{"Task", "", true},
		{"group", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextIDFor(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want int
	}{
		{"empty", nil, 1},
		{"sequential", []string{"node-1", "node-2", "node-3"}, 4},
		{"gaps", []string{"node-2", "node-10", "node-7"}, 11},
		{"foreign ids ignored", []string{"custom", "node-x", "mynode-9", "node-4"}, 5},
		{"no matches", []string{"a", "b"}, 1},
		{"zero", []string{"node-0"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextIDFor(tt.ids); got != tt.want {
				t.Errorf("NextIDFor(%v) = %d, want %d", tt.ids, got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fc := &Flowchart{
		Title:  "t",
		NextID: 3,
		Nodes: []Node{
			{ID: "node-1", Kind: KindTask, ChildrenIDs: []string{"node-2"}, Completed: true, CompletedAt: &at},
			{ID: "node-2", Kind: KindTask, ParentID: "node-1"},
		},
		Edges: []Edge{{ID: "edge-1", Source: "node-1", Target: "node-2"}},
	}

	cp := fc.Clone()
	cp.Nodes[0].ChildrenIDs[0] = "changed"
	*cp.Nodes[0].CompletedAt = at.Add(time.Hour)
	cp.Edges[0].Target = "changed"
	cp.Title = "other"

	if fc.Nodes[0].ChildrenIDs[0] != "node-2" {
		t.Error("Clone shares ChildrenIDs")
	}
	if !fc.Nodes[0].CompletedAt.Equal(at) {
		t.Error("Clone shares CompletedAt")
	}
	if fc.Edges[0].Target != "node-2" {
		t.Error("Clone shares Edges")
	}
	if fc.Title != "t" {
		t.Error("Clone shares Title")
	}
}

func TestStats(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  Stats
	}{
		{"empty", nil, Stats{}},
		{"none done", []Node{{Kind: KindTask}, {Kind: KindTask}}, Stats{Total: 2}},
		{"one of three", []Node{{Kind: KindTask, Completed: true}, {Kind: KindTask}, {Kind: KindTask}}, Stats{Total: 3, Completed: 1, Percent: 33}},
		{"two of three rounds up", []Node{{Kind: KindTask, Completed: true}, {Kind: KindTask, Completed: true}, {Kind: KindTask}}, Stats{Total: 3, Completed: 2, Percent: 67}},
		{"all done", []Node{{Kind: KindTask, Completed: true}}, Stats{Total: 1, Completed: 1, Percent: 100}},
		{"simple nodes not counted", []Node{{Kind: KindSimple}, {Kind: KindTask, Completed: true}}, Stats{Total: 1, Completed: 1, Percent: 100}},
		{"only simple nodes", []Node{{Kind: KindSimple}}, Stats{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &Flowchart{Nodes: tt.nodes}
			if got := fc.Stats(); got != tt.want {
				t.Errorf("Stats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatsFraction(t *testing.T) {
	if f := (Stats{}).Fraction(); f != 0 {
		t.Errorf("empty Fraction() = %v, want 0", f)
	}
	if f := (Stats{Total: 4, Completed: 1}).Fraction(); f != 0.25 {
		t.Errorf("Fraction() = %v, want 0.25", f)
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := (&Flowchart{}).DisplayTitle(); got != DefaultTitle {
		t.Errorf("DisplayTitle() = %q, want %q", got, DefaultTitle)
	}
	if got := New().Title; got != DefaultTitle {
		t.Errorf("New().Title = %q, want %q", got, DefaultTitle)
	}
}

func TestEdgesOf(t *testing.T) {
	fc := &Flowchart{Edges: []Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "c"},
		{ID: "e3", Source: "c", Target: "a"},
	}}
	got := fc.EdgesOf("b")
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
		t.Errorf("EdgesOf(b) = %+v", got)
	}
}
