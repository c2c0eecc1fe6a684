package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
)

func newTestRepository(s Store) *Repository {
	return NewRepository(NewPersister(s, WithBackoff(fastBackoff)), nil)
}

func sampleFlowchart() *flowchart.Flowchart {
	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	return &flowchart.Flowchart{
		Title: "Launch",
		Nodes: []flowchart.Node{
			{ID: "node-1", Kind: flowchart.KindTask, Label: "Plan", Width: 160, Height: 80, ChildrenIDs: []string{"node-2"}, Completed: true, CompletedAt: &at},
			{ID: "node-2", Kind: flowchart.KindSimple, Label: "Ship\nit", Width: 220, Height: 112, ManuallyResized: true, ParentID: "node-1",
				Position: flowchart.Position{X: 10, Y: 200}, Ext: flowchart.Extension{Note: "friday", Color: "#fde68a"}},
		},
		Edges:  []flowchart.Edge{{ID: "edge-1", Source: "node-1", Target: "node-2", SourceHandle: "bottom", TargetHandle: "top"}},
		NextID: 3,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(NewMemoryStore())

	want := sampleFlowchart()
	saved, err := repo.SaveFlowchart(ctx, "launch", want)
	if err != nil || !saved {
		t.Fatalf("SaveFlowchart = %v, %v", saved, err)
	}

	got, err := repo.LoadFlowchart(ctx, "launch")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRepositoryLoadMissing(t *testing.T) {
	repo := newTestRepository(NewMemoryStore())

	fc, err := repo.LoadFlowchart(context.Background(), "nothing")
	if err != nil {
		t.Fatal(err)
	}
	if fc.Title != flowchart.DefaultTitle || len(fc.Nodes) != 0 || len(fc.Edges) != 0 || fc.NextID != 1 {
		t.Errorf("missing document = %+v, want empty default", fc)
	}
}

func TestRepositoryLoadFallsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := &flakyStore{MemoryStore: NewMemoryStore(), failures: 1000}
	repo := newTestRepository(s)

	fc, err := repo.LoadFlowchart(ctx, "doc")
	if err != nil {
		t.Fatalf("LoadFlowchart should not fail on storage faults: %v", err)
	}
	if fc.Title != flowchart.DefaultTitle || fc.NextID != 1 {
		t.Errorf("fallback document = %+v", fc)
	}

	saved, err := repo.SaveFlowchart(ctx, "doc", sampleFlowchart())
	if err != nil {
		t.Fatalf("SaveFlowchart should not fail on storage faults: %v", err)
	}
	if saved {
		t.Error("SaveFlowchart should report the failed write")
	}
}

func TestRepositoryCounterRepair(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	repo := newTestRepository(s)

	fc := sampleFlowchart()
	fc.NextID = 1 // stale
	repo.SaveFlowchart(ctx, "doc", fc)

	got, _ := repo.LoadFlowchart(ctx, "doc")
	if got.NextID != 3 {
		t.Errorf("NextID = %d, want 3 (derived from node ids)", got.NextID)
	}

	s.Delete(ctx, "flowchart:doc:counter")
	got, _ = repo.LoadFlowchart(ctx, "doc")
	if got.NextID != 3 {
		t.Errorf("NextID without counter = %d, want 3", got.NextID)
	}
}

func TestRepositoryInvalidName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(NewMemoryStore())

	if _, err := repo.LoadFlowchart(ctx, "../etc"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("LoadFlowchart error = %v, want INVALID_PATH", err)
	}
	if _, err := repo.SaveFlowchart(ctx, "a:b", flowchart.New()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SaveFlowchart error = %v, want INVALID_INPUT", err)
	}
}

func TestRepositoryListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	repo := newTestRepository(s)

	for _, doc := range []string{"zeta", "alpha", "mid"} {
		repo.SaveFlowchart(ctx, doc, flowchart.New())
	}
	s.Set(ctx, "unrelated:key", []byte("x"))

	docs, err := repo.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(docs, want) {
		t.Errorf("ListDocuments = %v, want %v", docs, want)
	}

	if err := repo.DeleteDocument(ctx, "mid"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := repo.Exists(ctx, "mid"); ok {
		t.Error("document still exists after delete")
	}
	if err := repo.DeleteDocument(ctx, "mid"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("second delete error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestRepositoryScopedTenants(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := NewPersister(s, WithBackoff(fastBackoff))
	a := NewRepository(p, NewScopedKeyer(nil, "team:a:"))
	b := NewRepository(p, NewScopedKeyer(nil, "team:b:"))

	fc := flowchart.New()
	fc.Title = "A's plan"
	a.SaveFlowchart(ctx, "plan", fc)

	if docs, _ := b.ListDocuments(ctx); len(docs) != 0 {
		t.Errorf("tenant b sees %v", docs)
	}
	got, _ := b.LoadFlowchart(ctx, "plan")
	if got.Title != flowchart.DefaultTitle {
		t.Errorf("tenant b loaded %q", got.Title)
	}
}
