package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/io"
	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/render"
)

// testEnv runs commands against a file store in a temporary directory.
type testEnv struct {
	t      *testing.T
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"FLOWMAP_STORE", "FLOWMAP_STORE_PATH", "FLOWMAP_REDIS_ADDR", "FLOWMAP_MONGO_URI"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	text := "[storage]\nbackend = \"file\"\npath = \"" + filepath.ToSlash(filepath.Join(dir, "data")) + "\"\n"
	if err := os.WriteFile(cfg, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return &testEnv{t: t, dir: dir, config: cfg}
}

// run executes one command and returns what it wrote to the command's
// output stream.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	c := &CLI{Logger: logging.Discard(), doc: defaultDocument}
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

// export returns the stored document by way of the export command.
func (e *testEnv) export(args ...string) *flowchart.Flowchart {
	e.t.Helper()
	out := e.mustRun(append([]string{"export"}, args...)...)
	fc, err := io.Unmarshal([]byte(out))
	if err != nil {
		e.t.Fatalf("exported JSON does not import: %v\n%s", err, out)
	}
	return fc
}

func TestBuildDocument(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("new", "Release plan")
	env.mustRun("add", "Write notes")
	env.mustRun("add", "--kind", "simple", "--x", "200", "Context")
	env.mustRun("connect", "1", "node-2", "--from", "right", "--to", "left")
	env.mustRun("done", "1")

	fc := env.export()
	if fc.Title != "Release plan" {
		t.Errorf("title = %q, want %q", fc.Title, "Release plan")
	}
	if len(fc.Nodes) != 2 || len(fc.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", len(fc.Nodes), len(fc.Edges))
	}
	n1, _ := fc.Node("node-1")
	if n1.Label != "Write notes" || !n1.Completed || n1.CompletedAt == nil {
		t.Errorf("node-1 = %+v, want completed task labelled %q", n1, "Write notes")
	}
	n2, _ := fc.Node("node-2")
	if n2.Kind != flowchart.KindSimple || n2.Position.X != 200 {
		t.Errorf("node-2 = %+v, want simple node at x=200", n2)
	}
	e := fc.Edges[0]
	if e.Source != "node-1" || e.Target != "node-2" || e.SourceHandle != "right" || e.TargetHandle != "left" {
		t.Errorf("edge = %+v", e)
	}
	if fc.NextID != 3 {
		t.Errorf("NextID = %d, want 3", fc.NextID)
	}

	env.mustRun("undo", "1")
	n1, _ = env.export().Node("node-1")
	if n1.Completed || n1.CompletedAt != nil {
		t.Errorf("undo left node-1 completed: %+v", n1)
	}
}

func TestNewRefusesExistingDocument(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("new")
	env.mustRun("add", "keep me")

	_, err := env.run("new")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("second new: err = %v, want INVALID_INPUT", err)
	}
	if fc := env.export(); len(fc.Nodes) != 1 {
		t.Errorf("refused new changed the document: %d nodes", len(fc.Nodes))
	}

	env.mustRun("new", "--force", "Fresh")
	fc := env.export()
	if len(fc.Nodes) != 0 || fc.Title != "Fresh" {
		t.Errorf("new --force: %d nodes, title %q", len(fc.Nodes), fc.Title)
	}
}

func TestLabelResizesNode(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add")
	env.mustRun("label", "1", strings.Repeat("a long label ", 4))

	n, _ := env.export().Node("node-1")
	if n.Width <= 160 {
		t.Errorf("width = %v, want growth past the default 160", n.Width)
	}
	if n.ManuallyResized {
		t.Error("auto-resize must not set the manual flag")
	}

	env.mustRun("label", "1", `first\nsecond`)
	n, _ = env.export().Node("node-1")
	if n.Label != "first\nsecond" {
		t.Errorf("label = %q, want a line break", n.Label)
	}
}

func TestResizeClampsAndMarksManual(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "box")
	env.mustRun("resize", "1", "500", "50")

	n, _ := env.export().Node("node-1")
	if n.Width != 400 || n.Height != 80 || !n.ManuallyResized {
		t.Errorf("after resize: %.0fx%.0f manual=%v, want 400x80 manual", n.Width, n.Height, n.ManuallyResized)
	}

	if _, err := env.run("resize", "1", "wide", "50"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("non-numeric width: err = %v, want INVALID_INPUT", err)
	}
}

func TestMoveAndAnnotate(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "box")
	env.mustRun("move", "1", "40", "-20")
	env.mustRun("annotate", "1", "--note", "blocked", "--color", "#fde68a")
	env.mustRun("annotate", "1", "--note", "")

	n, _ := env.export().Node("node-1")
	if n.Position != (flowchart.Position{X: 40, Y: -20}) {
		t.Errorf("position = %+v", n.Position)
	}
	if n.Ext.Note != "" || n.Ext.Color != "#fde68a" {
		t.Errorf("ext = %+v, want cleared note and kept color", n.Ext)
	}

	if _, err := env.run("annotate", "1", "--color", "red"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad color: err = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run("annotate", "1"); err == nil {
		t.Error("annotate without flags should fail")
	}
}

func TestDashLeadingArguments(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "box")

	tests := []struct {
		name string
		args []string
	}{
		{"negative coordinates", []string{"move", "1", "-40", "-20"}},
		{"negative size", []string{"resize", "1", "-5", "-5"}},
		{"dash label", []string{"label", "1", "-draft", "-v"}},
		{"flag before id", []string{"--doc", "default", "move", "1", "-1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run(tt.args...); err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
		})
	}

	n, _ := env.export().Node("node-1")
	if n.Position != (flowchart.Position{X: -1, Y: 2}) {
		t.Errorf("position = %+v", n.Position)
	}
	if n.Label != "-draft -v" {
		t.Errorf("label = %q", n.Label)
	}
	if !n.ManuallyResized || n.Width != 160 || n.Height != 80 {
		t.Errorf("size = %.0fx%.0f manual=%v, want clamped 160x80 manual", n.Width, n.Height, n.ManuallyResized)
	}
}

func TestDoneRejectsSimpleNodes(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "--kind", "simple", "note")

	_, err := env.run("done", "1")
	if !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("done on simple node: err = %v, want INVALID_KIND", err)
	}
}

func TestUnknownNode(t *testing.T) {
	env := newTestEnv(t)
	for _, args := range [][]string{
		{"label", "7", "x"},
		{"resize", "7", "100", "100"},
		{"done", "7"},
		{"rm", "7"},
		{"tree", "7"},
	} {
		if _, err := env.run(args...); !errors.Is(err, errors.ErrCodeNodeNotFound) {
			t.Errorf("%v: err = %v, want NODE_NOT_FOUND", args, err)
		}
	}
}

func TestRmAndDisconnect(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")
	env.mustRun("add", "b")
	env.mustRun("add", "c")
	env.mustRun("connect", "1", "2")
	env.mustRun("connect", "2", "3")
	env.mustRun("parent", "3", "2")

	if _, err := env.run("rm", "2", "9"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Fatalf("rm with unknown id: err = %v", err)
	}
	if fc := env.export(); len(fc.Nodes) != 3 {
		t.Fatalf("failed rm removed nodes: %d left", len(fc.Nodes))
	}

	env.mustRun("rm", "2")
	fc := env.export()
	if len(fc.Nodes) != 2 || len(fc.Edges) != 0 {
		t.Fatalf("after rm: %d nodes, %d edges; want 2, 0", len(fc.Nodes), len(fc.Edges))
	}
	if n3, _ := fc.Node("node-3"); n3.ParentID != "" {
		t.Errorf("node-3 still points at deleted parent %q", n3.ParentID)
	}

	env.mustRun("connect", "1", "3")
	id := env.export().Edges[0].ID
	if _, err := env.run("disconnect", "edge-nope"); !errors.Is(err, errors.ErrCodeEdgeNotFound) {
		t.Errorf("disconnect unknown: err = %v", err)
	}
	env.mustRun("disconnect", id)
	if fc := env.export(); len(fc.Edges) != 0 {
		t.Errorf("edge %s not removed", id)
	}
}

func TestConnectTwiceKeepsOneEdge(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")
	env.mustRun("add", "b")
	env.mustRun("connect", "1", "2")
	env.mustRun("connect", "1", "2")

	if fc := env.export(); len(fc.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(fc.Edges))
	}
	if _, err := env.run("connect", "1", "1"); !errors.Is(err, errors.ErrCodeInvalidConnection) {
		t.Errorf("self connection: err = %v, want INVALID_CONNECTION", err)
	}
}

func TestParentLinks(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "root")
	env.mustRun("add", "--parent", "1", "child")
	env.mustRun("add", "--parent", "2", "grandchild")

	fc := env.export()
	n1, _ := fc.Node("node-1")
	if len(n1.ChildrenIDs) != 1 || n1.ChildrenIDs[0] != "node-2" {
		t.Errorf("node-1 children = %v", n1.ChildrenIDs)
	}

	if _, err := env.run("parent", "1", "3"); !errors.Is(err, errors.ErrCodeInvalidConnection) {
		t.Errorf("cycle: err = %v, want INVALID_CONNECTION", err)
	}

	env.mustRun("parent", "2")
	fc = env.export()
	n1, _ = fc.Node("node-1")
	n2, _ := fc.Node("node-2")
	if len(n1.ChildrenIDs) != 0 || n2.ParentID != "" {
		t.Errorf("detach left links: node-1 %v, node-2 parent %q", n1.ChildrenIDs, n2.ParentID)
	}
	env.mustRun("tree")
	env.mustRun("tree", "3")
	env.mustRun("tree", "2", "--kind", "task")
}

func TestTitleAndClear(t *testing.T) {
	env := newTestEnv(t)
	if out := env.mustRun("title"); strings.TrimSpace(out) != flowchart.DefaultTitle {
		t.Errorf("default title = %q", out)
	}
	env.mustRun("title", "Q3", "roadmap")
	if out := env.mustRun("title"); strings.TrimSpace(out) != "Q3 roadmap" {
		t.Errorf("title = %q, want %q", out, "Q3 roadmap")
	}

	env.mustRun("add", "a")
	env.mustRun("add", "b")
	if _, err := env.run("clear"); err == nil {
		t.Error("clear without --yes should fail")
	}
	env.mustRun("clear", "--yes")
	fc := env.export()
	if len(fc.Nodes) != 0 || fc.Title != "Q3 roadmap" {
		t.Errorf("after clear: %d nodes, title %q", len(fc.Nodes), fc.Title)
	}
	env.mustRun("add", "again")
	if _, ok := env.export().Node("node-1"); !ok {
		t.Error("numbering should restart at node-1 after clear")
	}
}

func TestDocuments(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("new", "First")
	env.mustRun("--doc", "second", "new", "Second")
	env.mustRun("--doc", "second", "add", "only here")
	env.mustRun("docs")

	if fc := env.export(); len(fc.Nodes) != 0 {
		t.Errorf("default document picked up %d nodes from another document", len(fc.Nodes))
	}

	env.mustRun("docs", "rm", "second")
	if _, err := env.run("docs", "rm", "second"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("second delete: err = %v, want DOCUMENT_NOT_FOUND", err)
	}
	if _, err := env.run("--doc", "../escape", "show"); err == nil {
		t.Error("invalid document name should be rejected")
	}
}

const importDoc = `{
  "title": "Imported",
  "nodes": [
    {"id": "node-4", "type": "task", "position": {"x": 0, "y": 0},
     "data": {"label": "Ship", "width": 900, "height": 90, "completed": true, "completedAt": 1700000000000}},
    {"id": "node-9", "type": "simple", "position": {"x": 0, "y": 200},
     "data": {"label": "Context", "parentId": "node-4"}}
  ],
  "edges": [{"id": "edge-a", "source": "node-4", "target": "node-9"}]
}`

func TestImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("title", "Before")
	path := filepath.Join(env.dir, "in.json")
	if err := os.WriteFile(path, []byte(importDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	env.mustRun("import", "--keep-title", path)
	fc := env.export()
	if fc.Title != "Before" {
		t.Errorf("--keep-title: title = %q", fc.Title)
	}
	if len(fc.Nodes) != 2 || len(fc.Edges) != 1 || fc.NextID != 10 {
		t.Fatalf("imported %d nodes, %d edges, NextID %d", len(fc.Nodes), len(fc.Edges), fc.NextID)
	}
	if n, _ := fc.Node("node-4"); n.Width != 400 {
		t.Errorf("imported width = %v, want clamp to 400", n.Width)
	}

	env.mustRun("import", path)
	if fc := env.export(); fc.Title != "Imported" {
		t.Errorf("title = %q, want the file's", fc.Title)
	}

	env.mustRun("add", "next")
	if _, ok := env.export().Node("node-10"); !ok {
		t.Error("numbering should continue after the highest imported id")
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "survivor")

	bad := filepath.Join(env.dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"nodes": [{"id": "node-1", "type": "hexagon"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run("import", bad); !errors.Is(err, errors.ErrCodeInvalidImport) {
		t.Errorf("bad file: err = %v, want INVALID_IMPORT", err)
	}
	if _, err := env.run("import", filepath.Join(env.dir, "missing.json")); !errors.IsNotFound(err) {
		t.Errorf("missing file: err = %v, want not found", err)
	}
	if n, ok := env.export().Node("node-1"); !ok || n.Label != "survivor" {
		t.Error("rejected import changed the stored document")
	}
}

func TestExportToFile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")
	path := filepath.Join(env.dir, "out.json")
	env.mustRun("export", "-o", path)

	fc, err := io.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Nodes) != 1 {
		t.Errorf("exported %d nodes, want 1", len(fc.Nodes))
	}
}

func TestShowJSON(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")
	out := env.mustRun("show", "--json")
	if !strings.Contains(out, `"label": "a"`) {
		t.Errorf("show --json = %s", out)
	}
	env.mustRun("show")
	env.mustRun("stats")
}

func TestRenderDOT(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")
	env.mustRun("add", "b")
	env.mustRun("connect", "1", "2")
	path := filepath.Join(env.dir, "plan.dot")
	env.mustRun("render", "-f", "dot", "-o", path, "--select", "1")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph") || !strings.Contains(dot, `"node-1" -> "node-2"`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}

	if _, err := env.run("render", "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: err = %v, want INVALID_FORMAT", err)
	}
}

func TestCheck(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")
	env.mustRun("add", "--parent", "1", "b")
	env.mustRun("check")
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("config")
	if !strings.Contains(out, `backend = "file"`) {
		t.Errorf("config output missing backend:\n%s", out)
	}
	if out := env.mustRun("config", "path"); strings.TrimSpace(out) != env.config {
		t.Errorf("config path = %q, want %q", out, env.config)
	}

	out = env.mustRun("--store", "memory", "config")
	if !strings.Contains(out, `backend = "memory"`) {
		t.Errorf("--store not applied:\n%s", out)
	}
	if _, err := env.run("--store", "floppy", "show"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown store: err = %v, want INVALID_CONFIG", err)
	}
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "nested", "config.toml")
	c := &CLI{Logger: logging.Discard(), configPath: path}
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	root.SetOut(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}
	// The written defaults must load back cleanly.
	if _, err := (&CLI{configPath: path}).loadConfig(); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if out := env.mustRun("completion", shell); !strings.Contains(out, "flowmap") {
			t.Errorf("%s completion does not mention flowmap", shell)
		}
	}
	if _, err := env.run("completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestNodeRef(t *testing.T) {
	tests := []struct{ in, want string }{
		{"3", "node-3"},
		{"node-3", "node-3"},
		{"custom", "custom"},
		{"3a", "3a"},
	}
	for _, tt := range tests {
		if got := nodeRef(tt.in); got != tt.want {
			t.Errorf("nodeRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	svg, png := render.FormatSVG, render.FormatPNG
	tests := []struct {
		name    string
		output  string
		formats []render.Format
		want    map[render.Format]string
	}{
		{"default", "", []render.Format{svg}, map[render.Format]string{svg: "plan.svg"}},
		{"single with extension", "out/diagram.svg", []render.Format{svg}, map[render.Format]string{svg: "out/diagram.svg"}},
		{"single base", "diagram", []render.Format{png}, map[render.Format]string{png: "diagram.png"}},
		{"several", "diagram.svg", []render.Format{svg, png}, map[render.Format]string{svg: "diagram.svg", png: "diagram.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths("plan", tt.output, tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("%s: got %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestDynamicCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "alpha")
	env.mustRun("add", "beta")
	env.mustRun("--doc", "other", "new")

	c := &CLI{Logger: logging.Discard(), doc: defaultDocument, configPath: env.config}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	ids, dir := c.completeNodeIDs(cmd, []string{"node-1"}, "node-")
	if dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", dir)
	}
	if len(ids) != 1 || ids[0] != "node-2\tbeta" {
		t.Errorf("completions = %q, want only node-2", ids)
	}

	docs, _ := c.completeDocuments(cmd, nil, "o")
	if len(docs) != 1 || docs[0] != "other" {
		t.Errorf("document completions = %q", docs)
	}
}
