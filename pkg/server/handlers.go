package server

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	flowio "github.com/matzehuels/flowmap/pkg/io"
	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/render"
	"github.com/matzehuels/flowmap/pkg/tree"
)

// =============================================================================
// Document loading and mutation
// =============================================================================

// load reads the document named in the route without locking it.
func (s *Server) load(ctx context.Context, r *http.Request) (string, *flowchart.Flowchart, error) {
	doc := chi.URLParam(r, "doc")
	fc, err := s.repo.LoadFlowchart(ctx, doc)
	return doc, fc, err
}

// reply is the response of a successful mutation.
type reply struct {
	status int
	body   any // nil writes no body
}

// mutate runs fn on an editor over the route's document while holding the
// document's lock, saves the result and writes fn's reply.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*flowchart.Editor) (reply, error)) {
	ctx := r.Context()
	doc := chi.URLParam(r, "doc")
	if err := errors.ValidateDocumentName(doc); err != nil {
		writeError(w, r, err)
		return
	}
	unlock := s.locks.Lock(doc)
	defer unlock()

	fc, err := s.repo.LoadFlowchart(ctx, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ed := flowchart.NewEditor(fc, s.edit...)
	out, err := fn(ed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if saved, err := s.repo.SaveFlowchart(ctx, doc, ed.Flowchart()); err != nil {
		writeError(w, r, err)
		return
	} else if !saved {
		logging.FromContext(ctx).Warn("document changed but not saved", "doc", doc)
	}
	if out.body == nil {
		w.WriteHeader(out.status)
		return
	}
	writeJSON(w, out.status, out.body)
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.repo.ListDocuments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"documents": docs})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	_, fc, err := s.load(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := flowio.WriteJSON(fc, w); err != nil {
		logging.FromContext(r.Context()).Error("write document", "err", err)
	}
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	doc := chi.URLParam(r, "doc")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc+`.json"`)
	s.getDocument(w, r)
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	fc, err := flowio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), flowio.WithSizes(s.sizes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		ed.Replace(fc)
		return reply{http.StatusOK, documentSummary(ed.Flowchart())}, nil
	})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	doc := chi.URLParam(r, "doc")
	unlock := s.locks.Lock(doc)
	defer unlock()
	if err := s.repo.DeleteDocument(r.Context(), doc); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summary struct {
	Title  string          `json:"title"`
	Nodes  int             `json:"nodes"`
	Edges  int             `json:"edges"`
	NextID int             `json:"nextId"`
	Stats  flowchart.Stats `json:"stats"`
}

func documentSummary(fc *flowchart.Flowchart) summary {
	return summary{
		Title:  fc.DisplayTitle(),
		Nodes:  len(fc.Nodes),
		Edges:  len(fc.Edges),
		NextID: fc.NextID,
		Stats:  fc.Stats(),
	}
}

func (s *Server) setTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		return reply{http.StatusOK, map[string]string{"title": ed.SetTitle(req.Title)}}, nil
	})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		ed.Clear()
		return reply{http.StatusOK, documentSummary(ed.Flowchart())}, nil
	})
}

// =============================================================================
// Nodes
// =============================================================================

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     string             `json:"type"`
		Position flowchart.Position `json:"position"`
		Label    string             `json:"label"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := flowchart.ParseKind(req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		n, err := ed.AddNode(kind, req.Position)
		if err == nil && req.Label != "" {
			n, err = ed.SetLabel(r.Context(), n.ID, req.Label)
		}
		return reply{http.StatusCreated, n}, err
	})
}

func (s *Server) setLabel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		n, err := ed.SetLabel(r.Context(), id, req.Label)
		return reply{http.StatusOK, n}, err
	})
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		n, err := ed.Resize(r.Context(), id, req.Width, req.Height)
		return reply{http.StatusOK, n}, err
	})
}

func (s *Server) setCompletion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Completed *bool `json:"completed"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		var (
			n   flowchart.Node
			err error
		)
		if req.Completed == nil {
			n, err = ed.ToggleCompleted(id)
		} else {
			n, err = ed.SetCompleted(id, *req.Completed)
		}
		return reply{http.StatusOK, n}, err
	})
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	var req flowchart.Position
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		n, err := ed.Move(id, req)
		return reply{http.StatusOK, n}, err
	})
}

func (s *Server) setParent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParentID string `json:"parentId"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		if err := ed.SetParent(id, req.ParentID); err != nil {
			return reply{}, err
		}
		n, _ := ed.Flowchart().Node(id)
		return reply{http.StatusOK, n}, nil
	})
}

func (s *Server) setExtension(w http.ResponseWriter, r *http.Request) {
	var req flowchart.Extension
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		n, err := ed.SetExtension(id, req)
		return reply{http.StatusOK, n}, err
	})
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		return reply{status: http.StatusNoContent}, ed.DeleteNodes(id)
	})
}

type relationsResponse struct {
	Ancestors   []flowchart.Node `json:"ancestors"`
	Descendants []flowchart.Node `json:"descendants"`
	Siblings    []flowchart.Node `json:"siblings"`
	Related     []flowchart.Node `json:"related"`
}

// relations returns the tree neighbourhood of a node. The optional kind and
// label query parameters filter the related list by exact match.
func (s *Server) relations(w http.ResponseWriter, r *http.Request) {
	_, fc, err := s.load(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	t := tree.Build(fc.Nodes)
	if _, ok := t.Node(id); !ok {
		writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "no node %q", id))
		return
	}

	q := r.URL.Query()
	kind, label := q.Get("kind"), q.Get("label")
	_, hasLabel := q["label"]
	var related []flowchart.Node
	switch {
	case kind != "" && hasLabel:
		related = t.RelatedByKindAndLabel(id, flowchart.Kind(kind), label)
	case kind != "":
		related = t.RelatedByKind(id, flowchart.Kind(kind))
	case hasLabel:
		related = t.RelatedByLabel(id, label)
	default:
		related = t.Related(id)
	}

	writeJSON(w, http.StatusOK, relationsResponse{
		Ancestors:   nonNil(t.Ancestors(id)),
		Descendants: nonNil(t.Descendants(id)),
		Siblings:    nonNil(t.Siblings(id)),
		Related:     nonNil(related),
	})
}

func nonNil(nodes []flowchart.Node) []flowchart.Node {
	if nodes == nil {
		return []flowchart.Node{}
	}
	return nodes
}

// =============================================================================
// Edges
// =============================================================================

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source       string `json:"source"`
		Target       string `json:"target"`
		SourceHandle string `json:"sourceHandle"`
		TargetHandle string `json:"targetHandle"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		e, created, err := ed.Connect(flowchart.Connection(req))
		if !created {
			return reply{http.StatusOK, e}, err
		}
		return reply{http.StatusCreated, e}, err
	})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(ed *flowchart.Editor) (reply, error) {
		return reply{status: http.StatusNoContent}, ed.DeleteEdges(id)
	})
}

// =============================================================================
// Read-only views
// =============================================================================

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	_, fc, err := s.load(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fc.Stats())
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	_, fc, err := s.load(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	issues := tree.Check(fc)
	if issues == nil {
		issues = []tree.Issue{}
	}
	writeJSON(w, http.StatusOK, map[string][]tree.Issue{"issues": issues})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, fc, err := s.load(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts := render.Options{Theme: s.theme, Positions: r.URL.Query().Get("positions") == "true"}
	out, err := render.Render(r.Context(), fc, opts, format)
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render"))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = bytes.NewReader(out[format]).WriteTo(w)
}
