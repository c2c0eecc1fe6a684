package storage

import (
	"context"
	"slices"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/tree"
)

// Repository loads and saves whole flowchart documents.
type Repository struct {
	p     *Persister
	keyer Keyer
}

// NewRepository creates a repository. A nil keyer uses [DefaultKeyer].
func NewRepository(p *Persister, keyer Keyer) *Repository {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Repository{p: p, keyer: keyer}
}

// LoadFlowchart reads a document. Missing or unreadable parts fall back to
// defaults: no nodes, no edges, the default title, and a counter derived from
// the node ids. The only error is an invalid document name.
func (r *Repository) LoadFlowchart(ctx context.Context, doc string) (*flowchart.Flowchart, error) {
	if err := errors.ValidateDocumentName(doc); err != nil {
		return nil, err
	}

	fc := flowchart.New()
	r.p.Load(ctx, r.keyer.NodesKey(doc), &fc.Nodes, []flowchart.Node{})
	r.p.Load(ctx, r.keyer.EdgesKey(doc), &fc.Edges, []flowchart.Edge{})
	r.p.Load(ctx, r.keyer.TitleKey(doc), &fc.Title, flowchart.DefaultTitle)

	ids := make([]string, len(fc.Nodes))
	for i, n := range fc.Nodes {
		ids[i] = n.ID
	}
	derived := flowchart.NextIDFor(ids)
	if !r.p.Load(ctx, r.keyer.CounterKey(doc), &fc.NextID, derived) || fc.NextID < derived {
		fc.NextID = derived
	}
	if fc.Title == "" {
		fc.Title = flowchart.DefaultTitle
	}
	return fc, nil
}

// SaveFlowchart writes a document. Nodes are stored in their stripped form.
// Storage failures are logged, not returned; saved reports whether every
// part was written.
func (r *Repository) SaveFlowchart(ctx context.Context, doc string, fc *flowchart.Flowchart) (saved bool, err error) {
	if err := errors.ValidateDocumentName(doc); err != nil {
		return false, err
	}
	nodes := tree.Build(fc.Nodes).Strip()
	if nodes == nil {
		nodes = []flowchart.Node{}
	}
	edges := fc.Edges
	if edges == nil {
		edges = []flowchart.Edge{}
	}

	saved = r.p.Save(ctx, r.keyer.NodesKey(doc), nodes)
	saved = r.p.Save(ctx, r.keyer.EdgesKey(doc), edges) && saved
	saved = r.p.Save(ctx, r.keyer.TitleKey(doc), fc.DisplayTitle()) && saved
	saved = r.p.Save(ctx, r.keyer.CounterKey(doc), max(fc.NextID, 1)) && saved
	return saved, nil
}

// Exists reports whether any part of doc is stored.
func (r *Repository) Exists(ctx context.Context, doc string) (bool, error) {
	if err := errors.ValidateDocumentName(doc); err != nil {
		return false, err
	}
	keys, err := r.p.Store().Keys(ctx, r.keyer.DocumentPrefix(doc))
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStorage, err, "list keys of %q", doc)
	}
	for _, k := range keys {
		if d, ok := DocumentFromKey(r.keyer, k); ok && d == doc {
			return true, nil
		}
	}
	return false, nil
}

// ListDocuments returns the names of stored documents, sorted.
func (r *Repository) ListDocuments(ctx context.Context) ([]string, error) {
	keys, err := r.p.Store().Keys(ctx, r.keyer.Prefix())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list documents")
	}
	var docs []string
	for _, k := range keys {
		if doc, ok := DocumentFromKey(r.keyer, k); ok {
			docs = append(docs, doc)
		}
	}
	slices.Sort(docs)
	return slices.Compact(docs), nil
}

// DeleteDocument removes every part of doc.
func (r *Repository) DeleteDocument(ctx context.Context, doc string) error {
	ok, err := r.Exists(ctx, doc)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrCodeDocumentNotFound, "no document %q", doc)
	}
	for _, key := range []string{
		r.keyer.NodesKey(doc), r.keyer.EdgesKey(doc), r.keyer.TitleKey(doc), r.keyer.CounterKey(doc),
	} {
		if !r.p.Delete(ctx, key) {
			return errors.New(errors.ErrCodeStorage, "failed to delete %q", key)
		}
	}
	return nil
}
