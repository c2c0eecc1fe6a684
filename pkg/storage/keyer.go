package storage

import "strings"

// Key suffixes of a stored document.
const (
	SuffixNodes   = "nodes"
	SuffixEdges   = "edges"
	SuffixTitle   = "title"
	SuffixCounter = "counter"
)

// Keyer generates storage keys for documents.
type Keyer interface {
	// Prefix is shared by every key this keyer produces.
	Prefix() string
	// DocumentPrefix is shared by every key of one document.
	DocumentPrefix(doc string) string
	NodesKey(doc string) string
	EdgesKey(doc string) string
	TitleKey(doc string) string
	CounterKey(doc string) string
}

// DefaultKeyer produces keys of the form "flowchart:<doc>:<suffix>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) Prefix() string                   { return "flowchart:" }
func (k DefaultKeyer) DocumentPrefix(doc string) string { return k.Prefix() + doc + ":" }
func (k DefaultKeyer) NodesKey(doc string) string       { return k.DocumentPrefix(doc) + SuffixNodes }
func (k DefaultKeyer) EdgesKey(doc string) string       { return k.DocumentPrefix(doc) + SuffixEdges }
func (k DefaultKeyer) TitleKey(doc string) string       { return k.DocumentPrefix(doc) + SuffixTitle }
func (k DefaultKeyer) CounterKey(doc string) string     { return k.DocumentPrefix(doc) + SuffixCounter }

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
//
//	tenant := NewScopedKeyer(NewDefaultKeyer(), "team:42:")
//	tenant.NodesKey("roadmap") // "team:42:flowchart:roadmap:nodes"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) Prefix() string { return k.prefix + k.inner.Prefix() }
func (k *ScopedKeyer) DocumentPrefix(doc string) string {
	return k.prefix + k.inner.DocumentPrefix(doc)
}
func (k *ScopedKeyer) NodesKey(doc string) string   { return k.prefix + k.inner.NodesKey(doc) }
func (k *ScopedKeyer) EdgesKey(doc string) string   { return k.prefix + k.inner.EdgesKey(doc) }
func (k *ScopedKeyer) TitleKey(doc string) string   { return k.prefix + k.inner.TitleKey(doc) }
func (k *ScopedKeyer) CounterKey(doc string) string { return k.prefix + k.inner.CounterKey(doc) }

// DocumentFromKey extracts the document name from a key produced by k.
func DocumentFromKey(k Keyer, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, k.Prefix())
	if !ok {
		return "", false
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 {
		return "", false
	}
	doc := rest[:i]
	switch rest[i+1:] {
	case SuffixNodes, SuffixEdges, SuffixTitle, SuffixCounter:
		return doc, key == k.DocumentPrefix(doc)+rest[i+1:]
	}
	return "", false
}
