package graph

import "sync/atomic"

// Holder publishes the current graph snapshot to concurrent readers.
// Rebuilds construct a complete new graph and swap it in atomically, so
// a reader sees either the previous full graph or the new full graph,
// never a half-built one. Reads need no locking because published
// graphs are never mutated.
type Holder struct {
	current atomic.Pointer[KnowledgeGraph]
}

// NewHolder creates a holder with an initial snapshot. A nil graph is
// replaced by an empty one so readers never observe nil.
func NewHolder(g *KnowledgeGraph) *Holder {
	if g == nil {
		g = NewKnowledgeGraph()
	}
	holder := &Holder{}
	holder.current.Store(g)
	return holder
}

// Graph returns the current snapshot
func (h *Holder) Graph() *KnowledgeGraph {
	return h.current.Load()
}

// Swap publishes a new snapshot and returns the previous one
func (h *Holder) Swap(g *KnowledgeGraph) *KnowledgeGraph {
	if g == nil {
		g = NewKnowledgeGraph()
	}
	return h.current.Swap(g)
}
