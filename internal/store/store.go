// Copyright Ginger Science, 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Ginger-Science/hypogen-ai/internal/extract"
	"github.com/Ginger-Science/hypogen-ai/internal/stats"
	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// Store holds the authoritative in-memory knowledge graph and keeps it
// synchronized with the key-value collaborator.
//
// The store moves between two states: Empty (no graph committed) and
// Populated (graph, statistics and timestamp committed together). Every
// transition replaces the whole value; there is no partial mutation path.
// A mutex serializes the commit step so readers only ever observe fully
// committed values.
type Store struct {
	kv  KV
	now func() time.Time

	mu      sync.RWMutex
	graph   *types.Graph
	stats   types.GraphStatistics
	updated time.Time
}

// NewStore creates a graph store backed by the given key-value
// collaborator. The store starts Empty; call Load to restore persisted
// state.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Load restores the last persisted graph and timestamp, entering the
// Populated state without re-running extraction. An absent or corrupt
// persisted value leaves the store Empty with a nil error; only key-value
// access failures are reported.
func (s *Store) Load(ctx context.Context) (bool, error) {
	return s.restore(ctx)
}

// OnHypothesisEvent runs the full pipeline for an updated hypothesis:
// extraction, statistics, atomic commit, persistence. A later event always
// overwrites an earlier commit.
//
// A persistence failure is returned as an error, but the in-memory commit
// stands: the store still serves the new graph for the current session.
func (s *Store) OnHypothesisEvent(ctx context.Context, h types.Hypothesis) error {
	graph := extract.BuildGraph(h)
	now := s.now()
	st := stats.Compute(graph, now)

	s.mu.Lock()
	s.graph = &graph
	s.stats = st
	s.updated = now
	s.mu.Unlock()

	if err := s.persistHypothesis(ctx, h); err != nil {
		return err
	}
	return s.persistGraph(ctx, graph, now)
}

// Refresh re-derives the graph from the current hypothesis if the
// collaborator holds one, otherwise restores the last persisted graph.
// With neither available the store remains Empty, which is not an error.
func (s *Store) Refresh(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, KeyCurrentHypothesis)
	if err != nil {
		return fmt.Errorf("reading current hypothesis: %w", err)
	}
	if ok {
		var h types.Hypothesis
		if err := json.Unmarshal([]byte(raw), &h); err == nil {
			return s.OnHypothesisEvent(ctx, h)
		}
		// An unparseable hypothesis degrades to the restore path.
	}

	_, err = s.restore(ctx)
	return err
}

// Clear discards the committed graph and removes the persisted copy,
// returning the store to Empty. The current hypothesis value belongs to
// the producer and is left in place.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.graph = nil
	s.stats = types.GraphStatistics{}
	s.updated = time.Time{}
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, KeyGraph); err != nil {
		return err
	}
	return s.kv.Delete(ctx, KeyGraphTimestamp)
}

// Graph returns a copy of the committed graph. ok is false while Empty.
func (s *Store) Graph() (types.Graph, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return types.Graph{}, false
	}
	return copyGraph(*s.graph), true
}

// Statistics returns the statistics committed with the current graph.
// ok is false while Empty.
func (s *Store) Statistics() (types.GraphStatistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return types.GraphStatistics{}, false
	}
	return s.stats, true
}

// LastUpdated returns the commit time of the current graph. ok is false
// while Empty.
func (s *Store) LastUpdated() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return time.Time{}, false
	}
	return s.updated, true
}

// restore loads the persisted graph, validates its shape, and commits it
// together with freshly derived statistics. Corrupt values are discarded.
func (s *Store) restore(ctx context.Context) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, KeyGraph)
	if err != nil {
		return false, fmt.Errorf("reading persisted graph: %w", err)
	}
	if !ok {
		return false, nil
	}

	var graph types.Graph
	if err := json.Unmarshal([]byte(raw), &graph); err != nil {
		return false, nil
	}
	if err := graph.Validate(); err != nil {
		return false, nil
	}

	updated := s.now()
	if ts, ok, err := s.kv.Get(ctx, KeyGraphTimestamp); err == nil && ok {
		if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			updated = parsed
		}
	}

	s.mu.Lock()
	s.graph = &graph
	s.stats = stats.Compute(graph, updated)
	s.updated = updated
	s.mu.Unlock()

	return true, nil
}

func (s *Store) persistHypothesis(ctx context.Context, h types.Hypothesis) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding hypothesis: %w", err)
	}
	if err := s.kv.Set(ctx, KeyCurrentHypothesis, string(data)); err != nil {
		return fmt.Errorf("persisting hypothesis: %w", err)
	}
	return nil
}

func (s *Store) persistGraph(ctx context.Context, graph types.Graph, updated time.Time) error {
	data, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	if err := s.kv.Set(ctx, KeyGraph, string(data)); err != nil {
		return fmt.Errorf("persisting graph: %w", err)
	}
	if err := s.kv.Set(ctx, KeyGraphTimestamp, updated.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("persisting graph timestamp: %w", err)
	}
	return nil
}

// copyGraph returns a graph whose slices are independent of the original,
// so callers cannot mutate the committed value.
func copyGraph(g types.Graph) types.Graph {
	out := types.Graph{
		Nodes:  make([]types.GraphNode, len(g.Nodes)),
		Chains: make([]types.ChainConnection, len(g.Chains)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Chains, g.Chains)
	for i := range out.Nodes {
		refs := make([]string, len(out.Nodes[i].OutgoingRefs))
		copy(refs, out.Nodes[i].OutgoingRefs)
		out.Nodes[i].OutgoingRefs = refs
	}
	return out
}
