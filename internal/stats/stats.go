// Copyright Ginger Science, 2026. All rights reserved.

// Package stats derives aggregate metrics and presentation views from a
// knowledge graph. Every function here is pure.
package stats

import (
	"math"
	"time"

	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// Compute derives graph statistics at the given time.
//
// TotalConnections sums chain edges and every node's outgoing references.
// Root-to-node links appear in both representations, so they count twice;
// the metric is the union of both views, kept that way on purpose.
func Compute(g types.Graph, now time.Time) types.GraphStatistics {
	s := types.GraphStatistics{
		TotalNodes:     len(g.Nodes),
		StrongestChain: "None",
		LastComputedAt: now,
	}

	s.TotalConnections = len(g.Chains)
	for _, n := range g.Nodes {
		s.TotalConnections += len(n.OutgoingRefs)
	}

	if len(g.Nodes) > 0 {
		sum := 0
		for _, n := range g.Nodes {
			sum += n.Strength
		}
		s.AverageStrength = int(math.Round(float64(sum) / float64(len(g.Nodes))))
	}

	// Strictly-greater comparison keeps the first-encountered edge on ties.
	best := -1
	for _, c := range g.Chains {
		if c.Strength > best {
			best = c.Strength
			s.StrongestChain = c.Relationship
		}
	}

	return s
}

// MostConnected returns the node with the most outgoing references,
// breaking ties by extraction order. ok is false for an empty graph.
func MostConnected(g types.Graph) (node types.GraphNode, ok bool) {
	best := -1
	for _, n := range g.Nodes {
		if len(n.OutgoingRefs) > best {
			best = len(n.OutgoingRefs)
			node = n
			ok = true
		}
	}
	return node, ok
}

// TypeDistribution counts nodes per type.
func TypeDistribution(g types.Graph) map[types.NodeType]int {
	dist := make(map[types.NodeType]int)
	for _, n := range g.Nodes {
		dist[n.Type]++
	}
	return dist
}
