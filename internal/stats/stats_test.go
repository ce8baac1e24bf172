package stats

import (
	"testing"
	"time"

	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

func sampleGraph() types.Graph {
	return types.Graph{
		Nodes: []types.GraphNode{
			{
				ID: types.RootNodeID, Type: types.NodeHypothesis,
				Strength: 85, OutgoingRefs: []string{"a", "b"},
			},
			{ID: "a", Type: types.NodeGene, Strength: 70, OutgoingRefs: []string{types.RootNodeID}},
			{ID: "b", Type: types.NodeGene, Strength: 76, OutgoingRefs: []string{types.RootNodeID}},
		},
		Chains: []types.ChainConnection{
			{From: types.RootNodeID, To: "a", Relationship: types.RelInfluences, Strength: 80},
			{From: "a", To: "b", Relationship: types.RelLeadsTo, Strength: 92},
		},
	}
}

func TestCompute(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := Compute(sampleGraph(), now)

	if s.TotalNodes != 3 {
		t.Errorf("TotalNodes = %d, want 3", s.TotalNodes)
	}
	// 2 chain edges + 4 outgoing refs: root links count once as refs and
	// once as edges, per the union-of-both-representations policy.
	if s.TotalConnections != 6 {
		t.Errorf("TotalConnections = %d, want 6", s.TotalConnections)
	}
	// (85 + 70 + 76) / 3 = 77
	if s.AverageStrength != 77 {
		t.Errorf("AverageStrength = %d, want 77", s.AverageStrength)
	}
	if s.StrongestChain != types.RelLeadsTo {
		t.Errorf("StrongestChain = %q, want %q", s.StrongestChain, types.RelLeadsTo)
	}
	if !s.LastComputedAt.Equal(now) {
		t.Errorf("LastComputedAt = %v, want %v", s.LastComputedAt, now)
	}
}

func TestComputeRounding(t *testing.T) {
	g := types.Graph{Nodes: []types.GraphNode{
		{ID: "a", Strength: 70},
		{ID: "b", Strength: 71},
	}}
	if got := Compute(g, time.Now()).AverageStrength; got != 71 {
		t.Errorf("AverageStrength = %d, want 71 (70.5 rounds up)", got)
	}
}

func TestComputeEmptyGraph(t *testing.T) {
	s := Compute(types.Graph{}, time.Now())

	if s.TotalNodes != 0 || s.TotalConnections != 0 || s.AverageStrength != 0 {
		t.Errorf("empty graph statistics = %+v, want zeros", s)
	}
	if s.StrongestChain != "None" {
		t.Errorf("StrongestChain = %q, want None", s.StrongestChain)
	}
}

func TestComputeStrongestChainTies(t *testing.T) {
	g := types.Graph{Chains: []types.ChainConnection{
		{From: "a", To: "b", Relationship: types.RelSupports, Strength: 90},
		{From: "b", To: "c", Relationship: types.RelLeadsTo, Strength: 90},
	}}
	if got := Compute(g, time.Now()).StrongestChain; got != types.RelSupports {
		t.Errorf("StrongestChain = %q, want first-encountered %q", got, types.RelSupports)
	}
}

func TestMostConnected(t *testing.T) {
	node, ok := MostConnected(sampleGraph())
	if !ok {
		t.Fatal("MostConnected reported empty graph")
	}
	if node.ID != types.RootNodeID {
		t.Errorf("most connected = %s, want root", node.ID)
	}

	// Ties resolve to extraction order.
	g := types.Graph{Nodes: []types.GraphNode{
		{ID: "x", OutgoingRefs: []string{"y"}},
		{ID: "y", OutgoingRefs: []string{"x"}},
	}}
	node, _ = MostConnected(g)
	if node.ID != "x" {
		t.Errorf("tied most connected = %s, want x", node.ID)
	}

	if _, ok := MostConnected(types.Graph{}); ok {
		t.Error("MostConnected on empty graph reported a node")
	}
}

func TestTypeDistribution(t *testing.T) {
	dist := TypeDistribution(sampleGraph())

	if dist[types.NodeHypothesis] != 1 || dist[types.NodeGene] != 2 {
		t.Errorf("distribution = %v", dist)
	}
	if len(dist) != 2 {
		t.Errorf("distribution has %d types, want 2", len(dist))
	}
}
