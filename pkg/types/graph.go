// Copyright Ginger Science, 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// NodeType categorizes a knowledge graph node.
type NodeType string

const (
	NodeConcept    NodeType = "concept"
	NodeGene       NodeType = "gene"
	NodeTrait      NodeType = "trait"
	NodePopulation NodeType = "population"
	NodeMethod     NodeType = "method"
	NodeFinding    NodeType = "finding"
	NodeHypothesis NodeType = "hypothesis"
)

// Relationship labels carried by chain connections.
const (
	RelLeadsTo         = "leads_to"
	RelInfluences      = "influences"
	RelSupports        = "supports"
	RelExpressesAs     = "expresses_as"
	RelCharacterizedBy = "characterized_by"
)

// RootNodeID is the fixed identifier of the main hypothesis node. Every
// graph produced by extraction contains exactly one node with this ID.
const RootNodeID = "main_hypothesis"

// GraphNode is a typed concept node in the knowledge graph.
type GraphNode struct {
	// ID is unique within a graph and derived deterministically from the
	// originating chain and keyword (or insight index and term), so that
	// re-extraction of the same input yields identical IDs.
	ID string `json:"id" yaml:"id"`

	// Label is the display name of the concept.
	Label string `json:"label" yaml:"label"`

	// Type categorizes the node.
	Type NodeType `json:"type" yaml:"type"`

	// OutgoingRefs lists IDs of nodes this node connects toward, in the
	// order the links were established, without duplicates. Every node
	// except the root refers back to the root.
	OutgoingRefs []string `json:"outgoing_refs" yaml:"outgoing_refs"`

	// Strength is a confidence weight in [0, 100].
	Strength int `json:"strength" yaml:"strength"`

	// Description is an optional snippet of the source text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// ChainLevel is the node's position within its chain: 0 for the root,
	// 1..n for keyword or insight chain members.
	ChainLevel int `json:"chain_level" yaml:"chain_level"`

	// ParentChain names the chain or insight group that produced this node.
	// Empty for the root.
	ParentChain string `json:"parent_chain,omitempty" yaml:"parent_chain,omitempty"`
}

// AddRef appends id to the node's outgoing references if not already present.
func (n *GraphNode) AddRef(id string) {
	for _, ref := range n.OutgoingRefs {
		if ref == id {
			return
		}
	}
	n.OutgoingRefs = append(n.OutgoingRefs, id)
}

// ChainConnection is a directed, labeled, weighted edge between two nodes.
type ChainConnection struct {
	From         string `json:"from" yaml:"from"`
	To           string `json:"to" yaml:"to"`
	Relationship string `json:"relationship" yaml:"relationship"`
	Strength     int    `json:"strength" yaml:"strength"`
}

// Graph is a complete knowledge graph: nodes in extraction order plus chain
// connections. A Graph value is built once by extraction and replaced
// wholesale on recomputation; there is no partial-update path.
type Graph struct {
	Nodes  []GraphNode       `json:"nodes" yaml:"nodes"`
	Chains []ChainConnection `json:"chains" yaml:"chains"`
}

// Node returns the node with the given ID, or nil if absent.
func (g *Graph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Root returns the main hypothesis node, or nil if the graph is malformed.
func (g *Graph) Root() *GraphNode {
	return g.Node(RootNodeID)
}

// Validate checks the structural invariants of a graph: exactly one root
// node (type hypothesis, chain level 0), unique node IDs, and chain edges
// whose endpoints exist. Used to vet graphs restored from persistence before
// trusting them.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}

	seen := make(map[string]bool, len(g.Nodes))
	roots := 0
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if n.Type == NodeHypothesis && n.ChainLevel == 0 {
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("expected exactly one root node, found %d", roots)
	}
	if !seen[RootNodeID] {
		return fmt.Errorf("missing root node %q", RootNodeID)
	}

	for _, c := range g.Chains {
		if !seen[c.From] {
			return fmt.Errorf("chain references unknown node %q", c.From)
		}
		if !seen[c.To] {
			return fmt.Errorf("chain references unknown node %q", c.To)
		}
	}
	return nil
}

// GraphStatistics holds aggregate metrics derived from a graph. Statistics
// are always recomputed alongside the graph that produced them and never
// persisted independently.
type GraphStatistics struct {
	// TotalNodes is the node count.
	TotalNodes int `json:"total_nodes" yaml:"total_nodes"`

	// TotalConnections counts chain edges plus every node's outgoing
	// references. Root-to-node links appear in both representations and are
	// deliberately counted twice: the metric reports the union of both.
	TotalConnections int `json:"total_connections" yaml:"total_connections"`

	// AverageStrength is the mean node strength rounded to the nearest
	// integer, or 0 for an empty graph.
	AverageStrength int `json:"average_strength" yaml:"average_strength"`

	// StrongestChain is the relationship label of the highest-strength
	// chain edge, or "None" if the graph has no edges.
	StrongestChain string `json:"strongest_chain" yaml:"strongest_chain"`

	// LastComputedAt is when these statistics were derived.
	LastComputedAt time.Time `json:"last_computed_at" yaml:"last_computed_at"`
}
