// Copyright Ginger Science, 2026. All rights reserved.

// Package extract builds a typed knowledge graph from a hypothesis
// artifact. Extraction is a pure function of its input: node and edge
// strengths use hash-derived jitter instead of randomness, so the same
// hypothesis always produces the same graph.
package extract

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/Ginger-Science/hypogen-ai/internal/lexicon"
	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

const (
	// maxInsights caps how many insights contribute nodes. Hard cap.
	maxInsights = 5

	// maxTermsPerInsight caps the key terms taken from one insight.
	maxTermsPerInsight = 3

	// minTermLen is the exclusive length bound below which insight tokens
	// are discarded.
	minTermLen = 4

	rootDescLen    = 120
	insightDescLen = 90
)

// builder accumulates nodes and chains during one extraction run.
type builder struct {
	nodes  []types.GraphNode
	chains []types.ChainConnection
	index  map[string]int  // node id -> position in nodes
	edges  map[string]bool // from|to|relationship triples already present
}

// BuildGraph extracts a knowledge graph from a hypothesis. The result
// always contains the root node; empty or keyword-free input degrades to a
// root-only graph rather than failing.
func BuildGraph(h types.Hypothesis) types.Graph {
	b := &builder{
		index: make(map[string]int),
		edges: make(map[string]bool),
	}

	b.addNode(types.GraphNode{
		ID:          types.RootNodeID,
		Label:       "Research Hypothesis",
		Type:        types.NodeHypothesis,
		Strength:    h.ConfidenceScore,
		Description: truncate(h.Text, rootDescLen),
		ChainLevel:  0,
	})

	b.extractKeywordChains(h)
	b.extractInsightChains(h)
	b.crossLink()

	return types.Graph{Nodes: b.nodes, Chains: b.chains}
}

// extractKeywordChains scans the lowercased hypothesis text against every
// lexicon chain, producing one node per first keyword occurrence plus the
// leads_to and influences edges tying the chain together.
func (b *builder) extractKeywordChains(h types.Hypothesis) {
	text := strings.ToLower(h.Text)
	if text == "" {
		return
	}

	for _, chain := range lexicon.Chains() {
		prevID := ""
		firstID := ""

		for level, keyword := range chain.Keywords {
			if !strings.Contains(text, keyword) {
				continue
			}

			nodeID := fmt.Sprintf("%s_%s", chain.Name, keyword)
			b.addNode(types.GraphNode{
				ID:           nodeID,
				Label:        capitalize(keyword),
				Type:         chain.Type,
				OutgoingRefs: []string{types.RootNodeID},
				Strength:     nodeStrength(nodeID, h.ConfidenceScore, 60, 10, 20),
				ChainLevel:   level + 1,
				ParentChain:  chain.Name,
			})
			b.root().AddRef(nodeID)

			if prevID != "" {
				b.addChain(prevID, nodeID, types.RelLeadsTo, 70, 30)
			}
			if firstID == "" {
				firstID = nodeID
			}
			prevID = nodeID
		}

		if firstID != "" {
			b.addChain(types.RootNodeID, firstID, types.RelInfluences, 75, 25)
		}
	}
}

// extractInsightChains derives up to three key-term nodes from each of the
// first five insights, linked in sequence by supports edges.
func (b *builder) extractInsightChains(h types.Hypothesis) {
	for i, insight := range h.Insights {
		if i >= maxInsights {
			break
		}

		prevID := ""
		for pos, term := range keyTerms(insight) {
			nodeID := fmt.Sprintf("insight_%d_%s", i, sanitize(term))
			if _, exists := b.index[nodeID]; exists {
				prevID = nodeID
				continue
			}

			b.addNode(types.GraphNode{
				ID:           nodeID,
				Label:        capitalize(term),
				Type:         lexicon.ClassifyInsight(insight),
				OutgoingRefs: []string{types.RootNodeID},
				Strength:     nodeStrength(nodeID, h.ConfidenceScore, 65, 5, 15),
				Description:  truncate(insight, insightDescLen),
				ChainLevel:   pos + 1,
				ParentChain:  fmt.Sprintf("insight_chain_%d", i),
			})
			b.root().AddRef(nodeID)

			if prevID != "" {
				b.addChain(prevID, nodeID, types.RelSupports, 80, 20)
			}
			prevID = nodeID
		}
	}
}

// crossLink adds interdisciplinary edges between node types. Each gene node
// pairs with the trait node of closest strength (expresses_as), each
// population node with the concept node of closest strength
// (characterized_by). Ties keep the earliest-extracted candidate.
func (b *builder) crossLink() {
	traits := b.byType(types.NodeTrait)
	for _, g := range b.byType(types.NodeGene) {
		if t := closestStrength(b.nodes, traits, b.nodes[g].Strength); t >= 0 {
			b.addChain(b.nodes[g].ID, b.nodes[t].ID, types.RelExpressesAs, 70, 30)
		}
	}

	concepts := b.byType(types.NodeConcept)
	for _, p := range b.byType(types.NodePopulation) {
		if c := closestStrength(b.nodes, concepts, b.nodes[p].Strength); c >= 0 {
			b.addChain(b.nodes[p].ID, b.nodes[c].ID, types.RelCharacterizedBy, 75, 25)
		}
	}
}

func (b *builder) root() *types.GraphNode {
	return &b.nodes[0]
}

func (b *builder) addNode(n types.GraphNode) {
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
}

// addChain appends an edge with a deterministic strength in
// [base, base+span), skipping duplicate (from, to, relationship) triples.
func (b *builder) addChain(from, to, rel string, base, span int) {
	key := from + "|" + to + "|" + rel
	if b.edges[key] {
		return
	}
	b.edges[key] = true
	b.chains = append(b.chains, types.ChainConnection{
		From:         from,
		To:           to,
		Relationship: rel,
		Strength:     base + jitter(key, span),
	})
}

// byType returns indices of nodes with the given type, in extraction order.
func (b *builder) byType(t types.NodeType) []int {
	var out []int
	for i := range b.nodes {
		if b.nodes[i].Type == t {
			out = append(out, i)
		}
	}
	return out
}

// closestStrength picks from candidates the node whose strength is nearest
// to target. Returns -1 when candidates is empty.
func closestStrength(nodes []types.GraphNode, candidates []int, target int) int {
	best := -1
	bestDist := 0
	for _, i := range candidates {
		d := nodes[i].Strength - target
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// nodeStrength derives a node strength from the confidence score with
// hash-based jitter: clamp(floor, confidence - drop + jitter, 100).
func nodeStrength(id string, confidence, floor, drop, span int) int {
	v := confidence - drop + jitter(id, span)
	if v < floor {
		return floor
	}
	if v > 100 {
		return 100
	}
	return v
}

// jitter maps a stable key into [0, span). FNV-1a keeps the spread of the
// original random scoring while staying reproducible per input.
func jitter(key string, span int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(span))
}

// keyTerms extracts up to maxTermsPerInsight tokens longer than minTermLen
// characters from an insight, in order of appearance.
func keyTerms(insight string) []string {
	var terms []string
	for _, word := range strings.Fields(insight) {
		if len(word) <= minTermLen {
			continue
		}
		terms = append(terms, word)
		if len(terms) == maxTermsPerInsight {
			break
		}
	}
	return terms
}

// sanitize lowercases a term and strips everything outside [a-z0-9].
func sanitize(term string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, term)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate shortens s to at most n bytes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
