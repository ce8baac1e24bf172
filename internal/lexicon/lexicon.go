// Copyright Ginger Science, 2026. All rights reserved.

// Package lexicon holds the static concept-chain table and the insight
// classifier used by graph extraction. Everything here is a pure lookup:
// no state, no side effects.
package lexicon

import (
	"strings"

	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// Chain is an ordered keyword sequence belonging to one knowledge domain.
// Keyword order matters: a keyword's 1-based position becomes the chain
// level of the node it produces.
type Chain struct {
	// Name identifies the chain (e.g. "genetic_chain").
	Name string

	// Keywords are matched as lowercase substrings of the hypothesis text.
	Keywords []string

	// Type is the node type assigned to every node this chain produces.
	Type types.NodeType
}

// chains is the fixed concept-chain table, in scan order.
var chains = []Chain{
	{
		Name:     "genetic_chain",
		Keywords: []string{"genetic", "gene", "dna", "genome", "allele", "mutation"},
		Type:     types.NodeGene,
	},
	{
		Name:     "population_chain",
		Keywords: []string{"population", "people", "demographic", "ethnic", "ancestry", "group"},
		Type:     types.NodePopulation,
	},
	{
		Name:     "cognitive_chain",
		Keywords: []string{"cognitive", "brain", "neural", "memory", "learning", "intelligence"},
		Type:     types.NodeTrait,
	},
	{
		Name:     "behavioral_chain",
		Keywords: []string{"behavior", "trait", "personality", "social", "cultural", "adaptation"},
		Type:     types.NodeTrait,
	},
	{
		Name:     "research_chain",
		Keywords: []string{"study", "analysis", "research", "method", "experiment", "data"},
		Type:     types.NodeMethod,
	},
}

// Chains returns the concept-chain table in scan order.
func Chains() []Chain {
	return chains
}

// ChainType returns the node type for a chain name, defaulting to concept
// for unknown chains.
func ChainType(name string) types.NodeType {
	for _, c := range chains {
		if c.Name == name {
			return c.Type
		}
	}
	return types.NodeConcept
}

// Term groups used by ClassifyInsight, checked in priority order.
var (
	geneTerms       = []string{"gene", "genetic", "dna"}
	populationTerms = []string{"population", "people", "group"}
	traitTerms      = []string{"behavior", "trait", "cognitive"}
	methodTerms     = []string{"method", "analysis", "study"}
)

// ClassifyInsight returns the best-matching node type for an insight
// snippet. Matching is case-insensitive substring search with a fixed
// priority: gene terms over population terms over trait terms over method
// terms, falling back to finding.
func ClassifyInsight(text string) types.NodeType {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, geneTerms):
		return types.NodeGene
	case containsAny(lower, populationTerms):
		return types.NodePopulation
	case containsAny(lower, traitTerms):
		return types.NodeTrait
	case containsAny(lower, methodTerms):
		return types.NodeMethod
	default:
		return types.NodeFinding
	}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
