// Copyright Ginger Science, 2026. All rights reserved.

package types

import "time"

// Reference is a scientific reference attached to a hypothesis.
type Reference struct {
	// Title is the cited work's title.
	Title string `json:"title" yaml:"title"`

	// URL links to the cited work.
	URL string `json:"url" yaml:"url"`
}

// Hypothesis is the research artifact produced by the generation stage and
// consumed by graph extraction. It is immutable once created: the extraction
// pipeline only ever reads it.
//
// All fields are optional on decode. A hypothesis with missing fields
// degrades to a root-only graph rather than failing extraction.
type Hypothesis struct {
	// Text is the free-text hypothesis statement.
	Text string `json:"hypothesis_text" yaml:"hypothesis_text"`

	// Insights are the key insights supporting the hypothesis, in order.
	Insights []string `json:"key_insights" yaml:"key_insights"`

	// References lists the scientific references backing the hypothesis.
	References []Reference `json:"scientific_references" yaml:"scientific_references"`

	// ConfidenceScore is an integer confidence in [0, 100].
	ConfidenceScore int `json:"confidence_score" yaml:"confidence_score"`

	// CreatedAt records when the hypothesis was generated.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
