// Copyright Ginger Science, 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// LoadHypothesis reads a hypothesis artifact file in YAML or JSON form,
// selected by file extension. Missing fields decode to zero values; the
// extraction pipeline treats those as empty input rather than an error.
func LoadHypothesis(path string) (types.Hypothesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Hypothesis{}, fmt.Errorf("reading hypothesis: %w", err)
	}
	return ParseHypothesis(data, filepath.Ext(path))
}

// ParseHypothesis decodes hypothesis bytes. ext selects the codec: ".json"
// for JSON, anything else for YAML.
func ParseHypothesis(data []byte, ext string) (types.Hypothesis, error) {
	var h types.Hypothesis
	if ext == ".json" {
		if err := json.Unmarshal(data, &h); err != nil {
			return types.Hypothesis{}, fmt.Errorf("parsing hypothesis JSON: %w", err)
		}
		return h, nil
	}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return types.Hypothesis{}, fmt.Errorf("parsing hypothesis YAML: %w", err)
	}
	return h, nil
}
