// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// resultsFile is the on-disk layout of a test results file:
//
//	results:
//	  T-FSR-1: pass
//	  SEC-4: fail
type resultsFile struct {
	Results map[string]types.TestResult `yaml:"results"`
}

// LoadResults reads test outcomes keyed by test ID.
func LoadResults(path string) (map[string]types.TestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}

	var f resultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing results file %s: %w", path, err)
	}

	for id, r := range f.Results {
		if !r.Valid() {
			return nil, fmt.Errorf("results file %s: test %s has invalid result %q (want pass, fail or not-yet-run)", path, id, r)
		}
	}
	if f.Results == nil {
		f.Results = map[string]types.TestResult{}
	}
	return f.Results, nil
}
