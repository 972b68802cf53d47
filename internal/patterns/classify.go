// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"fmt"
	"strings"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

// Classifier assigns a category to a requirement defined in a document.
// group is the category of the pattern that matched the identifier.
type Classifier interface {
	Classify(path string, group types.Category) types.Category
}

// PathClassifier treats any document whose path mentions "safety" as a
// safety document and everything else as security. A document carries one
// category for all identifiers defined in it.
type PathClassifier struct{}

// Classify implements Classifier.
func (PathClassifier) Classify(path string, _ types.Category) types.Category {
	if strings.Contains(strings.ToLower(path), "safety") {
		return types.CategorySafety
	}
	return types.CategorySecurity
}

// GroupClassifier uses the category of the pattern group that matched, so a
// mixed-topic document may define requirements of both categories.
type GroupClassifier struct{}

// Classify implements Classifier.
func (GroupClassifier) Classify(_ string, group types.Category) types.Category {
	if group == "" {
		return types.CategorySecurity
	}
	return group
}

// NewClassifier returns the classifier for mode. An empty mode selects
// path classification.
func NewClassifier(mode types.ClassifyMode) (Classifier, error) {
	switch mode {
	case types.ClassifyByPath, "":
		return PathClassifier{}, nil
	case types.ClassifyByPattern:
		return GroupClassifier{}, nil
	default:
		return nil, fmt.Errorf("unknown classify mode %q: use path or pattern", mode)
	}
}
