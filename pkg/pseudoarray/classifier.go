/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classifier.go
Description: Pseudo-array classifiers. An object whose keys are array indices is treated as
an array in disguise and described with patternProperties instead of named properties.
*/

package pseudoarray

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kleascm/genschema/pkg/interfaces"
)

// IndexPattern matches the keys of every pseudo-array
const IndexPattern = "^[0-9]+$"

// Policy names a classifier
type Policy string

const (
	PolicyContiguous Policy = "contiguous"
	PolicyLenient    Policy = "lenient"
	PolicyDisabled   Policy = "disabled"
)

// ErrUnknownPolicy is returned for a policy name with no classifier
var ErrUnknownPolicy = errors.New("unknown pseudo-array policy")

// New returns the classifier for a policy. The disabled policy returns nil.
func New(policy Policy) (interfaces.PseudoArrayClassifier, error) {
	switch policy {
	case PolicyContiguous, "":
		return NewContiguousClassifier(), nil
	case PolicyLenient:
		return NewLenientClassifier(), nil
	case PolicyDisabled:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
}

// ContiguousClassifier accepts key sets that are exactly 0..n-1
type ContiguousClassifier struct{}

// NewContiguousClassifier creates the default classifier
func NewContiguousClassifier() *ContiguousClassifier {
	return &ContiguousClassifier{}
}

// Classify implements interfaces.PseudoArrayClassifier
func (c *ContiguousClassifier) Classify(keys []string, _ interfaces.ProcessingContext) (bool, string) {
	indices, ok := parseIndices(keys)
	if !ok {
		return false, ""
	}
	seen := make([]bool, len(indices))
	for _, i := range indices {
		if i >= len(indices) || seen[i] {
			return false, ""
		}
		seen[i] = true
	}
	return true, IndexPattern
}

// LenientClassifier accepts any set of non-negative integer keys, gaps included
type LenientClassifier struct{}

// NewLenientClassifier creates a classifier that tolerates sparse indices
func NewLenientClassifier() *LenientClassifier {
	return &LenientClassifier{}
}

// Classify implements interfaces.PseudoArrayClassifier
func (c *LenientClassifier) Classify(keys []string, _ interfaces.ProcessingContext) (bool, string) {
	if _, ok := parseIndices(keys); !ok {
		return false, ""
	}
	return true, IndexPattern
}

// Disabled never classifies anything as a pseudo-array
type Disabled struct{}

// Classify implements interfaces.PseudoArrayClassifier
func (Disabled) Classify([]string, interfaces.ProcessingContext) (bool, string) {
	return false, ""
}

// parseIndices converts keys to non-negative integers; false for an empty set or any other key
func parseIndices(keys []string) ([]int, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		if k == "" || k[0] < '0' || k[0] > '9' {
			return nil, false
		}
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

// IsIndexKey reports whether a single key is a non-negative integer
func IsIndexKey(key string) bool {
	_, ok := parseIndices([]string{key})
	return ok
}
