/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Configuration errors reported by the inference engine.
*/

package inference

import (
	"errors"

	"github.com/kleascm/genschema/pkg/comparators"
)

var (
	// ErrInvalidUnionKeyword is returned for a union keyword other than anyOf, oneOf or allOf
	ErrInvalidUnionKeyword = errors.New("invalid union keyword")
	// ErrCoreComparator is returned when the type rule is registered as a secondary rule
	ErrCoreComparator = comparators.ErrCoreComparator
	// ErrNilComparator is returned when registering a nil rule
	ErrNilComparator = comparators.ErrNilComparator
)
