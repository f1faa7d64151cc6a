/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classifier_test.go
Description: Tests for the pseudo-array classifiers.
*/

package pseudoarray

import (
	"testing"

	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContiguousClassifier(t *testing.T) {
	c := NewContiguousClassifier()
	ctx := interfaces.ProcessingContext{}

	cases := []struct {
		name string
		keys []string
		want bool
	}{
		{"contiguous", []string{"0", "1", "2"}, true},
		{"unordered", []string{"2", "0", "1"}, true},
		{"single", []string{"0"}, true},
		{"gap", []string{"0", "2"}, false},
		{"not zero based", []string{"1", "2"}, false},
		{"names", []string{"a", "b"}, false},
		{"mixed", []string{"0", "a"}, false},
		{"negative", []string{"-1", "0"}, false},
		{"duplicate", []string{"0", "0"}, false},
		{"empty", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, pattern := c.Classify(tc.keys, ctx)
			assert.Equal(t, tc.want, ok)
			if tc.want {
				assert.Equal(t, IndexPattern, pattern)
			} else {
				assert.Empty(t, pattern)
			}
		})
	}
}

func TestLenientClassifier(t *testing.T) {
	c := NewLenientClassifier()

	ok, pattern := c.Classify([]string{"0", "5", "9"}, interfaces.ProcessingContext{})
	assert.True(t, ok)
	assert.Equal(t, IndexPattern, pattern)

	ok, _ = c.Classify([]string{"0", "x"}, interfaces.ProcessingContext{})
	assert.False(t, ok)

	ok, _ = c.Classify(nil, interfaces.ProcessingContext{})
	assert.False(t, ok)
}

func TestDisabledClassifier(t *testing.T) {
	ok, pattern := Disabled{}.Classify([]string{"0", "1"}, interfaces.ProcessingContext{})
	assert.False(t, ok)
	assert.Empty(t, pattern)
}

func TestNewPolicy(t *testing.T) {
	c, err := New(PolicyContiguous)
	require.NoError(t, err)
	assert.IsType(t, &ContiguousClassifier{}, c)

	c, err = New(PolicyLenient)
	require.NoError(t, err)
	assert.IsType(t, &LenientClassifier{}, c)

	c, err = New(PolicyDisabled)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = New("sometimes")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestIsIndexKey(t *testing.T) {
	assert.True(t, IsIndexKey("12"))
	assert.False(t, IsIndexKey("+1"))
	assert.False(t, IsIndexKey(""))
}
