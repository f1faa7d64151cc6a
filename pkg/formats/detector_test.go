/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detector_test.go
Description: Tests for the string format detector.
*/

package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDetector(t *testing.T) {
	d := DefaultDetector()

	cases := map[string]string{
		"user@example.com":                     "email",
		"123e4567-e89b-12d3-a456-426614174000": "uuid",
		"123E4567-E89B-12D3-A456-426614174000": "uuid",
		"2024-01-31":                           "date",
		"2024-01-31T10:20:30Z":                 "date-time",
		"2024-01-31T10:20:30.123+02:00":        "date-time",
		"https://dddd.ru":                      "uri",
		"HTTP://example.com/path?q=1":          "uri",
		"192.168.0.1":                          "ipv4",
	}
	for value, want := range cases {
		got, ok := d.Detect(value)
		assert.True(t, ok, value)
		assert.Equal(t, want, got, value)
	}
}

func TestDetectorRejects(t *testing.T) {
	d := DefaultDetector()

	for _, value := range []string{
		"fdfddfm",
		"",
		"256.1.1.1",
		"2024-01-31 10:20:30",
		"ftp://example.com",
		"user@example.com\n",
		"not-a-uuid-0000-0000-000000000000",
	} {
		_, ok := d.Detect(value)
		assert.False(t, ok, value)
	}
}

func TestDetectorOrder(t *testing.T) {
	assert.Equal(t, []string{"email", "uuid", "date", "date-time", "uri", "ipv4"}, DefaultDetector().Names())
}

func TestDetectorRegister(t *testing.T) {
	d := NewDetector()
	_, ok := d.Detect("abc")
	assert.False(t, ok)

	require.NoError(t, d.Register("lower", `^[a-z]+$`))
	name, ok := d.Detect("abc")
	assert.True(t, ok)
	assert.Equal(t, "lower", name)

	assert.Error(t, d.Register("broken", `(`))
}
