/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer_test.go
Description: Tests for schema serialization.
*/

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = interfaces.Node{
	"type":     "object",
	"required": []string{"url"},
	"properties": map[string]interface{}{
		"url": interfaces.Node{"type": "string", "format": "uri"},
	},
}

func TestMarshalJSON(t *testing.T) {
	data, err := Marshal(interfaces.Node{"pattern": "<a&b>"}, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<a&b>")
	assert.Contains(t, string(data), "\n  \"pattern\"")
}

func TestMarshalYAML(t *testing.T) {
	data, err := Marshal(sample, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: object")
	assert.Contains(t, string(data), "format: uri")
}

func TestMarshalOpenAPI(t *testing.T) {
	data, err := Marshal(sample, FormatOpenAPI)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	schemas := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})
	inferred := schemas[DefaultComponentName].(map[string]interface{})
	assert.Equal(t, "object", inferred["type"])
	assert.Equal(t, []interface{}{"url"}, inferred["required"])
}

func TestMarshalUnstrippedMarkerFails(t *testing.T) {
	_, err := Marshal(interfaces.Node{"x": &interfaces.Deletion{CausedBy: "delete-element"}}, FormatJSON)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("OAS")
	require.NoError(t, err)
	assert.Equal(t, FormatOpenAPI, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteAndWriteFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample, FormatJSON))
	assert.JSONEq(t, `{"type":"object","required":["url"],"properties":{"url":{"type":"string","format":"uri"}}}`, buf.String())

	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, WriteFile(path, sample, FormatJSON))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, buf.String(), string(data))
}
