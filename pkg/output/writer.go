/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: Serialization of inferred schemas as JSON, YAML or an OpenAPI 3 document
carrying the schema as a named component.
*/

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/kleascm/genschema/pkg/interfaces"
	"sigs.k8s.io/yaml"
)

// Format is an output encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatOpenAPI Format = "openapi"
)

// DefaultComponentName names the schema inside OpenAPI output
const DefaultComponentName = "Inferred"

// ParseFormat resolves an output format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "openapi", "oas":
		return FormatOpenAPI, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", name)
}

// Marshal encodes a schema in the given format
func Marshal(node interfaces.Node, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return MarshalJSON(node)
	case FormatYAML:
		data, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		return yaml.JSONToYAML(data)
	case FormatOpenAPI:
		doc, err := OpenAPIDocument(node, DefaultComponentName)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
		}
		return indent(data)
	}
	return nil, fmt.Errorf("unsupported output format: %s", format)
}

// MarshalJSON encodes a schema as indented JSON without HTML escaping
func MarshalJSON(node interfaces.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return buf.Bytes(), nil
}

func indent(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Write encodes a schema to w
func Write(w io.Writer, node interfaces.Node, format Format) error {
	data, err := Marshal(node, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile encodes a schema to path, or to stdout when path is empty or "-"
func WriteFile(path string, node interfaces.Node, format Format) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, node, format)
	}
	data, err := Marshal(node, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}

// OpenAPIDocument wraps a schema into an OpenAPI 3 document under components.schemas.<name>
func OpenAPIDocument(node interfaces.Node, name string) (*openapi3.T, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	schema := openapi3.NewSchema()
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, fmt.Errorf("schema is not representable in OpenAPI: %w", err)
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: name, Version: "0.0.1"},
		Paths:   openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: &openapi3.SchemaRef{Value: schema}},
		},
	}, nil
}
