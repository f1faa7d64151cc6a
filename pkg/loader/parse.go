/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: parse.go
Description: Decoders for input documents. JSON goes through fastjson with number literals
kept verbatim, YAML is converted to JSON first, and HTML pages contribute every JSON
script block they embed.
*/

package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/fastjson"
	"sigs.k8s.io/yaml"
)

// Format is the encoding of an input document
type Format string

const (
	FormatAuto      Format = ""
	FormatJSON      Format = "json"
	FormatJSONLines Format = "jsonl"
	FormatYAML      Format = "yaml"
	FormatHTML      Format = "html"
)

// ParseFormat resolves a format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONLines, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return FormatAuto, fmt.Errorf("unsupported input format: %s", name)
}

// DetectFormat guesses the format from a file name, a content type and the payload
func DetectFormat(location, contentType string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONLines
	case ".yaml", ".yml":
		return FormatYAML
	case ".html", ".htm":
		return FormatHTML
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "html"):
		return FormatHTML
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "ndjson"):
		return FormatJSONLines
	case strings.Contains(ct, "json"):
		return FormatJSON
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatHTML
	}
	if fastjson.ValidateBytes(trimmed) == nil {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes data into one value per document
func Parse(data []byte, format Format) ([]interface{}, error) {
	switch format {
	case FormatAuto:
		return Parse(data, DetectFormat("", "", data))
	case FormatJSON:
		v, err := ParseJSON(data)
		if err != nil {
			return nil, err
		}
		return []interface{}{v}, nil
	case FormatJSONLines:
		return ParseJSONLines(data)
	case FormatYAML:
		v, err := ParseYAML(data)
		if err != nil {
			return nil, err
		}
		return []interface{}{v}, nil
	case FormatHTML:
		return ParseHTML(data)
	}
	return nil, fmt.Errorf("unsupported input format: %s", format)
}

// ParseJSON decodes one JSON value. Numbers become json.Number holding the literal.
func ParseJSON(data []byte) (interface{}, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return convert(v)
}

// ParseJSONLines decodes one JSON value per non-blank line
func ParseJSONLines(data []byte) ([]interface{}, error) {
	var out []interface{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := ParseJSON(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSON lines: %w", err)
	}
	return out, nil
}

// ParseYAML decodes one YAML document
func ParseYAML(data []byte) (interface{}, error) {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ParseJSON(raw)
}

// ParseHTML decodes every application/json and application/ld+json script block
func ParseHTML(data []byte) ([]interface{}, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var out []interface{}
	var parseErr error
	doc.Find(`script[type="application/json"], script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return true
		}
		v, err := ParseJSON([]byte(body))
		if err != nil {
			parseErr = fmt.Errorf("script block %d: %w", i, err)
			return false
		}
		out = append(out, v)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

// convert turns a fastjson value into plain Go values
func convert(v *fastjson.Value) (interface{}, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, err := v.Object()
		if err != nil {
			return nil, err
		}
		out := make(map[string]interface{}, o.Len())
		var visitErr error
		o.Visit(func(key []byte, child *fastjson.Value) {
			if visitErr != nil {
				return
			}
			c, err := convert(child)
			if err != nil {
				visitErr = err
				return
			}
			out[string(key)] = c
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return out, nil
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			c, err := convert(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return string(s), nil
	case fastjson.TypeNumber:
		return json.Number(v.String()), nil
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeNull:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected JSON value type %s", v.Type())
}
