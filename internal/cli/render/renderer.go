package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// Renderer writes the text form of a command result
type Renderer[T any] interface {
	Render(result T) error
}

// Format selects how command results are written
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// FormatOf returns the output format selected with --json or --yaml
func FormatOf(cfg *config.RuntimeConfig) Format {
	switch {
	case cfg == nil:
		return FormatText
	case cfg.JSON:
		return FormatJSON
	case cfg.YAML:
		return FormatYAML
	}
	return FormatText
}

// Structured writes result as JSON or YAML and reports whether it did. Text output is left
// to the command's renderer.
func Structured(out io.Writer, format Format, result any) (bool, error) {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(result)
	case FormatYAML:
		doc, err := yamlDocument(result)
		if err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// yamlDocument routes result through its JSON form so json tags and big.Int marshalers
// apply to the YAML output as well
func yamlDocument(result any) (any, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to convert output: %w", err)
	}
	return numbers(doc), nil
}

func numbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = numbers(val)
		}
	case []any:
		for i, val := range t {
			t[i] = numbers(val)
		}
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return u
		}
		if f, err := strconv.ParseFloat(string(t), 64); err == nil && !isInteger(string(t)) {
			return f
		}
		// integers beyond 64 bits are written digit for digit
		return &yaml.Node{Kind: yaml.ScalarNode, Value: string(t)}
	}
	return v
}

func isInteger(s string) bool {
	for i, r := range s {
		if (r < '0' || r > '9') && !(i == 0 && r == '-') {
			return false
		}
	}
	return s != ""
}
