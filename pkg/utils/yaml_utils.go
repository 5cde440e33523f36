package utils

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultYAMLIndent is used when no indent is configured.
const DefaultYAMLIndent = 2

// YAMLOptions controls YAML encoding.
type YAMLOptions struct {
	Indent int
}

// ConvertToYAML encodes data as a single YAML document. Mapping keys come out sorted.
func ConvertToYAML(data any, opts ...YAMLOptions) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)

	indent := DefaultYAMLIndent
	if len(opts) > 0 && opts[0].Indent > 0 {
		indent = opts[0].Indent
	}
	encoder.SetIndent(indent)

	if err := encoder.Encode(data); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnmarshalYAML unmarshals YAML into a Go type.
func UnmarshalYAML[T any](input string) (T, error) {
	var out T
	if err := yaml.Unmarshal([]byte(input), &out); err != nil {
		return out, err
	}
	return out, nil
}

// IsBlankYAML reports whether input holds no YAML content, only whitespace, comments and
// document markers.
func IsBlankYAML(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" || line == "..." || strings.HasPrefix(line, "#") {
			continue
		}
		return false
	}
	return true
}
