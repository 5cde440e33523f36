package utils

import (
	"bytes"
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ConvertToJSON encodes data as indented JSON followed by a newline. Object keys come out sorted.
func ConvertToJSON(data any) (string, error) {
	j, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(data)
	if err != nil {
		return "", err
	}
	// jsoniter's MarshalIndent leaves nested arrays unindented.
	var out bytes.Buffer
	if err := json.Indent(&out, j, "", strings.Repeat(" ", 2)); err != nil {
		return "", err
	}
	out.WriteByte('\n')
	return out.String(), nil
}
