package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"yamlscript/interpreter-go/pkg/interpreter"
	"yamlscript/interpreter-go/pkg/runtime"
)

// Encode renders a program result in the given output format, without a
// trailing newline.
func Encode(value runtime.Value, format string) (string, error) {
	switch format {
	case "", FormatText:
		return interpreter.Display(value), nil
	case FormatYAML:
		data, err := yaml.Marshal(runtime.ToNative(value))
		if err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	case FormatJSON:
		data, err := json.MarshalIndent(interpreter.JSONSafe(runtime.ToNative(value)), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
