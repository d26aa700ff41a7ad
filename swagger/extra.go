package swagger

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExtraFunc consumes the structured-data block of a handler's
// documentation and may enrich the operation built for it.
type ExtraFunc func(op *Operation, block string) error

// YAMLExtensions decodes block as a YAML mapping and copies its "x-" keys
// into the operation extensions. Other keys are ignored.
//
//	// Index lists balloons.
//	// ---
//	// x-rate-limit: 10
func YAMLExtensions(op *Operation, block string) error {
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return fmt.Errorf("swagger: decode extra block: %w", err)
	}

	for key, value := range fields {
		if !strings.HasPrefix(key, "x-") {
			continue
		}
		if op.Extensions == nil {
			op.Extensions = make(map[string]any)
		}
		op.Extensions[key] = value
	}
	return nil
}
