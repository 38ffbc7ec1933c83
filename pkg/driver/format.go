package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pie-lang/pie/pkg/ast"
)

// Format selects how parsed statements are printed.
type Format string

const (
	FormatDebug Format = "debug"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts debug, json or yaml.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatDebug:
		return FormatDebug, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want debug, json or yaml)", value)
	}
}

// WriteSource prints every statement of src in source order.
func WriteSource(w io.Writer, src *ast.Source, format Format) error {
	if src == nil {
		return nil
	}
	switch format {
	case FormatDebug:
		for _, stmt := range src.Statements {
			if _, err := io.WriteString(w, ast.Dump(stmt)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(src.Statements)
	case FormatYAML:
		// Round-trip through JSON so embedded node fields flatten the same way.
		data, err := json.Marshal(src.Statements)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("format: %w", err)
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(generic); err != nil {
			return fmt.Errorf("format: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("format: unknown format %q", format)
	}
}
