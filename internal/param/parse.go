package param

import (
	"fmt"
	"strings"
)

// ParseKeyValue parses a list of "KEY=VALUE" strings into a Parameters value,
// supplementing the JSON-only capture-config path of spec.md §3 with the CLI
// convenience of original_source's capture_configs/_parameters.py
// (parse_string_parameters / make_parameters).
func ParseKeyValue(pairs []string) (*Parameters, error) {
	p := NewParameters()
	for _, pair := range pairs {
		name, value, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}
		if err := p.Add(name, value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func splitKeyValue(pair string) (name, value string, err error) {
	trimmed := strings.TrimSpace(pair)
	if trimmed == "" || !strings.Contains(trimmed, "=") {
		return "", "", fmt.Errorf("param: invalid format %q, expected KEY=VALUE", pair)
	}
	if strings.HasPrefix(trimmed, "=") || strings.HasSuffix(trimmed, "=") {
		return "", "", fmt.Errorf("param: invalid format %q, expected KEY=VALUE", pair)
	}
	parts := strings.SplitN(trimmed, "=", 2)
	return parts[0], parts[1], nil
}
