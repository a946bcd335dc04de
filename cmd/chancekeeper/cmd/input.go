package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solatis/chancekeeper/internal/rules"
	"github.com/solatis/chancekeeper/internal/types"
)

// readChance parses a chance definition from path, or from stdin when path
// is "-". Files ending in .yaml or .yml are parsed as YAML.
func readChance(path string, stdin io.Reader) (*rules.Chance, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return rules.ParseChanceYAML(data)
	default:
		return rules.ParseChance(data)
	}
}

// parseContext builds an evaluation context from a JSON object and
// key=value pairs. Pair values are read as JSON scalars when they parse as
// one (true, 12, 4.5) and as strings otherwise; pairs override the object.
func parseContext(object string, pairs []string) (types.Context, error) {
	ctx := types.Context{}

	if object != "" {
		obj, err := rules.ParseObject([]byte(object))
		if err != nil {
			return nil, fmt.Errorf("--context: %w", err)
		}
		for _, p := range obj {
			ctx[p.Name] = p.Value
		}
	}

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("--set %q: expected key=value", pair)
		}
		value, err := rules.ParseJSON([]byte(raw))
		if err != nil {
			value = raw
		}
		ctx[strings.TrimSpace(key)] = value
	}

	return ctx, nil
}
