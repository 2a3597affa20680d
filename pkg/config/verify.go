package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema []byte

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema. It checks
// required fields, numeric bounds and enums, the subset of the schema the generator emits.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal(embeddedSchema, &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to its JSON form, the shape the schema describes
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := verifyNode(&schema, schema.Definitions, "", configMap); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct. Only fields tagged
// `jsonschema:"required"` are required.
func GenerateSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	return r.Reflect(&Config{})
}

func verifyNode(node *jsonschema.Schema, defs jsonschema.Definitions, path string, value any) error {
	node, err := resolveRef(node, defs)
	if err != nil {
		return err
	}

	if node.Properties != nil {
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s must be an object", displayPath(path))
		}
		for _, key := range node.Required {
			if isZeroJSON(obj[key]) {
				return fmt.Errorf("%s is required", joinPath(path, key))
			}
		}
		for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
			v, found := obj[pair.Key]
			if !found {
				continue
			}
			if err := verifyNode(pair.Value, defs, joinPath(path, pair.Key), v); err != nil {
				return err
			}
		}
		return nil
	}

	if len(node.Enum) > 0 && !slices.Contains(node.Enum, value) {
		return fmt.Errorf("%s value %v is not one of %v", displayPath(path), value, node.Enum)
	}
	if num, ok := value.(float64); ok {
		if node.Minimum != "" {
			if limit, err := node.Minimum.Float64(); err == nil && num < limit {
				return fmt.Errorf("%s must be at least %v", displayPath(path), limit)
			}
		}
		if node.Maximum != "" {
			if limit, err := node.Maximum.Float64(); err == nil && num > limit {
				return fmt.Errorf("%s must be at most %v", displayPath(path), limit)
			}
		}
	}
	return nil
}

func resolveRef(node *jsonschema.Schema, defs jsonschema.Definitions) (*jsonschema.Schema, error) {
	if node.Ref == "" {
		return node, nil
	}
	name := strings.TrimPrefix(node.Ref, "#/$defs/")
	def, ok := defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema reference %s", node.Ref)
	}
	return def, nil
}

func isZeroJSON(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	}
	return false
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "config"
	}
	return path
}
