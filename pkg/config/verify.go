package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a JSON schema for the Config struct. Only fields tagged with
// jsonschema "required" are required.
func GenerateSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{RequiredFromJSONSchemaTags: true, DoNotReference: true, ExpandedStruct: true}
	return r.Reflect(&Config{})
}

// VerifySchema checks that all fields required by the generated schema are set
func VerifySchema(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return checkRequired(GenerateSchema(), doc, "")
}

// checkRequired walks the schema along the document and reports the first missing required field
func checkRequired(schema *jsonschema.Schema, doc any, path string) error {
	if schema == nil {
		return nil
	}
	switch v := doc.(type) {
	case map[string]any:
		for _, name := range schema.Required {
			if isEmpty(v[name]) {
				return fmt.Errorf("%s is required", join(path, name))
			}
		}
		if schema.Properties == nil {
			return nil
		}
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if err := checkRequired(pair.Value, v[pair.Key], join(path, pair.Key)); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := checkRequired(schema.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	}
	return false
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
