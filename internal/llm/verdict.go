package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Verdict is a parsed structured judgment from the reasoning service.
type Verdict struct {
	Value   bool
	Comment string
}

// verdictSchema constrains the JSON object a judging rule expects: the
// named verdict key ("True"/"False" as string or a bare boolean) plus a
// short rationale. The service guarantees no schema on its side, so the
// response is validated here before being trusted.
func verdictSchema(key string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			key:       map[string]any{"type": []string{"string", "boolean"}},
			"comment": map[string]any{"type": "string"},
		},
		"required": []string{key, "comment"},
	}
}

// ParseVerdict extracts a boolean verdict and a rationale from raw response
// content. Any failure (not JSON, schema mismatch, missing key) is returned
// as an error for the rule to fail closed on; it never panics and the
// caller never propagates it past the rule.
func ParseVerdict(raw, key string) (Verdict, error) {
	data := []byte(extractJSONObject(raw))

	if err := validateAgainstSchema(verdictSchema(key), data); err != nil {
		return Verdict{}, err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Verdict{}, fmt.Errorf("unmarshal verdict: %w", err)
	}

	value := strings.Contains(strings.ToLower(fmt.Sprintf("%v", m[key])), "true")
	comment, _ := m["comment"].(string)
	return Verdict{Value: value, Comment: comment}, nil
}

// extractJSONObject trims everything around the outermost braces. Models
// occasionally wrap the object in code fences or prose.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

// validateAgainstSchema validates data against schemaMap.
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
