package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/menu-builder/constants"
)

// MenuRowsSchema is the JSON-Schema for the records file: an array of rows where every
// nutrient is a number or null (unknown).
func MenuRowsSchema() map[string]any {
	props := map[string]any{
		"MenuDate": map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"Meal":     map[string]any{"type": "string", "minLength": 1},
		"Item":     map[string]any{"type": "string", "minLength": 1},
		"Source": map[string]any{
			"type": "string",
			"enum": []string{string(constants.ProvenanceRecipe), string(constants.ProvenanceUSDA), string(constants.ProvenanceMixed)},
		},
		"RecipeId": map[string]any{"type": []string{"string", "null"}},
	}
	required := []string{"MenuDate", "Meal", "Item"}
	for _, f := range constants.NutrientFields() {
		props[string(f)] = map[string]any{"type": []string{"number", "null"}, "minimum": 0}
		required = append(required, string(f))
	}
	required = append(required, "Source", "RecipeId")

	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           props,
			"required":             required,
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
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
