package sheet

import (
	"strings"

	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/items"
)

// RecipeIDColumnCandidates name an optional recipe code column.
var RecipeIDColumnCandidates = []string{"recipeid", "recipe id", "recipe_id", "recipe code", "code"}

// ReadItems loads food items from a spreadsheet column. Blank names are skipped and
// duplicates collapse on (normalized name, recipe id).
func ReadItems(path, sheetName, itemColumn string) ([]entity.FoodItem, error) {
	t, err := ReadFile(path, sheetName)
	if err != nil {
		return nil, err
	}
	col, err := DetectItemColumn(t, itemColumn)
	if err != nil {
		return nil, err
	}
	codeCol := -1
	for _, c := range RecipeIDColumnCandidates {
		if i := t.Column(c); i >= 0 {
			codeCol = i
			break
		}
	}

	var out []entity.FoodItem
	for r := range t.Rows {
		name := items.Normalize(t.Cell(r, col))
		if name == "" {
			continue
		}
		out = append(out, entity.FoodItem{Name: name, RecipeID: strings.TrimSpace(t.Cell(r, codeCol))})
	}
	return items.Dedupe(out), nil
}
