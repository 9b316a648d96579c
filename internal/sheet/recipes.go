package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
)

// LoadRecipeTable reads locally known nutrient values. The item column is detected as for
// any spreadsheet; nutrient columns are those whose header names a nutrient field
// (Calories, Protein_g, ...). Blank or non-numeric cells stay unknown.
func LoadRecipeTable(path, sheetName, itemColumn string) (nutrition.RecipeTable, error) {
	t, err := ReadFile(path, sheetName)
	if err != nil {
		return nil, err
	}
	col, err := DetectItemColumn(t, itemColumn)
	if err != nil {
		return nil, err
	}
	fieldCols := NutrientColumns(t)

	out := nutrition.RecipeTable{}
	for r := range t.Rows {
		name := strings.TrimSpace(t.Cell(r, col))
		if name == "" {
			continue
		}
		n, ok := out[name]
		if !ok {
			n = entity.NewNutrients()
			out[name] = n
		}
		for f, c := range fieldCols {
			if _, known := n.Get(f); known {
				continue
			}
			if v, ok := ParseAmount(t.Cell(r, c)); ok {
				n.Set(f, v)
			}
		}
	}
	return out, nil
}

// NutrientColumns maps each nutrient field present in the header to its column.
func NutrientColumns(t *Table) map[constants.NutrientField]int {
	out := map[constants.NutrientField]int{}
	for i, h := range t.Header {
		if f, ok := constants.ParseNutrientField(h); ok {
			if _, dup := out[f]; !dup {
				out[f] = i
			}
		}
	}
	return out
}

// ParseAmount reads a numeric cell. Blank means unknown.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatAmount renders an amount without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
