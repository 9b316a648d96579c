package fdc

import (
	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// ExtractFields maps the record's nutrient entries onto the fixed field set by nutrient id.
// Ids that are absent, or present without an amount, stay unknown.
func ExtractFields(food Food) entity.Nutrients {
	byID := make(map[int]float64, len(food.FoodNutrients))
	for _, fn := range food.FoodNutrients {
		if fn.Amount == nil || fn.Nutrient.ID == 0 {
			continue
		}
		byID[fn.Nutrient.ID] = *fn.Amount
	}

	out := entity.NewNutrients()
	for _, f := range constants.NutrientFields() {
		if v, ok := byID[NutrientIDs[f]]; ok {
			out.Set(f, v)
		}
	}
	return out
}
