package table

import (
	"context"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
)

// Build assembles one output row per item. resolutions must be index-aligned with items;
// an item without a resolution gets an all-unknown USDA row.
func Build(date string, meal constants.Meal, list []entity.FoodItem, resolutions []nutrition.Resolution) []entity.MenuRow {
	rows := make([]entity.MenuRow, 0, len(list))
	for i, it := range list {
		res := nutrition.Resolution{Nutrients: entity.NewNutrients(), Provenance: constants.ProvenanceUSDA}
		if i < len(resolutions) {
			res = resolutions[i]
		}

		row := entity.MenuRow{
			MenuDate: date,
			Meal:     meal.Label(),
			Item:     it.Name,
			Source:   res.Provenance,
		}
		row.SetNutrients(res.Nutrients)
		if it.HasRecipeID() {
			id := it.RecipeID
			row.RecipeID = &id
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildMeal resolves items and builds their rows in one step.
func BuildMeal(ctx context.Context, date string, meal constants.Meal, list []entity.FoodItem, r *nutrition.Resolver) []entity.MenuRow {
	return Build(date, meal, list, r.ResolveAll(ctx, list))
}
