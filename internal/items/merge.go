package items

import "github.com/joseph-ayodele/menu-builder/internal/entity"

// Merge unions a primary list (production schedule: authoritative spelling and recipe id)
// with a secondary list (menu). Primary entries come first; secondary entries follow unless
// their (normalized name, recipe id) key is already present. Names are emitted normalized and
// entries whose name normalizes to "" are skipped.
func Merge(primary, secondary []entity.FoodItem) []entity.FoodItem {
	out := make([]entity.FoodItem, 0, len(primary)+len(secondary))
	seen := make(map[Key]struct{}, len(primary)+len(secondary))

	add := func(list []entity.FoodItem) {
		for _, it := range list {
			k := KeyOf(it)
			if k.Name == "" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, entity.FoodItem{Name: k.Name, RecipeID: k.RecipeID})
		}
	}
	add(primary)
	add(secondary)
	return out
}
