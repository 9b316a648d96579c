package items

import (
	"strings"

	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// Normalize collapses internal whitespace and trims both ends.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Key is the deduplication identity of a FoodItem.
type Key struct {
	Name     string
	RecipeID string
}

// KeyOf returns the (normalized name, recipe id) identity of an item.
func KeyOf(it entity.FoodItem) Key {
	return Key{Name: Normalize(it.Name), RecipeID: strings.TrimSpace(it.RecipeID)}
}

// Dedupe keeps the first occurrence of every key, preserving order.
func Dedupe(list []entity.FoodItem) []entity.FoodItem {
	seen := make(map[Key]struct{}, len(list))
	out := make([]entity.FoodItem, 0, len(list))
	for _, it := range list {
		k := KeyOf(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
