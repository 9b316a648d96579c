package entity

// FoodItem is a menu item name with an optional recipe catalog code.
type FoodItem struct {
	Name     string `json:"Item"`
	RecipeID string `json:"RecipeId,omitempty"` // empty means absent
}

// HasRecipeID reports whether a recipe catalog code was found for the item.
func (f FoodItem) HasRecipeID() bool {
	return f.RecipeID != ""
}
