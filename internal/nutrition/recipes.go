package nutrition

import "github.com/joseph-ayodele/menu-builder/internal/entity"

// RecipeTable holds locally known nutrient values keyed by exact item name.
// Entries may be partial; missing fields fall through to the remote source.
type RecipeTable map[string]entity.Nutrients

func (t RecipeTable) Lookup(name string) (entity.Nutrients, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t[name]
	return n, ok
}
