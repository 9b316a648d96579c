package nutrition

import (
	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/items"
)

type cacheEntry struct {
	nutrients entity.Nutrients
	status    constants.LookupStatus
}

// Cache holds one remote lookup result per normalized item name for the life of the process.
// Empty results are cached too, so a name is never looked up twice. Not safe for concurrent use.
type Cache struct {
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

func (c *Cache) Get(name string) (entity.Nutrients, constants.LookupStatus, bool) {
	e, ok := c.entries[items.Normalize(name)]
	if !ok {
		return nil, "", false
	}
	return e.nutrients, e.status, true
}

func (c *Cache) Put(name string, n entity.Nutrients, status constants.LookupStatus) {
	if n == nil {
		n = entity.NewNutrients()
	}
	c.entries[items.Normalize(name)] = cacheEntry{nutrients: n.Clone(), status: status}
}

func (c *Cache) Len() int {
	return len(c.entries)
}
