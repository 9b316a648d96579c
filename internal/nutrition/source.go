package nutrition

import (
	"context"

	"github.com/joseph-ayodele/menu-builder/internal/fdc"
)

// Source answers remote nutrient lookups. *fdc.Client satisfies it.
type Source interface {
	Lookup(ctx context.Context, name string) fdc.Result
}

var _ Source = (*fdc.Client)(nil)
