package nutrition

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/fdc"
)

// Resolution is the nutrient record chosen for one item.
type Resolution struct {
	Nutrients  entity.Nutrients
	Provenance constants.Provenance
	// Outcome of the remote step; LookupSkipped when the recipe table covered every field.
	Outcome constants.LookupStatus
}

// Stats counts cache behavior and remote outcomes across a run.
type Stats struct {
	Items    int
	Hits     int
	Misses   int
	Outcomes map[constants.LookupStatus]int
}

// Resolver fills each item's record from the recipe table first, then from the remote
// source through the cache.
type Resolver struct {
	source Source
	table  RecipeTable
	cache  *Cache
	delay  time.Duration
	sleep  func(time.Duration)
	logger *slog.Logger
	stats  Stats
}

type Option func(*Resolver)

// WithDelay sets the pause after each remote lookup (cache misses only).
func WithDelay(d time.Duration) Option {
	return func(r *Resolver) { r.delay = d }
}

// WithSleep replaces time.Sleep, mainly for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(r *Resolver) { r.sleep = fn }
}

func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver builds a resolver. source may be nil, in which case unknown fields stay unknown
// and the remote outcome is reported as FAILED.
func NewResolver(source Source, table RecipeTable, opts ...Option) *Resolver {
	r := &Resolver{
		source: source,
		table:  table,
		sleep:  time.Sleep,
		logger: slog.Default(),
		stats:  Stats{Outcomes: make(map[constants.LookupStatus]int)},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	return r
}

// Resolve determines the record for one item.
func (r *Resolver) Resolve(ctx context.Context, item entity.FoodItem) Resolution {
	r.stats.Items++
	rec := entity.NewNutrients()
	recipeFilled, remoteFilled := 0, 0

	if local, ok := r.table.Lookup(item.Name); ok {
		for _, f := range constants.NutrientFields() {
			if v, ok := local.Get(f); ok {
				rec.Set(f, v)
				recipeFilled++
			}
		}
	}

	outcome := constants.LookupSkipped
	if !rec.Complete() {
		remote, status := r.remote(ctx, item.Name)
		outcome = status
		for _, f := range rec.Missing() {
			if v, ok := remote.Get(f); ok {
				rec.Set(f, v)
				remoteFilled++
			}
		}
	}
	r.stats.Outcomes[outcome]++

	return Resolution{
		Nutrients:  rec,
		Provenance: provenance(recipeFilled, remoteFilled),
		Outcome:    outcome,
	}
}

// ResolveAll resolves items in order; the result is index-aligned with items.
func (r *Resolver) ResolveAll(ctx context.Context, list []entity.FoodItem) []Resolution {
	out := make([]Resolution, 0, len(list))
	for _, it := range list {
		out = append(out, r.Resolve(ctx, it))
	}
	return out
}

func (r *Resolver) remote(ctx context.Context, name string) (entity.Nutrients, constants.LookupStatus) {
	if n, status, ok := r.cache.Get(name); ok {
		r.stats.Hits++
		r.logger.Debug("nutrition.cache.hit", "item", name, "status", status)
		return n, status
	}
	r.stats.Misses++

	if r.source == nil {
		r.cache.Put(name, nil, constants.LookupFailed)
		return entity.NewNutrients(), constants.LookupFailed
	}

	res := r.source.Lookup(ctx, name)
	r.cache.Put(name, res.Nutrients, res.Status)
	if res.Status != constants.LookupFound {
		r.logger.Info("nutrition.remote.unresolved",
			"run_id", common.RunIDFromContext(ctx),
			"meal", common.MealFromContext(ctx),
			"item", name,
			"status", res.Status,
			"error", res.Err,
		)
	}
	// no request went out without a key
	if r.delay > 0 && !errors.Is(res.Err, fdc.ErrMissingAPIKey) {
		r.sleep(r.delay)
	}
	n, _, _ := r.cache.Get(name)
	return n, res.Status
}

// Stats returns a snapshot of the counters.
func (r *Resolver) Stats() Stats {
	s := r.stats
	s.Outcomes = make(map[constants.LookupStatus]int, len(r.stats.Outcomes))
	for k, v := range r.stats.Outcomes {
		s.Outcomes[k] = v
	}
	return s
}

// provenance tags the record by where its resolved fields came from.
// A record with nothing resolved is tagged USDA: the remote source was the last one consulted.
func provenance(recipeFilled, remoteFilled int) constants.Provenance {
	switch {
	case recipeFilled > 0 && remoteFilled == 0:
		return constants.ProvenanceRecipe
	case recipeFilled == 0:
		return constants.ProvenanceUSDA
	default:
		return constants.ProvenanceMixed
	}
}
