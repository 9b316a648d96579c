package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/ingest"
	"github.com/joseph-ayodele/menu-builder/internal/items"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
	"github.com/joseph-ayodele/menu-builder/internal/parse"
	"github.com/joseph-ayodele/menu-builder/internal/table"
)

// MealResult summarizes one meal of a run.
type MealResult struct {
	Meal            constants.Meal
	Documents       int
	MenuItems       int
	ProductionItems int
	Rows            []entity.MenuRow
}

// RunResult holds every row of a run in meal order.
type RunResult struct {
	Date  string
	Meals []MealResult
	Rows  []entity.MenuRow
	Stats nutrition.Stats
}

// Processor coordinates discovery, text extraction, parsing, merging and nutrient
// resolution for each meal of a day.
type Processor struct {
	Scanner  *ingest.Scanner
	Extract  *ExtractStage
	Parser   *parse.Parser
	Resolver *nutrition.Resolver
	Logger   *slog.Logger

	// ExtraItems are merged after the document items of a meal.
	ExtraItems map[constants.Meal][]entity.FoodItem
}

func NewProcessor(logger *slog.Logger, scanner *ingest.Scanner, extract *ExtractStage, parser *parse.Parser, resolver *nutrition.Resolver) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Scanner: scanner, Extract: extract, Parser: parser, Resolver: resolver}
}

// Run processes breakfast, lunch and dinner for date from the PDFs in dir.
func (p *Processor) Run(ctx context.Context, date, dir string) (RunResult, error) {
	return p.RunMeals(ctx, date, dir, constants.AllMeals())
}

func (p *Processor) RunMeals(ctx context.Context, date, dir string, meals []constants.Meal) (RunResult, error) {
	start := time.Now()
	res := RunResult{Date: date}

	docs, _, err := p.Scanner.Scan(dir, "")
	if err != nil {
		return res, common.InputError(dir, err)
	}
	if bad := ingest.Unreadable(docs, meals); len(bad) > 0 {
		for _, d := range bad {
			p.Logger.Error("pipeline.document.unreadable", "path", d.Path, "meal", string(d.Meal), "error", d.Err)
		}
		return res, common.InputError(bad[0].Path, errors.New(bad[0].Err))
	}

	for _, meal := range meals {
		mr, err := p.runMeal(common.WithMeal(ctx, meal.Label()), date, ingest.Group(meal, docs))
		if err != nil {
			return res, err
		}
		res.Meals = append(res.Meals, mr)
		res.Rows = append(res.Rows, mr.Rows...)
	}
	res.Stats = p.Resolver.Stats()

	p.Logger.Info("pipeline.run.ok",
		"run_id", common.RunIDFromContext(ctx),
		"date", date,
		"rows", len(res.Rows),
		"cache_hits", res.Stats.Hits,
		"cache_misses", res.Stats.Misses,
		"not_found", res.Stats.Outcomes[constants.LookupNotFound],
		"failed", res.Stats.Outcomes[constants.LookupFailed],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) runMeal(ctx context.Context, date string, group ingest.MealDocuments) (MealResult, error) {
	start := time.Now()
	mr := MealResult{Meal: group.Meal, Documents: len(group.OutsideMenu) + len(group.Production)}

	if len(group.Recipe) > 0 {
		p.Logger.Debug("pipeline.meal.recipe_docs_ignored", "meal", group.Meal, "count", len(group.Recipe))
	}
	for _, d := range group.Unknown {
		p.Logger.Warn("pipeline.meal.unclassified_doc", "meal", group.Meal, "path", d.Path)
	}

	menuText, err := p.Extract.Run(ctx, group.OutsideMenu)
	if err != nil {
		return mr, err
	}
	prodText, err := p.Extract.Run(ctx, group.Production)
	if err != nil {
		return mr, err
	}

	menuItems := p.Parser.ParseMenu(menuText)
	prodItems := p.Parser.ParseProduction(prodText)
	mr.MenuItems, mr.ProductionItems = len(menuItems), len(prodItems)

	// production schedule spelling and recipe ids win over the menu
	merged := items.Merge(prodItems, menuItems)
	if extra := p.ExtraItems[group.Meal]; len(extra) > 0 {
		merged = items.Merge(merged, extra)
	}

	mr.Rows = table.BuildMeal(ctx, date, group.Meal, merged, p.Resolver)

	p.Logger.Info("pipeline.meal.ok",
		"meal", group.Meal.Label(),
		"documents", mr.Documents,
		"menu_items", mr.MenuItems,
		"production_items", mr.ProductionItems,
		"rows", len(mr.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return mr, nil
}
