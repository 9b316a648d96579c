package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/fdc"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
	"github.com/joseph-ayodele/menu-builder/internal/sheet"
)

func main() {
	cfg := common.LoadConfig()

	var (
		sheetName = flag.String("sheet", "", "sheet name (default: first sheet)")
		itemCol   = flag.String("item-col", "", "item name column (default: auto-detect item, item name, food, name)")
		fields    = flag.String("fields", "Fiber_g,Sodium_mg,Sugar_g", "comma-separated nutrient columns to fill")
		out       = flag.String("out", "", "output path (default: <input>_filled.<ext>)")
		delay     = flag.Duration("delay", cfg.FDC.Delay, "pause after each remote lookup")
		dryRun    = flag.Bool("dry-run", false, "report what would be filled without writing")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fill-nutrients [flags] <menu.xlsx|menu.csv>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	in := flag.Arg(0)

	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.RequireAPIKey(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: USDA_API_KEY is not set (export it or add it to .env)")
		os.Exit(1)
	}

	selected, err := parseFields(*fields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := fdc.NewClient(fdc.Config{
		APIKey:   cfg.FDC.APIKey,
		BaseURL:  cfg.FDC.BaseURL,
		PageSize: cfg.FDC.PageSize,
		Timeout:  cfg.FDC.Timeout,
	}, logger)
	resolver := nutrition.NewResolver(client, nil,
		nutrition.WithDelay(*delay),
		nutrition.WithLogger(logger),
	)

	filler := sheet.NewFiller(resolver, logger)
	rep, err := filler.FillFile(context.Background(), in, *out, sheet.FillOptions{
		Sheet:      *sheetName,
		ItemColumn: *itemCol,
		Fields:     selected,
		DryRun:     *dryRun,
	})
	if err != nil {
		if common.IsInputError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Error("fill failed", "input", in, "error", err)
		os.Exit(1)
	}

	stats := resolver.Stats()
	if *dryRun {
		fmt.Printf("[dry-run] would fill %d cells across %d rows\n", rep.CellsFilled, rep.Rows)
	} else {
		fmt.Printf("Filled %d cells; wrote %s\n", rep.CellsFilled, rep.Output)
	}
	fmt.Printf("Lookups: %d (not found: %d, failed: %d)\n",
		stats.Misses, stats.Outcomes[constants.LookupNotFound], stats.Outcomes[constants.LookupFailed])
}

func parseFields(s string) ([]constants.NutrientField, error) {
	var out []constants.NutrientField
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, ok := constants.ParseNutrientField(part)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient field %q", part)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no fields selected")
	}
	return out, nil
}
