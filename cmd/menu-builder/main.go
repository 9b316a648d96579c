package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/export"
	"github.com/joseph-ayodele/menu-builder/internal/fdc"
	"github.com/joseph-ayodele/menu-builder/internal/ingest"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
	"github.com/joseph-ayodele/menu-builder/internal/ocr"
	"github.com/joseph-ayodele/menu-builder/internal/parse"
	"github.com/joseph-ayodele/menu-builder/internal/pipeline"
	"github.com/joseph-ayodele/menu-builder/internal/repository"
	"github.com/joseph-ayodele/menu-builder/internal/sheet"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	var (
		date       = flag.String("date", "", "menu date YYYY-MM-DD (required)")
		pdfDir     = flag.String("pdf-dir", "", "folder containing the day's menu PDFs (required)")
		out        = flag.String("out", cfg.Output.Dir, "output folder")
		appendCSV  = flag.String("append-csv", cfg.Master.CSVPath, "append rows to this master CSV")
		masterDSN  = flag.String("master-dsn", cfg.Master.DSN, "append rows to a master table (SQLite path or postgres:// URL)")
		recipes    = flag.String("recipe-nutrition", "", "spreadsheet of locally known nutrients (xlsx or csv)")
		rulesPath  = flag.String("rules", cfg.Parse.RulesPath, "YAML file overriding parser keyword lists")
		xlsx       = flag.Bool("xlsx", cfg.Output.XLSX, "also write menu_<date>.xlsx")
		mealsFlag  = flag.String("meals", "B,L,D", "comma-separated meals to process")
		extraItems = flag.String("extra-items", "", "spreadsheet of additional items for --extra-meal")
		extraMeal  = flag.String("extra-meal", "", "meal the --extra-items belong to (B, L, D or a name)")
		recursive  = flag.Bool("recursive", false, "also search subfolders of --pdf-dir")
	)
	flag.Parse()

	if *date == "" || *pdfDir == "" {
		printError("Error: --date and --pdf-dir are required\n")
		flag.Usage()
		os.Exit(1)
	}

	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	v := common.NewValidator()
	v.Field("--date", *date, common.Required, common.Date)
	v.Field("--pdf-dir", *pdfDir, common.ExistingDir)
	if *recipes != "" {
		v.Field("--recipe-nutrition", *recipes, common.ExistingFile)
	}
	if *extraItems != "" {
		v.Field("--extra-items", *extraItems, common.ExistingFile)
		v.Field("--extra-meal", *extraMeal, common.Required)
	}
	if v.HasErrors() {
		printError("Error: %s\n", v.ErrorMessage())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	meals, err := parseMeals(*mealsFlag)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	runID := common.NewRunID()
	ctx := common.WithRunID(context.Background(), runID)
	logger = logger.With("run_id", runID)
	start := time.Now()

	rules, err := parse.LoadRules(*rulesPath)
	if err != nil {
		logger.Error("failed to load parse rules", "path", *rulesPath, "error", err)
		os.Exit(1)
	}
	parser, err := parse.NewParser(rules, logger)
	if err != nil {
		logger.Error("invalid parse rules", "error", err)
		os.Exit(1)
	}

	var table nutrition.RecipeTable
	if *recipes != "" {
		table, err = sheet.LoadRecipeTable(*recipes, "", "")
		if err != nil {
			logger.Error("failed to load recipe nutrition", "path", *recipes, "error", err)
			os.Exit(1)
		}
		logger.Info("recipe nutrition loaded", "path", *recipes, "items", len(table))
	}

	client := fdc.NewClient(fdc.Config{
		APIKey:   cfg.FDC.APIKey,
		BaseURL:  cfg.FDC.BaseURL,
		PageSize: cfg.FDC.PageSize,
		Timeout:  cfg.FDC.Timeout,
	}, logger)
	if !client.HasKey() {
		logger.Warn("USDA_API_KEY not set; nutrient values not in the recipe table will be left blank")
	}
	resolver := nutrition.NewResolver(client, table,
		nutrition.WithDelay(cfg.FDC.Delay),
		nutrition.WithLogger(logger),
	)

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:      cfg.OCR.Pdftotext,
		Pdftoppm:       cfg.OCR.Pdftoppm,
		Tesseract:      cfg.OCR.Tesseract,
		TessdataDir:    cfg.OCR.TessdataDir,
		DPI:            cfg.OCR.DPI,
		MaxPages:       cfg.OCR.MaxPages,
		EnableFallback: cfg.OCR.EnableFallback,
	}, logger)

	scanner := ingest.NewScanner(logger)
	scanner.Recursive = *recursive

	p := pipeline.NewProcessor(logger, scanner, pipeline.NewExtractStage(extractor, logger), parser, resolver)

	if *extraItems != "" {
		meal, ok := constants.Canonicalize(*extraMeal)
		if !ok {
			printError("Error: unknown --extra-meal %q\n", *extraMeal)
			os.Exit(1)
		}
		list, err := sheet.ReadItems(*extraItems, "", "")
		if err != nil {
			logger.Error("failed to read extra items", "path", *extraItems, "error", err)
			os.Exit(1)
		}
		p.ExtraItems = map[constants.Meal][]entity.FoodItem{meal: list}
	}

	res, err := p.RunMeals(ctx, *date, *pdfDir, meals)
	if err != nil {
		logger.Error("menu build failed", "error", err)
		os.Exit(1)
	}

	paths, err := export.NewService(export.Options{
		Dir:       *out,
		XLSX:      *xlsx,
		MasterCSV: *appendCSV,
	}, logger).Write(*date, res.Rows)
	if err != nil {
		logger.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}

	if *masterDSN != "" {
		if err := appendMaster(ctx, *masterDSN, runID, res.Rows, logger); err != nil {
			logger.Error("failed to append to master table", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Wrote %s\nWrote %s\n", paths.CSV, paths.JSON)
	if paths.XLSX != "" {
		fmt.Printf("Wrote %s\n", paths.XLSX)
	}
	if paths.MasterCSV != "" {
		fmt.Printf("Appended to master CSV: %s\n", paths.MasterCSV)
	}
	fmt.Printf("Rows: %d\n", len(res.Rows))

	logger.Info("menu build complete",
		"date", *date,
		"rows", len(res.Rows),
		"lookups", res.Stats.Misses,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func parseMeals(s string) ([]constants.Meal, error) {
	var out []constants.Meal
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, ok := constants.Canonicalize(part)
		if !ok {
			return nil, fmt.Errorf("unknown meal %q", part)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no meals selected")
	}
	return out, nil
}

func appendMaster(ctx context.Context, dsn, runID string, rows []entity.MenuRow, logger *slog.Logger) error {
	ctx, cancel := common.WithTimeout(ctx, time.Minute)
	defer cancel()

	repo, err := repository.OpenMaster(ctx, dsn, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close master table", "error", err)
		}
	}()

	if _, err := repo.AppendRows(ctx, runID, rows); err != nil {
		return common.WrapError(err, "append master rows")
	}
	return nil
}
