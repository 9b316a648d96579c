package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/ocr"
	"github.com/joseph-ayodele/menu-builder/internal/parse"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage", "cmd", "extract-text <file.pdf> [menu|production]")
		os.Exit(2)
	}
	path := os.Args[1]
	mode := ""
	if len(os.Args) >= 3 {
		mode = os.Args[2]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	x := ocr.NewExtractor(ocr.Config{
		Pdftotext:      cfg.OCR.Pdftotext,
		Pdftoppm:       cfg.OCR.Pdftoppm,
		Tesseract:      cfg.OCR.Tesseract,
		TessdataDir:    cfg.OCR.TessdataDir,
		DPI:            cfg.OCR.DPI,
		MaxPages:       cfg.OCR.MaxPages,
		EnableFallback: cfg.OCR.EnableFallback,
	}, logger)

	res, err := x.Extract(ctx, path)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err, "warnings", res.Warnings)
		os.Exit(1)
	}

	if mode == "" {
		fmt.Println(res.Text)
		return
	}

	rules, err := parse.LoadRules(cfg.Parse.RulesPath)
	if err != nil {
		logger.Error("failed to load parse rules", "error", err)
		os.Exit(1)
	}
	parser, err := parse.NewParser(rules, logger)
	if err != nil {
		logger.Error("invalid parse rules", "error", err)
		os.Exit(1)
	}

	kind := constants.ClassifyDoc(path)
	switch {
	case mode == "production" || (mode == "auto" && kind == constants.DocProduction):
		for _, it := range parser.ParseProduction(res.Text) {
			fmt.Printf("%s\t%s\n", it.Name, it.RecipeID)
		}
	default:
		for _, it := range parser.ParseMenu(res.Text) {
			fmt.Printf("%s\t%s\n", it.Name, it.RecipeID)
		}
	}
}
