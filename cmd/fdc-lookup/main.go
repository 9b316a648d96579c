package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/fdc"
	"github.com/joseph-ayodele/menu-builder/internal/sheet"
)

type output struct {
	Query       string              `json:"query"`
	Status      string              `json:"status"`
	FdcID       int64               `json:"fdcId,omitempty"`
	Description string              `json:"description,omitempty"`
	DataType    string              `json:"dataType,omitempty"`
	Nutrients   map[string]*float64 `json:"nutrients"`
	Error       string              `json:"error,omitempty"`
}

func main() {
	cfg := common.LoadConfig()

	var (
		file    = flag.String("file", "", "look up every item of this spreadsheet instead of the arguments")
		itemCol = flag.String("item-col", "", "item column for --file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fdc-lookup [--file items.xlsx] <food name>...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	queries := flag.Args()
	if *file != "" {
		list, err := sheet.ReadItems(*file, "", *itemCol)
		if err != nil {
			logger.Error("failed to read items", "path", *file, "error", err)
			os.Exit(1)
		}
		for _, it := range list {
			queries = append(queries, it.Name)
		}
	}
	if len(queries) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		logger.Error("USDA_API_KEY env var is required")
		os.Exit(2)
	}

	client := fdc.NewClient(fdc.Config{
		APIKey:   cfg.FDC.APIKey,
		BaseURL:  cfg.FDC.BaseURL,
		PageSize: cfg.FDC.PageSize,
		Timeout:  cfg.FDC.Timeout,
	}, logger)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	failed := 0
	for i, q := range queries {
		if i > 0 && cfg.FDC.Delay > 0 {
			time.Sleep(cfg.FDC.Delay)
		}
		res := client.Lookup(context.Background(), strings.TrimSpace(q))
		if res.Status == constants.LookupFailed {
			failed++
		}
		if err := enc.Encode(toOutput(q, res)); err != nil {
			logger.Error("failed to write result", "error", err)
			os.Exit(1)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func toOutput(q string, res fdc.Result) output {
	o := output{
		Query:       q,
		Status:      string(res.Status),
		FdcID:       res.FdcID,
		Description: res.Description,
		DataType:    res.DataType,
		Nutrients:   map[string]*float64{},
	}
	n := res.Nutrients
	if n == nil {
		n = entity.NewNutrients()
	}
	for _, f := range constants.NutrientFields() {
		o.Nutrients[string(f)] = n.Ptr(f)
	}
	if res.Err != nil {
		o.Error = res.Err.Error()
	}
	return o
}
