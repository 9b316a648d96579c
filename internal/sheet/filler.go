package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/items"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
)

// DefaultFillFields are filled when none are requested.
var DefaultFillFields = []constants.NutrientField{constants.Fiber, constants.Sodium, constants.Sugar}

type FillOptions struct {
	Sheet      string
	ItemColumn string
	Fields     []constants.NutrientField
	DryRun     bool
}

type FillReport struct {
	Rows         int
	RowsSkipped  int // nothing blank to fill, or no item name
	CellsFilled  int
	AddedColumns []string
	Output       string
}

// Filler completes blank nutrient cells of an existing spreadsheet. Non-blank cells are
// never overwritten.
type Filler struct {
	resolver *nutrition.Resolver
	logger   *slog.Logger
}

func NewFiller(r *nutrition.Resolver, logger *slog.Logger) *Filler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filler{resolver: r, logger: logger}
}

// DefaultOutputPath is "<dir>/<base>_filled<ext>".
func DefaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_filled" + ext
}

// FillFile fills in and writes the result to out (DefaultOutputPath when empty).
// With DryRun nothing is written.
func (f *Filler) FillFile(ctx context.Context, in, out string, opts FillOptions) (FillReport, error) {
	start := time.Now()
	if len(opts.Fields) == 0 {
		opts.Fields = DefaultFillFields
	}
	if out == "" {
		out = DefaultOutputPath(in)
	}

	var (
		rep FillReport
		err error
	)
	switch constants.MapExtToFormat(filepath.Ext(in)) {
	case constants.XLSX:
		rep, err = f.fillXLSX(ctx, in, out, opts)
	case constants.CSV:
		rep, err = f.fillCSV(ctx, in, out, opts)
	default:
		return FillReport{}, common.InputError(in, fmt.Errorf("unsupported spreadsheet extension %q", filepath.Ext(in)))
	}
	if err != nil {
		return rep, err
	}
	if !opts.DryRun {
		rep.Output = out
	}

	f.logger.Info("sheet.fill.ok",
		"input", in,
		"output", rep.Output,
		"dry_run", opts.DryRun,
		"rows", rep.Rows,
		"cells_filled", rep.CellsFilled,
		"rows_skipped", rep.RowsSkipped,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rep, nil
}

// fillTable computes fills for t and reports each one through set (row index into t.Rows).
func (f *Filler) fillTable(ctx context.Context, t *Table, opts FillOptions, set func(r, c int, v float64) error) (FillReport, error) {
	var rep FillReport
	itemCol, err := DetectItemColumn(t, opts.ItemColumn)
	if err != nil {
		return rep, err
	}

	cols := make(map[constants.NutrientField]int, len(opts.Fields))
	for _, fld := range opts.Fields {
		c, added := t.EnsureColumn(string(fld))
		if added {
			rep.AddedColumns = append(rep.AddedColumns, string(fld))
		}
		cols[fld] = c
	}

	// spreadsheet names vary in case; one lookup per case-folded name
	seen := map[string]nutrition.Resolution{}
	for r := range t.Rows {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Rows++
		name := strings.TrimSpace(t.Cell(r, itemCol))
		var blank []constants.NutrientField
		for _, fld := range opts.Fields {
			if strings.TrimSpace(t.Cell(r, cols[fld])) == "" {
				blank = append(blank, fld)
			}
		}
		if name == "" || len(blank) == 0 {
			rep.RowsSkipped++
			continue
		}

		key := strings.ToLower(items.Normalize(name))
		res, ok := seen[key]
		if !ok {
			res = f.resolver.Resolve(ctx, entity.FoodItem{Name: name})
			seen[key] = res
		}
		for _, fld := range blank {
			v, ok := res.Nutrients.Get(fld)
			if !ok {
				continue
			}
			if err := set(r, cols[fld], v); err != nil {
				return rep, err
			}
			rep.CellsFilled++
		}
	}
	return rep, nil
}

func (f *Filler) fillXLSX(ctx context.Context, in, out string, opts FillOptions) (FillReport, error) {
	wb, err := excelize.OpenFile(in)
	if err != nil {
		return FillReport{}, common.InputError(in, err)
	}
	defer func() { _ = wb.Close() }()

	sheet, err := pickSheet(wb, opts.Sheet)
	if err != nil {
		return FillReport{}, common.InputError(in, err)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return FillReport{}, common.InputError(in, err)
	}
	t, err := fromRows(sheet, rows)
	if err != nil {
		return FillReport{}, common.InputError(in, err)
	}
	width := len(t.Header)

	rep, err := f.fillTable(ctx, t, opts, func(r, c int, v float64) error {
		t.Set(r, c, FormatAmount(v))
		cell, err := excelize.CoordinatesToCellName(c+1, r+2)
		if err != nil {
			return err
		}
		return wb.SetCellValue(sheet, cell, v)
	})
	if err != nil {
		return rep, err
	}
	for c := width; c < len(t.Header); c++ {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return rep, err
		}
		if err := wb.SetCellValue(sheet, cell, t.Header[c]); err != nil {
			return rep, err
		}
	}

	if opts.DryRun {
		return rep, nil
	}
	if err := wb.SaveAs(out); err != nil {
		return rep, common.NewAppError(common.CodeOutput, fmt.Sprintf("write %q", out), err)
	}
	return rep, nil
}

func (f *Filler) fillCSV(ctx context.Context, in, out string, opts FillOptions) (FillReport, error) {
	t, err := ReadFile(in, "")
	if err != nil {
		return FillReport{}, err
	}
	rep, err := f.fillTable(ctx, t, opts, func(r, c int, v float64) error {
		t.Set(r, c, FormatAmount(v))
		return nil
	})
	if err != nil || opts.DryRun {
		return rep, err
	}
	if err := WriteCSV(out, t); err != nil {
		return rep, common.NewAppError(common.CodeOutput, fmt.Sprintf("write %q", out), err)
	}
	return rep, nil
}

// WriteCSV writes t with its header. Short rows are padded to the header width.
func WriteCSV(path string, t *Table) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(fh)
	if err := w.Write(t.Header); err != nil {
		_ = fh.Close()
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(t.Header))
		copy(rec, row)
		if len(row) > len(rec) {
			rec = row
		}
		if err := w.Write(rec); err != nil {
			_ = fh.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
