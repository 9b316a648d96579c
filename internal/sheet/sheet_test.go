package sheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/fdc"
	"github.com/joseph-ayodele/menu-builder/internal/nutrition"
)

type stubSource struct {
	data  map[string]entity.Nutrients
	calls int
}

func (s *stubSource) Lookup(_ context.Context, name string) fdc.Result {
	s.calls++
	if n, ok := s.data[name]; ok {
		return fdc.Result{Status: constants.LookupFound, Nutrients: n.Clone()}
	}
	return fdc.Result{Status: constants.LookupNotFound, Nutrients: entity.NewNutrients()}
}

func rec(kv ...any) entity.Nutrients {
	n := entity.NewNutrients()
	for i := 0; i+1 < len(kv); i += 2 {
		n.Set(kv[i].(constants.NutrientField), kv[i+1].(float64))
	}
	return n
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func writeXLSX(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestDetectItemColumn(t *testing.T) {
	cases := []struct {
		header   []string
		explicit string
		want     int
		wantErr  bool
	}{
		{[]string{"Date", "Item Name", "Calories"}, "", 1, false},
		{[]string{"FOOD", "Name"}, "", 0, false},
		{[]string{"Dish"}, "", -1, true},
		{[]string{"Dish", "Item"}, "dish", 0, false},
		{[]string{"Dish"}, "Item", -1, true},
	}
	for _, tc := range cases {
		got, err := DetectItemColumn(&Table{Header: tc.header}, tc.explicit)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("DetectItemColumn(%v, %q) = %d, %v", tc.header, tc.explicit, got, err)
		}
	}
}

func TestReadFileRejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "menu.xlsx")
	if err := os.WriteFile(bad, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(bad, "")
	if !common.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
	if _, err := ReadFile(filepath.Join(dir, "menu.txt"), ""); !common.IsInputError(err) {
		t.Fatalf("expected input error for unsupported extension, got %v", err)
	}
}

func TestFillXLSXOnlyBlankCells(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "menu.xlsx")
	writeXLSX(t, in, [][]any{
		{"Item", "Fiber_g", "Sodium_mg"},
		{"Roasted Red Potatoes", "", 55},
		{"Green Beans", 9.9, 1},
		{"", "", ""},
		{"Roasted Red Potatoes", "", ""},
	})

	src := &stubSource{data: map[string]entity.Nutrients{
		"Roasted Red Potatoes": rec(constants.Fiber, 3.2, constants.Sodium, 12.0),
	}}
	filler := NewFiller(nutrition.NewResolver(src, nil, nutrition.WithLogger(discard())), discard())

	rep, err := filler.FillFile(context.Background(), in, "", FillOptions{})
	if err != nil {
		t.Fatalf("FillFile: %v", err)
	}
	if rep.Output != filepath.Join(dir, "menu_filled.xlsx") {
		t.Fatalf("output = %q", rep.Output)
	}
	if rep.CellsFilled != 3 || rep.RowsSkipped != 1 || rep.Rows != 4 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if len(rep.AddedColumns) != 1 || rep.AddedColumns[0] != "Sugar_g" {
		t.Fatalf("added columns = %v", rep.AddedColumns)
	}
	// potatoes once (second row is a cache hit), green beans once for its blank sugar
	if src.calls != 2 {
		t.Fatalf("expected 2 lookups, got %d", src.calls)
	}

	out, err := ReadFile(rep.Output, "")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Join(out.Header, ",") != "Item,Fiber_g,Sodium_mg,Sugar_g" {
		t.Fatalf("header = %v", out.Header)
	}
	if out.Cell(0, 1) != "3.2" || out.Cell(0, 2) != "55" {
		t.Fatalf("row 0 = %v", out.Rows[0])
	}
	if out.Cell(1, 1) != "9.9" {
		t.Fatalf("existing value overwritten: %v", out.Rows[1])
	}
	if out.Cell(3, 1) != "3.2" || out.Cell(3, 2) != "12" || out.Cell(3, 3) != "" {
		t.Fatalf("row 3 = %v", out.Rows[3])
	}
}

func TestFillDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "menu.csv")
	if err := os.WriteFile(in, []byte("food,Calories\nOatmeal,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := &stubSource{data: map[string]entity.Nutrients{"Oatmeal": rec(constants.Calories, 150.0)}}
	filler := NewFiller(nutrition.NewResolver(src, nil, nutrition.WithLogger(discard())), discard())

	rep, err := filler.FillFile(context.Background(), in, "", FillOptions{
		Fields: []constants.NutrientField{constants.Calories},
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("FillFile: %v", err)
	}
	if rep.CellsFilled != 1 || rep.Output != "" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if _, err := os.Stat(DefaultOutputPath(in)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run wrote output: %v", err)
	}
}

func TestFillCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "menu.csv")
	out := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(in, []byte("name,Sugar_g\nApple Crisp,\nApple Crisp,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := &stubSource{data: map[string]entity.Nutrients{"Apple Crisp": rec(constants.Sugar, 21.5)}}
	filler := NewFiller(nutrition.NewResolver(src, nil, nutrition.WithLogger(discard())), discard())

	if _, err := filler.FillFile(context.Background(), in, out, FillOptions{Fields: []constants.NutrientField{constants.Sugar}}); err != nil {
		t.Fatalf("FillFile: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "name,Sugar_g\nApple Crisp,21.5\nApple Crisp,4\n"
	if string(b) != want {
		t.Fatalf("got %q, want %q", b, want)
	}
}

func TestFillLooksUpEachNameOnceIgnoringCase(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "menu.csv")
	out := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(in, []byte("item,Fiber_g\nGreen Beans,\ngreen  beans,\nGREEN BEANS,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := &stubSource{data: map[string]entity.Nutrients{"Green Beans": rec(constants.Fiber, 3.0)}}
	filler := NewFiller(nutrition.NewResolver(src, nil, nutrition.WithLogger(discard())), discard())

	rep, err := filler.FillFile(context.Background(), in, out, FillOptions{Fields: []constants.NutrientField{constants.Fiber}})
	if err != nil {
		t.Fatalf("FillFile: %v", err)
	}
	if src.calls != 1 || rep.CellsFilled != 3 {
		t.Fatalf("calls=%d filled=%d", src.calls, rep.CellsFilled)
	}
}

func TestLoadRecipeTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.csv")
	csv := "Item,Calories,protein,Fiber_g,Notes\nBeef Stew,310,22,,house\nChili,250,n/a,6,\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadRecipeTable(path, "", "")
	if err != nil {
		t.Fatalf("LoadRecipeTable: %v", err)
	}
	stew, ok := table.Lookup("Beef Stew")
	if !ok {
		t.Fatal("missing Beef Stew")
	}
	if v, _ := stew.Get(constants.Protein); v != 22 {
		t.Fatalf("protein = %v", v)
	}
	if _, ok := stew.Get(constants.Fiber); ok {
		t.Fatal("blank fiber must stay unknown")
	}
	chili, _ := table.Lookup("Chili")
	if _, ok := chili.Get(constants.Protein); ok {
		t.Fatal("non-numeric protein must stay unknown")
	}
	if chili.Known() != 2 {
		t.Fatalf("chili known = %d", chili.Known())
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"310", 310, true},
		{" 1,250.5 ", 1250.5, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-infinity", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseAmount(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLoadRecipeTableNaNIsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.csv")
	if err := os.WriteFile(path, []byte("Item,Fiber_g,Sodium_mg\nChili Mac,nan,inf\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadRecipeTable(path, "", "")
	if err != nil {
		t.Fatalf("LoadRecipeTable: %v", err)
	}
	chili, ok := table.Lookup("Chili Mac")
	if !ok {
		t.Fatal("missing Chili Mac")
	}
	if chili.Known() != 0 {
		t.Fatalf("nan/inf cells must stay unknown, got %v", chili)
	}
}

func TestReadItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.xlsx")
	writeXLSX(t, path, [][]any{
		{"Item Name", "Recipe ID"},
		{"Mac  and Cheese", "A1234"},
		{"Mac and Cheese", "A1234"},
		{"", ""},
		{"Garden Salad", ""},
	})

	list, err := ReadItems(path, "", "")
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 items, got %+v", list)
	}
	if list[0].Name != "Mac and Cheese" || list[0].RecipeID != "A1234" || list[1].HasRecipeID() {
		t.Fatalf("unexpected %+v", list)
	}
}
