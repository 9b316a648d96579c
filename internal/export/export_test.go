package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

func f64(v float64) *float64 { return &v }
func str(s string) *string { return &s }

func sampleRows() []entity.MenuRow {
	return []entity.MenuRow{
		{
			MenuDate: "2025-10-01", Meal: "Lunch", Item: "Roasted Red Potatoes",
			Calories: f64(89), Fiber: f64(3.2),
			Source: constants.ProvenanceUSDA, RecipeID: str("A1234"),
		},
		{
			MenuDate: "2025-10-01", Meal: "Lunch", Item: "Green Beans, Steamed",
			Source: constants.ProvenanceUSDA,
		},
	}
}

const wantHeader = "MenuDate,Meal,Item,Calories,Protein_g,Carbs_g,Fat_g,Fiber_g,Sodium_mg,Sugar_g,Source,RecipeId"

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := wantHeader + "\n" +
		"2025-10-01,Lunch,Roasted Red Potatoes,89,,,,3.2,,,USDA,A1234\n" +
		"2025-10-01,Lunch,\"Green Beans, Steamed\",,,,,,,,USDA,\n"
	if buf.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestMarshalRowsUsesNullForUnknown(t *testing.T) {
	b, err := MarshalRows(sampleRows())
	if err != nil {
		t.Fatalf("MarshalRows: %v", err)
	}
	var recs []map[string]any
	if err := json.Unmarshal(b, &recs); err != nil {
		t.Fatal(err)
	}
	if recs[0]["Fiber_g"] != 3.2 || recs[0]["Sugar_g"] != nil {
		t.Fatalf("record 0 = %v", recs[0])
	}
	if v, present := recs[1]["RecipeId"]; !present || v != nil {
		t.Fatalf("RecipeId must be present and null, got %v (%v)", v, present)
	}
	if !strings.Contains(string(b), "\n  {") {
		t.Fatalf("expected 2-space indentation:\n%s", b)
	}
}

func TestMarshalRowsEmpty(t *testing.T) {
	b, err := MarshalRows(nil)
	if err != nil || strings.TrimSpace(string(b)) != "[]" {
		t.Fatalf("got %q, %v", b, err)
	}
}

func TestSchemaRejectsBadRows(t *testing.T) {
	bad := `[{"MenuDate":"10/01/2025","Meal":"Lunch","Item":"x","Calories":null,"Protein_g":null,"Carbs_g":null,"Fat_g":null,"Fiber_g":null,"Sodium_mg":null,"Sugar_g":null,"Source":"Guess","RecipeId":null}]`
	if err := ValidateJSONAgainstSchema(MenuRowsSchema(), []byte(bad)); err == nil {
		t.Fatal("expected schema violation")
	}
}

func TestAppendMasterCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	rows := sampleRows()

	if err := AppendMasterCSV(path, rows[:1]); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendMasterCSV(path, rows[1:]); err != nil {
		t.Fatalf("second append: %v", err)
	}
	b, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 || lines[0] != wantHeader {
		t.Fatalf("unexpected master file:\n%s", b)
	}
}

func TestAppendMasterCSVHeaderMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	if err := os.WriteFile(path, []byte("Date,Item\n2025-01-01,Soup"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := AppendMasterCSV(path, sampleRows())
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("expected header mismatch, got %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "Date,Item\n2025-01-01,Soup" {
		t.Fatalf("file modified on mismatch: %q", b)
	}
}

func TestRowsXLSX(t *testing.T) {
	b, err := RowsXLSX(sampleRows())
	if err != nil {
		t.Fatalf("RowsXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Menu")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(rows[0], ",") != wantHeader {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][2] != "Roasted Red Potatoes" || rows[1][7] != "3.2" || rows[1][11] != "A1234" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if rows[1][4] != "" {
		t.Fatalf("unknown protein should be blank, got %q", rows[1][4])
	}
}

func TestServiceWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	master := filepath.Join(dir, "..", "master.csv")
	svc := NewService(Options{Dir: dir, XLSX: true, MasterCSV: master}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	p, err := svc.Write("2025-10-01", sampleRows())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, path := range []string{p.CSV, p.JSON, p.XLSX, p.MasterCSV} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output %q: %v", path, err)
		}
	}
	if filepath.Base(p.CSV) != "menu_2025-10-01.csv" || filepath.Base(p.JSON) != "menu_2025-10-01.json" {
		t.Fatalf("unexpected names %+v", p)
	}
}
