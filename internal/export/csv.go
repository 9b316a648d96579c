package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// ErrHeaderMismatch is returned when appending to a CSV whose header differs from ours.
var ErrHeaderMismatch = errors.New("csv header mismatch")

func rowRecord(r entity.MenuRow) []string {
	rec := []string{r.MenuDate, r.Meal, r.Item}
	for _, f := range constants.NutrientFields() {
		rec = append(rec, formatNumber(r.Value(f)))
	}
	id := ""
	if r.RecipeID != nil {
		id = *r.RecipeID
	}
	return append(rec, string(r.Source), id)
}

// formatNumber renders unknown as an empty cell.
func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteCSV writes rows with the standard header to w.
func WriteCSV(w io.Writer, rows []entity.MenuRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entity.Columns()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(rowRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates (or truncates) path.
func WriteCSVFile(path string, rows []entity.MenuRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// AppendMasterCSV appends rows to a running CSV. A missing or empty file is created with
// the header; an existing header must match exactly.
func AppendMasterCSV(path string, rows []entity.MenuRow) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	header, err := csv.NewReader(f).Read()
	switch {
	case errors.Is(err, io.EOF):
		header = nil
	case err != nil:
		return fmt.Errorf("read master header: %w", err)
	}
	if header != nil {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
		want := entity.Columns()
		if strings.Join(header, ",") != strings.Join(want, ",") {
			return fmt.Errorf("%w: %s has [%s], want [%s]", ErrHeaderMismatch, path,
				strings.Join(header, ","), strings.Join(want, ","))
		}
	}

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if end > 0 {
		if err := ensureTrailingNewline(f, end); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(f)
	if header == nil {
		if err := cw.Write(entity.Columns()); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if err := cw.Write(rowRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ensureTrailingNewline(f *os.File, end int64) error {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, end-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err := f.Write([]byte("\n"))
	return err
}
