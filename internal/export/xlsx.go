package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

const menuSheet = "Menu"

// RowsXLSX returns a workbook (as bytes) with one sheet of menu rows. Unknown nutrients are
// left as empty cells.
func RowsXLSX(rows []entity.MenuRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", menuSheet); err != nil {
		return nil, err
	}

	for i, h := range entity.Columns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(menuSheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(menuSheet, cell, v)
		}

		write(1, r.MenuDate)
		write(2, r.Meal)
		write(3, r.Item)
		for j, fld := range constants.NutrientFields() {
			if v := r.Value(fld); v != nil {
				write(4+j, *v)
			}
		}
		col := 4 + len(constants.NutrientFields())
		write(col, string(r.Source))
		if r.RecipeID != nil {
			write(col+1, *r.RecipeID)
		}
	}

	_ = f.SetColWidth(menuSheet, "A", "B", 12) // date, meal
	_ = f.SetColWidth(menuSheet, "C", "C", 40) // item
	_ = f.SetColWidth(menuSheet, "D", "J", 11) // nutrients
	_ = f.SetColWidth(menuSheet, "K", "L", 10) // source, recipe id
	_ = f.SetPanes(menuSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
