package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joseph-ayodele/menu-builder/internal/entity"
)

// MarshalRows renders the records file: a 2-space indented array with null for unknown.
// The output is checked against MenuRowsSchema before it is returned.
func MarshalRows(rows []entity.MenuRow) ([]byte, error) {
	if rows == nil {
		rows = []entity.MenuRow{}
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}
	if err := ValidateJSONAgainstSchema(MenuRowsSchema(), b); err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func WriteJSONFile(path string, rows []entity.MenuRow) error {
	b, err := MarshalRows(rows)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
