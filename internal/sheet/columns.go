package sheet

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/menu-builder/internal/common"
)

// ItemColumnCandidates are tried in order when no item column is named explicitly.
var ItemColumnCandidates = []string{"item", "item name", "food", "name"}

// DetectItemColumn returns the index of the item-name column. An explicit name must exist.
func DetectItemColumn(t *Table, explicit string) (int, error) {
	if strings.TrimSpace(explicit) != "" {
		if i := t.Column(explicit); i >= 0 {
			return i, nil
		}
		return -1, common.NewAppError(common.CodeInput,
			fmt.Sprintf("item column %q not found in header %v", explicit, t.Header), common.ErrInvalidInput)
	}
	for _, c := range ItemColumnCandidates {
		if i := t.Column(c); i >= 0 {
			return i, nil
		}
	}
	return -1, common.NewAppError(common.CodeInput,
		fmt.Sprintf("could not detect an item column (tried %s); name it explicitly", strings.Join(ItemColumnCandidates, ", ")),
		common.ErrInvalidInput)
}
