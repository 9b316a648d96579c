package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/menu-builder/constants"
)

// FormatOf maps a path to its document format by extension ("" when unsupported).
func FormatOf(path string) string {
	return constants.MapExtToFormat(filepath.Ext(path))
}

// IsHidden reports dotfiles and Office lock files ("~$menu.xlsx").
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}
