package constants

import "strings"

const (
	PDF  = "PDF"
	XLSX = "XLSX"
	CSV  = "CSV"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for a (normalized or raw) extension, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "xlsx", "xlsm":
		return XLSX
	case "csv":
		return CSV
	default:
		return ""
	}
}
