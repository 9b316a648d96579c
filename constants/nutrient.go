package constants

import "strings"

// NutrientField names one of the fixed nutrient columns.
type NutrientField string

const (
	Calories NutrientField = "Calories"
	Protein  NutrientField = "Protein_g"
	Carbs    NutrientField = "Carbs_g"
	Fat      NutrientField = "Fat_g"
	Fiber    NutrientField = "Fiber_g"
	Sodium   NutrientField = "Sodium_mg"
	Sugar    NutrientField = "Sugar_g"
)

var nutrientFields = []NutrientField{Calories, Protein, Carbs, Fat, Fiber, Sodium, Sugar}

// NutrientFields returns the fixed field set in column order.
func NutrientFields() []NutrientField {
	out := make([]NutrientField, len(nutrientFields))
	copy(out, nutrientFields)
	return out
}

// IsNutrientField reports whether f belongs to the fixed field set.
func IsNutrientField(f NutrientField) bool {
	for _, n := range nutrientFields {
		if n == f {
			return true
		}
	}
	return false
}

// ParseNutrientField matches a column header case-insensitively, with or without the unit
// suffix ("Fiber_g" or "fiber").
func ParseNutrientField(s string) (NutrientField, bool) {
	s = strings.TrimSpace(s)
	for _, n := range nutrientFields {
		short, _, _ := strings.Cut(string(n), "_")
		if strings.EqualFold(string(n), s) || strings.EqualFold(short, s) {
			return n, true
		}
	}
	return "", false
}
