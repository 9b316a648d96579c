package constants

import "strings"

// Meal is a meal period. The value is the single-letter code used in document file names.
type Meal string

const (
	Breakfast Meal = "B"
	Lunch     Meal = "L"
	Dinner    Meal = "D"
)

var allMeals = []Meal{Breakfast, Lunch, Dinner}

// AllMeals returns the meal periods in service order.
func AllMeals() []Meal {
	out := make([]Meal, len(allMeals))
	copy(out, allMeals)
	return out
}

// Label is the human-readable name written to output rows.
func (m Meal) Label() string {
	switch m {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	default:
		return string(m)
	}
}

// Canonicalize maps a code or label ("b", "Lunch", "supper") to a Meal.
func Canonicalize(input string) (Meal, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]Meal{
		"brk":    Breakfast,
		"bfast":  Breakfast,
		"noon":   Lunch,
		"supper": Dinner,
		"dnr":    Dinner,
	}
	if m, ok := synonyms[normalized]; ok {
		return m, true
	}

	for _, m := range allMeals {
		if normalized == strings.ToLower(string(m)) || normalized == strings.ToLower(m.Label()) {
			return m, true
		}
	}
	return "", false
}

// DocKind classifies a menu PDF by its file name.
type DocKind string

const (
	DocOutsideMenu DocKind = "OUTSIDE_MENU"
	DocProduction  DocKind = "PRODUCTION"
	DocRecipe      DocKind = "RECIPE"
	DocUnknown     DocKind = "UNKNOWN"
)

// ClassifyDoc inspects a base file name. Order matters: "outsidemenu" wins over "production".
func ClassifyDoc(baseName string) DocKind {
	name := strings.ToLower(baseName)
	switch {
	case strings.Contains(name, "outsidemenu"):
		return DocOutsideMenu
	case strings.Contains(name, "production"):
		return DocProduction
	case strings.Contains(name, "recipe"):
		return DocRecipe
	default:
		return DocUnknown
	}
}
