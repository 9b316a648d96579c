package ingest

import "github.com/joseph-ayodele/menu-builder/constants"

// Document is a discovered menu PDF.
type Document struct {
	Path         string
	Meal         constants.Meal
	Kind         constants.DocKind
	HashHex      string
	Size         int64
	Deduplicated bool // same content as an earlier document of the same meal
	Err          string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// MealDocuments groups the usable documents for one meal by kind.
type MealDocuments struct {
	Meal        constants.Meal
	OutsideMenu []Document
	Production  []Document
	Recipe      []Document
	Unknown     []Document
}

// Empty reports whether the meal has nothing to parse.
func (m MealDocuments) Empty() bool {
	return len(m.OutsideMenu) == 0 && len(m.Production) == 0
}

// Group sorts documents into kinds, skipping failed and duplicate entries.
func Group(meal constants.Meal, docs []Document) MealDocuments {
	out := MealDocuments{Meal: meal}
	for _, d := range docs {
		if d.Err != "" || d.Deduplicated || d.Meal != meal {
			continue
		}
		switch d.Kind {
		case constants.DocOutsideMenu:
			out.OutsideMenu = append(out.OutsideMenu, d)
		case constants.DocProduction:
			out.Production = append(out.Production, d)
		case constants.DocRecipe:
			out.Recipe = append(out.Recipe, d)
		default:
			out.Unknown = append(out.Unknown, d)
		}
	}
	return out
}

// Unreadable returns the documents of the given meals that could not be read. A failure
// with no meal attached (a directory walk error) counts for every meal.
func Unreadable(docs []Document, meals []constants.Meal) []Document {
	want := make(map[constants.Meal]bool, len(meals))
	for _, m := range meals {
		want[m] = true
	}
	var out []Document
	for _, d := range docs {
		if d.Err != "" && (d.Meal == "" || want[d.Meal]) {
			out = append(out, d)
		}
	}
	return out
}
