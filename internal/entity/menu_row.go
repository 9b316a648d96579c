package entity

import "github.com/joseph-ayodele/menu-builder/constants"

// MenuRow is one output record: an item served at a meal with its resolved nutrients.
type MenuRow struct {
	MenuDate string               `json:"MenuDate"`
	Meal     string               `json:"Meal"`
	Item     string               `json:"Item"`
	Calories *float64             `json:"Calories"`
	Protein  *float64             `json:"Protein_g"`
	Carbs    *float64             `json:"Carbs_g"`
	Fat      *float64             `json:"Fat_g"`
	Fiber    *float64             `json:"Fiber_g"`
	Sodium   *float64             `json:"Sodium_mg"`
	Sugar    *float64             `json:"Sugar_g"`
	Source   constants.Provenance `json:"Source"`
	RecipeID *string              `json:"RecipeId"`
}

// Columns is the output column order shared by every tabular writer.
func Columns() []string {
	cols := []string{"MenuDate", "Meal", "Item"}
	for _, f := range constants.NutrientFields() {
		cols = append(cols, string(f))
	}
	return append(cols, "Source", "RecipeId")
}

// SetNutrients flattens a record into the row's nutrient columns.
func (r *MenuRow) SetNutrients(n Nutrients) {
	r.Calories = n.Ptr(constants.Calories)
	r.Protein = n.Ptr(constants.Protein)
	r.Carbs = n.Ptr(constants.Carbs)
	r.Fat = n.Ptr(constants.Fat)
	r.Fiber = n.Ptr(constants.Fiber)
	r.Sodium = n.Ptr(constants.Sodium)
	r.Sugar = n.Ptr(constants.Sugar)
}

// Value returns the nutrient column for f, nil when unknown.
func (r MenuRow) Value(f constants.NutrientField) *float64 {
	switch f {
	case constants.Calories:
		return r.Calories
	case constants.Protein:
		return r.Protein
	case constants.Carbs:
		return r.Carbs
	case constants.Fat:
		return r.Fat
	case constants.Fiber:
		return r.Fiber
	case constants.Sodium:
		return r.Sodium
	case constants.Sugar:
		return r.Sugar
	}
	return nil
}

// Nutrients rebuilds the record from the row's columns.
func (r MenuRow) Nutrients() Nutrients {
	n := NewNutrients()
	for _, f := range constants.NutrientFields() {
		if v := r.Value(f); v != nil {
			n.Set(f, *v)
		}
	}
	return n
}
