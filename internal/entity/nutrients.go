package entity

import "github.com/joseph-ayodele/menu-builder/constants"

// Nutrients maps nutrient fields to amounts. A missing key means unknown, never zero.
type Nutrients map[constants.NutrientField]float64

func NewNutrients() Nutrients {
	return Nutrients{}
}

// Get returns the amount and whether it is known.
func (n Nutrients) Get(f constants.NutrientField) (float64, bool) {
	v, ok := n[f]
	return v, ok
}

// Set records a known amount. Fields outside the fixed set are ignored.
func (n Nutrients) Set(f constants.NutrientField, v float64) {
	if !constants.IsNutrientField(f) {
		return
	}
	n[f] = v
}

// Ptr returns a pointer to a copy of the amount, or nil when unknown.
func (n Nutrients) Ptr(f constants.NutrientField) *float64 {
	v, ok := n[f]
	if !ok {
		return nil
	}
	return &v
}

// Missing lists unknown fields in column order.
func (n Nutrients) Missing() []constants.NutrientField {
	var out []constants.NutrientField
	for _, f := range constants.NutrientFields() {
		if _, ok := n[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

func (n Nutrients) Complete() bool {
	return len(n.Missing()) == 0
}

// Known counts fields with a value.
func (n Nutrients) Known() int {
	c := 0
	for _, f := range constants.NutrientFields() {
		if _, ok := n[f]; ok {
			c++
		}
	}
	return c
}

func (n Nutrients) Clone() Nutrients {
	out := make(Nutrients, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}
