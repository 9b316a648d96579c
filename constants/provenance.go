package constants

// Provenance tags which source(s) supplied a row's nutrient values.
type Provenance string

const (
	ProvenanceRecipe Provenance = "Recipe"
	ProvenanceUSDA   Provenance = "USDA"
	ProvenanceMixed  Provenance = "Mixed"
)
