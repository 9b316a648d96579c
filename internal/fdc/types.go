package fdc

import "github.com/joseph-ayodele/menu-builder/constants"

// DataType is an FDC record category; the search endpoint accepts one per call.
type DataType string

const (
	Foundation  DataType = "Foundation"
	SRLegacy    DataType = "SR Legacy"
	Branded     DataType = "Branded"
	SurveyFNDDS DataType = "Survey (FNDDS)"
)

// DefaultBuckets is the search priority: institutional data first, then branded, then survey.
var DefaultBuckets = [][]DataType{
	{Foundation, SRLegacy},
	{Branded},
	{SurveyFNDDS},
}

// FDC nutrient identifiers for the fixed field set.
const (
	NutrientIDEnergy       = 1008 // kcal
	NutrientIDProtein      = 1003 // g
	NutrientIDCarbohydrate = 1005 // g
	NutrientIDTotalFat     = 1004 // g
	NutrientIDFiber        = 1079 // g
	NutrientIDSodium       = 1093 // mg
	NutrientIDSugars       = 2000 // g
)

// NutrientIDs maps each output field to its FDC nutrient id.
var NutrientIDs = map[constants.NutrientField]int{
	constants.Calories: NutrientIDEnergy,
	constants.Protein:  NutrientIDProtein,
	constants.Carbs:    NutrientIDCarbohydrate,
	constants.Fat:      NutrientIDTotalFat,
	constants.Fiber:    NutrientIDFiber,
	constants.Sodium:   NutrientIDSodium,
	constants.Sugar:    NutrientIDSugars,
}

// SearchHit is one entry of a foods/search response.
type SearchHit struct {
	FdcID       int64  `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
}

type searchResponse struct {
	TotalHits int         `json:"totalHits"`
	Foods     []SearchHit `json:"foods"`
}

// Food is the subset of a food/{fdcId} response we read.
type Food struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

type FoodNutrient struct {
	Nutrient NutrientRef `json:"nutrient"`
	Amount   *float64    `json:"amount"`
}

type NutrientRef struct {
	ID       int    `json:"id"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	UnitName string `json:"unitName"`
}
