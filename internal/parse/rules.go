package parse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules are the static keyword lists that decide which lines are not food items.
type Rules struct {
	// ExcludeKeywords drop any line containing them (case-insensitive): category headers
	// such as beverages, condiments, desserts and serving-bar labels.
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	// SectionHeaders drop lines that start with them.
	SectionHeaders []string `yaml:"section_headers"`
	// AdminWords drop production-schedule lines naming report furniture.
	AdminWords []string `yaml:"admin_words"`
	// RecipeCodeLetters is a regexp character-class body for the code's leading letter.
	RecipeCodeLetters string `yaml:"recipe_code_letters"`
}

// DefaultRules returns the built-in keyword lists.
func DefaultRules() Rules {
	return Rules{
		ExcludeKeywords: []string{
			"BEVERAGE", "BEVERAGES", "CONDIMENT", "CONDIMENTS", "DESSERT",
			"SALAD BAR", "SANDWICH BAR", "BURGER BAR", "PASTA BAR", "WING BAR", "BURRITO BAR",
		},
		SectionHeaders: []string{
			"MEAL", "WEEK", "STARCHES", "HOT VEGETABLES", "LEAN PROTEINS",
			"SHORT ORDER", "NON-STARCHY", "STARCHY",
		},
		AdminWords:        []string{"INSTRUCTIONS", "REPORT", "PROJECTED HC", "ASSIGN", "DATE PRINTED"},
		RecipeCodeLetters: "A-Z",
	}
}

// LoadRules reads a YAML rules file. Lists left empty in the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return rules, fmt.Errorf("parse rules %s: %w", path, err)
	}

	if len(file.ExcludeKeywords) > 0 {
		rules.ExcludeKeywords = file.ExcludeKeywords
	}
	if len(file.SectionHeaders) > 0 {
		rules.SectionHeaders = file.SectionHeaders
	}
	if len(file.AdminWords) > 0 {
		rules.AdminWords = file.AdminWords
	}
	if file.RecipeCodeLetters != "" {
		rules.RecipeCodeLetters = file.RecipeCodeLetters
	}
	return rules, nil
}
