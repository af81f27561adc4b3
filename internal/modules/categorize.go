package modules

import "strings"

// CategoryUnknown is returned when no pattern matches a struct name.
const CategoryUnknown = "unknown"

// categoryRule preserves the matching order; earlier categories win.
type categoryRule struct {
	name     string
	patterns []string
}

// Categorizer assigns struct names to report categories by substring
// match, case insensitive.
type Categorizer struct {
	rules []categoryRule
}

// DefaultCategories covers the common naming conventions: config
// carriers, algorithm data and platform/runtime handles.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"config":    {"Config"},
		"algorithm": {"Param", "Algorithm", "Buffer", "Scalar", "Op"},
		"platform":  {"Env", "Context", "CL"},
	}
}

// defaultOrder fixes the precedence among the default categories.
var defaultOrder = []string{"config", "algorithm", "platform"}

// NewCategorizer builds a categorizer from a category -> patterns map.
// Known default categories keep their precedence; extra categories
// follow in name order.
func NewCategorizer(categories map[string][]string) *Categorizer {
	if categories == nil {
		categories = DefaultCategories()
	}

	c := &Categorizer{}
	seen := make(map[string]bool)
	for _, name := range defaultOrder {
		if patterns, ok := categories[name]; ok {
			c.rules = append(c.rules, categoryRule{name: name, patterns: patterns})
			seen[name] = true
		}
	}
	for _, name := range sortedCategoryNames(categories) {
		if !seen[name] {
			c.rules = append(c.rules, categoryRule{name: name, patterns: categories[name]})
		}
	}
	return c
}

// Categorize returns the first category whose pattern appears in the
// struct name, or CategoryUnknown.
func (c *Categorizer) Categorize(structName string) string {
	lower := strings.ToLower(structName)
	for _, rule := range c.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return rule.name
			}
		}
	}
	return CategoryUnknown
}

func sortedCategoryNames(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Plain insertion sort keeps this free of another import.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
