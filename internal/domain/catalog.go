package domain

import "strings"

const (
	// AllCategory is the synthetic first entry of every category set.
	AllCategory = "All"

	uncategorized = "uncategorized"
)

// CategoriesFromNames builds a category set from remote category names,
// dropping blanks and the "Uncategorized" bucket.
func CategoriesFromNames(names []string) []string {
	out := make([]string, 0, len(names)+1)
	out = append(out, AllCategory)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, uncategorized) || name == AllCategory {
			continue
		}
		out = append(out, name)
	}
	return out
}

// DeriveCategories builds a category set from the distinct primary
// categories of the given products, in first-seen order.
func DeriveCategories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{AllCategory}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// FilterByCategory returns the products visible under the given category.
// The "All" category (or an empty one) shows everything.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" || category == AllCategory {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.InCategory(category) {
			out = append(out, p)
		}
	}
	return out
}
