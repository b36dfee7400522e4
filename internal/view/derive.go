// Package view derives the visible product list from the full catalog and
// the visitor's filter/search/sort selection. Derivation is a full recompute
// on every call, never an incremental patch of a previous result.
package view

import (
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// Derive applies the view state to the product set and returns the ordered
// visible list. Pure: the input slice is never mutated, and equal inputs
// always yield the same ordered output. An empty result is a valid empty
// slice, not an error.
func Derive(products []models.Product, state models.ViewState) []models.Product {
	result := make([]models.Product, 0, len(products))

	term := strings.ToLower(state.Search)
	for _, p := range products {
		if state.Category != "" && state.Category != models.CategoryAll && p.Category != state.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		result = append(result, p)
	}

	// Stable sort: ties keep the catalog's relative order.
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch state.Sort {
		case models.SortPriceLow:
			return a.Price < b.Price
		case models.SortPriceHigh:
			return b.Price < a.Price
		case models.SortRating:
			return b.Rating < a.Rating
		default:
			return b.CreatedAt.Before(a.CreatedAt)
		}
	})

	return result
}

// Categories returns "All" followed by every distinct category present in
// the product set, in order of first appearance.
func Categories(products []models.Product) []string {
	categories := []string{models.CategoryAll}
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}
