package domain

import "strings"

type SortOption string

const (
	SortFeatured   SortOption = "featured"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortNewest     SortOption = "newest"
	SortRatingDesc SortOption = "rating-desc"
)

// ParseSortOption maps UI sort keys, including the legacy
// price-low-high/price-high-low names, onto a SortOption.
func ParseSortOption(s string) (SortOption, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "featured":
		return SortFeatured, true
	case "price-asc", "price-low-high":
		return SortPriceAsc, true
	case "price-desc", "price-high-low":
		return SortPriceDesc, true
	case "newest":
		return SortNewest, true
	case "rating-desc", "rating":
		return SortRatingDesc, true
	}
	return "", false
}

// PriceRange is an inclusive [Min, Max] interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp returns r restricted to bounds. A range that does not overlap the
// bounds at all falls back to the full bounds.
func (r PriceRange) Clamp(bounds PriceRange) PriceRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Max < bounds.Min || r.Min > bounds.Max {
		return bounds
	}
	r.Min = max(r.Min, bounds.Min)
	r.Max = min(r.Max, bounds.Max)
	return r
}

// FilterState is the catalog filter sidebar.
type FilterState struct {
	SearchText string     `json:"search_text"`
	PriceRange PriceRange `json:"price_range"`
	Brands     []string   `json:"brands"`
	Categories []string   `json:"categories"`
	Sort       SortOption `json:"sort"`
}

// Clone returns a copy that shares no slices with f.
func (f FilterState) Clone() FilterState {
	f.Brands = append([]string{}, f.Brands...)
	f.Categories = append([]string{}, f.Categories...)
	return f
}

// Toggle adds name to set when absent and removes it otherwise.
func Toggle(set []string, name string) []string {
	for i, v := range set {
		if v == name {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, name)
}

func Contains(set []string, name string) bool {
	for _, v := range set {
		if v == name {
			return true
		}
	}
	return false
}
