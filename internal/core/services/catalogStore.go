package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
)

// CatalogStore holds one visitor's copy of the catalog and the filter
// sidebar state. The filtered view is derived on every read.
type CatalogStore struct {
	mu      sync.RWMutex
	catalog []domain.Motorbike
	bounds  domain.PriceRange
	filters domain.FilterState
	loading bool
	err     string

	source ports.CatalogService
	logger ports.LoggerPort
}

type CatalogSnapshot struct {
	Items             []domain.Motorbike `json:"items"`
	Total             int                `json:"total"`
	Filters           domain.FilterState `json:"filters"`
	Bounds            domain.PriceRange  `json:"bounds"`
	ActiveFilterCount int                `json:"active_filter_count"`
	Brands            []string           `json:"brands"`
	Categories        []string           `json:"categories"`
	Loading           bool               `json:"loading"`
	Error             string             `json:"error,omitempty"`
}

func NewCatalogStore(source ports.CatalogService, logger ports.LoggerPort) *CatalogStore {
	return &CatalogStore{
		source:  source,
		logger:  logger,
		filters: domain.FilterState{Sort: domain.SortFeatured},
	}
}

// Load fetches the catalog and always recomputes the price bounds.
func (s *CatalogStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	items, err := s.source.ListMotorbikes(ctx)

	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.err = publicMessage(err)
		s.mu.Unlock()
		return err
	}

	s.SetCatalog(items, true)
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return nil
}

// SetCatalog replaces the catalog. Bounds are only recomputed when asked.
func (s *CatalogStore) SetCatalog(items []domain.Motorbike, recomputeBounds bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = append([]domain.Motorbike(nil), items...)
	if !recomputeBounds {
		return
	}

	prev := s.bounds
	s.bounds = priceBounds(s.catalog)
	if s.filters.PriceRange == prev || s.filters.PriceRange == (domain.PriceRange{}) {
		s.filters.PriceRange = s.bounds
		return
	}
	s.filters.PriceRange = s.filters.PriceRange.Clamp(s.bounds)
}

func (s *CatalogStore) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SearchText = text
}

func (s *CatalogStore) SetPriceRange(r domain.PriceRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.PriceRange = r.Clamp(s.bounds)
}

func (s *CatalogStore) ToggleBrand(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Brands = domain.Toggle(s.filters.Brands, name)
}

func (s *CatalogStore) ToggleCategory(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Categories = domain.Toggle(s.filters.Categories, name)
}

func (s *CatalogStore) SetSortOption(opt domain.SortOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Sort = opt
}

func (s *CatalogStore) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = domain.FilterState{
		PriceRange: s.bounds,
		Sort:       domain.SortFeatured,
	}
}

func (s *CatalogStore) Filters() domain.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

func (s *CatalogStore) Bounds() domain.PriceRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

func (s *CatalogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalog)
}

// View is the filtered and sorted catalog.
func (s *CatalogStore) View() []domain.Motorbike {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterCatalog(s.catalog, s.filters)
}

func (s *CatalogStore) ActiveFilterCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeFilterCount(s.filters, s.bounds)
}

func (s *CatalogStore) Snapshot() CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := FilterCatalog(s.catalog, s.filters)
	brands, categories := facets(s.catalog)
	return CatalogSnapshot{
		Items:             items,
		Total:             len(s.catalog),
		Filters:           s.filters.Clone(),
		Bounds:            s.bounds,
		ActiveFilterCount: activeFilterCount(s.filters, s.bounds),
		Brands:            brands,
		Categories:        categories,
		Loading:           s.loading,
		Error:             s.err,
	}
}

// FilterCatalog applies every active predicate of f to items and orders the
// result by f.Sort. items is not modified.
func FilterCatalog(items []domain.Motorbike, f domain.FilterState) []domain.Motorbike {
	search := strings.ToLower(strings.TrimSpace(f.SearchText))
	out := make([]domain.Motorbike, 0, len(items))
	for _, m := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(strings.ToLower(m.BrandName()), search) {
			continue
		}
		if !f.PriceRange.Contains(m.Price) {
			continue
		}
		if len(f.Brands) > 0 && !domain.Contains(f.Brands, m.BrandName()) {
			continue
		}
		if len(f.Categories) > 0 && !domain.Contains(f.Categories, m.CategoryName()) {
			continue
		}
		out = append(out, m)
	}
	sortCatalog(out, f.Sort)
	return out
}

func sortCatalog(items []domain.Motorbike, opt domain.SortOption) {
	var less func(a, b *domain.Motorbike) bool
	switch opt {
	case domain.SortPriceAsc:
		less = func(a, b *domain.Motorbike) bool { return a.Price < b.Price }
	case domain.SortPriceDesc:
		less = func(a, b *domain.Motorbike) bool { return a.Price > b.Price }
	case domain.SortNewest:
		less = func(a, b *domain.Motorbike) bool { return a.Created().After(b.Created()) }
	case domain.SortRatingDesc:
		less = func(a, b *domain.Motorbike) bool { return rating(a) > rating(b) }
	default:
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(&items[i], &items[j]) })
}

func rating(m *domain.Motorbike) float64 {
	if m.Rating == nil {
		return 0
	}
	return *m.Rating
}

func priceBounds(items []domain.Motorbike) domain.PriceRange {
	if len(items) == 0 {
		return domain.PriceRange{}
	}
	b := domain.PriceRange{Min: items[0].Price, Max: items[0].Price}
	for _, m := range items[1:] {
		if m.Price < b.Min {
			b.Min = m.Price
		}
		if m.Price > b.Max {
			b.Max = m.Price
		}
	}
	return b
}

func activeFilterCount(f domain.FilterState, bounds domain.PriceRange) int {
	n := 0
	if strings.TrimSpace(f.SearchText) != "" {
		n++
	}
	if f.PriceRange.Min > bounds.Min || f.PriceRange.Max < bounds.Max {
		n++
	}
	return n + len(f.Brands) + len(f.Categories)
}

func facets(items []domain.Motorbike) (brands, categories []string) {
	brands, categories = []string{}, []string{}
	for _, m := range items {
		if name := m.BrandName(); name != "" && !domain.Contains(brands, name) {
			brands = append(brands, name)
		}
		if name := m.CategoryName(); name != "" && !domain.Contains(categories, name) {
			categories = append(categories, name)
		}
	}
	return brands, categories
}
