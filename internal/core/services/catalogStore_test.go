package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func bike(id, name, brand, category string, price float64) domain.Motorbike {
	return domain.Motorbike{
		ID:       id,
		Name:     name,
		Brand:    domain.BrandRef{Name: brand},
		Category: category,
		Price:    price,
	}
}

func testCatalog() []domain.Motorbike {
	return []domain.Motorbike{
		bike("m1", "CBR 500R", "Honda", "Sport", 90),
		bike("m2", "Vespa Primavera", "Piaggio", "Scooter", 25),
		bike("m3", "MT-07", "Yamaha", "Naked", 60),
		bike("m4", "PCX", "Honda", "Scooter", 30),
	}
}

func ids(items []domain.Motorbike) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out
}

func loadedStore(t *testing.T) *CatalogStore {
	t.Helper()
	s := NewCatalogStore(&fakeCatalog{items: testCatalog()}, nopLogger)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestCatalogLoadRecomputesBounds(t *testing.T) {
	s := loadedStore(t)

	assert.Equal(t, domain.PriceRange{Min: 25, Max: 90}, s.Bounds())
	assert.Equal(t, domain.PriceRange{Min: 25, Max: 90}, s.Filters().PriceRange)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, ids(s.View()))
	assert.Zero(t, s.ActiveFilterCount())
}

func TestCatalogLoadFailureKeepsCatalog(t *testing.T) {
	source := &fakeCatalog{items: testCatalog()}
	s := NewCatalogStore(source, nopLogger)
	require.NoError(t, s.Load(context.Background()))

	source.err = errors.New("connection refused")
	require.Error(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 4)
	assert.NotEmpty(t, snap.Error)
	assert.False(t, snap.Loading)
}

func TestCatalogSetCatalogWithoutRecompute(t *testing.T) {
	s := loadedStore(t)
	s.SetCatalog([]domain.Motorbike{bike("m9", "Ninja", "Kawasaki", "Sport", 200)}, false)

	assert.Equal(t, domain.PriceRange{Min: 25, Max: 90}, s.Bounds())
	assert.Empty(t, s.View())

	s.SetCatalog([]domain.Motorbike{bike("m9", "Ninja", "Kawasaki", "Sport", 200)}, true)
	assert.Equal(t, domain.PriceRange{Min: 200, Max: 200}, s.Bounds())
	assert.Equal(t, []string{"m9"}, ids(s.View()))
}

func TestCatalogNarrowedRangeIsClampedOnReload(t *testing.T) {
	s := loadedStore(t)
	s.SetPriceRange(domain.PriceRange{Min: 50, Max: 80})

	s.SetCatalog(append(testCatalog(), bike("m5", "Ninja", "Kawasaki", "Sport", 70)), true)
	assert.Equal(t, domain.PriceRange{Min: 50, Max: 80}, s.Filters().PriceRange)

	s.SetCatalog([]domain.Motorbike{bike("m6", "Monkey", "Honda", "Mini", 55), bike("m7", "Z900", "Kawasaki", "Naked", 75)}, true)
	assert.Equal(t, domain.PriceRange{Min: 55, Max: 75}, s.Filters().PriceRange)
}

func TestCatalogPriceRangeOutsideBounds(t *testing.T) {
	s := loadedStore(t)
	s.SetPriceRange(domain.PriceRange{Min: 0, Max: 10})

	assert.Equal(t, s.Bounds(), s.Filters().PriceRange)
	assert.Len(t, s.View(), 4)
	assert.Zero(t, s.ActiveFilterCount())
}

func TestCatalogReloadWithoutOverlapResetsRange(t *testing.T) {
	s := loadedStore(t)
	s.SetPriceRange(domain.PriceRange{Min: 50, Max: 80})

	s.SetCatalog([]domain.Motorbike{
		bike("m8", "Panigale", "Ducati", "Sport", 150),
		bike("m9", "Ninja H2", "Kawasaki", "Sport", 200),
	}, true)

	assert.Equal(t, domain.PriceRange{Min: 150, Max: 200}, s.Bounds())
	assert.Equal(t, s.Bounds(), s.Filters().PriceRange)
	assert.Equal(t, []string{"m8", "m9"}, ids(s.View()))
	assert.Zero(t, s.ActiveFilterCount())
}

func TestCatalogSearchMatchesNameOrBrand(t *testing.T) {
	s := loadedStore(t)

	s.SetSearchText("honda")
	assert.Equal(t, []string{"m1", "m4"}, ids(s.View()))

	s.SetSearchText("  VESPA ")
	assert.Equal(t, []string{"m2"}, ids(s.View()))
}

func TestCatalogPriceRangeIsInclusive(t *testing.T) {
	s := loadedStore(t)
	s.SetPriceRange(domain.PriceRange{Min: 30, Max: 60})
	assert.Equal(t, []string{"m3", "m4"}, ids(s.View()))

	s.SetPriceRange(domain.PriceRange{Min: 500, Max: 0})
	assert.Equal(t, domain.PriceRange{Min: 25, Max: 90}, s.Filters().PriceRange)
}

func TestCatalogToggleIsSymmetric(t *testing.T) {
	s := loadedStore(t)

	s.ToggleBrand("Honda")
	s.ToggleCategory("Scooter")
	assert.Equal(t, []string{"m4"}, ids(s.View()))
	assert.Equal(t, 2, s.ActiveFilterCount())

	s.ToggleBrand("Honda")
	assert.Equal(t, []string{"m2", "m4"}, ids(s.View()))
	assert.Empty(t, s.Filters().Brands)
}

func TestCatalogFilterOrderIndependent(t *testing.T) {
	a := loadedStore(t)
	a.SetSearchText("a")
	a.SetPriceRange(domain.PriceRange{Min: 26, Max: 90})
	a.ToggleBrand("Honda")
	a.ToggleCategory("Scooter")

	b := loadedStore(t)
	b.ToggleCategory("Scooter")
	b.ToggleBrand("Honda")
	b.SetPriceRange(domain.PriceRange{Min: 26, Max: 90})
	b.SetSearchText("a")

	assert.Equal(t, ids(a.View()), ids(b.View()))
	assert.Equal(t, []string{"m4"}, ids(a.View()))
}

func TestCatalogResetFilters(t *testing.T) {
	s := loadedStore(t)
	s.SetSearchText("honda")
	s.SetPriceRange(domain.PriceRange{Min: 30, Max: 40})
	s.ToggleBrand("Honda")
	s.ToggleCategory("Sport")
	s.SetSortOption(domain.SortPriceDesc)

	s.ResetFilters()

	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, ids(s.View()))
	assert.Equal(t, domain.FilterState{
		PriceRange: domain.PriceRange{Min: 25, Max: 90},
		Brands:     []string{},
		Categories: []string{},
		Sort:       domain.SortFeatured,
	}, s.Filters())
	assert.Zero(t, s.ActiveFilterCount())
}

func TestActiveFilterCount(t *testing.T) {
	s := NewCatalogStore(&fakeCatalog{}, nopLogger)
	s.SetCatalog([]domain.Motorbike{bike("a", "A", "X", "C", 0), bike("b", "B", "Y", "C", 1000)}, true)

	s.SetPriceRange(domain.PriceRange{Min: 0, Max: 1000})
	s.ToggleBrand("X")
	assert.Equal(t, 1, s.ActiveFilterCount())

	s.SetSearchText("a")
	s.SetPriceRange(domain.PriceRange{Min: 0, Max: 999})
	s.ToggleCategory("C")
	assert.Equal(t, 4, s.ActiveFilterCount())
}

func TestCatalogSortPriceAscending(t *testing.T) {
	items := []domain.Motorbike{bike("a", "A", "X", "C", 90), bike("b", "B", "X", "C", 25), bike("c", "C", "X", "C", 60)}
	opt, ok := domain.ParseSortOption("price-low-high")
	require.True(t, ok)

	out := FilterCatalog(items, domain.FilterState{PriceRange: domain.PriceRange{Max: 100}, Sort: opt})
	assert.Equal(t, []string{"b", "c", "a"}, ids(out))
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
}

func TestCatalogSortNewestAndRating(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 1, 0)
	items := []domain.Motorbike{
		bike("missing", "A", "X", "C", 10),
		bike("t1", "B", "X", "C", 10),
		bike("t2", "C", "X", "C", 10),
	}
	items[1].CreatedAt = &t1
	items[2].CreatedAt = &t2
	items[1].Rating = swag.Float64(4.8)
	items[2].Rating = swag.Float64(3.9)

	all := domain.PriceRange{Max: 10}
	assert.Equal(t, []string{"t2", "t1", "missing"}, ids(FilterCatalog(items, domain.FilterState{PriceRange: all, Sort: domain.SortNewest})))
	assert.Equal(t, []string{"t1", "t2", "missing"}, ids(FilterCatalog(items, domain.FilterState{PriceRange: all, Sort: domain.SortRatingDesc})))
	assert.Equal(t, []string{"missing", "t1", "t2"}, ids(FilterCatalog(items, domain.FilterState{PriceRange: all, Sort: domain.SortFeatured})))
}

func TestCatalogSnapshotFacets(t *testing.T) {
	snap := loadedStore(t).Snapshot()
	assert.Equal(t, []string{"Honda", "Piaggio", "Yamaha"}, snap.Brands)
	assert.Equal(t, []string{"Sport", "Scooter", "Naked"}, snap.Categories)
	assert.Equal(t, 4, snap.Total)
}
