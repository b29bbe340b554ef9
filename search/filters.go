package search

import (
	"fmt"
	"strings"

	"vesta_nest/models"
	"vesta_nest/services"
)

// Filters is the advanced search constraint set.
type Filters = models.SearchFilters

// Default bounds. A range counts as a filter only when it is narrower than these.
const (
	DefaultMaxPrice     = 10000000
	DefaultMaxRooms     = 10
	DefaultMaxArea      = 10000
	DefaultSortBy       = "created_at"
	DefaultSortOrder    = "desc"
	defaultSummary      = "All properties"
	filterGroupsTracked = 12
)

// DefaultFilters returns a fresh copy of the default filter set.
func DefaultFilters() Filters {
	return Filters{
		PropertyType: models.Wildcard,
		PriceType:    models.Wildcard,
		Location:     models.Wildcard,
		Status:       models.Wildcard,
		PriceRange:   [2]float64{0, DefaultMaxPrice},
		Bedrooms:     [2]int{0, DefaultMaxRooms},
		Bathrooms:    [2]int{0, DefaultMaxRooms},
		AreaRange:    [2]float64{0, DefaultMaxArea},
		Amenities:    []int64{},
		SortBy:       DefaultSortBy,
		SortOrder:    DefaultSortOrder,
	}
}

func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, models.Wildcard)
}

func narrowerFloat(r, def [2]float64) bool {
	return r[0] > def[0] || r[1] < def[1]
}

func narrowerInt(r, def [2]int) bool {
	return r[0] > def[0] || r[1] < def[1]
}

// activeGroups reports each filter group in a fixed order.
func activeGroups(f Filters) [filterGroupsTracked]bool {
	d := DefaultFilters()
	return [filterGroupsTracked]bool{
		strings.TrimSpace(f.SearchTerm) != "",
		isSet(f.PropertyType),
		isSet(f.PriceType),
		isSet(f.Location),
		isSet(f.Status),
		narrowerFloat(f.PriceRange, d.PriceRange),
		narrowerInt(f.Bedrooms, d.Bedrooms),
		narrowerInt(f.Bathrooms, d.Bathrooms),
		narrowerFloat(f.AreaRange, d.AreaRange),
		len(f.Amenities) > 0,
		f.Featured != nil,
		f.MinRating > 0,
	}
}

// HasActiveFilters reports whether any filter group differs from its default.
// Sort settings are not filters.
func HasActiveFilters(f Filters) bool {
	return FilterCount(f) > 0
}

// FilterCount counts active filter groups. A range counts once however far
// it is narrowed.
func FilterCount(f Filters) int {
	n := 0
	for _, active := range activeGroups(f) {
		if active {
			n++
		}
	}
	return n
}

// Summary builds a short description such as
// `"garden" villa for sale in Lekki with 2 amenities`.
func Summary(f Filters) string {
	var parts []string
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		parts = append(parts, fmt.Sprintf("%q", term))
	}
	if isSet(f.PropertyType) {
		parts = append(parts, f.PropertyType)
	}
	if isSet(f.PriceType) {
		parts = append(parts, "for "+f.PriceType)
	}
	if isSet(f.Location) {
		parts = append(parts, "in "+f.Location)
	}
	if len(f.Amenities) > 0 {
		parts = append(parts, fmt.Sprintf("with %d amenities", len(f.Amenities)))
	}
	if len(parts) == 0 {
		return defaultSummary
	}
	return strings.Join(parts, " ")
}

// ToListParams converts filters into GET /properties parameters. Wildcards
// and ranges at their default bounds are left out.
func ToListParams(f Filters, page, perPage int) services.ListParams {
	d := DefaultFilters()
	p := services.ListParams{
		Page:      page,
		PerPage:   perPage,
		Search:    strings.TrimSpace(f.SearchTerm),
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
		Featured:  f.Featured,
	}
	if isSet(f.PropertyType) {
		p.PropertyType = f.PropertyType
	}
	if isSet(f.PriceType) {
		p.PriceType = f.PriceType
	}
	if isSet(f.Location) {
		p.Location = f.Location
	}
	if isSet(f.Status) {
		p.Status = f.Status
	}

	if narrowerFloat(f.PriceRange, d.PriceRange) {
		p.MinPrice, p.MaxPrice = floatBounds(f.PriceRange, d.PriceRange)
	}
	if narrowerInt(f.Bedrooms, d.Bedrooms) {
		p.MinBedrooms, p.MaxBedrooms = intBounds(f.Bedrooms, d.Bedrooms)
	}
	if narrowerInt(f.Bathrooms, d.Bathrooms) {
		p.MinBathrooms, p.MaxBathrooms = intBounds(f.Bathrooms, d.Bathrooms)
	}
	if narrowerFloat(f.AreaRange, d.AreaRange) {
		p.MinArea, p.MaxArea = floatBounds(f.AreaRange, d.AreaRange)
	}

	if len(f.Amenities) > 0 {
		p.Amenities = append([]int64(nil), f.Amenities...)
	}
	if f.MinRating > 0 {
		p.MinRating = floatPtr(f.MinRating)
	}
	return p
}

// floatBounds returns only the ends of r that are tighter than def.
func floatBounds(r, def [2]float64) (lo, hi *float64) {
	if r[0] > def[0] {
		lo = floatPtr(r[0])
	}
	if r[1] < def[1] {
		hi = floatPtr(r[1])
	}
	return lo, hi
}

func intBounds(r, def [2]int) (lo, hi *int) {
	if r[0] > def[0] {
		lo = intPtr(r[0])
	}
	if r[1] < def[1] {
		hi = intPtr(r[1])
	}
	return lo, hi
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
