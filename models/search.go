package models

import "time"

const Wildcard = "all"

// SearchFilters is the advanced search constraint set. Every range is a
// [min, max] pair; "all" in a string field means no constraint.
type SearchFilters struct {
	SearchTerm   string     `json:"search_term"`
	PropertyType string     `json:"property_type"`
	PriceType    string     `json:"price_type"`
	Location     string     `json:"location"`
	Status       string     `json:"status"`
	PriceRange   [2]float64 `json:"price_range"`
	Bedrooms     [2]int     `json:"bedrooms"`
	Bathrooms    [2]int     `json:"bathrooms"`
	AreaRange    [2]float64 `json:"area_range"`
	Amenities    []int64    `json:"amenities"`
	Featured     *bool      `json:"featured"`
	MinRating    float64    `json:"min_rating"`
	SortBy       string     `json:"sort_by"`
	SortOrder    string     `json:"sort_order"`
}

// Normalize swaps any inverted range so every pair is [min, max].
func (f *SearchFilters) Normalize() {
	if f.PriceRange[0] > f.PriceRange[1] {
		f.PriceRange[0], f.PriceRange[1] = f.PriceRange[1], f.PriceRange[0]
	}
	if f.Bedrooms[0] > f.Bedrooms[1] {
		f.Bedrooms[0], f.Bedrooms[1] = f.Bedrooms[1], f.Bedrooms[0]
	}
	if f.Bathrooms[0] > f.Bathrooms[1] {
		f.Bathrooms[0], f.Bathrooms[1] = f.Bathrooms[1], f.Bathrooms[0]
	}
	if f.AreaRange[0] > f.AreaRange[1] {
		f.AreaRange[0], f.AreaRange[1] = f.AreaRange[1], f.AreaRange[0]
	}
}

// Clone returns a copy that shares no slices or pointers with f.
func (f SearchFilters) Clone() SearchFilters {
	out := f
	if f.Amenities != nil {
		out.Amenities = append([]int64(nil), f.Amenities...)
	}
	if f.Featured != nil {
		v := *f.Featured
		out.Featured = &v
	}
	return out
}

type SearchSuggestion struct {
	Text  string `json:"text"`
	Type  string `json:"type"` // property, location, type
	Count int    `json:"count"`
}

type PopularSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type TrendingLocation struct {
	Name          string  `json:"name"`
	PropertyCount int     `json:"property_count"`
	Growth        float64 `json:"growth"`
}

type SearchHistoryEntry struct {
	ID           string        `json:"id"`
	Query        string        `json:"query"`
	Filters      SearchFilters `json:"filters"`
	Timestamp    time.Time     `json:"timestamp"`
	ResultsCount int           `json:"results_count"`
}

// Notification frequencies for saved searches.
const (
	NotifyInstant = "instant"
	NotifyDaily   = "daily"
	NotifyWeekly  = "weekly"
)

type SavedSearch struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Query                 string        `json:"query"`
	Filters               SearchFilters `json:"filters"`
	IsActive              bool          `json:"is_active"`
	NotificationFrequency string        `json:"notification_frequency,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

type SearchAnalytics struct {
	TotalSearches  int             `json:"total_searches"`
	UniqueQueries  int             `json:"unique_queries"`
	SavedSearches  int             `json:"saved_searches"`
	ActiveAlerts   int             `json:"active_alerts"`
	TopQueries     []PopularSearch `json:"top_queries"`
	AverageResults float64         `json:"average_results"`
	LastSearchedAt *time.Time      `json:"last_searched_at,omitempty"`
}
