package models

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Contact is the owner or agent attached to a property.
type Contact struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type Property struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug,omitempty"`
	Description    string    `json:"description"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Country        string    `json:"country"`
	ZipCode        string    `json:"zip_code,omitempty"`
	Latitude       float64   `json:"latitude,omitempty"`
	Longitude      float64   `json:"longitude,omitempty"`
	Price          string    `json:"price"`
	FormattedPrice string    `json:"formatted_price"`
	PriceType      string    `json:"price_type"`     // sale, rent
	PropertyType   string    `json:"property_type"`  // apartment, house, villa, land, commercial
	Status         string    `json:"status"`         // available, sold, rented, pending
	Bedrooms       int       `json:"bedrooms"`
	Bathrooms      int       `json:"bathrooms"`
	Area           float64   `json:"area"`
	AreaUnit       string    `json:"area_unit,omitempty"`
	Featured       bool      `json:"featured"`
	IsFeatured     bool      `json:"is_featured"`
	Images         []string  `json:"images"`
	Owner          *Contact  `json:"owner,omitempty"`
	Agent          *Contact  `json:"agent,omitempty"`
	Amenities      []Amenity `json:"amenities"`
	Rating         float64   `json:"rating,omitempty"`
	ViewsCount     int       `json:"views_count,omitempty"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// IsFeaturedListing reports whether either featured flag is set.
func (p *Property) IsFeaturedListing() bool {
	return p.Featured || p.IsFeatured
}

// PriceValue parses the string-encoded decimal price, ignoring currency
// symbols and thousands separators. Unparseable prices yield 0.
func (p *Property) PriceValue() float64 {
	return ParsePrice(p.Price)
}

// ImageURLs resolves every image path through resolve.
func (p *Property) ImageURLs(resolve func(string) string) []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, resolve(img))
	}
	return urls
}

// PrimaryImage returns the first image resolved through resolve, or the
// resolver's placeholder when the property has no images.
func (p *Property) PrimaryImage(resolve func(string) string) string {
	if len(p.Images) == 0 {
		return resolve("")
	}
	return resolve(p.Images[0])
}

// PlainDescription returns the description with HTML markup removed and
// whitespace collapsed.
func (p *Property) PlainDescription() string {
	return StripHTML(p.Description)
}

func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// ParsePrice keeps digits and the first decimal point.
func ParsePrice(price string) float64 {
	var b strings.Builder
	seenDot := false
	for _, c := range price {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '.' && !seenDot:
			seenDot = true
			b.WriteRune(c)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// Pagination describes one page of a list query.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

// PropertyPage is one page of properties with its pagination envelope.
type PropertyPage struct {
	Properties []Property `json:"properties"`
	Pagination Pagination `json:"pagination"`
}

type PropertyStatistics struct {
	TotalProperties int            `json:"total_properties"`
	ForSale         int            `json:"for_sale"`
	ForRent         int            `json:"for_rent"`
	Featured        int            `json:"featured"`
	AveragePrice    float64        `json:"average_price"`
	ByType          map[string]int `json:"by_type,omitempty"`
	ByCity          map[string]int `json:"by_city,omitempty"`
}

type Amenity struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug,omitempty"`
	Icon            string `json:"icon,omitempty"`
	Category        string `json:"category,omitempty"`
	Description     string `json:"description,omitempty"`
	PropertiesCount int    `json:"properties_count,omitempty"`
}
