package search

import (
	"regexp"
	"strings"
)

var (
	streetReplacements = map[string]string{
		"street":     "st",
		"avenue":     "ave",
		"drive":      "dr",
		"road":       "rd",
		"boulevard":  "blvd",
		"lane":       "ln",
		"court":      "ct",
		"place":      "pl",
		"crescent":   "cres",
		"close":      "cl",
		"estate":     "est",
		"highway":    "hwy",
		"square":     "sq",
		"north":      "n",
		"south":      "s",
		"east":       "e",
		"west":       "w",
		"apartment":  "apt",
		"apartments": "apt",
		"bedroom":    "bed",
		"bedrooms":   "bed",
		"bathroom":   "bath",
		"bathrooms":  "bath",
	}
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9\s]`)
)

// NormalizeText lowercases s, strips punctuation and abbreviates common
// address and listing words so "3 Bedroom, Main Street" matches "3 bed main st".
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRegex.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		if abbrev, ok := streetReplacements[w]; ok {
			words[i] = abbrev
		}
	}
	return strings.Join(words, " ")
}

// matches reports whether every word of query appears as a prefix of some
// word in text. Both sides must already be normalized.
func matches(text, query string) bool {
	if query == "" {
		return false
	}
	if strings.Contains(text, query) {
		return true
	}
	words := strings.Fields(text)
	for _, q := range strings.Fields(query) {
		found := false
		for _, w := range words {
			if strings.HasPrefix(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
