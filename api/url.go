package api

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

const (
	apiSuffix        = "/api/v1"
	PlaceholderImage = "/images/placeholder-property.jpg"
)

// NormalizeBaseURL turns either a bare origin or an origin that already ends in
// /api/v1 into the same API base.
func NormalizeBaseURL(raw string) string {
	return Origin(raw) + apiSuffix
}

// Origin strips trailing slashes and a trailing /api/v1 from raw.
func Origin(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	base = strings.TrimSuffix(base, apiSuffix)
	return strings.TrimRight(base, "/")
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// BuildURL joins base and path and appends query. Nil values and nil pointers
// are skipped; slices become repeated keys.
func BuildURL(base, path string, query map[string]any) string {
	full := path
	if !isAbsoluteURL(path) {
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		full = strings.TrimRight(base, "/") + path
	}

	values := encodeQuery(query)
	if len(values) == 0 {
		return full
	}

	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + values.Encode()
}

func encodeQuery(query map[string]any) url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := reflect.ValueOf(query[k])
		for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
			if v.IsNil() {
				v = reflect.Value{}
				break
			}
			v = v.Elem()
		}
		if !v.IsValid() {
			continue
		}

		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
				values.Add(k, string(v.Bytes()))
				continue
			}
			for i := 0; i < v.Len(); i++ {
				values.Add(k, fmt.Sprint(v.Index(i).Interface()))
			}
			continue
		}

		values.Add(k, fmt.Sprint(v.Interface()))
	}
	return values
}

// MediaURL resolves a storage path returned by the backend into a fetchable URL.
func MediaURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PlaceholderImage
	}
	if isAbsoluteURL(path) {
		return path
	}

	origin := Origin(baseURL)
	path = strings.TrimLeft(path, "/")
	if strings.HasPrefix(path, "storage/") {
		return origin + "/" + path
	}
	return origin + "/storage/" + path
}
