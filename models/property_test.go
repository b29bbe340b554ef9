package models

import "testing"

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"250000.00":      250000,
		"$1,250,000.50":  1250000.5,
		"₦ 45,000,000":   45000000,
		"":               0,
		"call for price": 0,
		"1.2.3":          1.23,
	}
	for in, want := range cases {
		if got := ParsePrice(in); got != want {
			t.Errorf("ParsePrice(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainDescription(t *testing.T) {
	p := Property{Description: "<p>Bright <b>3-bed</b> flat</p><script>alert(1)</script>\n<p>Close to &amp; shops</p>"}
	if got := p.PlainDescription(); got != "Bright 3-bed flat Close to & shops" {
		t.Fatalf("unexpected plain description %q", got)
	}

	p = Property{Description: "  plain   text  "}
	if got := p.PlainDescription(); got != "plain text" {
		t.Fatalf("unexpected plain description %q", got)
	}
}

func TestImageHelpers(t *testing.T) {
	resolve := func(path string) string {
		if path == "" {
			return "placeholder"
		}
		return "http://x/storage/" + path
	}

	p := Property{Images: []string{"a.jpg", "b.jpg"}}
	urls := p.ImageURLs(resolve)
	if len(urls) != 2 || urls[1] != "http://x/storage/b.jpg" {
		t.Fatalf("unexpected urls %v", urls)
	}
	if p.PrimaryImage(resolve) != "http://x/storage/a.jpg" {
		t.Fatalf("unexpected primary image")
	}
	if (&Property{}).PrimaryImage(resolve) != "placeholder" {
		t.Fatalf("expected placeholder for property without images")
	}
}

func TestPagination(t *testing.T) {
	p := Pagination{CurrentPage: 1, LastPage: 3}
	if !p.HasNext() || p.HasPrev() {
		t.Fatalf("unexpected flags for first page")
	}
	p.CurrentPage = 3
	if p.HasNext() || !p.HasPrev() {
		t.Fatalf("unexpected flags for last page")
	}
}
