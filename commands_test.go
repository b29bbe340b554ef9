package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"vesta_nest/api"
	"vesta_nest/models"
	"vesta_nest/search"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("save search: %w", search.ErrNotAuthenticated), "save search: " + search.ErrNotAuthenticated.Error()},
		{errors.New("signup: passwords do not match"), "signup: passwords do not match"},
		{fmt.Errorf("GET /properties: %w", &api.Error{Message: "Not found", Status: 404}), "Not found"},
		{&api.Error{Status: 500}, api.FallbackMessage},
	}
	for _, c := range cases {
		if got := userMessage(c.err); got != c.want {
			t.Errorf("userMessage(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestWriteProperties(t *testing.T) {
	a := &app{client: api.NewClient("http://localhost:8000", nil, nil)}
	var buf bytes.Buffer
	a.writeProperties(&buf, []models.Property{
		{ID: 1, Title: "Lekki duplex", PropertyType: "house", PriceType: "sale", Price: "85000000.00", Bedrooms: 4, City: "Lagos", Featured: true},
		{ID: 12, Title: "Wuse studio", PropertyType: "apartment", PriceType: "rent", FormattedPrice: "₦1,200,000", City: "Abuja"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "TITLE") || !strings.Contains(lines[0], "IMAGE") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1 ") || !strings.Contains(lines[1], "Lekki duplex *") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "₦1,200,000") || !strings.Contains(lines[2], "placeholder-property.jpg") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}
