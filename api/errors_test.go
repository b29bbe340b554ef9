package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("load property: %w", &Error{Message: "Gone", Status: 410})

	got := Normalize(wrapped)
	if got.Message != "Gone" || got.Status != 410 {
		t.Fatalf("unexpected normalized error %+v", got)
	}

	plain := Normalize(errors.New("dial tcp: connection refused"))
	if plain.Message != FallbackMessage || plain.Status != 0 {
		t.Fatalf("unexpected plain normalization %+v", plain)
	}
	if plain.Cause == nil {
		t.Fatalf("expected cause to be kept")
	}

	if Normalize(nil).Message != FallbackMessage {
		t.Fatalf("expected fallback for nil")
	}

	empty := Normalize(&Error{Status: 400})
	if empty.Message != FallbackMessage || empty.Status != 400 {
		t.Fatalf("unexpected empty-message normalization %+v", empty)
	}
}
