package styles

import (
	"strings"
	"testing"
)

func TestActiveLabel(t *testing.T) {
	if got := ActiveLabel(true); !strings.Contains(got, "active") {
		t.Fatalf("expected active label, got %q", got)
	}
	if got := ActiveLabel(false); !strings.Contains(got, "paused") {
		t.Fatalf("expected paused label, got %q", got)
	}
}
