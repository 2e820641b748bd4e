package stats

import (
	"context"
	"testing"
)

func TestTopOf(t *testing.T) {
	raw := map[string]string{
		"queen\x1funder pressure":  "12",
		"nina simone\x1fsinnerman": "30",
		"the beatles\x1flet it be": "12",
		"broken-field-without-sep": "5",
		"bad\x1fcount":             "not-a-number",
	}

	counts := topOf(raw, 2)
	if len(counts) != 2 {
		t.Fatalf("expected 2 counts, got %d", len(counts))
	}
	if counts[0].Artist != "nina simone" || counts[0].Count != 30 {
		t.Errorf("top entry = %+v", counts[0])
	}
	// ties break on artist name
	if counts[1].Artist != "queen" {
		t.Errorf("second entry = %+v", counts[1])
	}
}

func TestTopOfNoLimit(t *testing.T) {
	counts := topOf(map[string]string{"a\x1fb": "1", "c\x1fd": "2"}, 0)
	if len(counts) != 2 {
		t.Fatalf("expected all counts, got %d", len(counts))
	}
}

func TestNilManagerIsDisabled(t *testing.T) {
	var m *Manager

	if err := m.IncrementLookup(context.Background(), "a", "b"); err != nil {
		t.Errorf("nil manager increment should be a no-op, got %v", err)
	}
	counts, err := m.Top(context.Background(), 10)
	if err != nil || counts != nil {
		t.Errorf("nil manager top should be empty, got (%v, %v)", counts, err)
	}
}
