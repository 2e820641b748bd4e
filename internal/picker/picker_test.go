package picker

import (
	"bytes"
	"strings"
	"testing"
)

func TestPickSelects(t *testing.T) {
	var out bytes.Buffer
	labels := []string{"first", "second", "third"}

	index, ok := Pick(strings.NewReader("2\n"), &out, "choose:", labels)
	if !ok {
		t.Fatal("expected a selection")
	}
	if index != 1 {
		t.Errorf("index = %d, want 1", index)
	}
	for _, label := range labels {
		if !strings.Contains(out.String(), label) {
			t.Errorf("output missing candidate %q", label)
		}
	}
}

func TestPickAborts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty line", input: "\n"},
		{name: "not a number", input: "nope\n"},
		{name: "zero", input: "0\n"},
		{name: "out of range", input: "4\n"},
		{name: "eof", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if _, ok := Pick(strings.NewReader(tt.input), &out, "choose:", []string{"a", "b", "c"}); ok {
				t.Error("expected no selection")
			}
		})
	}
}

func TestPickNoCandidates(t *testing.T) {
	var out bytes.Buffer
	if _, ok := Pick(strings.NewReader("1\n"), &out, "choose:", nil); ok {
		t.Error("expected no selection for an empty list")
	}
	if out.Len() != 0 {
		t.Error("nothing should be printed for an empty list")
	}
}
