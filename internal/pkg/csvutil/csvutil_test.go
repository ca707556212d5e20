package csvutil

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1234", "'+1234"},
		{"-cmd", "'-cmd"},
		{"@import", "'@import"},
		{"a=b", "a=b"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnsanitizeRoundTrip(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"=SUM(A1)", "+1", "-x", "@y", "plain"} {
		if got := Unsanitize(Sanitize(in)); got != in {
			t.Errorf("round trip %q: got %q", in, got)
		}
	}
}

func TestMarshalSanitizesCells(t *testing.T) {
	t.Parallel()
	data, err := Marshal(
		[]string{"name", "note"},
		[][]string{{"Ada", "=HYPERLINK(evil)"}},
	)
	if err != nil {
		t.Fatalf("Marshal: unexpected error %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count: got %d, want 2", len(lines))
	}
	if lines[0] != "name,note" {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.Contains(lines[1], "'=HYPERLINK(evil)") {
		t.Errorf("formula cell not sanitized: %q", lines[1])
	}
}
