package timeutil

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		text string
	}{
		{"", week, "1w"},
		{"3d", 3 * day, "3d"},
		{"1w2d6h30m", week + 2*day + 6*time.Hour + 30*time.Minute, "1w2d6h30m"},
		{"2 weeks", 2 * week, "2w"},
		{"36h", 36 * time.Hour, "1d12h"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if err != nil {
				t.Fatalf("ParseWindow(%q) error = %v", tt.in, err)
			}
			if time.Duration(got) != tt.want {
				t.Fatalf("ParseWindow(%q) = %v, want %v", tt.in, time.Duration(got), tt.want)
			}
			if got.String() != tt.text {
				t.Fatalf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3", "3y", "0d", "d3"} {
		if _, err := ParseWindow(in); err == nil {
			t.Errorf("ParseWindow(%q) should fail", in)
		}
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ParseWindow("2d")
	if got := w.Since(now); !got.Equal(time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("Since() = %v", got)
	}
}
