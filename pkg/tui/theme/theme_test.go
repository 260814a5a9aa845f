package theme

import (
	"strings"
	"testing"

	"tableflip.dev/yourdiary/pkg/notify"
)

func TestGradientKeepsText(t *testing.T) {
	got := Gradient("saved", "#ff6ad5", "#8795e8")
	for _, r := range "saved" {
		if !strings.ContainsRune(got, r) {
			t.Fatalf("gradient lost %q: %q", r, got)
		}
	}
	if Gradient("x", "#fff", "#000") != "x" {
		t.Fatalf("single rune should pass through")
	}
	if Gradient("abc", "nope", "#000") != "abc" {
		t.Fatalf("bad colour should pass through")
	}
}

func TestDefaultCoversLevels(t *testing.T) {
	th := Default()
	for _, l := range []notify.Level{notify.Info, notify.Success, notify.Warning, notify.Danger} {
		if _, ok := th.Toast[l]; !ok {
			t.Errorf("no toast style for %s", l)
		}
	}
	for _, l := range []notify.Level{notify.Success, notify.Warning} {
		if _, ok := th.Board.Badge[l]; !ok {
			t.Errorf("no badge style for %s", l)
		}
	}
}
