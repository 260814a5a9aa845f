package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/suggest"
)

func TestLoadNeedsPath(t *testing.T) {
	if _, err := Load(testConfig{}); err == nil {
		t.Fatalf("expected error for an empty path")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	c, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}

	if _, err := c.Draft(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty cache draft err = %v, want ErrNotFound", err)
	}
	want := suggest.Draft{Text: "Dear diary, ça va", Caret: 11}
	if err := c.SaveDraft(want); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	got, err := c.Draft()
	if err != nil || got != want {
		t.Fatalf("draft = %+v, %v", got, err)
	}

	if err := c.SaveDraft(suggest.Draft{}); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	if _, err := c.Draft(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cleared draft err = %v", err)
	}
	if err := c.SaveDraft(suggest.Draft{}); err != nil {
		t.Fatalf("clearing twice should be fine: %v", err)
	}
}

func TestBoardSnapshot(t *testing.T) {
	c, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	list := []gateway.Task{
		{ID: "1", Title: "Water plants", Status: gateway.StatusPending, Priority: gateway.PriorityHigh},
		{ID: "2", Title: "Call mom", Status: gateway.StatusCompleted},
	}
	if err := c.SaveBoard(list); err != nil {
		t.Fatalf("save board: %v", err)
	}
	got, err := c.Board()
	if err != nil || len(got) != 2 || got[0] != list[0] || got[1] != list[1] {
		t.Fatalf("board = %+v, %v", got, err)
	}
}

func TestHistoryIsOrdered(t *testing.T) {
	c, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	for i, text := range []string{"third", "first", "second"} {
		at := base.Add(time.Duration([]int{3, 1, 2}[i]) * time.Minute)
		if err := c.AppendHistory(composer.Entry{Text: text, Total: i + 1, At: at}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got := c.History(context.Background())
	if len(got) != 3 || got[0].Text != "first" || got[1].Text != "second" || got[2].Text != "third" {
		t.Fatalf("history = %+v", got)
	}
}

func TestKeyTransformRoundTrip(t *testing.T) {
	for _, key := range []string{draftKey, boardKey, "history-20261019T080000-0011223344556677"} {
		if got := pathToKeyTransform(keyToPathTransform(key)); got != key {
			t.Fatalf("round trip of %q gave %q", key, got)
		}
	}
}
