package gateway

import (
	"encoding/json"
	"testing"
)

func TestMaxLengthJSON(t *testing.T) {
	for in, want := range map[string]MaxLength{`20`: Chars(20), `"sentence"`: Sentence, `"30"`: Chars(30)} {
		var got MaxLength
		if err := json.Unmarshal([]byte(in), &got); err != nil || got != want {
			t.Fatalf("Unmarshal(%s) = %v, %v", in, got, err)
		}
	}
	b, _ := json.Marshal(Sentence)
	if string(b) != `"sentence"` {
		t.Fatalf("Marshal(Sentence) = %s", b)
	}
	if _, err := ParseMaxLength("-1"); err == nil {
		t.Fatalf("expected error for a negative length")
	}
	if Chars(20).Describe() != "20 chars" || Sentence.Describe() != "complete sentences" {
		t.Fatalf("unexpected descriptions")
	}
}

func TestTaskIDAcceptsNumbers(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id": 42, "title": "x", "status": "pending"}`), &task); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if task.ID != "42" {
		t.Fatalf("id = %q", task.ID)
	}
}

func TestValidation(t *testing.T) {
	if p, err := ParsePriority(""); err != nil || p != PriorityMedium {
		t.Fatalf("ParsePriority(\"\") = %v, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error")
	}
	if err := ValidateDueDate("2026-02-30"); err == nil {
		t.Fatalf("expected error for an impossible date")
	}
	if err := ValidateDueDate(""); err != nil {
		t.Fatalf("empty due date should pass: %v", err)
	}
}
