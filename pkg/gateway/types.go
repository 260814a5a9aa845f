package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const sentenceMode = "sentence"

// MaxLength is the suggestion length requested from the service: either a
// character budget or whole sentences. On the wire it is an integer or the
// literal "sentence".
type MaxLength struct {
	Chars    int
	Sentence bool
}

// Chars returns a character-budget length.
func Chars(n int) MaxLength {
	return MaxLength{Chars: n}
}

// Sentence asks for completions that run to the end of the sentence.
var Sentence = MaxLength{Sentence: true}

func (l MaxLength) String() string {
	if l.Sentence {
		return sentenceMode
	}
	return strconv.Itoa(l.Chars)
}

// Describe renders the length for humans, e.g. "20 chars".
func (l MaxLength) Describe() string {
	if l.Sentence {
		return "complete sentences"
	}
	return fmt.Sprintf("%d chars", l.Chars)
}

// ParseMaxLength accepts "sentence" or a positive integer.
func ParseMaxLength(s string) (MaxLength, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == sentenceMode {
		return Sentence, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return MaxLength{}, fmt.Errorf("invalid suggestion length %q: want a positive number or %q", s, sentenceMode)
	}
	return Chars(n), nil
}

func (l MaxLength) MarshalJSON() ([]byte, error) {
	if l.Sentence {
		return json.Marshal(sentenceMode)
	}
	return json.Marshal(l.Chars)
}

func (l *MaxLength) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*l = Chars(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("max_length: %w", err)
	}
	parsed, err := ParseMaxLength(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// TaskID is the service's opaque task identifier. The service emits numbers
// and accepts strings, so both decode.
type TaskID string

func (id *TaskID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// TaskStatus is the server-side status of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// StatusFor maps a checkbox state onto a status.
func StatusFor(completed bool) TaskStatus {
	if completed {
		return StatusCompleted
	}
	return StatusPending
}

// Priority is the task priority understood by the service.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts low, medium or high; empty means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q: want low, medium or high", s)
	}
}

const dueDateLayout = "2006-01-02"

// ValidateDueDate accepts an empty string or a YYYY-MM-DD date.
func ValidateDueDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dueDateLayout, s); err != nil {
		return errors.New("due date must look like YYYY-MM-DD")
	}
	return nil
}

// SuggestionRequest asks for completions of Text. Sequence never leaves the
// client; it tags the request so the response can be correlated.
type SuggestionRequest struct {
	Text      string    `json:"text"`
	MaxLength MaxLength `json:"max_length"`
	Count     int       `json:"num_suggestions"`
	Sequence  uint64    `json:"-"`
}

// SuggestionResponse carries the completions for the request with the same
// Sequence.
type SuggestionResponse struct {
	Sequence    uint64   `json:"-"`
	Suggestions []string `json:"suggestions"`
}

type saveEntryRequest struct {
	Message string `json:"message"`
}

// SaveEntryResponse reports the running entry count after a save.
type SaveEntryResponse struct {
	Success       bool `json:"success"`
	TotalMessages int  `json:"total_messages"`
}

// NewTask is the payload shared by every task-creation flow.
type NewTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"`
}

type updateStatusRequest struct {
	TaskID TaskID     `json:"task_id"`
	Status TaskStatus `json:"status"`
}

type deleteTaskRequest struct {
	TaskID TaskID `json:"task_id"`
}

// Task is a task as listed by the service.
type Task struct {
	ID          TaskID     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"due_date,omitempty"`
}

type listTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

// envelope holds the fields every response may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}
