package tasks

import (
	"errors"
	"strings"

	"tableflip.dev/yourdiary/pkg/gateway"
)

// TitleLimit is how much of a text seeds a task title.
const TitleLimit = 100

// ErrTitleRequired is returned for a form whose title is blank.
var ErrTitleRequired = errors.New("task title is required")

// CreateKind is the flow a task is created from. They share one remote call
// and differ in wording and follow-up.
type CreateKind int

const (
	// KindFresh is a task typed from scratch.
	KindFresh CreateKind = iota
	// KindFromDraft is seeded from the diary draft; the draft is cleared on
	// success.
	KindFromDraft
	// KindConverted is seeded from a saved entry.
	KindConverted
)

func (k CreateKind) String() string {
	switch k {
	case KindFromDraft:
		return "draft"
	case KindConverted:
		return "converted"
	default:
		return "fresh"
	}
}

func (k CreateKind) successText() string {
	switch k {
	case KindFromDraft:
		return "Task created successfully! ✅"
	case KindConverted:
		return "Diary entry converted to task! 🔄"
	default:
		return "Task created successfully! 📋"
	}
}

func (k CreateKind) failureText() string {
	if k == KindConverted {
		return "Error converting to task"
	}
	return "Error creating task"
}

// Form is what a task dialog collects.
type Form struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// FormFromText pre-fills a dialog from a piece of writing: the title is its
// first TitleLimit characters and the description all of it.
func FormFromText(text string) Form {
	title := []rune(text)
	if len(title) > TitleLimit {
		title = title[:TitleLimit]
	}
	return Form{Title: string(title), Description: text}
}

// Task validates the form and builds the payload.
func (f Form) Task() (gateway.NewTask, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return gateway.NewTask{}, ErrTitleRequired
	}
	priority, err := gateway.ParsePriority(f.Priority)
	if err != nil {
		return gateway.NewTask{}, err
	}
	due := strings.TrimSpace(f.DueDate)
	if err := gateway.ValidateDueDate(due); err != nil {
		return gateway.NewTask{}, err
	}
	return gateway.NewTask{
		Title:       title,
		Description: strings.TrimSpace(f.Description),
		Priority:    priority,
		DueDate:     due,
	}, nil
}
