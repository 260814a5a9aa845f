package composer

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
)

type fakeService struct {
	saved   []string
	created []gateway.NewTask
	total   int
	err     error
}

func (f *fakeService) SaveEntry(_ context.Context, message string) (gateway.SaveEntryResponse, error) {
	f.saved = append(f.saved, message)
	if f.err != nil {
		return gateway.SaveEntryResponse{}, f.err
	}
	f.total++
	return gateway.SaveEntryResponse{Success: true, TotalMessages: f.total}, nil
}

func (f *fakeService) Suggestions(_ context.Context, req gateway.SuggestionRequest) (gateway.SuggestionResponse, error) {
	return gateway.SuggestionResponse{Sequence: req.Sequence}, nil
}

func (f *fakeService) CreateTask(_ context.Context, task gateway.NewTask) error {
	f.created = append(f.created, task)
	return f.err
}

func (f *fakeService) UpdateTaskStatus(context.Context, gateway.TaskID, gateway.TaskStatus) error {
	return f.err
}

func (f *fakeService) DeleteTask(context.Context, gateway.TaskID) error {
	return f.err
}

func (f *fakeService) ListTasks(context.Context) ([]gateway.Task, error) {
	return nil, f.err
}

type fixture struct {
	svc   *fakeService
	rec   *notify.Recorder
	input *suggest.Debouncer
	board *tasks.Synchronizer
	c     *Composer
}

func newFixture() *fixture {
	svc := &fakeService{}
	rec := &notify.Recorder{}
	session := suggest.NewSession(svc, suggest.WithTick(loop.Never))
	input := suggest.NewDebouncer(session, suggest.WithTimer(loop.Never))
	board := tasks.NewSynchronizer(svc, rec, tasks.WithTick(loop.Never))
	c := New(svc, rec, input, board, WithTick(loop.Immediate))
	return &fixture{svc: svc, rec: rec, input: input, board: board, c: c}
}

func (f *fixture) handle(msg tea.Msg) tea.Cmd {
	return tea.Batch(f.board.Update(msg), f.c.Update(msg))
}

func TestTrainingMessage(t *testing.T) {
	tests := map[int]string{
		3: "Entry saved! 🧠 AI is learning from your writing style...",
		6: "Entry saved! 🧠 AI is learning from your writing style...",
		4: "Entry saved! 2 more entries until next AI training.",
		5: "Entry saved! 1 more entries until next AI training.",
		1: "Entry saved! 2 more entries until next AI training.",
	}
	for total, want := range tests {
		if got := TrainingMessage(total); got != want {
			t.Fatalf("TrainingMessage(%d) = %q, want %q", total, got, want)
		}
	}
}

func TestSaveBlankDraftWarns(t *testing.T) {
	f := newFixture()
	f.input.Load(suggest.Draft{Text: "   \n "})

	if cmd := f.c.Save(); cmd != nil {
		t.Fatalf("blank draft should not be sent")
	}
	if f.c.Busy() || len(f.svc.saved) != 0 {
		t.Fatalf("blank draft changed state")
	}
	if n, _ := f.rec.Last(); n.Level != notify.Warning || n.Text != "Please write something in your diary first! 📝" {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestSaveClearsDraftAndNotifies(t *testing.T) {
	f := newFixture()
	f.svc.total = 3
	f.input.Load(suggest.Draft{Text: "  Today I walked by the sea.  "})

	cmd := f.c.Save()
	if !f.c.Busy() || f.c.SubmitLabel() != BusyLabel {
		t.Fatalf("submit control should be busy")
	}
	if again := f.c.Save(); again != nil {
		t.Fatalf("second save while busy should be ignored")
	}

	msgs := loop.Run(cmd, f.c.Update)
	if f.svc.saved[0] != "Today I walked by the sea." {
		t.Fatalf("saved %q", f.svc.saved[0])
	}
	if f.c.Busy() || f.c.SubmitLabel() != SaveLabel {
		t.Fatalf("submit control should be re-enabled")
	}
	if f.input.Draft().Text != "" || f.c.Placeholder() != ResetPlaceholder {
		t.Fatalf("draft not cleared: %+v %q", f.input.Draft(), f.c.Placeholder())
	}
	if n, _ := f.rec.Last(); n.Level != notify.Success || n.Text != "Entry saved! 2 more entries until next AI training." {
		t.Fatalf("unexpected notification %+v", n)
	}
	if h := f.c.History(); len(h) != 1 || h[0].Total != 4 {
		t.Fatalf("history = %+v", h)
	}
	if len(msgs) != 2 || f.c.Celebrating() {
		t.Fatalf("celebration should have run and ended, msgs=%v", msgs)
	}
}

func TestSaveFailureReenablesSubmit(t *testing.T) {
	f := newFixture()
	f.svc.err = gateway.ErrRejected
	f.input.Load(suggest.Draft{Text: "keep me", Caret: 7})

	loop.Run(f.c.Save(), f.c.Update)
	if f.c.Busy() {
		t.Fatalf("submit control stuck busy")
	}
	if f.input.Draft().Text != "keep me" {
		t.Fatalf("failed save must keep the draft")
	}
	if n, _ := f.rec.Last(); n.Level != notify.Danger || n.Text != "Failed to save entry. Please try again." {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestWelcomePlaceholder(t *testing.T) {
	f := newFixture()
	if f.c.Placeholder() != ResetPlaceholder {
		t.Fatalf("placeholder = %q", f.c.Placeholder())
	}
	loop.Run(f.c.Init(), f.c.Update)
	if f.c.Placeholder() != WelcomePlaceholder {
		t.Fatalf("placeholder = %q", f.c.Placeholder())
	}
}

func TestCreateFromDraftClearsDraft(t *testing.T) {
	f := newFixture()
	f.input.Load(suggest.Draft{Text: "  Book the dentist  "})

	form := f.c.SeedFromDraft()
	if form.Title != "Book the dentist" || form.Description != "Book the dentist" {
		t.Fatalf("form = %+v", form)
	}
	loop.Run(f.c.CreateFromDraft(form), f.handle)
	if len(f.svc.created) != 1 {
		t.Fatalf("expected one create, got %d", len(f.svc.created))
	}
	if f.input.Draft().Text != "" {
		t.Fatalf("draft should be cleared after a draft-seeded task")
	}
}

func TestConvertKeepsDraft(t *testing.T) {
	f := newFixture()
	f.input.Load(suggest.Draft{Text: "still writing"})

	form := f.c.ConvertForm("Yesterday I promised to call Ana.")
	loop.Run(f.c.Convert(form), f.handle)
	if f.svc.created[0].Title != "Yesterday I promised to call Ana." {
		t.Fatalf("created %+v", f.svc.created[0])
	}
	if f.input.Draft().Text != "still writing" {
		t.Fatalf("conversion must not touch the draft")
	}
	if n, _ := f.rec.Last(); n.Text != "Diary entry converted to task! 🔄" {
		t.Fatalf("unexpected notification %+v", n)
	}
}
