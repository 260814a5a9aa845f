// Package task manages the remote task board from the command line.
package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/tasks"
)

const titleWidth = 40

// Board is shared by every task verb.
type Board struct {
	Client   *app.Client
	Recorder *notify.Recorder
	Cache    store.Cache
	JSON     bool
	Out      io.Writer
}

// List prints the board.
type List struct {
	Board
}

func (l *List) Do(_ context.Context) error {
	return l.run(nil)
}

// Add creates a task from a form.
type Add struct {
	Board
	Form tasks.Form
}

func (a *Add) Do(_ context.Context) error {
	return a.run(func() tea.Cmd {
		return a.Client.Tasks.Create(tasks.KindFresh, a.Form)
	})
}

// Convert turns a diary message into a task. When Message is empty the
// autosaved draft is used. Non-empty fields of Form override the defaults.
type Convert struct {
	Board
	Message string
	Form    tasks.Form
}

func (c *Convert) Do(_ context.Context) error {
	return c.run(func() tea.Cmd {
		form := c.Client.Composer.SeedFromDraft()
		if c.Message != "" {
			form = c.Client.Composer.ConvertForm(c.Message)
		}
		if c.Form.Title != "" {
			form.Title = c.Form.Title
		}
		if c.Form.Description != "" {
			form.Description = c.Form.Description
		}
		form.Priority, form.DueDate = c.Form.Priority, c.Form.DueDate
		if c.Message == "" {
			return c.Client.Composer.CreateFromDraft(form)
		}
		return c.Client.Composer.Convert(form)
	})
}

// Status marks a task complete or pending.
type Status struct {
	Board
	ID       gateway.TaskID
	Complete bool
}

func (s *Status) Do(_ context.Context) error {
	return s.run(func() tea.Cmd {
		v, ok := s.Client.Tasks.Board().Get(s.ID)
		if ok && (v.Status == gateway.StatusCompleted) == s.Complete {
			return nil
		}
		// Without a listing the board may not know the id; the service does.
		s.Client.Tasks.Remember(gateway.Task{ID: s.ID, Status: gateway.StatusFor(!s.Complete)})
		return s.Client.Tasks.Toggle(s.ID)
	})
}

// Remove deletes a task once Confirm agrees.
type Remove struct {
	Board
	ID      gateway.TaskID
	Confirm tasks.Confirmer
}

func (r *Remove) Do(_ context.Context) error {
	return r.run(func() tea.Cmd {
		r.Client.Tasks.Remember(gateway.Task{ID: r.ID, Status: gateway.StatusPending})
		return r.Client.Tasks.Delete(r.ID, r.Confirm)
	})
}

// run loads the board, applies action, reloads and prints. The listing is
// best effort: without it the cached board plus what action did is shown.
func (b *Board) run(action func() tea.Cmd) error {
	b.reload()
	if action != nil {
		mark := b.Recorder.Len()
		b.Client.Drive(action())
		if n, ok := b.Recorder.ProblemSince(mark); ok {
			return errors.New(n.Text)
		}
		b.reload()
	}
	if b.Cache != nil {
		if err := b.Cache.SaveBoard(b.Client.Tasks.Board().Tasks()); err != nil {
			observability.Logger().Warn("caching board failed", "err", err)
		}
	}
	return b.print()
}

func (b *Board) reload() {
	for _, m := range b.Client.Drive(b.Client.Tasks.Reload()) {
		if bm, ok := m.(tasks.BoardMsg); ok && bm.Err != nil && b.Client.Tasks.Listed() {
			observability.Logger().Warn("loading tasks failed, showing the cached board", "err", bm.Err)
		}
	}
}

func (b *Board) out() io.Writer {
	if b.Out != nil {
		return b.Out
	}
	return color.Output
}

func (b *Board) print() error {
	var visible []tasks.View
	for _, v := range b.Client.Tasks.Board().Views() {
		if !v.Removing {
			visible = append(visible, v)
		}
	}

	if b.JSON {
		list := make([]gateway.Task, 0, len(visible))
		for _, v := range visible {
			list = append(list, v.Task)
		}
		out, err := json.Marshal(map[string]any{"tasks": list})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(b.out(), string(out))
		return nil
	}

	if len(visible) == 0 {
		_, _ = fmt.Fprintln(b.out(), "No tasks yet.")
		return nil
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Title"), bold.Sprint("Priority"), bold.Sprint("Due"), bold.Sprint("Status"))
	for _, v := range visible {
		a := v.Appearance()
		title := truncate.StringWithTail(v.Title, titleWidth, "…")
		if a.Struck {
			title = color.New(color.CrossedOut, color.Faint).Sprint(title)
		}
		tbl.AddRow(v.ID, title, v.Priority, v.DueDate, badge(a))
	}
	_, _ = fmt.Fprintln(b.out(), tbl)
	return nil
}

func badge(a tasks.Appearance) string {
	if a.BadgeLevel == notify.Success {
		return color.GreenString(a.Badge)
	}
	return color.YellowString(a.Badge)
}
