// Package history lists the diary entries saved from this machine.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/timeutil"
)

const textWidth = 60

// History prints cached entries saved within Window.
type History struct {
	Cache  store.Cache
	Window timeutil.Window
	JSON   bool
	Out    io.Writer

	now func() time.Time
}

type entry struct {
	Text  string    `json:"text"`
	Total int       `json:"total_messages"`
	At    time.Time `json:"saved_at"`
}

func (h *History) Do(ctx context.Context) error {
	if h.Cache == nil {
		return errors.New("no local cache configured")
	}
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	since := h.Window.Since(now())

	var list []composer.Entry
	for _, e := range h.Cache.History(ctx) {
		if !e.At.Before(since) {
			list = append(list, e)
		}
	}

	w := h.Out
	if w == nil {
		w = color.Output
	}

	if h.JSON {
		out := make([]entry, 0, len(list))
		for _, e := range list {
			out = append(out, entry{Text: e.Text, Total: e.Total, At: e.At})
		}
		b, err := json.Marshal(map[string]any{"window": h.Window.String(), "entries": out})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, string(b))
		return nil
	}

	if len(list) == 0 {
		_, _ = fmt.Fprintf(w, "No entries saved in the last %s.\n", h.Window)
		return nil
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("Saved"), bold.Sprint("#"), bold.Sprint("Entry"))
	for _, e := range list {
		tbl.AddRow(faint.Sprint(e.At.Local().Format("Mon Jan 2 15:04")), e.Total, wordwrap.String(e.Text, textWidth))
	}
	_, _ = fmt.Fprintln(w, tbl)
	return nil
}
