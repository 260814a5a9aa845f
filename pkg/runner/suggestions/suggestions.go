// Package suggestions asks for completions of a piece of text once, outside
// the interactive editor.
package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/suggest"
)

// Suggest prints the completions the service offers for Text.
type Suggest struct {
	Client *app.Client
	Text   string
	Option suggest.Option
	Custom int
	Count  int
	JSON   bool
	Out    io.Writer
}

type result struct {
	Text        string   `json:"text"`
	MaxLength   string   `json:"max_length"`
	Suggestions []string `json:"suggestions"`
}

func (s *Suggest) Do(_ context.Context) error {
	if utf8.RuneCountInString(s.Text) < suggest.MinLength {
		return fmt.Errorf("write at least %d characters to get suggestions", suggest.MinLength)
	}
	count := s.Count
	if count <= 0 {
		count = suggest.NormalCount
	}
	length := suggest.LengthFor(s.Option, s.Custom)

	msgs := s.Client.Drive(s.Client.Session.Request(s.Text, length, count))
	for _, m := range msgs {
		if sm, ok := m.(suggest.SuggestionsMsg); ok && sm.Err != nil {
			return sm.Err
		}
	}
	items := s.Client.Session.Items()

	if s.JSON {
		b, err := json.Marshal(result{Text: s.Text, MaxLength: length.String(), Suggestions: items})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out(s.Out), string(b))
		return nil
	}

	if len(items) == 0 {
		return errors.New(suggest.LearningText)
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintln(out(s.Out), s.Client.Session.View().Header)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Suggestion"), bold.Sprint("Chars"))
	for i, item := range s.Client.Session.View().Items {
		tbl.AddRow(i+1, faint.Sprint(tail(s.Text, 24))+item.Text, item.Chars)
	}
	_, _ = fmt.Fprintln(out(s.Out), tbl)
	return nil
}

func out(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

// tail keeps the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}
