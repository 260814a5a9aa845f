// Package save stores a diary entry from the command line.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/suggest"
)

// Save sends Message, or the autosaved draft when Message is empty.
type Save struct {
	Client   *app.Client
	Recorder *notify.Recorder
	Cache    store.Cache
	Message  string
	JSON     bool
	Out      io.Writer
}

type result struct {
	Saved         string `json:"saved"`
	TotalMessages int    `json:"total_messages"`
	Training      bool   `json:"training"`
}

func (s *Save) Do(_ context.Context) error {
	text := s.Message
	fromDraft := false
	if strings.TrimSpace(text) == "" && s.Cache != nil {
		if d, err := s.Cache.Draft(); err == nil {
			text, fromDraft = d.Text, true
		}
	}
	s.Client.Input.Load(suggest.Draft{Text: text})

	mark := s.Recorder.Len()
	msgs := s.Client.Drive(s.Client.Composer.Save())
	if n, ok := s.Recorder.ProblemSince(mark); ok {
		return errors.New(n.Text)
	}

	var saved composer.SavedMsg
	for _, m := range msgs {
		if sm, ok := m.(composer.SavedMsg); ok {
			saved = sm
		}
	}
	if history := s.Client.Composer.History(); s.Cache != nil && len(history) > 0 {
		if err := s.Cache.AppendHistory(history[len(history)-1]); err != nil {
			observability.Logger().Warn("caching saved entry failed", "err", err)
		}
		if fromDraft {
			if err := s.Cache.SaveDraft(suggest.Draft{}); err != nil {
				observability.Logger().Warn("clearing cached draft failed", "err", err)
			}
		}
	}

	if s.JSON {
		b, err := json.Marshal(result{Saved: saved.Text, TotalMessages: saved.Total, Training: saved.Total%composer.TrainingEvery == 0})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out(s.Out), string(b))
	}
	return nil
}

func out(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}
