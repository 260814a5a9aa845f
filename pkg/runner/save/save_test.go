package save

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/devserver"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/suggest"
)

type cacheDir string

func (c cacheDir) BasePath() string { return string(c) }

func newSave(t *testing.T, server *devserver.Server) (*Save, *bytes.Buffer) {
	t.Helper()
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	gw, err := gateway.New(ts.URL)
	if err != nil {
		t.Fatalf("gateway.New() error = %v", err)
	}
	cache, err := store.Load(cacheDir(t.TempDir()))
	if err != nil {
		t.Fatalf("store.Load() error = %v", err)
	}
	rec := &notify.Recorder{}
	out := &bytes.Buffer{}
	return &Save{
		Client:   app.New(app.Options{Gateway: gw, Sink: rec, Tick: loop.Never, ReloadDelay: -1}),
		Recorder: rec,
		Cache:    cache,
		Out:      out,
	}, out
}

func TestSaveMessageAsJSON(t *testing.T) {
	server := devserver.New()
	s, out := newSave(t, server)
	s.Message = "went for a run"
	s.JSON = true

	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	var got result
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output %q: %v", out.String(), err)
	}
	if got.Saved != "went for a run" || got.TotalMessages != 1 || got.Training {
		t.Fatalf("result = %+v", got)
	}
	if h := s.Cache.History(context.Background()); len(h) != 1 || h[0].Total != 1 {
		t.Fatalf("history = %+v", h)
	}
}

func TestSaveUsesCachedDraft(t *testing.T) {
	server := devserver.New()
	s, _ := newSave(t, server)
	if err := s.Cache.SaveDraft(suggest.Draft{Text: "draft from the editor", Caret: 3}); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got := server.Entries(); len(got) != 1 || got[0] != "draft from the editor" {
		t.Fatalf("entries = %v", got)
	}
	if _, err := s.Cache.Draft(); err == nil {
		t.Fatalf("draft should be erased once saved")
	}
}

func TestSaveBlankFails(t *testing.T) {
	s, _ := newSave(t, devserver.New())
	err := s.Do(context.Background())
	if err == nil || err.Error() != "Please write something in your diary first! 📝" {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestSaveServiceFailure(t *testing.T) {
	s, _ := newSave(t, devserver.New(devserver.WithSession("secret")))
	s.Message = "hello"
	err := s.Do(context.Background())
	if err == nil || err.Error() != "Failed to save entry. Please try again." {
		t.Fatalf("Do() error = %v", err)
	}
}
