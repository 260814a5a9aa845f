package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"tableflip.dev/yourdiary/pkg/devserver"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/observability"
)

func newClient(t *testing.T, url string, opts ...gateway.Option) *gateway.Client {
	t.Helper()
	c, err := gateway.New(url, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestClientAgainstDevServer(t *testing.T) {
	ts := httptest.NewServer(devserver.New(devserver.WithSession("s3cret")).Router())
	defer ts.Close()
	metrics := observability.NewMetrics("test_gateway")
	c := newClient(t, ts.URL, gateway.WithSessionCookie("s3cret"), gateway.WithMetrics(metrics))
	ctx := context.Background()

	resp, err := c.Suggestions(ctx, gateway.SuggestionRequest{Text: "Today I", MaxLength: gateway.Chars(8), Count: 3, Sequence: 7})
	if err != nil {
		t.Fatalf("Suggestions() error = %v", err)
	}
	if resp.Sequence != 7 || len(resp.Suggestions) != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	for _, s := range resp.Suggestions {
		if len([]rune(s)) > 8 {
			t.Fatalf("suggestion %q longer than requested", s)
		}
	}

	for i := 1; i <= 3; i++ {
		saved, err := c.SaveEntry(ctx, "entry")
		if err != nil {
			t.Fatalf("SaveEntry() error = %v", err)
		}
		if !saved.Success || saved.TotalMessages != i {
			t.Fatalf("unexpected save response %+v", saved)
		}
	}

	if err := c.CreateTask(ctx, gateway.NewTask{Title: "Stretch", Priority: gateway.PriorityHigh}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	list, err := c.ListTasks(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListTasks() = %v, %v", list, err)
	}
	id := list[0].ID
	if err := c.UpdateTaskStatus(ctx, id, gateway.StatusCompleted); err != nil {
		t.Fatalf("UpdateTaskStatus() error = %v", err)
	}
	if list, _ = c.ListTasks(ctx); list[0].Status != gateway.StatusCompleted {
		t.Fatalf("status not updated: %+v", list[0])
	}
	if err := c.DeleteTask(ctx, id); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if list, _ = c.ListTasks(ctx); len(list) != 0 {
		t.Fatalf("task not deleted: %+v", list)
	}

	if got := testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues(gateway.OpSaveEntry, "ok")); got != 3 {
		t.Fatalf("save calls counted = %v, want 3", got)
	}
}

func TestUnauthorized(t *testing.T) {
	ts := httptest.NewServer(devserver.New(devserver.WithSession("s3cret")).Router())
	defer ts.Close()
	c := newClient(t, ts.URL)

	_, err := c.SaveEntry(context.Background(), "hello")
	if !errors.Is(err, gateway.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	var gerr *gateway.Error
	if !errors.As(err, &gerr) || gerr.Status != http.StatusUnauthorized || gerr.Message != "Not logged in" || gerr.Op != gateway.OpSaveEntry {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestErrorNormalisation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		message string
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"Title required"}`, message: "Title required"},
		{name: "server error without json", status: http.StatusInternalServerError, body: "boom", message: "boom"},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"error":"nope"}`, wantIs: gateway.ErrRejected, message: "nope"},
		{name: "undecodable", status: http.StatusOK, body: `{"suggestions":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newClient(t, ts.URL).Suggestions(context.Background(), gateway.SuggestionRequest{Text: "hi"})
			var gerr *gateway.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("err = %v, want *gateway.Error", err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Fatalf("err = %v, want %v", err, tt.wantIs)
			}
			if gerr.Message != tt.message {
				t.Fatalf("message = %q, want %q", gerr.Message, tt.message)
			}
		})
	}
}

func TestPlainTextSuccessIsDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	err := newClient(t, ts.URL).CreateTask(context.Background(), gateway.NewTask{Title: "Stretch"})
	var gerr *gateway.Error
	if !errors.As(err, &gerr) || gerr.Status != http.StatusOK {
		t.Fatalf("err = %v, want a *gateway.Error with status 200", err)
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("err = %v, want a decode error", err)
	}
}

func TestIsUnsupported(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := newClient(t, ts.URL).ListTasks(context.Background())
	if !gateway.IsUnsupported(err) {
		t.Fatalf("IsUnsupported(%v) = false", err)
	}
	if gateway.IsUnsupported(&gateway.Error{Op: "x", Status: http.StatusInternalServerError}) {
		t.Fatalf("a 500 is not unsupported")
	}
	if gateway.IsUnsupported(errors.New("boom")) {
		t.Fatalf("plain errors are not unsupported")
	}
}

func TestRequestShape(t *testing.T) {
	var got map[string]any
	var requestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"suggestions":[" ok"]}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Suggestions(context.Background(), gateway.SuggestionRequest{Text: "Dear", MaxLength: gateway.Sentence, Count: 5, Sequence: 9})
	if err != nil {
		t.Fatalf("Suggestions() error = %v", err)
	}
	if got["text"] != "Dear" || got["max_length"] != "sentence" || got["num_suggestions"] != float64(5) {
		t.Fatalf("unexpected body %v", got)
	}
	if _, leaked := got["Sequence"]; leaked {
		t.Fatalf("sequence must stay local: %v", got)
	}
	if requestID == "" {
		t.Fatalf("missing X-Request-ID")
	}
}

func TestCancelledRequest(t *testing.T) {
	ts := httptest.NewServer(devserver.New().Router())
	defer ts.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, ts.URL).Suggestions(ctx, gateway.SuggestionRequest{Text: "hello"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := gateway.New("ftp://example.com"); err == nil {
		t.Fatalf("expected error for non-http url")
	}
}
