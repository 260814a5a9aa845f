// Package devserver is an in-memory stand-in for the diary service. It speaks
// the same JSON contract and is used for local development and tests.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/observability"
)

// SessionCookie is the cookie carrying the login session.
const SessionCookie = "session"

const trainEvery = 3

var errEmptyBody = errors.New("request body is required")

type errorResponse struct {
	Error string `json:"error"`
}

type task struct {
	gateway.Task
	created time.Time
}

type Server struct {
	session string
	model   Model
	metrics *observability.Metrics
	now     func() time.Time
	// unlisted drops GET /api/tasks, leaving the five calls of the original
	// service.
	unlisted bool

	mu      sync.Mutex
	entries []string
	tasks   map[gateway.TaskID]*task
}

// Option configures a Server.
type Option func(*Server)

// WithSession requires requests to carry the session cookie with value v.
func WithSession(v string) Option {
	return func(s *Server) {
		s.session = v
	}
}

// WithModel replaces the completion model.
func WithModel(m Model) Option {
	return func(s *Server) {
		if m != nil {
			s.model = m
		}
	}
}

// WithMetrics records every handled call and serves /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithoutListing serves no task listing, like a service that renders its
// task page server side.
func WithoutListing() Option {
	return func(s *Server) {
		s.unlisted = true
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		model: Phrasebook,
		now:   time.Now,
		tasks: map[gateway.TaskID]*task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if s.metrics != nil {
		r.Get("/metrics", s.metrics.Handler().ServeHTTP)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Post("/get_suggestions", s.observe(gateway.OpSuggestions, s.handleSuggestions))
		r.Post("/send_message", s.observe(gateway.OpSaveEntry, s.handleSaveEntry))
		r.Post("/add_task", s.observe(gateway.OpCreateTask, s.handleAddTask))
		r.Post("/update_task_status", s.observe(gateway.OpUpdateStatus, s.handleUpdateStatus))
		r.Post("/delete_task", s.observe(gateway.OpDeleteTask, s.handleDeleteTask))
		if !s.unlisted {
			r.Get("/api/tasks", s.observe(gateway.OpListTasks, s.handleListTasks))
		}
	})
	return r
}

// Entries returns the saved diary entries, oldest first.
func (s *Server) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.entries...)
}

// Tasks returns the tasks in listing order.
func (s *Server) Tasks() []gateway.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.session != "" {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value != s.session {
				respondError(w, http.StatusUnauthorized, "Not logged in")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) observe(op string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		outcome := "ok"
		if rec.status >= 400 {
			outcome = "error"
		}
		s.metrics.ObserveCall(op, outcome, time.Since(start))
		observability.Logger().Debug("devserver call",
			"op", op,
			"status", rec.status,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	}
}

type suggestionsRequest struct {
	Text      string             `json:"text"`
	MaxLength *gateway.MaxLength `json:"max_length"`
	Count     *int               `json:"num_suggestions"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	length := gateway.Chars(20)
	if req.MaxLength != nil {
		length = *req.MaxLength
	}
	count := 3
	if req.Count != nil {
		count = *req.Count
	}
	if utf8.RuneCountInString(req.Text) < 2 {
		respondJSON(w, http.StatusOK, gateway.SuggestionResponse{Suggestions: []string{}})
		return
	}

	list, err := s.model.Complete(req.Text, length, count)
	if err != nil {
		observability.Logger().Warn("model failed, answering with fallback", "err", err)
		list = head(fallback, count)
	}
	if list == nil {
		list = []string{}
	}
	respondJSON(w, http.StatusOK, gateway.SuggestionResponse{Suggestions: list})
}

type saveEntryRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	var req saveEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "Empty message")
		return
	}

	s.mu.Lock()
	s.entries = append(s.entries, message)
	total := len(s.entries)
	s.mu.Unlock()

	if total%trainEvery == 0 {
		observability.Logger().Info("training model", "entries", total)
	}
	respondJSON(w, http.StatusOK, gateway.SaveEntryResponse{Success: true, TotalMessages: total})
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req gateway.NewTask
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondError(w, http.StatusBadRequest, "Title required")
		return
	}
	priority, err := gateway.ParsePriority(string(req.Priority))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := gateway.ValidateDueDate(req.DueDate); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &task{
		Task: gateway.Task{
			ID:          gateway.TaskID(uuid.NewString()),
			Title:       title,
			Description: strings.TrimSpace(req.Description),
			Priority:    priority,
			Status:      gateway.StatusPending,
			DueDate:     strings.TrimSpace(req.DueDate),
		},
		created: s.now(),
	}
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

type updateStatusRequest struct {
	TaskID gateway.TaskID     `json:"task_id"`
	Status gateway.TaskStatus `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status != gateway.StatusPending && req.Status != gateway.StatusCompleted {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	s.mu.Lock()
	t, ok := s.tasks[req.TaskID]
	if ok {
		t.Status = req.Status
	}
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

type deleteTaskRequest struct {
	TaskID gateway.TaskID `json:"task_id"`
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	var req deleteTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	_, ok := s.tasks[req.TaskID]
	delete(s.tasks, req.TaskID)
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := s.listLocked()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"tasks": list})
}

var priorityRank = map[gateway.Priority]int{
	gateway.PriorityHigh:   0,
	gateway.PriorityMedium: 1,
	gateway.PriorityLow:    2,
}

// listLocked orders pending before completed, then by priority, newest first.
func (s *Server) listLocked() []gateway.Task {
	all := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, t)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if (a.Status == gateway.StatusCompleted) != (b.Status == gateway.StatusCompleted) {
			return b.Status == gateway.StatusCompleted
		}
		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		}
		if !a.created.Equal(b.created) {
			return a.created.After(b.created)
		}
		return a.ID < b.ID
	})
	out := make([]gateway.Task, len(all))
	for i, t := range all {
		out[i] = t.Task
	}
	return out
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
