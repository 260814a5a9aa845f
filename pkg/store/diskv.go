package store

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/suggest"
)

const layoutISO = "20060102T150405"

// Buckets of the cache; each is the first path element on disk.
const (
	bucketDraft   = "draft"
	bucketBoard   = "board"
	bucketHistory = "history"
)

const (
	draftKey = bucketDraft + "-current"
	boardKey = bucketBoard + "-snapshot"
)

// Config tells the cache where to live.
type Config interface {
	BasePath() string
}

// Cache keeps what the client wants to survive a restart: the unsent draft,
// the last task board it saw and the entries saved from this machine.
type Cache interface {
	Draft() (suggest.Draft, error)
	SaveDraft(d suggest.Draft) error
	Board() ([]gateway.Task, error)
	SaveBoard(list []gateway.Task) error
	History(ctx context.Context) []composer.Entry
	AppendHistory(e composer.Entry) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Cache backed by diskv under cfg.BasePath().
func Load(cfg Config) (Cache, error) {
	if cfg == nil || strings.TrimSpace(cfg.BasePath()) == "" {
		return nil, errors.New("store: cache path is required")
	}
	basePath := cfg.BasePath()
	return &cache{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type cache struct {
	d        *diskv.Diskv
	basePath string
}

type draftRecord struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

type historyRecord struct {
	Text  string    `json:"text"`
	Total int       `json:"total_messages"`
	At    time.Time `json:"at"`
}

func (c *cache) Draft() (suggest.Draft, error) {
	var rec draftRecord
	if err := c.readJSON(draftKey, &rec); err != nil {
		return suggest.Draft{}, err
	}
	return suggest.Draft{Text: rec.Text, Caret: rec.Caret}, nil
}

// SaveDraft stores d; an empty draft removes the stored one.
func (c *cache) SaveDraft(d suggest.Draft) error {
	if d.Text == "" {
		if err := c.d.Erase(draftKey); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("store: erase draft: %w", err)
		}
		return nil
	}
	return c.writeJSON(draftKey, draftRecord{Text: d.Text, Caret: d.Caret})
}

func (c *cache) Board() ([]gateway.Task, error) {
	var list []gateway.Task
	if err := c.readJSON(boardKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *cache) SaveBoard(list []gateway.Task) error {
	if list == nil {
		list = []gateway.Task{}
	}
	return c.writeJSON(boardKey, list)
}

// History lists stored entries, oldest first. Unreadable records are skipped.
func (c *cache) History(ctx context.Context) []composer.Entry {
	all := make([]composer.Entry, 0)
	for key := range c.d.Keys(ctx.Done()) {
		if !strings.HasPrefix(key, bucketHistory+"-") {
			continue
		}
		var rec historyRecord
		if err := c.readJSON(key, &rec); err != nil {
			observability.Logger().Warn("skipping cached entry", "key", key, "err", err)
			continue
		}
		all = append(all, composer.Entry{Text: rec.Text, Total: rec.Total, At: rec.At})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].At.Before(all[j].At)
	})
	return all
}

func (c *cache) AppendHistory(e composer.Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return c.writeJSON(historyKey(e), historyRecord{Text: e.Text, Total: e.Total, At: e.At.UTC()})
}

func (c *cache) readJSON(key string, out any) error {
	if !c.d.Has(key) {
		return ErrNotFound
	}
	val, err := c.d.Read(key)
	if err != nil {
		return fmt.Errorf("store: read %s: %w", key, err)
	}
	if err := json.Unmarshal(val, out); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}

func (c *cache) writeJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := c.d.Write(key, b); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// ErrNotFound is returned when nothing was cached yet.
var ErrNotFound = errors.New("store: not found")

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// historyKey makes `history-date-id`
func historyKey(e composer.Entry) string {
	b, _ := json.Marshal(historyRecord{Text: e.Text, Total: e.Total, At: e.At})
	id := md5.Sum(b)
	return fmt.Sprintf("%s-%s-%x", bucketHistory, e.At.UTC().Format(layoutISO), id[:8])
}
