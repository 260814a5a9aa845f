package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
)

func TestDefaults(t *testing.T) {
	c, err := Resolve(New())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Server != "http://localhost:5000" || c.Timeout != 10*time.Second || c.Debounce != 400*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.EmptyDismiss != 2500*time.Millisecond || c.ReloadDelay != time.Second {
		t.Fatalf("unexpected timings %+v", c)
	}
	if c.Length != suggest.Option20 || c.MaxLength() != gateway.Chars(20) || c.Rollback != tasks.Strict {
		t.Fatalf("unexpected defaults %+v", c)
	}
	home, _ := homedir.Dir()
	if !strings.HasPrefix(c.CachePath, home) || strings.HasPrefix(c.CachePath, "~") {
		t.Fatalf("cache path not expanded: %q", c.CachePath)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	body := "server: http://diary.test:8080\nsuggestion_length: sentence\nrollback: drift\ndebounce: 250ms\n"
	if err := os.WriteFile(filepath.Join(dir, ".yourdiary.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YOURDIARY_CONFIG_PATH", dir)

	c, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Server != "http://diary.test:8080" || c.Length != suggest.OptionSentence || c.Rollback != tasks.Drift || c.Debounce != 250*time.Millisecond {
		t.Fatalf("config file ignored: %+v", c)
	}
	if c.MaxLength() != gateway.Sentence {
		t.Fatalf("max length = %v", c.MaxLength())
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("YOURDIARY_SUGGESTION_LENGTH", "45")
	t.Setenv("YOURDIARY_ROLLBACK", "drift")

	c, err := Resolve(New())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Length != suggest.OptionCustom || c.Custom != 45 || c.MaxLength() != gateway.Chars(45) {
		t.Fatalf("custom length not applied: %+v", c)
	}
	if c.Rollback != tasks.Drift {
		t.Fatalf("rollback = %s", c.Rollback)
	}
}

func TestInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		KeyTimeout:  "soon",
		KeyLength:   "500",
		KeyRollback: "maybe",
	} {
		v := New()
		v.Set(key, value)
		if _, err := Resolve(v); err == nil {
			t.Fatalf("%s=%q should fail", key, value)
		}
	}
}
