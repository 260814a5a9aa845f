package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/config"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/store"
)

// env is what every client command needs.
type env struct {
	cfg      *config.Config
	cache    store.Cache
	recorder *notify.Recorder
	metrics  *observability.Metrics
	client   *app.Client
	closer   io.Closer
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

// newEnv loads the config, opens the log file and the cache and builds a
// client whose notifications go to the recorder and sinks. Interactive
// clients run real timers; one-shot commands never arm them so Drive returns
// as soon as the calls are done.
func newEnv(ctx context.Context, interactive bool, sinks ...notify.Sink) (*env, error) {
	cfg, err := config.Load(settings)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, recorder: &notify.Recorder{}, metrics: observability.NewMetrics("yourdiary")}

	if f, err := openLog(cfg.LogFile); err == nil {
		observability.SetLogger(observability.NewLogger(f, cfg.LogLevel, true))
		e.closer = f
	} else {
		observability.SetLogger(observability.NewLogger(os.Stderr, "warn", false))
		observability.Logger().Warn("log file unavailable", "path", cfg.LogFile, "err", err)
	}

	e.cache, err = store.Load(cfg)
	if err != nil {
		observability.Logger().Warn("cache unavailable", "path", cfg.CachePath, "err", err)
		e.cache = nil
	}

	gw, err := gateway.New(cfg.Server,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithSessionCookie(cfg.Cookie),
		gateway.WithMetrics(e.metrics),
	)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("server %q: %w", cfg.Server, err)
	}

	sink := notify.Multi(append([]notify.Sink{e.recorder}, sinks...)...)

	o := app.Options{
		Gateway:      gw,
		Sink:         sink,
		Metrics:      e.metrics,
		Context:      ctx,
		Quiet:        cfg.Debounce,
		EmptyDismiss: cfg.EmptyDismiss,
		ReloadDelay:  cfg.ReloadDelay,
		Length:       cfg.Length,
		Custom:       cfg.Custom,
		Policy:       cfg.Rollback,
	}
	if !interactive {
		o.Tick = loop.Never
		o.ReloadDelay = -1
	}
	if e.cache != nil {
		if d, err := e.cache.Draft(); err == nil {
			o.Draft = d
		}
		if b, err := e.cache.Board(); err == nil {
			o.Board = b
		}
		o.History = e.cache.History(ctx)
	}
	e.client = app.New(o)
	return e, nil
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// printer echoes notifications unless the output is JSON.
func printer(json bool) []notify.Sink {
	if json {
		return nil
	}
	return []notify.Sink{notify.NewPrinter()}
}
