package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherStopsOnCancel(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", sampleYAML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Watcher{Path: path}.Start(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatcherMissingDir(t *testing.T) {
	w := Watcher{Path: filepath.Join(t.TempDir(), "nope", "cfg.yaml")}
	require.Error(t, w.Start(context.Background(), nil))
}

func TestWatcherTriggersOnChange(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", sampleYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan AppConfig, 4)
	go func() {
		_ = Watcher{Path: path}.Start(ctx, func(cfg AppConfig) { updates <- cfg })
	}()

	deadline := time.After(3 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	// 监听建立前的写入可能丢失，循环写入直到收到回调
	for {
		select {
		case cfg := <-updates:
			assert.Equal(t, int64(42), cfg.Scenario.Seed)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("scenario:\n  seed: 42\n"), 0o644))
		case <-deadline:
			t.Fatalf("expected update callback")
		}
	}
}

func TestWatcherSkipsInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, "cfg.yaml", sampleYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan AppConfig, 4)
	errs := make(chan error, 16)
	w := Watcher{Path: path, OnError: func(err error) {
		select {
		case errs <- err:
		default:
		}
	}}
	go func() { _ = w.Start(ctx, func(cfg AppConfig) { updates <- cfg }) }()

	deadline := time.After(3 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-updates:
			t.Fatalf("invalid config must not be delivered")
		case <-errs:
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("strategy:\n  type: nope\n"), 0o644))
		case <-deadline:
			t.Fatalf("expected load error")
		}
	}
}
