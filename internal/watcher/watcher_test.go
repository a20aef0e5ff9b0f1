package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(testLogger(), path, Options{SettleDelay: 30 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(testLogger(), filepath.Join(t.TempDir(), "nope", "catalog.json"), Options{})
	assert.Error(t, err)
}

func TestWatcher_Stop_Twice(t *testing.T) {
	w, err := New(testLogger(), filepath.Join(t.TempDir(), "catalog.json"), Options{})
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_StartAfterStopIsNoop(t *testing.T) {
	w, err := New(testLogger(), filepath.Join(t.TempDir(), "catalog.json"), Options{})
	require.NoError(t, err)
	require.NoError(t, w.Stop())

	w.Start(context.Background())
	w.wg.Wait()
}

func TestReloader_StopRightAfterRun(t *testing.T) {
	for range 20 {
		w, err := New(testLogger(), filepath.Join(t.TempDir(), "catalog.json"), Options{})
		require.NoError(t, err)

		returned := make(chan struct{})
		go func() {
			NewReloader(w, func(context.Context) error { return nil }, testLogger()).Run(context.Background())
			close(returned)
		}()
		require.NoError(t, w.Stop())

		select {
		case <-returned:
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after Stop")
		}
	}
}

func TestWatcher_FileWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.json")
	w := startWatcher(t, target)

	require.NoError(t, os.WriteFile(target, []byte(`{"banners":[]}`), 0o644))

	ev := waitEvent(t, w)
	assert.Equal(t, EventChanged, ev.Type)
	assert.Equal(t, target, ev.Path)
	assert.Equal(t, int64(14), ev.Size)
}

func TestWatcher_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))
	w := startWatcher(t, target)

	tmp := filepath.Join(dir, ".catalog-1.json")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"products":[]}`), 0o644))
	require.NoError(t, os.Rename(tmp, target))

	ev := waitEvent(t, w)
	assert.Equal(t, EventChanged, ev.Type)
	assert.Equal(t, target, ev.Path)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "catalog.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_FileDeletion(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))
	w := startWatcher(t, target)

	require.NoError(t, os.Remove(target))

	ev := waitEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestReloader_CallsReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.json")
	w, err := New(testLogger(), target, Options{SettleDelay: 30 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	var calls atomic.Int32
	r := NewReloader(w, func(context.Context) error {
		calls.Add(1)
		return nil
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	// Give the watcher goroutine a moment to start reading.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
