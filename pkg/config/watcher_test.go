package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWatchedFile(t *testing.T) {
	assert.True(t, isWatchedFile("data/animators/door.yaml"))
	assert.True(t, isWatchedFile("assets/reanim/Panel.REANIM"))
	assert.False(t, isWatchedFile("assets/images/panel.png"))
	assert.False(t, isWatchedFile("door.yaml.swp"))
}

func TestWatcher_ReportsConfigChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "door.yaml")
	require.NoError(t, os.WriteFile(target, []byte("animators: []\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for door.yaml")
	}
}

func TestWatcher_DebouncesToLastWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(dir, "panel.yaml")
	// 编辑器保存：先截断，再分几次写入
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	var lastWrite time.Time
	for _, content := range []string{"animators:\n", "animators:\n  - id: a\n"} {
		time.Sleep(debounceWindow / 4)
		lastWrite = time.Now()
		require.NoError(t, os.WriteFile(target, []byte(content), 0o644))
	}

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
		assert.GreaterOrEqual(t, time.Since(lastWrite), debounceWindow, "delivered only after the file went quiet")
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for panel.yaml")
	}

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "animators:\n  - id: a\n", string(data))

	select {
	case name := <-w.Events:
		t.Fatalf("unexpected second event for %s", name)
	case <-time.After(3 * debounceWindow):
	}
}

func TestWatcher_Drain(t *testing.T) {
	w := &Watcher{Events: make(chan string, 4)}
	w.Events <- "a.yaml"
	w.Events <- "b.yaml"
	w.Events <- "a.yaml"

	assert.Equal(t, []string{"a.yaml", "b.yaml"}, w.Drain())
	assert.Empty(t, w.Drain())
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
