package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/legacyanim/pkg/logging"
)

func TestAnimatorConfigManager_ProjectData(t *testing.T) {
	fsys := os.DirFS("../..")

	manager, err := NewAnimatorConfigManager(fsys, "data/animators")
	require.NoError(t, err)

	assert.Equal(t, []string{"gameover_door", "shop_panel"}, manager.IDs())
	assert.Equal(t, 60, manager.Playback().TPS)

	panel, err := manager.Get("shop_panel")
	require.NoError(t, err)
	assert.Equal(t, "open", panel.WaitTrigger)

	cfg, err := panel.SequencerConfig(NewReanimCache(manager.FS()))
	require.NoError(t, err)
	require.Len(t, cfg.Nodes, 3)
	for _, n := range cfg.Nodes {
		assert.InDelta(t, 0.5, n.Clip.Length, 1e-12, n.Trigger)
	}

	door, err := manager.Get("gameover_door")
	require.NoError(t, err)
	_, err = door.SequencerConfig(nil)
	require.NoError(t, err)
}

func TestAnimatorConfigManager_SingleFile(t *testing.T) {
	fsys := fstest.MapFS{
		"anim.yaml": {Data: []byte(`
animators:
  - id: a
    nodes:
      - trigger: open
        clip: { name: open, length: 1 }
`)},
	}

	manager, err := NewAnimatorConfigManager(fsys, "anim.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, manager.IDs())
	assert.Equal(t, DefaultTPS, manager.Playback().TPS)

	_, err = manager.Get("b")
	assert.Error(t, err)
}

func TestAnimatorConfigManager_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		root    string
		wantErr string
	}{
		{
			name:    "missing path",
			fsys:    fstest.MapFS{},
			root:    "nonexistent.yaml",
			wantErr: "nonexistent.yaml",
		},
		{
			name:    "empty directory",
			fsys:    fstest.MapFS{"cfg/readme.txt": {Data: []byte("x")}},
			root:    "cfg",
			wantErr: "没有 YAML 文件",
		},
		{
			name:    "invalid yaml",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("animators: [")}},
			root:    "a.yaml",
			wantErr: "无法解析 YAML",
		},
		{
			name: "duplicate id across files",
			fsys: fstest.MapFS{
				"cfg/a.yaml": {Data: []byte("animators:\n  - id: door\n")},
				"cfg/b.yml":  {Data: []byte("animators:\n  - id: door\n")},
			},
			root:    "cfg",
			wantErr: `duplicate animator id "door" (already defined in cfg/a.yaml)`,
		},
		{
			name:    "invalid animator",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("animators:\n  - nodes: []\n")}},
			root:    "a.yaml",
			wantErr: "animator id is empty",
		},
		{
			name:    "negative tps",
			fsys:    fstest.MapFS{"a.yaml": {Data: []byte("playback:\n  tps: -1\n")}},
			root:    "a.yaml",
			wantErr: "playback.tps must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnimatorConfigManager(tt.fsys, tt.root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnimatorConfigManager_Reload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "anim.yaml")
	write := func(content string) {
		require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	}

	write("animators:\n  - id: a\n")
	manager, err := NewAnimatorConfigManager(os.DirFS(dir), "anim.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, manager.IDs())

	write("animators:\n  - id: a\n  - id: b\n")
	require.NoError(t, manager.Reload())
	assert.Equal(t, []string{"a", "b"}, manager.IDs())

	write("animators:\n  - id: a\n  - id: a\n")
	require.Error(t, manager.Reload())
	assert.Equal(t, []string{"a", "b"}, manager.IDs(), "failed reload keeps the previous configs")
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, IsConfigFile("a.yaml"))
	assert.True(t, IsConfigFile("dir/B.YML"))
	assert.False(t, IsConfigFile("a.json"))
	assert.False(t, IsConfigFile("yaml"))
}

func TestAnimatorConfigManager_LogsWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logging.SetupLoggerTo(&buf, 2)
	t.Cleanup(func() { logging.SetupLoggerTo(io.Discard, 0) })

	fsys := fstest.MapFS{"anim.yaml": {Data: []byte("animators:\n  - id: a\n")}}
	manager, err := NewAnimatorConfigManager(fsys, "anim.yaml")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"component":"AnimatorConfig"`)
	assert.Contains(t, buf.String(), "animator configs loaded")

	buf.Reset()
	require.NoError(t, manager.Reload())
	assert.Contains(t, buf.String(), `"animators":1`)
}
