package app

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/components"
)

const viewerReanim = `<fps>4</fps>
<track><name>anim_open</name><t><f>0</f></t><t/><t/><t/><t><f>-1</f></t><t/></track>
<track><name>anim_close</name><t><f>-1</f></t><t/><t/><t/><t><f>0</f></t><t/></track>
`

const viewerConfig = `
playback:
  tps: 4
animators:
  - id: panel
    wait_trigger: open
    nodes:
      - trigger: open
        clip: { reanim_file: assets/Panel.reanim, anim: anim_open }
      - trigger: close
        clip: { reanim_file: assets/Panel.reanim, anim: anim_close }
  - id: door
    nodes:
      - trigger: slam
        clip: { name: slam, length: 0.5 }
`

func newTestApp(t *testing.T) (*App, fstest.MapFS) {
	t.Helper()
	fsys := fstest.MapFS{
		"assets/Panel.reanim":      {Data: []byte(viewerReanim)},
		"data/animators/main.yaml": {Data: []byte(viewerConfig)},
	}
	a, err := NewApp(Config{FS: fsys, ConfigPath: "data/animators"})
	require.NoError(t, err)
	return a, fsys
}

func TestNewApp_SpawnsAnimators(t *testing.T) {
	a, _ := newTestApp(t)

	require.Len(t, a.Cells(), 2)
	assert.Equal(t, "panel", a.Cells()[0].AnimatorID)
	assert.Equal(t, "door", a.Cells()[1].AnimatorID)
	assert.Equal(t, 4, a.TPS())
	assert.Equal(t, "panel", a.Selected().AnimatorID)

	// 第一帧执行 Start：wait_trigger 采样首帧
	a.Step()
	comp, ok := a.Component(a.Cells()[0])
	require.True(t, ok)
	assert.True(t, comp.Started)
	assert.Equal(t, "open", a.Cells()[0].pose.last)
	frame, ok := a.Cells()[0].physicalFrame("open")
	require.True(t, ok)
	assert.Equal(t, 0, frame)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(Config{FS: fstest.MapFS{}, ConfigPath: "data/animators"})
	assert.Error(t, err)

	_, err = NewApp(Config{
		FS: fstest.MapFS{"a.yaml": {Data: []byte(`
animators:
  - id: bad
    nodes:
      - trigger: open
        clip: { reanim_file: missing.reanim, anim: anim_open }
`)}},
		ConfigPath: "a.yaml",
	})
	assert.Error(t, err)
}

func TestApp_RunSequence(t *testing.T) {
	a, _ := newTestApp(t)
	a.Step()

	a.Run(
		components.SequenceStep{Op: components.OpTrigger},
		components.SequenceStep{Op: components.OpFollowedBy, Trigger: "close"},
	)
	assert.Equal(t, "panel: trigger,follow:close", a.status)

	a.Step() // command runs, open advances 0.25s
	comp, _ := a.Component(a.Selected())
	assert.Equal(t, anim.Active, comp.Sequencer().State())
	assert.Equal(t, 1.5, comp.Sequencer().Cumulative())

	for i := 0; i < 5; i++ {
		a.Step()
	}
	assert.True(t, comp.Host.Player.Enabled(), "close just finished")
	a.Step()
	assert.False(t, comp.Host.Player.Enabled())
	assert.Equal(t, "close", a.Selected().pose.last)
}

func TestApp_SelectAndFlags(t *testing.T) {
	a, _ := newTestApp(t)

	a.Select(5)
	assert.Equal(t, "panel", a.Selected().AnimatorID)
	a.Select(1)
	assert.Equal(t, "door", a.Selected().AnimatorID)

	a.ToggleFlag("highlight")
	comp, _ := a.Component(a.Selected())
	assert.True(t, comp.Sequencer().GetBool("highlight"))
	a.ToggleFlag("highlight")
	assert.False(t, comp.Sequencer().GetBool("highlight"))
	assert.Equal(t, "door: highlight=false", a.status)
}

func TestApp_Reload(t *testing.T) {
	a, fsys := newTestApp(t)
	a.Step()

	fsys["data/animators/main.yaml"] = &fstest.MapFile{Data: []byte(`
playback:
  tps: 4
animators:
  - id: door
    nodes:
      - trigger: slam
        clip: { name: slam, length: 2 }
      - trigger: creak
        clip: { name: creak, length: 1 }
  - id: gate
    nodes:
      - trigger: lift
        clip: { name: lift, length: 1 }
`)}
	require.NoError(t, a.Reload())
	assert.Equal(t, "reloaded", a.status)

	require.Len(t, a.Cells(), 3, "gate is spawned, panel is kept")
	door, _ := a.Component(a.Cells()[1])
	require.Len(t, door.Sequencer().Nodes(), 2)
	assert.False(t, door.Started)

	a.Select(1)
	a.Run(components.SequenceStep{Op: components.OpSetTrigger, Trigger: "creak"})
	a.Step()
	assert.NoError(t, door.LastError)
	assert.Equal(t, 1.0, door.Sequencer().Cumulative())

	fsys["data/animators/main.yaml"] = &fstest.MapFile{Data: []byte("animators: [")}
	assert.Error(t, a.Reload())
	assert.Contains(t, a.status, "reload failed")
	assert.Len(t, door.Sequencer().Nodes(), 2, "failed reload keeps the old nodes")
}

func TestApp_ReloadIsAllOrNothing(t *testing.T) {
	a, fsys := newTestApp(t)
	a.Step()

	// panel 的新配置有效，door 引用了不存在的 reanim 文件
	fsys["data/animators/main.yaml"] = &fstest.MapFile{Data: []byte(`
animators:
  - id: panel
    wait_trigger: opening
    nodes:
      - trigger: opening
        clip: { reanim_file: assets/Panel.reanim, anim: anim_open }
      - trigger: close
        clip: { reanim_file: assets/Panel.reanim, anim: anim_close }
      - trigger: flash
        clip: { name: flash, length: 0.25 }
  - id: door
    nodes:
      - trigger: slam
        clip: { reanim_file: assets/Door.reanim, anim: anim_slam }
`)}
	assert.Error(t, a.Reload())
	assert.Contains(t, a.status, "reload failed")

	panel, _ := a.Component(a.Cells()[0])
	require.Len(t, panel.Sequencer().Nodes(), 2, "panel is not rebuilt when door fails")
	assert.True(t, panel.Started)
	assert.Equal(t, "open", panel.Sequencer().Nodes()[0].Trigger)
}

func TestApp_ReloadRenamedWaitTrigger(t *testing.T) {
	a, fsys := newTestApp(t)
	a.Step()

	fsys["data/animators/main.yaml"] = &fstest.MapFile{Data: []byte(`
animators:
  - id: panel
    wait_trigger: opening
    nodes:
      - trigger: opening
        clip: { reanim_file: assets/Panel.reanim, anim: anim_open }
      - trigger: close
        clip: { reanim_file: assets/Panel.reanim, anim: anim_close }
  - id: door
    nodes:
      - trigger: slam
        clip: { name: slam, length: 0.5 }
`)}
	require.NoError(t, a.Reload())
	a.Step()

	panel, _ := a.Component(a.Cells()[0])
	assert.True(t, panel.Started)
	assert.NoError(t, panel.LastError)
	assert.Equal(t, "opening", a.Cells()[0].pose.last)
}

func TestCellAt(t *testing.T) {
	x, y := cellOrigin(0)
	assert.Equal(t, 0, cellAt(x+1, y+1, 2))

	x, y = cellOrigin(1)
	assert.Equal(t, 1, cellAt(x+cellWidth-1, y+cellHeight-1, 2))

	x, y = cellOrigin(2)
	assert.Equal(t, -1, cellAt(x+1, y+1, 2), "only two cells exist")
	assert.Equal(t, -1, cellAt(0, 0, 2))
}
