package game

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/logging"
)

// newTestGdataManager 在临时 HOME 下创建 gdata Manager
func newTestGdataManager(t *testing.T) *gdata.Manager {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	manager, err := gdata.Open(gdata.Config{
		AppName: fmt.Sprintf("legacyanim_test_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Skipf("Cannot create gdata manager for testing: %v", err)
	}
	return manager
}

func TestFlagStore_DegradedMode(t *testing.T) {
	store := NewFlagStore(nil)
	assert.False(t, store.Persistent())

	require.NoError(t, store.Save("door", map[string]bool{"open": true}))
	flags, err := store.Load("door")
	require.NoError(t, err)
	assert.Nil(t, flags)
}

func TestFlagStore_SaveLoad(t *testing.T) {
	store := NewFlagStore(newTestGdataManager(t))
	require.True(t, store.Persistent())

	flags, err := store.Load("door")
	require.NoError(t, err)
	assert.Nil(t, flags, "never saved")

	require.NoError(t, store.Save("door", map[string]bool{"open": true, "locked": false}))
	require.NoError(t, store.Save("panel", map[string]bool{"shown": true}))

	flags, err = store.Load("door")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"open": true, "locked": false}, flags)

	flags, err = store.Load("panel")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"shown": true}, flags)
}

func TestFlagStore_PersistRestore(t *testing.T) {
	store := NewFlagStore(newTestGdataManager(t))

	first := anim.NewHost(anim.Config{Name: "door"}).Sequencer
	first.SetBool("open", true)
	first.SetBool("visited", true)
	require.NoError(t, store.Persist(first))

	second := anim.NewHost(anim.Config{Name: "door"}).Sequencer
	second.SetBool("visited", false)
	require.NoError(t, store.Restore(second))
	assert.True(t, second.GetBool("open"))
	assert.True(t, second.GetBool("visited"), "saved values overwrite current ones")
	assert.False(t, second.GetBool("missing"))

	other := anim.NewHost(anim.Config{Name: "panel"}).Sequencer
	require.NoError(t, store.Restore(other))
	assert.Equal(t, 0, other.Flags().Len())
}

func TestFlagStore_SaveLogsWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logging.SetupLoggerTo(&buf, 2)
	t.Cleanup(func() { logging.SetupLoggerTo(io.Discard, 0) })

	store := NewFlagStore(newTestGdataManager(t))
	require.NoError(t, store.Save("door", map[string]bool{"open": true}))
	assert.Contains(t, buf.String(), `"component":"FlagStore"`)
	assert.Contains(t, buf.String(), `"animator":"door"`)
}
