package reanim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T) *ReanimXML {
	t.Helper()
	r, err := ParseReanim([]byte(panelReanim), "panel")
	require.NoError(t, err)
	return r
}

func TestVisibles_Inheritance(t *testing.T) {
	r := mustParse(t)

	open, err := r.Visibles("anim_open")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, -1, -1}, open)

	closeV, err := r.Visibles("anim_close")
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -1, -1, -1, 0, 0}, closeV)

	_, err = r.Visibles("anim_missing")
	assert.Error(t, err)
}

func TestAnimWindowAndClipLength(t *testing.T) {
	r := mustParse(t)

	tests := []struct {
		anim      string
		wantStart int
		wantCount int
		wantLen   float64
	}{
		{"anim_open", 0, 4, 4.0 / 12},
		{"anim_close", 4, 2, 2.0 / 12},
	}
	for _, tt := range tests {
		t.Run(tt.anim, func(t *testing.T) {
			start, count, err := r.AnimWindow(tt.anim)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantCount, count)

			length, err := r.ClipLength(tt.anim)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLen, length, 1e-12)
		})
	}
}

func TestAnimWindow_NoVisibleFrames(t *testing.T) {
	r, err := ParseReanim([]byte(`<fps>10</fps><track><name>anim_hidden</name><t><f>-1</f></t></track>`), "hidden")
	require.NoError(t, err)

	_, _, err = r.AnimWindow("anim_hidden")
	assert.Error(t, err)
	_, err = r.ClipLength("anim_hidden")
	assert.Error(t, err)
}

func TestFrameRateFallback(t *testing.T) {
	var r ReanimXML
	assert.Equal(t, float64(DefaultFPS), r.FrameRate())
	var nilR *ReanimXML
	assert.Equal(t, float64(DefaultFPS), nilR.FrameRate())
}

func TestFrameAt(t *testing.T) {
	r := mustParse(t)

	tests := []struct {
		anim string
		t    float64
		want int
	}{
		{"anim_open", 0, 0},
		{"anim_open", 1.5 / 12, 1},
		{"anim_open", 10, 3},
		{"anim_open", -1, 0},
		{"anim_close", 0, 4},
		{"anim_close", 1.5 / 12, 5},
		{"anim_close", 1, 5},
	}
	for _, tt := range tests {
		got, err := r.FrameAt(tt.anim, tt.t)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s at %v", tt.anim, tt.t)
	}
}

func TestMapLogicalToPhysical(t *testing.T) {
	visibles := []int{-1, 0, -1, 0, 0}
	assert.Equal(t, 1, MapLogicalToPhysical(0, visibles))
	assert.Equal(t, 3, MapLogicalToPhysical(1, visibles))
	assert.Equal(t, 4, MapLogicalToPhysical(2, visibles))
	assert.Equal(t, 4, MapLogicalToPhysical(9, visibles))
	assert.Equal(t, 7, MapLogicalToPhysical(7, nil))
	assert.Equal(t, 0, MapLogicalToPhysical(0, []int{-1, -1}))
}
