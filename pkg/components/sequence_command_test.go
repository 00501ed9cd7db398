package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSequenceScript 测试序列脚本解析
func TestParseSequenceScript(t *testing.T) {
	steps, err := ParseSequenceScript("set:open, follow:close ,andwait:1.5,wait:0,sample:open,trigger,secondary,STOP")
	require.NoError(t, err)

	want := []SequenceStep{
		{Op: OpSetTrigger, Trigger: "open"},
		{Op: OpFollowedBy, Trigger: "close"},
		{Op: OpAndWait, Seconds: 1.5},
		{Op: OpWait, Seconds: 0},
		{Op: OpSampleFirstFrame, Trigger: "open"},
		{Op: OpTrigger},
		{Op: OpTriggerSecondary},
		{Op: OpStop},
	}
	assert.Equal(t, want, steps)
}

// TestParseSequenceScript_Errors 测试非法脚本
func TestParseSequenceScript_Errors(t *testing.T) {
	tests := []struct {
		script  string
		wantErr string
	}{
		{"", "empty sequence script"},
		{" , ", "empty sequence script"},
		{"set", "missing trigger"},
		{"follow:", "missing trigger"},
		{"andwait", "missing seconds"},
		{"wait:soon", "invalid syntax"},
		{"stop:now", "takes no argument"},
		{"set:open,jump:high", `step #1 "jump:high": unknown op`},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			_, err := ParseSequenceScript(tt.script)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestSequenceStep_String 测试脚本形式输出
func TestSequenceStep_String(t *testing.T) {
	assert.Equal(t, "set:open", SequenceStep{Op: OpSetTrigger, Trigger: "open"}.String())
	assert.Equal(t, "andwait:0.25", SequenceStep{Op: OpAndWait, Seconds: 0.25}.String())
	assert.Equal(t, "stop", SequenceStep{Op: OpStop}.String())

	steps, err := ParseSequenceScript("follow:close,wait:2")
	require.NoError(t, err)
	assert.Equal(t, "follow:close", steps[0].String())
	assert.Equal(t, "wait:2", steps[1].String())
}
