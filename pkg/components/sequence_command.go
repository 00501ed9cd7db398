package components

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceOp 序列命令的操作类型
type SequenceOp string

const (
	OpSetTrigger       SequenceOp = "set"
	OpFollowedBy       SequenceOp = "follow"
	OpWait             SequenceOp = "wait"
	OpAndWait          SequenceOp = "andwait"
	OpStop             SequenceOp = "stop"
	OpSampleFirstFrame SequenceOp = "sample"
	OpTrigger          SequenceOp = "trigger"
	OpTriggerSecondary SequenceOp = "secondary"
)

// SequenceStep 序列中的一步
type SequenceStep struct {
	Op SequenceOp

	// Trigger 用于 set / follow / sample
	Trigger string

	// Seconds 用于 wait / andwait
	Seconds float64
}

// String 返回脚本形式（"set:open"、"andwait:1"）
func (s SequenceStep) String() string {
	switch s.Op {
	case OpWait, OpAndWait:
		return string(s.Op) + ":" + strconv.FormatFloat(s.Seconds, 'g', -1, 64)
	case OpSetTrigger, OpFollowedBy, OpSampleFirstFrame:
		return string(s.Op) + ":" + s.Trigger
	}
	return string(s.Op)
}

// SequenceCommandComponent 动画序列命令组件(纯数据)
//
// 其他系统（输入、关卡流程）通过添加此组件请求播放序列，
// LegacyAnimatorSystem 在 Update() 中按顺序执行 Steps，
// 执行后标记 Processed = true。
//
// 示例:
//
//	em.AddComponent(doorID, &components.SequenceCommandComponent{
//	    Steps: []components.SequenceStep{
//	        {Op: components.OpSetTrigger, Trigger: "open"},
//	        {Op: components.OpAndWait, Seconds: 1},
//	        {Op: components.OpFollowedBy, Trigger: "close"},
//	    },
//	})
//
// 注意事项:
//   - 一个实体同时只应有一个命令组件(后续命令会覆盖前一个)
//   - 某一步失败时后续步骤不再执行，错误记录在 Err 中
type SequenceCommandComponent struct {
	Steps []SequenceStep

	// Processed 是否已被处理
	Processed bool

	// Err 执行失败时的错误
	Err error

	// Timestamp 命令创建时间(游戏时间,单位:秒)，由添加组件的系统设置(可选)
	Timestamp float64
}

// ParseSequenceScript 解析逗号分隔的序列脚本
//
// 格式: "set:open,follow:close,andwait:1,stop"
func ParseSequenceScript(script string) ([]SequenceStep, error) {
	var steps []SequenceStep
	for i, raw := range strings.Split(script, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		op, arg, hasArg := strings.Cut(raw, ":")
		step := SequenceStep{Op: SequenceOp(strings.ToLower(strings.TrimSpace(op)))}
		arg = strings.TrimSpace(arg)

		switch step.Op {
		case OpSetTrigger, OpFollowedBy, OpSampleFirstFrame:
			if !hasArg || arg == "" {
				return nil, fmt.Errorf("step #%d %q: missing trigger", i, raw)
			}
			step.Trigger = arg
		case OpWait, OpAndWait:
			if !hasArg {
				return nil, fmt.Errorf("step #%d %q: missing seconds", i, raw)
			}
			seconds, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("step #%d %q: %w", i, raw, err)
			}
			step.Seconds = seconds
		case OpStop, OpTrigger, OpTriggerSecondary:
			if hasArg {
				return nil, fmt.Errorf("step #%d %q: %s takes no argument", i, raw, step.Op)
			}
		default:
			return nil, fmt.Errorf("step #%d %q: unknown op %q", i, raw, op)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty sequence script")
	}
	return steps, nil
}
